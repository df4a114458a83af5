// Package imageindex maps product ids to their image URL and a PNG filename,
// built from a product dump table with MB_id and image_src columns.
package imageindex

import (
	"path"
	"strconv"
	"strings"
)

const (
	ColumnID     = "MB_id"
	ColumnSource = "image_src"

	DefaultBaseURL = "https://file.milkbasket.com/products/"
)

// Entry is the resolved image for one product id.
type Entry struct {
	URL      string
	Filename string
}

// Index is a product id to image lookup. A nil *Index resolves nothing.
type Index struct {
	entries map[int64]Entry
}

// Stats reports how the dump rows were consumed.
type Stats struct {
	RowsRead    int
	RowsSkipped int
	Overwritten int
}

// Build creates an index from table, whose first row is the header. It
// returns nil when the table lacks the MB_id or image_src column.
func Build(table [][]string, baseURL string) (*Index, Stats) {
	var stats Stats
	if len(table) == 0 {
		return nil, stats
	}

	idCol, srcCol := -1, -1
	for i, header := range table[0] {
		switch strings.TrimSpace(header) {
		case ColumnID:
			idCol = i
		case ColumnSource:
			srcCol = i
		}
	}
	if idCol < 0 || srcCol < 0 {
		return nil, stats
	}

	index := &Index{entries: make(map[int64]Entry, len(table)-1)}
	for _, row := range table[1:] {
		stats.RowsRead++
		rawID := cell(row, idCol)
		src := cell(row, srcCol)
		if rawID == "" || src == "" {
			stats.RowsSkipped++
			continue
		}
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			stats.RowsSkipped++
			continue
		}
		if _, exists := index.entries[id]; exists {
			stats.Overwritten++
		}
		index.entries[id] = Entry{
			URL:      baseURL + src,
			Filename: pngFilename(src),
		}
	}

	return index, stats
}

// Lookup returns the entry for id.
func (i *Index) Lookup(id int64) (Entry, bool) {
	if i == nil {
		return Entry{}, false
	}
	entry, ok := i.entries[id]
	return entry, ok
}

// URL returns the image URL for id, or "" when unknown.
func (i *Index) URL(id int64) string {
	entry, _ := i.Lookup(id)
	return entry.URL
}

func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.entries)
}

// pngFilename swaps the extension of the source's base name for ".png".
// Leading dots belong to the name, not the extension.
func pngFilename(src string) string {
	base := path.Base(strings.ReplaceAll(src, "\\", "/"))
	stem := base
	if dot := strings.LastIndex(base, "."); dot > 0 && strings.TrimLeft(base[:dot], ".") != "" {
		stem = base[:dot]
	}
	return stem + ".png"
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
