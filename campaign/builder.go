package campaign

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxTabNameLength is the longest sheet name a spreadsheet tab accepts.
const MaxTabNameLength = 31

var invalidTabChars = regexp.MustCompile(`[\[\]\*:/\\?]`)

// ImageLookup resolves a product id to its image URL ("" when unknown).
type ImageLookup interface {
	URL(pid int64) string
}

// SanitizeTabName strips characters spreadsheets reject in sheet names,
// trims surrounding whitespace and truncates to MaxTabNameLength characters.
func SanitizeTabName(name string) string {
	cleaned := strings.TrimSpace(invalidTabChars.ReplaceAllString(name, ""))
	if utf8.RuneCountInString(cleaned) <= MaxTabNameLength {
		return cleaned
	}
	runes := []rune(cleaned)
	return string(runes[:MaxTabNameLength])
}

// ParsePID accepts a cell as a product id only when, once trimmed, it is made
// of decimal digits and denotes a positive integer.
func ParsePID(cell string) (int64, bool) {
	value := strings.TrimSpace(cell)
	if value == "" {
		return 0, false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return 0, false
		}
	}
	pid, err := strconv.ParseInt(value, 10, 64)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// Emission is one record routed to a destination tab.
type Emission struct {
	Tab    string
	Record ProductRecord
}

// emitRecords is the map phase: one pass over the normalized rows, producing
// records in row order and, within a row, in hub block order.
func emitRecords(rows []normalizedRow, blocks []HubBlock, images ImageLookup) []Emission {
	out := make([]Emission, 0, len(rows)*len(blocks))
	for _, row := range rows {
		tab := SanitizeTabName(row.assetDetail + "_" + row.campaignName)
		for _, block := range blocks {
			pid1, ok1 := ParsePID(cellAt(row.cells, block.PID1Column))
			pid2, ok2 := ParsePID(cellAt(row.cells, block.PID2Column))
			if !ok1 && !ok2 {
				continue
			}
			out = append(out, Emission{
				Tab: tab,
				Record: ProductRecord{
					Hub:           block.Hub,
					FocusCategory: row.focusCategory,
					AssetDetail:   row.assetDetail,
					PID1:          pid1,
					PID2:          pid2,
					Img1URL:       lookupURL(images, pid1),
					Img2URL:       lookupURL(images, pid2),
				},
			})
		}
	}
	return out
}

// BuildTabs groups emitted records by tab name, keeping tabs in order of
// first appearance, and returns the set of distinct product ids seen.
func BuildTabs(emissions []Emission) ([]Tab, map[int64]struct{}) {
	tabs := make([]Tab, 0)
	positions := make(map[string]int)
	pids := make(map[int64]struct{})

	for _, item := range emissions {
		pos, ok := positions[item.Tab]
		if !ok {
			pos = len(tabs)
			positions[item.Tab] = pos
			tabs = append(tabs, Tab{Name: item.Tab})
		}
		tabs[pos].Records = append(tabs[pos].Records, item.Record)

		if item.Record.PID1 > 0 {
			pids[item.Record.PID1] = struct{}{}
		}
		if item.Record.PID2 > 0 {
			pids[item.Record.PID2] = struct{}{}
		}
	}
	return tabs, pids
}

func lookupURL(images ImageLookup, pid int64) string {
	if images == nil || pid <= 0 {
		return ""
	}
	return images.URL(pid)
}
