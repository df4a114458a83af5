package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVReader reads delimited files without interpreting a header row.
// A UTF-8 or UTF-16 byte order mark selects the decoding; UTF-8 otherwise.
type CSVReader struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

func (r *CSVReader) Read(path string) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	table, err := parseCSV(file, r.Comma)
	if err != nil {
		return nil, fmt.Errorf("csv file %s: %w", path, err)
	}
	return table, nil
}

func parseCSV(input io.Reader, comma rune) (Table, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(input, decoder))
	if comma != 0 {
		reader.Comma = comma
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	table := make(Table, 0, 128)
	rowNumber := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNumber++
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", rowNumber, err)
		}
		table = append(table, row)
	}

	if len(table) == 0 {
		return nil, ErrEmptyTable
	}
	return table, nil
}
