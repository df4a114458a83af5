// Package importer reads campaign sheets and product dumps into raw tables.
package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Table is a raw grid of text cells. Rows may have different lengths.
type Table [][]string

// ErrEmptyTable is returned when a source contains no rows.
var ErrEmptyTable = errors.New("table has no rows")

type Reader interface {
	Read(path string) (Table, error)
}

// Options selects how a source is read.
type Options struct {
	// Format is csv, tsv, excel or sqlite. Inferred from the extension when empty.
	Format string
	// Sheet names the Excel worksheet; the first sheet is used when empty.
	Sheet string
	// SQLiteTable names the table read from a SQLite database.
	SQLiteTable string
	// Fetcher downloads remote sources. Required for http(s) sources.
	Fetcher *Fetcher
}

func ReaderForFormat(format string, options Options) (Reader, error) {
	switch normalizeFormat(format) {
	case "csv", "txt":
		return &CSVReader{}, nil
	case "tsv":
		return &CSVReader{Comma: '\t'}, nil
	case "excel", "xlsx", "xlsm", "xls":
		return &ExcelReader{Sheet: options.Sheet}, nil
	case "sqlite", "db", "sqlite3":
		return &SQLiteReader{Table: options.SQLiteTable}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// ReadTable reads source, which is a local path, a Google Sheet link or an
// http(s) URL serving CSV.
func ReadTable(ctx context.Context, source string, options Options) (Table, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, errors.New("input source is empty")
	}

	if IsRemote(source) {
		if options.Fetcher == nil {
			return nil, fmt.Errorf("no fetcher configured for remote source %s", source)
		}
		target := source
		if IsGoogleSheetLink(source) {
			exportURL, err := SheetExportURL(source)
			if err != nil {
				return nil, err
			}
			target = exportURL
		}
		return options.Fetcher.FetchCSV(ctx, target)
	}

	format, err := inferFormat(source, options.Format)
	if err != nil {
		return nil, err
	}
	reader, err := ReaderForFormat(format, options)
	if err != nil {
		return nil, err
	}
	return reader.Read(source)
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv", "txt":
		return "csv", nil
	case "tsv":
		return "tsv", nil
	case "xlsx", "xlsm", "xls":
		return "excel", nil
	case "db", "sqlite", "sqlite3":
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
