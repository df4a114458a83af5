package output

import (
	"fmt"
	"strings"

	"pidformatter/campaign"
)

// Sheet is one tab flattened for writing: a header and rows of scalar cells.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
	// ImageColumn is the index of the column whose URL is checked for
	// reachability, or -1.
	ImageColumn int
}

// TextRows returns the rows with every cell rendered as text.
func (s Sheet) TextRows() [][]string {
	rows := make([][]string, len(s.Rows))
	for i, values := range s.Rows {
		row := make([]string, len(values))
		for j, value := range values {
			row[j] = cellText(value)
		}
		rows[i] = row
	}
	return rows
}

type Writer interface {
	Write(path string, sheets []Sheet) error
}

func WriterForFormat(format string, reachable map[string]bool) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelWriter{Reachable: reachable}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// SheetsFromResult flattens campaign tabs in order, then the all-products tab.
func SheetsFromResult(result *campaign.Result) []Sheet {
	sheets := make([]Sheet, 0, len(result.Tabs)+1)
	for _, tab := range result.Tabs {
		rows := make([][]any, 0, len(tab.Records))
		for _, record := range tab.Records {
			rows = append(rows, record.Values())
		}
		sheets = append(sheets, Sheet{
			Name:        tab.Name,
			Header:      campaign.ProductRecord{}.Columns(),
			Rows:        rows,
			ImageColumn: -1,
		})
	}

	rows := make([][]any, 0, len(result.AllProducts.Rows))
	for _, product := range result.AllProducts.Rows {
		rows = append(rows, product.Values())
	}
	sheets = append(sheets, Sheet{
		Name:        result.AllProducts.Name,
		Header:      campaign.ProductImage{}.Columns(),
		Rows:        rows,
		ImageColumn: 1,
	})
	return sheets
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

func cellText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
