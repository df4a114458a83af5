package output

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"pidformatter/campaign"
)

const (
	headerFillColor  = "FFFF99"
	missingFillColor = "FF8888"

	fallbackSheetName = "Sheet"
)

// ExcelWriter writes one worksheet per sheet. Header rows are bold on yellow;
// image cells are red when empty or, if Reachable is set, not reachable.
type ExcelWriter struct {
	Reachable map[string]bool
}

func (w *ExcelWriter) Write(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}

	file := excelize.NewFile()
	defer file.Close()

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFillColor}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	missingStyle, err := file.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{missingFillColor}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create missing image style: %w", err)
	}

	defaultSheet := file.GetSheetName(0)
	names := sheetNames(sheets)
	for i, sheet := range sheets {
		sheet.Name = names[i]
		if i == 0 {
			if err := file.SetSheetName(defaultSheet, sheet.Name); err != nil {
				return fmt.Errorf("rename sheet %s: %w", sheet.Name, err)
			}
		} else if _, err := file.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet.Name, err)
		}

		if err := w.writeSheet(file, sheet, headerStyle, missingStyle); err != nil {
			return err
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}

func (w *ExcelWriter) writeSheet(file *excelize.File, sheet Sheet, headerStyle, missingStyle int) error {
	header := make([]any, len(sheet.Header))
	for i, name := range sheet.Header {
		header[i] = name
	}
	if err := file.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("set excel header in %s: %w", sheet.Name, err)
	}
	if len(header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := file.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style header in %s: %w", sheet.Name, err)
		}
	}

	for i, values := range sheet.Rows {
		row := i + 2
		start, _ := excelize.CoordinatesToCellName(1, row)
		rowValues := values
		if err := file.SetSheetRow(sheet.Name, start, &rowValues); err != nil {
			return fmt.Errorf("set excel row %d in %s: %w", row, sheet.Name, err)
		}

		if sheet.ImageColumn < 0 || sheet.ImageColumn >= len(values) {
			continue
		}
		if w.imageMissing(cellText(values[sheet.ImageColumn])) {
			cell, _ := excelize.CoordinatesToCellName(sheet.ImageColumn+1, row)
			if err := file.SetCellStyle(sheet.Name, cell, cell, missingStyle); err != nil {
				return fmt.Errorf("style image cell %s in %s: %w", cell, sheet.Name, err)
			}
		}
	}

	return nil
}

func (w *ExcelWriter) imageMissing(url string) bool {
	if strings.TrimSpace(url) == "" {
		return true
	}
	if w.Reachable == nil {
		return false
	}
	return !w.Reachable[url]
}

// sheetNames returns a worksheet name for every sheet that a workbook
// accepts. Names lose leading and trailing apostrophes, stay within
// campaign.MaxTabNameLength characters and are unique ignoring case;
// a repeated name gets a _2, _3, ... suffix.
func sheetNames(sheets []Sheet) []string {
	names := make([]string, len(sheets))
	taken := make(map[string]struct{}, len(sheets))
	for i, sheet := range sheets {
		base := strings.Trim(truncateRunes(strings.Trim(sheet.Name, "' "), campaign.MaxTabNameLength), "' ")
		if base == "" {
			base = fallbackSheetName
		}

		name := base
		for n := 2; ; n++ {
			if _, ok := taken[strings.ToLower(name)]; !ok {
				break
			}
			suffix := fmt.Sprintf("_%d", n)
			name = strings.TrimRight(truncateRunes(base, campaign.MaxTabNameLength-len(suffix)), "' ") + suffix
		}
		taken[strings.ToLower(name)] = struct{}{}
		names[i] = name
	}
	return names
}

func truncateRunes(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	return string([]rune(value)[:limit])
}
