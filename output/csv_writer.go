package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSVWriter writes each sheet to <dir>/<sheet name>.csv.
type CSVWriter struct{}

func (w *CSVWriter) Write(dir string, sheets []Sheet) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create csv output directory %s: %w", dir, err)
	}

	for _, sheet := range sheets {
		if err := writeSheetCSV(filepath.Join(dir, sheet.Name+".csv"), sheet); err != nil {
			return err
		}
	}
	return nil
}

func writeSheetCSV(path string, sheet Sheet) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(sheet.Header); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, row := range sheet.TextRows() {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
