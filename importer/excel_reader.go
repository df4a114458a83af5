package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelReader reads one worksheet. Cell values are read raw so numeric
// product ids are not reformatted.
type ExcelReader struct {
	Sheet string
}

func (r *ExcelReader) Read(path string) (Table, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	sheetName := r.Sheet
	if sheetName == "" {
		sheetName = file.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("excel file has no sheets: %s", path)
	}

	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s: %w", sheetName, ErrEmptyTable)
	}

	return Table(rows), nil
}
