package reporting

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// BuildWorkbook renders measure results into a single-sheet XLSX workbook.
// Columns are emitted in sorted name order so output is deterministic.
func BuildWorkbook(sheetName string, results []map[string]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if len(sheetName) > 31 {
		sheetName = sheetName[:31] // sheet name limit in the xlsx format
	}
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	if len(results) == 0 {
		if err := f.SetCellValue(sheetName, "A1", "no data"); err != nil {
			return nil, err
		}
	} else {
		cols := make([]string, 0, len(results[0]))
		for k := range results[0] {
			cols = append(cols, k)
		}
		sort.Strings(cols)

		for i, col := range cols {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			if err := f.SetCellValue(sheetName, cell, col); err != nil {
				return nil, err
			}
		}
		for r, row := range results {
			for i, col := range cols {
				cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
				if err := f.SetCellValue(sheetName, cell, row[col]); err != nil {
					return nil, err
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
