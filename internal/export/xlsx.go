// Package export writes table rows to spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"datachat-resultview/internal/format"
	"datachat-resultview/internal/model"
)

const (
	TableFileName = "table_data.xlsx"
	PivotFileName = "pivot_data.xlsx"
	SheetName     = "Data"
	ContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	columnWidth = 18
)

// WriteTable writes rows as one sheet with humanized headers. Numeric cells
// are stored as numbers, everything else as text; nulls stay empty.
func WriteTable(w io.Writer, rows []model.Record, columns []model.Column) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F46E5"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, c := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, format.Header(c.Key)); err != nil {
			return fmt.Errorf("failed to write header %s: %w", c.Key, err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for rowIdx, r := range rows {
		for col, c := range columns {
			v, ok := r.Get(c.Key)
			if !ok || v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, cellValue(v, c)); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
	}

	if len(columns) > 0 {
		last, err := excelize.ColumnNumberToName(len(columns))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, "A", last, columnWidth); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func cellValue(v model.Value, c model.Column) interface{} {
	if c.IsNumeric() {
		if n, ok := model.ToNumber(v); ok {
			return n
		}
	}
	return model.ToString(v)
}

// ReadTable reads back the first sheet: the header row and the data rows as
// text.
func ReadTable(r io.Reader) (headers []string, rows [][]string, err error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	all, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}
