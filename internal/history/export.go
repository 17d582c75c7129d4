package history

import (
	"fmt"

	"github.com/existflow/qazzerep/internal/model"
	"github.com/xuri/excelize/v2"
)

const sheetName = "History"

var exportHeader = []string{"Session", "Timestamp", "Pair", "Report ID", "Originality", "Similarity", "AI A", "AI B"}

// ExportXLSX writes one row per comparison to path
func ExportXLSX(path string, sessions []model.HistorySession) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, h := range exportHeader {
		if err := setCell(f, col+1, 1, h); err != nil {
			return 0, err
		}
	}

	row := 2
	for _, s := range sessions {
		for _, c := range s.Comparisons {
			values := []interface{}{
				s.ID,
				s.Timestamp.String(),
				c.Pair,
				c.ReportID,
				c.Originality,
				c.Similarity,
				c.DocA.AI.Score,
				c.DocB.AI.Score,
			}
			for col, v := range values {
				if err := setCell(f, col+1, row, v); err != nil {
					return 0, err
				}
			}
			row++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("failed to save %s: %w", path, err)
	}
	return row - 2, nil
}

func setCell(f *excelize.File, col, row int, v interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheetName, cell, v)
}
