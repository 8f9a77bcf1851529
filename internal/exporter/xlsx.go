package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"auxreport/pkg/contracts/domain"
)

const (
	// numFmtAmount is the built-in "#,##0.00" number format
	numFmtAmount = 4

	defaultColWidth = 18
	conceptColWidth = 45
)

// XLSXWriter writes the cleaned report as a single-sheet workbook
type XLSXWriter struct {
	SheetName string
}

// NewXLSXWriter creates a workbook writer for the given sheet name
func NewXLSXWriter(sheet string) *XLSXWriter {
	return &XLSXWriter{SheetName: sheet}
}

// Format implements Writer
func (w *XLSXWriter) Format() Format {
	return FormatXLSX
}

// Write streams table into a workbook. Amount cells are numeric and left
// empty when missing; every other cell is text.
func (w *XLSXWriter) Write(out io.Writer, table domain.DetailTable) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := w.SheetName
	if sheet == "" {
		sheet = "REPORTE"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtAmount})
	if err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	for i, col := range table.Columns {
		width := float64(defaultColWidth)
		if col.Name == domain.ColumnConcept {
			width = conceptColWidth
		}
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	header := make([]interface{}, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: col.Name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for r, row := range table.Rows {
		values := make([]interface{}, len(table.Columns))
		for j, col := range table.Columns {
			if j >= len(row.Cells) {
				continue
			}
			cell := row.Cells[j]
			if col.Kind == domain.KindAmount {
				if cell.Amount.Valid {
					values[j] = excelize.Cell{StyleID: amountStyle, Value: cell.Amount.Decimal.InexactFloat64()}
				}
				continue
			}
			values[j] = cell.Text
		}

		axis, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(axis, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
