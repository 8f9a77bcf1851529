package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"auxreport/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	// BOMPrefix adds a UTF-8 BOM so that Excel recognizes the encoding
	BOMPrefix bool
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(bom bool) *CSVWriter {
	return &CSVWriter{BOMPrefix: bom}
}

// Format implements Writer
func (w *CSVWriter) Format() Format {
	return FormatCSV
}

// Write writes the header row and every detail row of table
func (w *CSVWriter) Write(out io.Writer, table domain.DetailTable) error {
	if w.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)

	if err := writer.Write(table.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, len(table.Columns))
	for i, row := range table.Rows {
		for j, col := range table.Columns {
			record[j] = ""
			if j < len(row.Cells) {
				record[j] = cellText(col, row.Cells[j])
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
