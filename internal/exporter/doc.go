// Package exporter writes a cleaned DetailTable as a downloadable file.
//
// Two writers are provided:
//
// XLSXWriter: single-sheet workbook with a bold header row and numeric
// amount cells.
//
// CSVWriter: UTF-8 CSV with an optional BOM for Excel compatibility.
// Amounts are written as plain decimal text.
//
// Example usage:
//
//	w, err := exporter.NewWriter(exporter.FormatXLSX, cfg.Export)
//	if err != nil {
//		return err
//	}
//	err = w.Write(out, table)
package exporter
