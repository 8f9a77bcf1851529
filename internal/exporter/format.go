package exporter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"auxreport/pkg/contracts/domain"
)

// Format is a download file format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat converts user input into a Format. Empty input means XLSX.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xlsx", "excel":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileName appends the format extension to base
func (f Format) FileName(base string) string {
	return base + "." + string(f)
}

// formatAmount renders an amount without rounding; missing amounts are empty
func formatAmount(a decimal.NullDecimal) string {
	if !a.Valid {
		return ""
	}
	return a.Decimal.String()
}

// cellText renders one cell for text outputs
func cellText(col domain.Column, cell domain.Cell) string {
	if col.Kind == domain.KindAmount {
		return formatAmount(cell.Amount)
	}
	return cell.Text
}
