package testutil

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sample accounts used by the fixtures
const (
	BankAccount     = "100-01-01-001-01-001-0001 - BANCOS"
	SupplierAccount = "200-02-01-200-20-001-0001 - PROVEEDORES"
)

// LedgerRows is a Spanish ledger export with two account sections, a
// summary line and a trailing blank row. Three detail rows survive cleaning.
func LedgerRows() [][]string {
	return [][]string{
		{"Cuenta / Concepto", "Cheque", "Tráfico", "Factura", "Fecha", "Cargos", "Abonos", "Saldo"},
		{BankAccount, "", "", "", "", "", "", ""},
		{"Pago proveedor", "123", "", "F-1", "10/01/2025", "1,000.00", "", "2,000.00"},
		{"Comisión bancaria", "", "", "", "11/01/2025", "", "15.50", "1,984.50"},
		{"Sumas Totales", "", "", "", "", "1,000.00", "15.50", ""},
		{SupplierAccount, "", "", "", "", "", "", ""},
		{"Factura ACME", "", "T-9", "F-2", "12/01/2025", "300", "", ""},
		{"", "", "", "", "", "", "", ""},
	}
}

// PerAccountRows is a per-account export for account with one detail row
// and a total line.
func PerAccountRows(account, concept, charges string) [][]string {
	return [][]string{
		{"Poliza", "Concepto", "Cliente / Proveedor", "Cheque", "Fecha", "Cargos", "Abonos", "Saldo"},
		{"Cuenta: " + account, "", "", "", "", "", "", ""},
		{"P-1", concept, "ACME", "", "10/01/2025", charges, "", ""},
		{"", "Total", "", "", "", charges, "", ""},
	}
}

// CSVBytes encodes rows as comma-separated text
func CSVBytes(t *testing.T, rows [][]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("encode csv fixture: %v", err)
	}
	return buf.Bytes()
}

// XLSXBytes encodes rows as a single-sheet workbook of text cells
func XLSXBytes(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}
		axis, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, axis, &values); err != nil {
			t.Fatalf("write xlsx fixture row %d: %v", r, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("write xlsx fixture: %v", err)
	}
	return buf.Bytes()
}
