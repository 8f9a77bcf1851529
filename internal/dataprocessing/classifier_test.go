package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auxreport/pkg/contracts/domain"
)

const (
	supplies = "200-02-01-200-20-001-0001 - SUPPLIES"
	other    = "300-01-01-100-10-002-0002 - OTHER"
)

func ledgerTable(rows ...[]string) domain.LabeledTable {
	return domain.LabeledTable{
		Source:      "ledger.xlsx",
		Columns:     append([]string(nil), DefaultColumnNames...),
		Rows:        rows,
		HeaderIndex: -1,
	}
}

func TestClassifyLedger(t *testing.T) {
	table := ledgerTable(
		[]string{"Opening entry", "", "", "", "", "10", "", ""},
		[]string{supplies, "", "", "", "", "", "", ""},
		[]string{"Payment", "CHK1", "", "", "", "5", "", ""},
		[]string{"Total", "CHK9", "", "", "", "7", "", ""},
		[]string{"Total", "", "", "", "", "100", "", ""},
		[]string{"Saldo", "nan", "None", "", "", "", "", "100"},
		[]string{"Carry", "", "", "", "Sumas Totales", "", "", ""},
		[]string{"\u00a0" + other + "\u00a0", "", "", "", "", "", "", ""},
		[]string{"Fee", "", "", "INV-1", "", "", "3", ""},
	)

	rows := ClassifyLedger(table)
	require.Len(t, rows, 9)

	want := []struct {
		kind    RowKind
		account string
	}{
		{RowDetail, domain.AccountNotDetected},
		{RowAccountBoundary, supplies},
		{RowDetail, supplies},
		{RowDetail, supplies},
		{RowSummary, ""},
		{RowSummary, ""},
		{RowSummary, ""},
		{RowAccountBoundary, other},
		{RowDetail, other},
	}
	for i, w := range want {
		assert.Equal(t, w.kind, rows[i].Kind, "row %d kind", i)
		assert.Equal(t, w.account, rows[i].Account, "row %d account", i)
		assert.Equal(t, i, rows[i].Line)
	}
}

func TestClassifier_StepIsPure(t *testing.T) {
	c := classifier{m: defaultMatcher, roles: defaultMatcher.resolveColumns(DefaultColumnNames, true)}

	start := NewAccountContext()
	next, row := c.step(start, 0, []string{supplies, "", "", "", "", "", "", ""})

	assert.Equal(t, RowAccountBoundary, row.Kind)
	_, seen := start.Account()
	assert.False(t, seen, "step must not mutate the previous context")
	assert.Equal(t, domain.AccountNotDetected, start.Stamp())

	account, seen := next.Account()
	assert.True(t, seen)
	assert.Equal(t, supplies, account)

	after, detail := c.step(next, 1, []string{"Payment", "", "", "", "", "1", "", ""})
	assert.Equal(t, RowDetail, detail.Kind)
	assert.Equal(t, supplies, detail.Account)
	assert.Equal(t, next, after)
}

func TestClassifier_DetailReferenceOverride(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		want RowKind
	}{
		{"total without references", []string{"Total", "", "", "", "", "9", "", ""}, RowSummary},
		{"total with check", []string{"Total", "CHK1", "", "", "", "9", "", ""}, RowDetail},
		{"total with route", []string{"TOTAL", "", "R-7", "", "", "9", "", ""}, RowDetail},
		{"total with invoice", []string{" total ", "", "", "F-2", "", "9", "", ""}, RowDetail},
		{"saldo without references", []string{"Saldo", "", "", "", "", "", "", "9"}, RowSummary},
		{"saldo with check", []string{"Saldo", "CHK55", "", "", "", "", "", "9"}, RowDetail},
		{"grand total", []string{"Grand Totals", "", "", "", "", "9", "", ""}, RowSummary},
		{"opening balance with colon", []string{"Saldo inicial:", "", "", "", "", "9", "", ""}, RowSummary},
		{"label containing total", []string{"Total tires purchase", "", "", "", "", "9", "", ""}, RowDetail},
		{"summary phrase in date column", []string{"Closing", "", "", "", "Suma Total", "9", "", ""}, RowSummary},
		{"summary phrase in balance column", []string{"Closing", "", "", "", "", "", "", "Saldo inicial"}, RowSummary},
	}

	c := classifier{m: defaultMatcher, roles: defaultMatcher.resolveColumns(DefaultColumnNames, true)}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, row := c.step(FixedAccountContext("A"), 0, tt.row)
			assert.Equal(t, tt.want, row.Kind)
		})
	}
}

func TestClassifier_BoundaryShape(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"200-02-01-200-20-001-0001 - SUPPLIES", true},
		{"  200-02-01-200-20-001-0001   -   SUPPLIES", true},
		{"200-02-01-200-20-001-0001 -", false},
		{"200-02-01-200-20-001-001 - SHORT GROUP", false},
		{"200-02-01-200-20-001-0001 SUPPLIES", false},
		{"TOTAL 200-02-01-200-20-001-0001 - X", false},
	}

	c := classifier{m: defaultMatcher, roles: defaultMatcher.resolveColumns(DefaultColumnNames, true)}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, row := c.step(NewAccountContext(), 0, []string{tt.text, "", "", "", "", "1", "", ""})
			assert.Equal(t, tt.want, row.Kind == RowAccountBoundary)
		})
	}
}

func TestClassifyAccountFile_IgnoresBoundaries(t *testing.T) {
	table := domain.LabeledTable{
		Columns: []string{domain.ColumnPolicy, domain.ColumnConcept, domain.ColumnCheck, domain.ColumnCharges},
		Rows: [][]string{
			{"P1", supplies, "", "5"},
			{"P2", "Total", "", "5"},
			{"P3", "Compra", "", "5"},
		},
	}

	rows := ClassifyAccountFile(table, "100-01 BANCOS")
	require.Len(t, rows, 3)
	assert.Equal(t, RowDetail, rows[0].Kind)
	assert.Equal(t, "100-01 BANCOS", rows[0].Account)
	assert.Equal(t, RowSummary, rows[1].Kind)
	assert.Equal(t, RowDetail, rows[2].Kind)
	assert.Equal(t, "100-01 BANCOS", rows[2].Account)
}

func TestExtractFixedAccount(t *testing.T) {
	tests := []struct {
		name    string
		cell    string
		want    string
		wantErr bool
	}{
		{"spanish label", "Cuenta: 100-01-01 BANCOS", "100-01-01 BANCOS", false},
		{"label without space", "CUENTA:100-02 CAJA", "100-02 CAJA", false},
		{"english label", "Account:  200-01 SUPPLIERS", "200-01 SUPPLIERS", false},
		{"colon with non-breaking space", ":\u00a0300-01 TAXES", "300-01 TAXES", false},
		{"no label", "400-01 OTHER", "400-01 OTHER", false},
		{"label only", "Cuenta:", "", true},
		{"empty", "", "", true},
		{"missing literal", "nan", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := domain.LabeledTable{
				Source:  "acct.xlsx",
				Columns: []string{domain.ColumnPolicy, domain.ColumnConcept},
				Rows:    [][]string{{tt.cell, ""}},
			}
			got, err := ExtractFixedAccount(table)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrAccountNotFound)
				assert.Contains(t, err.Error(), "acct.xlsx")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ExtractFixedAccount(domain.LabeledTable{Columns: []string{"Policy"}})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
