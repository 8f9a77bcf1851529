package v1

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auxreport/pkg/contracts/domain"
)

func TestNewRows(t *testing.T) {
	table := domain.NewDetailTable(
		domain.Column{Name: domain.ColumnConcept},
		domain.Column{Name: domain.ColumnCharges, Kind: domain.KindAmount},
		domain.Column{Name: domain.ColumnCredits, Kind: domain.KindAmount},
	)
	table.Rows = []domain.DetailRow{{
		Source: "a.xlsx",
		Line:   4,
		Cells: []domain.Cell{
			domain.TextCell("1105"),
			domain.TextCell("Pago"),
			domain.AmountCell("1,200.50", decimal.NewNullDecimal(decimal.RequireFromString("1200.50"))),
			domain.AmountCell("", decimal.NullDecimal{}),
		},
	}}

	rows := NewRows(table)
	require.Len(t, rows, 1)
	assert.Equal(t, []interface{}{"1105", "Pago", "1200.5", nil}, rows[0].Values)

	data, err := json.Marshal(rows[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"source":"a.xlsx","line":4,"values":["1105","Pago","1200.5",null]}`, string(data))

	assert.Empty(t, NewRows(domain.NewDetailTable()))
}
