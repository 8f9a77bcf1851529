package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRawGrid_PadsToWidestRow(t *testing.T) {
	src := [][]string{{"a"}, {"b", "c", "d"}, {}}
	grid := NewRawGrid("x.xlsx", src)

	assert.Equal(t, 3, grid.Len())
	assert.Equal(t, 3, grid.Width())
	for _, row := range grid.Rows {
		assert.Len(t, row, 3)
	}
	assert.Equal(t, "", grid.Cell(0, 2))
	assert.Equal(t, "d", grid.Cell(1, 2))
	assert.Equal(t, "", grid.Cell(5, 0))
	assert.Equal(t, "", grid.Cell(0, -1))

	src[1][0] = "changed"
	assert.Equal(t, "b", grid.Cell(1, 0), "grid must not alias its input")

	assert.Equal(t, 0, NewRawGrid("", nil).Width())
}

func TestRawGrid_WidthOfUnpaddedRows(t *testing.T) {
	grid := RawGrid{Rows: [][]string{{"a"}, {"b", "c", "d"}}}
	assert.Equal(t, 3, grid.Width())
	assert.Equal(t, "", grid.Cell(0, 2))
}

func TestColumnKind(t *testing.T) {
	assert.Equal(t, "text", KindText.String())
	assert.Equal(t, "amount", KindAmount.String())
	assert.Equal(t, "date", KindDate.String())

	col := Column{Name: ColumnDate, Kind: KindDate}
	assert.Equal(t, "Date", col.Name)
}

func TestIsMissing(t *testing.T) {
	for _, s := range []string{"", "  ", "nan", "NaN", "None", "null", "\u00a0"} {
		assert.True(t, IsMissing(s), "%q", s)
	}
	for _, s := range []string{"0", "x", "nana", "-"} {
		assert.False(t, IsMissing(s), "%q", s)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", ModeAuto},
		{"AUTO", ModeAuto},
		{"ledger", ModeLedger},
		{"star1", ModeLedger},
		{"per_account", ModePerAccount},
		{"per-account", ModePerAccount},
		{" STAR2 ", ModePerAccount},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseMode("star3")
	assert.Error(t, err)
}

func TestDetailTable(t *testing.T) {
	table := NewDetailTable(Column{Name: ColumnConcept}, Column{Name: ColumnCharges, Kind: KindAmount})
	assert.Equal(t, []string{ColumnAccount, ColumnConcept, ColumnCharges}, table.ColumnNames())
	assert.Equal(t, 2, table.Index(ColumnCharges))
	assert.Equal(t, -1, table.Index("missing"))

	table.Rows = []DetailRow{
		{Cells: []Cell{TextCell("B"), TextCell("x"), AmountCell("1", decimal.NewNullDecimal(decimal.NewFromInt(1)))}},
		{Cells: []Cell{TextCell("A"), TextCell("y"), AmountCell("", decimal.NullDecimal{})}},
		{Cells: []Cell{TextCell("B"), TextCell("z"), AmountCell("", decimal.NullDecimal{})}},
	}
	assert.Equal(t, []string{"B", "A"}, table.Accounts())
	assert.Equal(t, "", DetailRow{}.Account())

	again := NewDetailTable(table.Columns...)
	assert.Equal(t, table.ColumnNames(), again.ColumnNames())
}

func TestProcessingStats(t *testing.T) {
	var stats ProcessingStats
	stats.Add(FileStats{Kept: 2, Unassigned: 1, Boundaries: 1, Summaries: 2})
	stats.Add(FileStats{Kept: 3, Blank: 1, ZeroAmount: 1, EmptyConcept: 1})

	assert.Equal(t, 5, stats.Kept())
	assert.Equal(t, 1, stats.Unassigned())
	assert.Equal(t, 6, stats.Dropped())
}
