package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"auxreport/pkg/contracts/domain"
)

// serialEpoch is day zero of spreadsheet serial dates.
var serialEpoch = civil.Date{Year: 1899, Month: time.December, Day: 30}

// maxSerial is the serial of 31/12/9999.
const maxSerial = 2958465

var amountReplacer = strings.NewReplacer("$", "", ",", "", " ", "")

// ParseAmount parses monetary text such as "$1,200.00". Missing or
// unparsable text yields an invalid NullDecimal. The value is not rounded.
func ParseAmount(s string) decimal.NullDecimal {
	text := amountReplacer.Replace(cleanCell(s))
	if domain.IsMissing(text) {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// dayFirstLayouts are tried before monthFirstLayouts so that 01/10/2025 is
// the first of October.
var dayFirstLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2-1-06",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006 15:04:05",
	"2006-1-2",
	"2006/1/2",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2-Jan-2006",
	"2-Jan-06",
	"2 Jan 2006",
	"2 January 2006",
	"2/Jan/2006",
}

var monthFirstLayouts = []string{
	"1/2/2006",
	"1-2-2006",
	"1/2/06",
	"1-2-06",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
}

func parseLayouts(text string, layouts []string) (civil.Date, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return civil.DateOf(t), true
		}
	}
	return civil.Date{}, false
}

// ParseDate reads a spreadsheet serial number or a free-text date, day
// before month first and month before day second.
func ParseDate(s string) (civil.Date, bool) {
	text := cleanCell(s)
	if domain.IsMissing(text) {
		return civil.Date{}, false
	}

	if f, err := strconv.ParseFloat(text, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > maxSerial {
			return civil.Date{}, false
		}
		return serialEpoch.AddDays(int(math.Floor(f))), true
	}

	if d, ok := parseLayouts(text, dayFirstLayouts); ok {
		return d, true
	}
	return parseLayouts(text, monthFirstLayouts)
}

// FormatDate renders d as DD/MM/YYYY.
func FormatDate(d civil.Date) string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// NormalizeDate converts date text or a serial to DD/MM/YYYY. Unparsable
// input yields "".
func NormalizeDate(s string) string {
	d, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return FormatDate(d)
}

// normalizer turns classified rows of one table into detail rows.
// lineOffset is the grid row index of the first table row.
type normalizer struct {
	roles      columnRoles
	lineOffset int
}

// outputColumns returns the detail columns: Account first, then every
// source column except one already named Account.
func (n normalizer) outputColumns(table domain.LabeledTable) ([]domain.Column, []int) {
	cols := []domain.Column{{Name: domain.ColumnAccount, Kind: domain.KindText}}
	var positions []int
	for i, name := range table.Columns {
		if strings.EqualFold(name, domain.ColumnAccount) {
			continue
		}
		kind := domain.KindText
		switch {
		case n.roles.isAmount(i):
			kind = domain.KindAmount
		case n.roles.isDate(i):
			kind = domain.KindDate
		}
		cols = append(cols, domain.Column{Name: name, Kind: kind})
		positions = append(positions, i)
	}
	return cols, positions
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if !domain.IsMissing(cell) {
			return false
		}
	}
	return true
}

// normalize drops boundary and summary rows, converts amounts and dates and
// removes rows without business data. Counters are added to stats.
func (n normalizer) normalize(table domain.LabeledTable, rows []ClassifiedRow, stats *domain.FileStats) domain.DetailTable {
	cols, positions := n.outputColumns(table)
	out := domain.DetailTable{Columns: cols}

	for _, row := range rows {
		switch row.Kind {
		case RowAccountBoundary:
			stats.Boundaries++
			continue
		case RowSummary:
			stats.Summaries++
			continue
		}

		if isBlankRow(row.Cells) {
			stats.Blank++
			continue
		}

		if len(n.roles.amounts) > 0 {
			nonZero := false
			for _, col := range n.roles.amounts {
				a := ParseAmount(cellAt(row.Cells, col))
				if a.Valid && !a.Decimal.IsZero() {
					nonZero = true
					break
				}
			}
			if !nonZero {
				stats.ZeroAmount++
				continue
			}
		}

		if n.roles.concept >= 0 && domain.IsMissing(cellAt(row.Cells, n.roles.concept)) {
			stats.EmptyConcept++
			continue
		}

		cells := make([]domain.Cell, 0, len(cols))
		cells = append(cells, domain.TextCell(row.Account))
		for k, pos := range positions {
			raw := cleanCell(cellAt(row.Cells, pos))
			switch cols[k+1].Kind {
			case domain.KindAmount:
				amount := ParseAmount(raw)
				if !amount.Valid && !domain.IsMissing(raw) {
					stats.BadAmounts++
				}
				cells = append(cells, domain.AmountCell(raw, amount))
			case domain.KindDate:
				date := NormalizeDate(raw)
				if date == "" && !domain.IsMissing(raw) {
					stats.BadDates++
				}
				cells = append(cells, domain.TextCell(date))
			default:
				if domain.IsMissing(raw) {
					raw = ""
				}
				cells = append(cells, domain.TextCell(raw))
			}
		}

		if row.Account == domain.AccountNotDetected {
			stats.Unassigned++
		}
		stats.Kept++
		out.Rows = append(out.Rows, domain.DetailRow{
			Source: table.Source,
			Line:   n.lineOffset + row.Line + 1,
			Cells:  cells,
		})
	}
	return out
}

// Normalize converts the classified rows of a ledger table into a
// DetailTable with the default vocabulary.
func Normalize(table domain.LabeledTable, rows []ClassifiedRow) domain.DetailTable {
	n := normalizer{roles: defaultMatcher.resolveColumns(table.Columns, true)}
	var stats domain.FileStats
	return n.normalize(table, rows, &stats)
}
