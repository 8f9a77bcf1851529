package dataprocessing

import (
	"regexp"

	"auxreport/pkg/contracts/domain"
)

// columnRoles records which columns of a LabeledTable carry the concept
// text, the detail references, the amounts and the dates.
type columnRoles struct {
	concept    int
	detailRefs []int
	amounts    []int
	dates      []int
}

func (r columnRoles) isAmount(col int) bool {
	return containsInt(r.amounts, col)
}

func (r columnRoles) isDate(col int) bool {
	return containsInt(r.dates, col)
}

func (r columnRoles) isDetailRef(col int) bool {
	return containsInt(r.detailRefs, col)
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// firstMatch returns the first column whose folded name matches re and is
// not excluded, or -1.
func firstMatch(folded []string, re *regexp.Regexp, exclude func(int) bool) int {
	if re == nil {
		return -1
	}
	for i, name := range folded {
		if exclude(i) {
			continue
		}
		if re.MatchString(name) {
			return i
		}
	}
	return -1
}

// resolveColumns designates the column roles of a table. With
// conceptFallback the first column is the concept column when no header
// names one.
func (m *matcher) resolveColumns(columns []string, conceptFallback bool) columnRoles {
	folded := make([]string, len(columns))
	for i, c := range columns {
		folded[i] = fold(c)
	}

	roles := columnRoles{concept: -1}
	none := func(int) bool { return false }

	roles.concept = firstMatch(folded, m.accountConcept, none)
	if roles.concept < 0 {
		roles.concept = firstMatch(folded, m.concept, none)
	}
	if roles.concept < 0 && conceptFallback && len(columns) > 0 {
		roles.concept = 0
	}

	taken := func(i int) bool {
		return i == roles.concept || roles.isAmount(i) || roles.isDetailRef(i)
	}

	for _, re := range []*regexp.Regexp{m.check, m.route, m.invoice} {
		if idx := firstMatch(folded, re, taken); idx >= 0 {
			roles.detailRefs = append(roles.detailRefs, idx)
		}
	}
	for _, re := range []*regexp.Regexp{m.charges, m.credits, m.balance} {
		if idx := firstMatch(folded, re, taken); idx >= 0 {
			roles.amounts = append(roles.amounts, idx)
		}
	}
	for i, name := range folded {
		if taken(i) {
			continue
		}
		if m.date.MatchString(name) {
			roles.dates = append(roles.dates, i)
		}
	}
	return roles
}

// canonicalize renames recognized headers of a per-account table to the
// canonical column names. The first header mapped to a canonical name wins;
// later ones keep their cleaned text.
func (m *matcher) canonicalize(table domain.LabeledTable) domain.LabeledTable {
	names := make([]string, len(table.Columns))
	used := make(map[string]bool, len(names))
	for i, c := range table.Columns {
		name := m.canonicalName(c)
		if used[name] {
			name = cleanCell(c)
		}
		used[name] = true
		names[i] = name
	}
	table.Columns = uniqueNames(names)
	return table
}

// preferredOrder is the column order of merged per-account reports.
var preferredOrder = []string{
	domain.ColumnAccount, domain.ColumnPolicy, domain.ColumnConcept, domain.ColumnCustomer,
	domain.ColumnBranch, domain.ColumnCheck, domain.ColumnRoute, domain.ColumnInvoice,
	domain.ColumnDate, domain.ColumnCharges, domain.ColumnCredits, domain.ColumnBalance,
}

// PerAccountColumns returns the columns of an empty per-account report.
func PerAccountColumns() []domain.Column {
	cols := make([]domain.Column, len(preferredOrder))
	for i, name := range preferredOrder {
		cols[i] = domain.Column{Name: name, Kind: kindOf(name)}
	}
	return cols
}

func kindOf(name string) domain.ColumnKind {
	switch name {
	case domain.ColumnCharges, domain.ColumnCredits, domain.ColumnBalance:
		return domain.KindAmount
	case domain.ColumnDate:
		return domain.KindDate
	}
	return domain.KindText
}
