package dataprocessing

import (
	"fmt"
	"strings"

	"auxreport/pkg/contracts/domain"
)

// RowKind is the classification of one data row.
type RowKind int

const (
	// RowDetail is a transaction row kept in the output.
	RowDetail RowKind = iota
	// RowAccountBoundary opens a new account section.
	RowAccountBoundary
	// RowSummary is a subtotal, total or balance line.
	RowSummary
)

func (k RowKind) String() string {
	switch k {
	case RowAccountBoundary:
		return "account_boundary"
	case RowSummary:
		return "summary"
	default:
		return "detail"
	}
}

// AccountContext is the account active at some point of a pass over one
// table. It is a value: step returns the next context instead of mutating.
type AccountContext struct {
	account string
	set     bool
	locked  bool
}

// NewAccountContext returns the context at the start of a ledger pass, with
// no account seen yet.
func NewAccountContext() AccountContext {
	return AccountContext{}
}

// FixedAccountContext returns a context bound to account for a whole file.
// Boundary rows do not change it.
func FixedAccountContext(account string) AccountContext {
	return AccountContext{account: account, set: true, locked: true}
}

// Account returns the active account and whether one has been seen.
func (c AccountContext) Account() (string, bool) {
	return c.account, c.set
}

// Stamp returns the value written in the Account column of detail rows.
func (c AccountContext) Stamp() string {
	if !c.set {
		return domain.AccountNotDetected
	}
	return c.account
}

// ClassifiedRow is a data row tagged with its kind. Account is the new
// identifier for boundary rows and the stamped account for detail rows.
type ClassifiedRow struct {
	Kind    RowKind
	Account string
	Cells   []string
	Line    int
}

// classifier applies the row rules of one table.
type classifier struct {
	m     *matcher
	roles columnRoles
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// hasDetailRefs reports whether any check, route or invoice cell is populated.
func (c classifier) hasDetailRefs(row []string) bool {
	for _, col := range c.roles.detailRefs {
		if !domain.IsMissing(cellAt(row, col)) {
			return true
		}
	}
	return false
}

// isSummary reports whether a row without detail references holds only a
// summary phrase in its concept cell or in a date or amount cell. Free-text
// columns such as the customer name are never checked.
func (c classifier) isSummary(row []string) bool {
	if c.hasDetailRefs(row) {
		return false
	}
	if c.m.isSummaryPhrase(cellAt(row, c.roles.concept)) {
		return true
	}
	for _, cols := range [][]int{c.roles.dates, c.roles.amounts} {
		for _, col := range cols {
			if c.m.isSummaryPhrase(cellAt(row, col)) {
				return true
			}
		}
	}
	return false
}

// step classifies one row and returns the context for the next row.
func (c classifier) step(ctx AccountContext, line int, row []string) (AccountContext, ClassifiedRow) {
	out := ClassifiedRow{Cells: row, Line: line}
	text := cleanCell(cellAt(row, c.roles.concept))

	if !ctx.locked && c.m.boundary.MatchString(text) {
		out.Kind = RowAccountBoundary
		out.Account = text
		return AccountContext{account: text, set: true}, out
	}

	if c.isSummary(row) {
		out.Kind = RowSummary
		return ctx, out
	}

	out.Kind = RowDetail
	out.Account = ctx.Stamp()
	return ctx, out
}

// run applies step to every row of table starting from ctx.
func (c classifier) run(ctx AccountContext, table domain.LabeledTable) []ClassifiedRow {
	rows := make([]ClassifiedRow, 0, len(table.Rows))
	for i, row := range table.Rows {
		var classified ClassifiedRow
		ctx, classified = c.step(ctx, i, row)
		rows = append(rows, classified)
	}
	return rows
}

// ClassifyLedger classifies the rows of a ledger-layout table, propagating
// each boundary's account down to the detail rows that follow it.
func ClassifyLedger(table domain.LabeledTable) []ClassifiedRow {
	c := classifier{m: defaultMatcher, roles: defaultMatcher.resolveColumns(table.Columns, true)}
	return c.run(NewAccountContext(), table)
}

// ClassifyAccountFile classifies the rows of a per-account table, stamping
// every detail row with account.
func ClassifyAccountFile(table domain.LabeledTable, account string) []ClassifiedRow {
	c := classifier{m: defaultMatcher, roles: defaultMatcher.resolveColumns(table.Columns, false)}
	return c.run(FixedAccountContext(account), table)
}

// extractFixedAccount reads the account identifier from the first cell of
// the first data row, stripping an "Account:" style label.
func (m *matcher) extractFixedAccount(table domain.LabeledTable) (string, error) {
	if len(table.Rows) == 0 || len(table.Columns) == 0 {
		return "", fmt.Errorf("%w: %s has no data rows", ErrAccountNotFound, sourceName(table.Source))
	}
	raw := cleanCell(table.Value(0, 0))
	account := strings.TrimSpace(m.accountLabel.ReplaceAllString(raw, ""))
	if domain.IsMissing(account) {
		return "", fmt.Errorf("%w: first cell of %s is %q", ErrAccountNotFound, sourceName(table.Source), raw)
	}
	return account, nil
}

// ExtractFixedAccount reads the account of a per-account table.
func ExtractFixedAccount(table domain.LabeledTable) (string, error) {
	return defaultMatcher.extractFixedAccount(table)
}

func sourceName(s string) string {
	if s == "" {
		return "input"
	}
	return s
}
