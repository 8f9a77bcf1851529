package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountNotDetected is stamped on detail rows that appear before any
// account boundary. It is never a valid account identifier.
const AccountNotDetected = "__ACCOUNT_NOT_DETECTED__"

// Canonical column names of the cleaned report.
const (
	ColumnAccount  = "Account"
	ColumnPolicy   = "Policy"
	ColumnConcept  = "Concept"
	ColumnCustomer = "Customer / Supplier"
	ColumnBranch   = "Branch"
	ColumnCheck    = "Check"
	ColumnRoute    = "Route"
	ColumnInvoice  = "Invoice"
	ColumnDate     = "Date"
	ColumnCharges  = "Charges"
	ColumnCredits  = "Credits"
	ColumnBalance  = "Balance"
)

// Mode selects the input layout.
type Mode string

const (
	// ModeAuto detects the layout from the first file.
	ModeAuto Mode = "auto"
	// ModeLedger is the single-file layout with account boundary rows.
	ModeLedger Mode = "ledger"
	// ModePerAccount is the one-file-per-account layout.
	ModePerAccount Mode = "per_account"
)

// ParseMode converts user input into a Mode. Empty input means ModeAuto.
// The legacy names "star1" and "star2" are accepted.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "ledger", "star1", "star 1":
		return ModeLedger, nil
	case "per_account", "per-account", "star2", "star 2.0", "star2.0":
		return ModePerAccount, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// ColumnKind describes how a DetailTable column was normalized.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindAmount
	KindDate
)

// String returns the lowercase kind name.
func (k ColumnKind) String() string {
	switch k {
	case KindAmount:
		return "amount"
	case KindDate:
		return "date"
	default:
		return "text"
	}
}

// Column is one output column.
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"-"`
}

// Cell holds one output value. Amount columns carry Amount (invalid when the
// source text was missing or unparsable); all other columns carry Text.
type Cell struct {
	Text   string
	Amount decimal.NullDecimal
}

// TextCell builds a text cell.
func TextCell(s string) Cell {
	return Cell{Text: s}
}

// AmountCell builds an amount cell. Text keeps the source text.
func AmountCell(raw string, amount decimal.NullDecimal) Cell {
	return Cell{Text: raw, Amount: amount}
}

// DetailRow is one kept transaction. Cells is aligned with the table's
// Columns and Cells[0] is the stamped account.
type DetailRow struct {
	Source string
	Line   int
	Cells  []Cell
}

// Account returns the stamped account identifier.
func (r DetailRow) Account() string {
	if len(r.Cells) == 0 {
		return ""
	}
	return r.Cells[0].Text
}

// DetailTable is the cleaned report handed back to callers.
type DetailTable struct {
	Columns []Column
	Rows    []DetailRow
}

// NewDetailTable returns an empty table with the given columns. The Account
// column is prepended when missing.
func NewDetailTable(columns ...Column) DetailTable {
	if len(columns) == 0 || columns[0].Name != ColumnAccount {
		columns = append([]Column{{Name: ColumnAccount}}, columns...)
	}
	return DetailTable{Columns: columns}
}

// ColumnNames returns the column names in output order.
func (t DetailTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column or -1.
func (t DetailTable) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Len returns the number of detail rows.
func (t DetailTable) Len() int {
	return len(t.Rows)
}

// Accounts returns the distinct stamped accounts in first-seen order.
func (t DetailTable) Accounts() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.Rows {
		a := r.Account()
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}
