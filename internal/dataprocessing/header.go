package dataprocessing

import (
	"fmt"
	"strings"

	"auxreport/pkg/contracts/domain"
)

// DefaultHeaderScanRows is how many leading rows are searched for a header.
const DefaultHeaderScanRows = 12

// DefaultColumnNames are assigned when no header row is found.
var DefaultColumnNames = []string{
	"Account/Concept", "Check", "Route", "Invoice", "Date", "Charges", "Credits", "Balance",
}

// headerSignature identifies which layout a header row belongs to.
type headerSignature int

const (
	signatureNone headerSignature = iota
	signatureLedger
	signaturePolicy
)

// joinHeaderCandidate joins the non-missing cells of a row with spaces.
func joinHeaderCandidate(row []string) string {
	parts := make([]string, 0, len(row))
	for _, cell := range row {
		if domain.IsMissing(cell) {
			continue
		}
		parts = append(parts, cell)
	}
	return fold(strings.Join(parts, " "))
}

// signature tests the ledger signature first, then the policy signature.
func (m *matcher) signature(row []string) headerSignature {
	text := joinHeaderCandidate(row)
	if text == "" {
		return signatureNone
	}
	if m.accountConcept.MatchString(text) && m.ledgerAmount.MatchString(text) {
		return signatureLedger
	}
	if m.policyToken.MatchString(text) && m.policyCompanion.MatchString(text) {
		return signaturePolicy
	}
	return signatureNone
}

// locateHeader re-bases grid on the first row matching a header signature
// within the first scanRows rows. Without a match the default column names
// are used and the whole grid is data.
func (m *matcher) locateHeader(grid domain.RawGrid, scanRows int) domain.LabeledTable {
	if scanRows <= 0 {
		scanRows = DefaultHeaderScanRows
	}
	limit := scanRows
	if grid.Len() < limit {
		limit = grid.Len()
	}

	for i := 0; i < limit; i++ {
		if m.signature(grid.Rows[i]) == signatureNone {
			continue
		}
		names := make([]string, grid.Width())
		for j := range names {
			cell := grid.Cell(i, j)
			if domain.IsMissing(cell) {
				names[j] = fmt.Sprintf("col%d", j)
				continue
			}
			names[j] = cleanCell(cell)
		}
		return domain.LabeledTable{
			Source:      grid.Source,
			Columns:     uniqueNames(names),
			Rows:        grid.Rows[i+1:],
			HeaderIndex: i,
		}
	}

	return domain.LabeledTable{
		Source:      grid.Source,
		Columns:     uniqueNames(defaultNames(grid.Width())),
		Rows:        grid.Rows,
		HeaderIndex: -1,
	}
}

// defaultNames truncates or extends DefaultColumnNames to width.
func defaultNames(width int) []string {
	names := make([]string, width)
	for j := range names {
		if j < len(DefaultColumnNames) {
			names[j] = DefaultColumnNames[j]
			continue
		}
		names[j] = fmt.Sprintf("col%d", j)
	}
	return names
}

// uniqueNames suffixes repeated names with their occurrence number
// ("Date", "Date.1", "Date.2").
func uniqueNames(names []string) []string {
	out := make([]string, len(names))
	taken := make(map[string]bool, len(names))
	for _, n := range names {
		taken[n] = true
	}
	seen := make(map[string]int, len(names))
	for i, n := range names {
		count := seen[n]
		seen[n] = count + 1
		if count == 0 {
			out[i] = n
			continue
		}
		candidate := fmt.Sprintf("%s.%d", n, count)
		for taken[candidate] {
			count++
			candidate = fmt.Sprintf("%s.%d", n, count)
		}
		taken[candidate] = true
		seen[n] = count + 1
		out[i] = candidate
	}
	return out
}

// LocateHeader finds the header row of grid with the default vocabulary.
func LocateHeader(grid domain.RawGrid) domain.LabeledTable {
	return defaultMatcher.locateHeader(grid, DefaultHeaderScanRows)
}
