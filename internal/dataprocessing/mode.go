package dataprocessing

import (
	"strings"

	"auxreport/pkg/contracts/domain"
)

// detectMode picks the per-account layout when the header has a policy
// column, when the first data cell starts with ":" or when the header text
// mentions policy together with concept or date. Otherwise the ledger
// layout is assumed.
func (m *matcher) detectMode(table domain.LabeledTable) domain.Mode {
	folded := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		folded[i] = fold(c)
		if m.policyName.MatchString(folded[i]) {
			return domain.ModePerAccount
		}
	}

	if strings.HasPrefix(cleanCell(table.Value(0, 0)), ":") {
		return domain.ModePerAccount
	}

	joined := strings.Join(folded, " ")
	if m.policyMention.MatchString(joined) && m.conceptOrDate.MatchString(joined) {
		return domain.ModePerAccount
	}
	return domain.ModeLedger
}

// DetectMode inspects grid with the default vocabulary.
func DetectMode(grid domain.RawGrid) domain.Mode {
	return defaultMatcher.detectMode(defaultMatcher.locateHeader(grid, DefaultHeaderScanRows))
}
