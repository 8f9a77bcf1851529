package dataprocessing

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v2"

	"auxreport/pkg/contracts/domain"
)

// Vocabulary holds the header synonyms and summary phrases recognized in
// ledger exports. Column entries are regular expression fragments matched
// against folded header text (lowercase, accents removed).
type Vocabulary struct {
	Account  []string `yaml:"account"`
	Concept  []string `yaml:"concept"`
	Policy   []string `yaml:"policy"`
	Customer []string `yaml:"customer"`
	Branch   []string `yaml:"branch"`
	Check    []string `yaml:"check"`
	Route    []string `yaml:"route"`
	Invoice  []string `yaml:"invoice"`
	Date     []string `yaml:"date"`
	Charges  []string `yaml:"charges"`
	Credits  []string `yaml:"credits"`
	Balance  []string `yaml:"balance"`

	// Summary lists the exact phrases of subtotal and balance lines. A
	// trailing colon on the cell is ignored.
	Summary []string `yaml:"summary"`

	// AccountLabels are the words that may prefix the account identifier in
	// the first cell of a per-account file ("Cuenta: ...").
	AccountLabels []string `yaml:"account_labels"`

	// AccountBoundary matches the structured identifier that opens an
	// account section in the ledger layout.
	AccountBoundary string `yaml:"account_boundary"`
}

// DefaultVocabulary recognizes the English and Spanish STAR exports.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Account:  []string{"account", "cuenta"},
		Concept:  []string{"concepto", "concept"},
		Policy:   []string{"policy", "poliza"},
		Customer: []string{`cliente.*proveedor`, `customer.*supplier`},
		Branch:   []string{"sucursal", "branch", `^suc\.?$`},
		Check:    []string{"cheq", "check"},
		Route:    []string{"traf", "route"},
		Invoice:  []string{"fact", "invoice"},
		Date:     []string{"fecha", "date"},
		Charges:  []string{"cargos", "charges"},
		Credits:  []string{"abonos", "credits"},
		Balance:  []string{"saldo", "balance"},
		Summary: []string{
			"balance", "balances", "total", "totals", "grand total", "grand totals",
			"opening balance", "saldo", "saldos", "totales", "suma total",
			"sumas totales", "saldo inicial",
		},
		AccountLabels:   []string{"cuenta", "account"},
		AccountBoundary: `^\d{3}-\d{2}-\d{2}-\d{3}-\d{2}-\d{3}-\d{4}\s+-\s+\S.*$`,
	}
}

// LoadVocabulary reads a YAML vocabulary file. Keys absent from the file
// keep their DefaultVocabulary values.
func LoadVocabulary(path string) (Vocabulary, error) {
	vocab := DefaultVocabulary()
	data, err := os.ReadFile(path)
	if err != nil {
		return vocab, err
	}
	if err := yaml.Unmarshal(data, &vocab); err != nil {
		return vocab, fmt.Errorf("%w: %s: %v", ErrInvalidVocabulary, path, err)
	}
	if _, err := vocab.compile(); err != nil {
		return vocab, err
	}
	return vocab, nil
}

// columnRole ties a canonical output column to its header patterns.
type columnRole struct {
	name    string
	pattern *regexp.Regexp
}

// matcher is a compiled Vocabulary.
type matcher struct {
	accountConcept  *regexp.Regexp
	concept         *regexp.Regexp
	ledgerAmount    *regexp.Regexp
	policyToken     *regexp.Regexp
	policyCompanion *regexp.Regexp
	policyMention   *regexp.Regexp
	policyName      *regexp.Regexp
	conceptOrDate   *regexp.Regexp
	boundary        *regexp.Regexp
	accountLabel    *regexp.Regexp

	check   *regexp.Regexp
	route   *regexp.Regexp
	invoice *regexp.Regexp
	date    *regexp.Regexp
	charges *regexp.Regexp
	credits *regexp.Regexp
	balance *regexp.Regexp

	roles   []columnRole
	summary map[string]bool
}

func alternation(fragments []string) string {
	return "(?:" + strings.Join(fragments, "|") + ")"
}

func concat(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// compile validates the vocabulary and builds its matchers.
func (v Vocabulary) compile() (*matcher, error) {
	required := map[string][]string{
		"account": v.Account, "concept": v.Concept, "policy": v.Policy,
		"date": v.Date, "charges": v.Charges, "credits": v.Credits, "balance": v.Balance,
	}
	for name, fragments := range required {
		if len(fragments) == 0 {
			return nil, fmt.Errorf("%w: %s synonyms are empty", ErrInvalidVocabulary, name)
		}
	}
	if v.AccountBoundary == "" {
		return nil, fmt.Errorf("%w: account boundary pattern is empty", ErrInvalidVocabulary)
	}

	var firstErr error
	mustCompile := func(expr string) *regexp.Regexp {
		re, err := regexp.Compile(expr)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%w: %v", ErrInvalidVocabulary, err)
		}
		return re
	}
	optional := func(fragments []string) *regexp.Regexp {
		if len(fragments) == 0 {
			return nil
		}
		return mustCompile(alternation(fragments))
	}

	amounts := concat(v.Charges, v.Credits, v.Balance)
	companions := concat(v.Concept, v.Date, amounts)

	m := &matcher{
		accountConcept:  mustCompile(alternation(v.Account) + ".*" + alternation(v.Concept)),
		concept:         mustCompile(alternation(v.Concept)),
		ledgerAmount:    mustCompile(alternation(amounts)),
		policyToken:     mustCompile(`\b` + alternation(v.Policy) + `\b`),
		policyCompanion: mustCompile(`\b` + alternation(companions) + `\b`),
		policyMention:   mustCompile(alternation(v.Policy)),
		policyName:      mustCompile(`^` + alternation(v.Policy) + `$`),
		conceptOrDate:   mustCompile(alternation(concat(v.Concept, v.Date))),
		boundary:        mustCompile(v.AccountBoundary),
		check:           optional(v.Check),
		route:           optional(v.Route),
		invoice:         optional(v.Invoice),
		date:            mustCompile(alternation(v.Date)),
		charges:         mustCompile(alternation(v.Charges)),
		credits:         mustCompile(alternation(v.Credits)),
		balance:         mustCompile(alternation(v.Balance)),
		summary:         make(map[string]bool, len(v.Summary)),
	}

	labels := []string{":"}
	for _, l := range v.AccountLabels {
		labels = append([]string{regexp.QuoteMeta(l) + `\s*:`}, labels...)
	}
	m.accountLabel = mustCompile(`(?i)^` + alternation(labels) + `\s*`)

	for _, role := range []struct {
		name      string
		fragments []string
	}{
		{domain.ColumnPolicy, v.Policy},
		{domain.ColumnConcept, v.Concept},
		{domain.ColumnCustomer, v.Customer},
		{domain.ColumnBranch, v.Branch},
		{domain.ColumnCheck, v.Check},
		{domain.ColumnRoute, v.Route},
		{domain.ColumnInvoice, v.Invoice},
		{domain.ColumnDate, v.Date},
		{domain.ColumnCharges, v.Charges},
		{domain.ColumnCredits, v.Credits},
		{domain.ColumnBalance, v.Balance},
	} {
		if len(role.fragments) == 0 {
			continue
		}
		m.roles = append(m.roles, columnRole{name: role.name, pattern: mustCompile(alternation(role.fragments))})
	}

	for _, phrase := range v.Summary {
		m.summary[foldSummary(phrase)] = true
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return m, nil
}

// cleanCell replaces non-breaking spaces and trims.
func cleanCell(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}

// fold lowercases s, strips accents and collapses whitespace.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, cleanCell(s))
	if err != nil {
		out = cleanCell(s)
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

func foldSummary(s string) string {
	return strings.TrimSpace(strings.TrimSuffix(fold(s), ":"))
}

// isSummaryPhrase reports whether the cell holds only a summary phrase.
func (m *matcher) isSummaryPhrase(cell string) bool {
	folded := foldSummary(cell)
	return folded != "" && m.summary[folded]
}

// canonicalName maps a header to its canonical column name, or returns the
// cleaned header unchanged.
func (m *matcher) canonicalName(header string) string {
	folded := fold(header)
	if m.accountConcept.MatchString(folded) {
		return cleanCell(header)
	}
	for _, role := range m.roles {
		if role.pattern.MatchString(folded) {
			return role.name
		}
	}
	return cleanCell(header)
}
