package dataprocessing

import (
	"fmt"
	"log/slog"

	"auxreport/pkg/contracts/domain"
)

var (
	defaultMatcher = mustCompileDefault()

	_ Processor = (*ReportProcessor)(nil)
)

func mustCompileDefault() *matcher {
	m, err := DefaultVocabulary().compile()
	if err != nil {
		panic(err)
	}
	return m
}

// ReportProcessor runs header location, classification, normalization and
// merging for both input layouts.
type ReportProcessor struct {
	opts   ProcessingOptions
	m      *matcher
	logger *slog.Logger
}

// NewReportProcessor compiles the vocabulary of opts.
func NewReportProcessor(opts ProcessingOptions, logger *slog.Logger) (*ReportProcessor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.HeaderScanRows <= 0 {
		opts.HeaderScanRows = DefaultHeaderScanRows
	}
	if opts.SkipLeadingRows < 0 {
		return nil, fmt.Errorf("skip leading rows must not be negative: %d", opts.SkipLeadingRows)
	}
	m, err := opts.Vocabulary.compile()
	if err != nil {
		return nil, err
	}
	return &ReportProcessor{
		opts:   opts,
		m:      m,
		logger: logger.With(slog.String("component", "report_processor")),
	}, nil
}

// LocateHeader re-bases grid on its detected header row.
func (p *ReportProcessor) LocateHeader(grid domain.RawGrid) domain.LabeledTable {
	return p.m.locateHeader(grid, p.opts.HeaderScanRows)
}

// DetectMode reports which layout grid uses.
func (p *ReportProcessor) DetectMode(grid domain.RawGrid) domain.Mode {
	return p.m.detectMode(p.LocateHeader(grid))
}

// ProcessLedger cleans a single-file ledger export. Rows before the first
// account boundary are stamped with domain.AccountNotDetected.
func (p *ReportProcessor) ProcessLedger(grid domain.RawGrid) (domain.DetailTable, domain.FileStats, error) {
	stats := domain.FileStats{Source: grid.Source, Mode: domain.ModeLedger}
	if grid.Width() == 0 {
		return domain.DetailTable{}, stats, fmt.Errorf("%w: %s", ErrNoColumns, sourceName(grid.Source))
	}

	skip := p.opts.SkipLeadingRows
	if skip > grid.Len() {
		skip = grid.Len()
	}
	trimmed := domain.RawGrid{Source: grid.Source, Rows: grid.Rows[skip:]}

	table := p.LocateHeader(trimmed)
	roles := p.m.resolveColumns(table.Columns, true)
	p.logHeader(table)

	rows := classifier{m: p.m, roles: roles}.run(NewAccountContext(), table)
	stats.HeaderFound = table.HeaderFound()
	stats.HeaderIndex = table.HeaderIndex
	stats.DataRows = len(table.Rows)

	n := normalizer{roles: roles, lineOffset: skip + table.HeaderIndex + 1}
	out := n.normalize(table, rows, &stats)
	p.logStats(stats)
	return out, stats, nil
}

// ProcessAccountFile cleans one per-account export. The account is read
// from the first data cell and that row is removed.
func (p *ReportProcessor) ProcessAccountFile(grid domain.RawGrid) (domain.DetailTable, domain.FileStats, error) {
	stats := domain.FileStats{Source: grid.Source, Mode: domain.ModePerAccount}

	table := p.m.canonicalize(p.LocateHeader(grid))
	p.logHeader(table)

	account, err := p.m.extractFixedAccount(table)
	if err != nil {
		return domain.DetailTable{}, stats, err
	}
	table.Rows = table.Rows[1:]
	stats.Account = account
	stats.HeaderFound = table.HeaderFound()
	stats.HeaderIndex = table.HeaderIndex
	stats.DataRows = len(table.Rows)

	roles := p.m.resolveColumns(table.Columns, false)
	rows := classifier{m: p.m, roles: roles}.run(FixedAccountContext(account), table)

	n := normalizer{roles: roles, lineOffset: table.HeaderIndex + 2}
	out := reorder(n.normalize(table, rows, &stats), preferredOrder)
	p.logStats(stats)
	return out, stats, nil
}

// MergeMany processes per-account files independently and concatenates
// their rows in input order. No input yields an empty table with the
// per-account columns.
func (p *ReportProcessor) MergeMany(grids []domain.RawGrid) (domain.DetailTable, domain.ProcessingStats, error) {
	var stats domain.ProcessingStats
	if len(grids) == 0 {
		return domain.NewDetailTable(PerAccountColumns()...), stats, nil
	}

	tables := make([]domain.DetailTable, 0, len(grids))
	for _, grid := range grids {
		table, fileStats, err := p.ProcessAccountFile(grid)
		if err != nil {
			return domain.DetailTable{}, stats, fmt.Errorf("process %s: %w", sourceName(grid.Source), err)
		}
		stats.Add(fileStats)
		tables = append(tables, table)
	}
	return concatTables(tables), stats, nil
}

// Process cleans the grids of one upload. ModeAuto is resolved from the
// first grid; the ledger layout only reads the first grid.
func (p *ReportProcessor) Process(grids []domain.RawGrid, mode domain.Mode) (*Result, error) {
	if mode == "" {
		mode = domain.ModeAuto
	}
	if mode == domain.ModeAuto {
		if len(grids) == 0 {
			return nil, ErrNoInput
		}
		mode = p.DetectMode(grids[0])
		p.logger.Info("Detected report layout",
			slog.String("source", grids[0].Source),
			slog.String("mode", string(mode)))
	}

	result := &Result{Mode: mode}
	switch mode {
	case domain.ModeLedger:
		if len(grids) == 0 {
			return nil, ErrNoInput
		}
		if len(grids) > 1 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("ledger layout reads only the first file; %d other file(s) ignored", len(grids)-1))
		}
		table, stats, err := p.ProcessLedger(grids[0])
		if err != nil {
			return nil, err
		}
		result.Table = table
		result.Stats.Add(stats)
	case domain.ModePerAccount:
		table, stats, err := p.MergeMany(grids)
		if err != nil {
			return nil, err
		}
		result.Table = table
		result.Stats = stats
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	if n := result.Stats.Unassigned(); n > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d row(s) appear before any account boundary and are marked %s", n, domain.AccountNotDetected))
	}
	return result, nil
}

func (p *ReportProcessor) logHeader(table domain.LabeledTable) {
	if !table.HeaderFound() {
		p.logger.Debug("No header row found, using default column names",
			slog.String("source", table.Source),
			slog.Int("columns", len(table.Columns)))
		return
	}
	p.logger.Debug("Found header row",
		slog.String("source", table.Source),
		slog.Int("row_number", table.HeaderIndex),
		slog.Any("columns", table.Columns))
}

func (p *ReportProcessor) logStats(s domain.FileStats) {
	p.logger.Info("Processed report file",
		slog.String("source", s.Source),
		slog.String("mode", string(s.Mode)),
		slog.Int("data_rows", s.DataRows),
		slog.Int("kept", s.Kept),
		slog.Int("boundaries", s.Boundaries),
		slog.Int("summaries", s.Summaries),
		slog.Int("dropped", s.Dropped()),
		slog.Int("unassigned", s.Unassigned))
}

// reorder moves the named columns to the front in the given order, keeping
// the remaining columns in their current order.
func reorder(t domain.DetailTable, order []string) domain.DetailTable {
	perm := make([]int, 0, len(t.Columns))
	placed := make([]bool, len(t.Columns))
	for _, name := range order {
		if idx := t.Index(name); idx >= 0 && !placed[idx] {
			perm = append(perm, idx)
			placed[idx] = true
		}
	}
	for i := range t.Columns {
		if !placed[i] {
			perm = append(perm, i)
		}
	}

	out := domain.DetailTable{Columns: make([]domain.Column, len(perm))}
	for i, idx := range perm {
		out.Columns[i] = t.Columns[idx]
	}
	out.Rows = make([]domain.DetailRow, len(t.Rows))
	for r, row := range t.Rows {
		cells := make([]domain.Cell, len(perm))
		for i, idx := range perm {
			cells[i] = row.Cells[idx]
		}
		out.Rows[r] = domain.DetailRow{Source: row.Source, Line: row.Line, Cells: cells}
	}
	return out
}

// concatTables stacks tables whose column sets may differ. The result holds
// the union of columns in first-seen order; absent cells are empty.
func concatTables(tables []domain.DetailTable) domain.DetailTable {
	var merged domain.DetailTable
	index := make(map[string]int)
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := index[c.Name]; ok {
				continue
			}
			index[c.Name] = len(merged.Columns)
			merged.Columns = append(merged.Columns, c)
		}
	}

	for _, t := range tables {
		for _, row := range t.Rows {
			cells := make([]domain.Cell, len(merged.Columns))
			for i, c := range t.Columns {
				cells[index[c.Name]] = row.Cells[i]
			}
			merged.Rows = append(merged.Rows, domain.DetailRow{Source: row.Source, Line: row.Line, Cells: cells})
		}
	}
	return reorder(merged, preferredOrder)
}

// MergeMany merges per-account grids with the default options.
func MergeMany(grids []domain.RawGrid) (domain.DetailTable, error) {
	p, err := NewReportProcessor(DefaultOptions(), nil)
	if err != nil {
		return domain.DetailTable{}, err
	}
	table, _, err := p.MergeMany(grids)
	return table, err
}
