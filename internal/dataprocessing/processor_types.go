package dataprocessing

import (
	"auxreport/pkg/contracts/domain"
)

// Processor defines the interface for ledger report processing
type Processor interface {
	// Process cleans the decoded grids of one upload, in upload order
	Process(grids []domain.RawGrid, mode domain.Mode) (*Result, error)
}

// ProcessingOptions configures processing behavior
type ProcessingOptions struct {
	// HeaderScanRows is how many leading rows are searched for a header
	HeaderScanRows int `yaml:"header_scan_rows"`

	// SkipLeadingRows drops banner rows from ledger-layout grids before the
	// header search
	SkipLeadingRows int `yaml:"skip_leading_rows"`

	// Vocabulary holds the recognized header synonyms and summary phrases
	Vocabulary Vocabulary `yaml:"vocabulary"`
}

// DefaultOptions returns default processing options
func DefaultOptions() ProcessingOptions {
	return ProcessingOptions{
		HeaderScanRows:  DefaultHeaderScanRows,
		SkipLeadingRows: 0,
		Vocabulary:      DefaultVocabulary(),
	}
}

// Result is the outcome of one processing run
type Result struct {
	Mode     domain.Mode
	Table    domain.DetailTable
	Stats    domain.ProcessingStats
	Warnings []string
}
