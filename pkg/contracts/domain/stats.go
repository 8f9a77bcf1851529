package domain

// FileStats counts what happened to the rows of one input file.
type FileStats struct {
	Source       string `json:"source"`
	Mode         Mode   `json:"mode"`
	HeaderFound  bool   `json:"header_found"`
	HeaderIndex  int    `json:"header_index"`
	DataRows     int    `json:"data_rows"`
	Boundaries   int    `json:"boundaries"`
	Summaries    int    `json:"summaries"`
	ZeroAmount   int    `json:"zero_amount"`
	EmptyConcept int    `json:"empty_concept"`
	Blank        int    `json:"blank"`
	Unassigned   int    `json:"unassigned"`
	BadDates     int    `json:"bad_dates"`
	BadAmounts   int    `json:"bad_amounts"`
	Kept         int    `json:"kept"`
	Account      string `json:"account,omitempty"`
}

// Dropped returns the number of data rows that did not reach the output.
func (s FileStats) Dropped() int {
	return s.Boundaries + s.Summaries + s.ZeroAmount + s.EmptyConcept + s.Blank
}

// ProcessingStats aggregates FileStats over one run.
type ProcessingStats struct {
	Files []FileStats `json:"files"`
}

// Add appends the stats of one file.
func (p *ProcessingStats) Add(s FileStats) {
	p.Files = append(p.Files, s)
}

// Kept returns the total number of detail rows kept.
func (p ProcessingStats) Kept() int {
	n := 0
	for _, f := range p.Files {
		n += f.Kept
	}
	return n
}

// Unassigned returns the number of kept rows stamped with AccountNotDetected.
func (p ProcessingStats) Unassigned() int {
	n := 0
	for _, f := range p.Files {
		n += f.Unassigned
	}
	return n
}

// Dropped returns the number of data rows removed across all files.
func (p ProcessingStats) Dropped() int {
	n := 0
	for _, f := range p.Files {
		n += f.Dropped()
	}
	return n
}
