// Package v1 holds the request and response bodies of the v1 HTTP API.
package v1

import (
	"time"

	"auxreport/pkg/contracts/domain"
)

// ProcessRequest is the form part of POST /api/v1/reports/process
type ProcessRequest struct {
	Mode   string `json:"mode" validate:"omitempty,processing_mode"`
	Format string `json:"format" validate:"omitempty,oneof=json xlsx csv"`
}

// Row is one detail row. Values are aligned with ProcessResponse.Columns;
// amounts are decimal strings or null when missing.
type Row struct {
	Source string        `json:"source"`
	Line   int           `json:"line"`
	Values []interface{} `json:"values"`
}

// Totals summarizes the row counts of a run
type Totals struct {
	Files      int `json:"files"`
	Kept       int `json:"kept"`
	Dropped    int `json:"dropped"`
	Unassigned int `json:"unassigned"`
}

// ProcessResponse is the JSON result of a processing run
type ProcessResponse struct {
	RunID       string                 `json:"run_id"`
	Mode        domain.Mode            `json:"mode"`
	Columns     []string               `json:"columns"`
	Rows        []Row                  `json:"rows"`
	Totals      Totals                 `json:"totals"`
	Stats       domain.ProcessingStats `json:"stats"`
	Warnings    []string               `json:"warnings"`
	ProcessedAt time.Time              `json:"processed_at"`
}

// DetectResponse describes the layout of one uploaded file
type DetectResponse struct {
	Source      string      `json:"source"`
	Format      string      `json:"format"`
	Mode        domain.Mode `json:"mode"`
	HeaderFound bool        `json:"header_found"`
	HeaderIndex int         `json:"header_index"`
	Columns     []string    `json:"columns"`
	DataRows    int         `json:"data_rows"`
}

// NewRows converts a DetailTable into response rows
func NewRows(table domain.DetailTable) []Row {
	rows := make([]Row, 0, len(table.Rows))
	for _, r := range table.Rows {
		values := make([]interface{}, len(table.Columns))
		for j, col := range table.Columns {
			if j >= len(r.Cells) {
				continue
			}
			cell := r.Cells[j]
			if col.Kind == domain.KindAmount {
				if cell.Amount.Valid {
					values[j] = cell.Amount.Decimal.String()
				}
				continue
			}
			values[j] = cell.Text
		}
		rows = append(rows, Row{Source: r.Source, Line: r.Line, Values: values})
	}
	return rows
}
