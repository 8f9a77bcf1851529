package http

import (
	"context"

	"auxreport/internal/services"
	v1 "auxreport/pkg/contracts/api/v1"
	"auxreport/pkg/contracts/domain"
)

// ReportServiceInterface is the part of services.ReportService the report
// handler depends on
type ReportServiceInterface interface {
	Process(ctx context.Context, uploads []services.Upload, mode domain.Mode) (*services.ReportResult, error)
	Detect(ctx context.Context, upload services.Upload) (v1.DetectResponse, error)
}

var _ ReportServiceInterface = (*services.ReportService)(nil)
