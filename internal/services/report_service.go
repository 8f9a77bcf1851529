package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"auxreport/internal/dataprocessing"
	"auxreport/internal/gridloader"
	"auxreport/internal/infrastructure"
	"auxreport/internal/validation"
	v1 "auxreport/pkg/contracts/api/v1"
	"auxreport/pkg/contracts/domain"
)

// Upload is one file of a processing request, in upload order
type Upload struct {
	Name string
	Data []byte
}

// DecodedFile records which decoder read an upload
type DecodedFile struct {
	Source   string
	Format   gridloader.Format
	Rows     int
	Attempts int
}

// ReportResult is the outcome of ReportService.Process
type ReportResult struct {
	RunID    string
	Files    []DecodedFile
	Duration time.Duration
	*dataprocessing.Result
}

// Response converts the result into the JSON body of the v1 API
func (r *ReportResult) Response() v1.ProcessResponse {
	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return v1.ProcessResponse{
		RunID:   r.RunID,
		Mode:    r.Mode,
		Columns: r.Table.ColumnNames(),
		Rows:    v1.NewRows(r.Table),
		Totals: v1.Totals{
			Files:      len(r.Files),
			Kept:       r.Stats.Kept(),
			Dropped:    r.Stats.Dropped(),
			Unassigned: r.Stats.Unassigned(),
		},
		Stats:       r.Stats,
		Warnings:    warnings,
		ProcessedAt: time.Now().UTC(),
	}
}

// ReportService decodes uploads and runs the cleaning pipeline
type ReportService struct {
	processor *dataprocessing.ReportProcessor
	validator *validation.UploadValidator
	metrics   *infrastructure.ReportMetrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewReportService wires the service. metrics and tracer may be nil.
func NewReportService(processor *dataprocessing.ReportProcessor, validator *validation.UploadValidator,
	metrics *infrastructure.ReportMetrics, tracer trace.Tracer, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("auxreport")
	}
	return &ReportService{
		processor: processor,
		validator: validator,
		metrics:   metrics,
		tracer:    tracer,
		logger:    logger.With(slog.String("component", "report_service")),
	}
}

// Process validates and decodes uploads in order, then cleans them with mode
func (s *ReportService) Process(ctx context.Context, uploads []Upload, mode domain.Mode) (*ReportResult, error) {
	runID := uuid.New().String()
	ctx, span := s.tracer.Start(ctx, "report.process",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("mode", string(mode)),
			attribute.Int("files", len(uploads)),
		))
	defer span.End()

	start := time.Now()
	result, err := s.process(ctx, runID, uploads, mode)
	duration := time.Since(start)

	resolved := string(mode)
	if result != nil {
		result.Duration = duration
		resolved = string(result.Mode)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.RecordRun(ctx, resolved, len(uploads), 0, 0, nil, duration, err)
		s.logger.WarnContext(ctx, "Report processing failed",
			slog.String("run_id", runID),
			slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("mode.resolved", resolved),
		attribute.Int("rows.kept", result.Stats.Kept()),
	)
	s.metrics.RecordRun(ctx, resolved, len(result.Files), result.Stats.Kept(), result.Stats.Unassigned(),
		droppedByReason(result.Stats), duration, nil)

	s.logger.InfoContext(ctx, "Report processed",
		slog.String("run_id", runID),
		slog.String("mode", resolved),
		slog.Int("files", len(result.Files)),
		slog.Int("rows", result.Stats.Kept()),
		slog.Int("dropped", result.Stats.Dropped()),
		slog.Duration("duration", duration))

	return result, nil
}

func (s *ReportService) process(ctx context.Context, runID string, uploads []Upload, mode domain.Mode) (*ReportResult, error) {
	if s.validator == nil && len(uploads) == 0 {
		return nil, ErrNoUploads
	}
	if s.validator != nil {
		headers := make([]validation.FileHeader, len(uploads))
		for i, u := range uploads {
			headers[i] = validation.FileHeader{Name: u.Name, Size: int64(len(u.Data))}
		}
		if err := s.validator.ValidateFiles(headers); err != nil {
			return nil, err
		}
	}

	grids := make([]domain.RawGrid, 0, len(uploads))
	decoded := make([]DecodedFile, 0, len(uploads))
	for _, u := range uploads {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := gridloader.Decode(u.Name, u.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", u.Name, err)
		}
		s.logger.DebugContext(ctx, "Decoded upload",
			slog.String("source", u.Name),
			slog.String("format", string(res.Format)),
			slog.Int("rows", res.Grid.Len()))

		grids = append(grids, res.Grid)
		decoded = append(decoded, DecodedFile{
			Source:   u.Name,
			Format:   res.Format,
			Rows:     res.Grid.Len(),
			Attempts: len(res.Attempts),
		})
	}

	result, err := s.processor.Process(grids, mode)
	if err != nil {
		return nil, err
	}
	return &ReportResult{RunID: runID, Files: decoded, Result: result}, nil
}

// Detect reports the layout of one upload without cleaning it
func (s *ReportService) Detect(ctx context.Context, upload Upload) (v1.DetectResponse, error) {
	_, span := s.tracer.Start(ctx, "report.detect", trace.WithAttributes(attribute.String("source", upload.Name)))
	defer span.End()

	if s.validator != nil {
		if err := s.validator.ValidateFiles([]validation.FileHeader{{Name: upload.Name, Size: int64(len(upload.Data))}}); err != nil {
			return v1.DetectResponse{}, err
		}
	}

	res, err := gridloader.Decode(upload.Name, upload.Data)
	if err != nil {
		span.RecordError(err)
		return v1.DetectResponse{}, fmt.Errorf("failed to decode %s: %w", upload.Name, err)
	}

	table := s.processor.LocateHeader(res.Grid)
	return v1.DetectResponse{
		Source:      upload.Name,
		Format:      string(res.Format),
		Mode:        s.processor.DetectMode(res.Grid),
		HeaderFound: table.HeaderFound(),
		HeaderIndex: table.HeaderIndex,
		Columns:     table.Columns,
		DataRows:    len(table.Rows),
	}, nil
}

func droppedByReason(stats domain.ProcessingStats) infrastructure.DroppedRows {
	d := infrastructure.DroppedRows{}
	for _, f := range stats.Files {
		d["boundary"] += f.Boundaries
		d["summary"] += f.Summaries
		d["zero_amount"] += f.ZeroAmount
		d["empty_concept"] += f.EmptyConcept
		d["blank"] += f.Blank
	}
	return d
}
