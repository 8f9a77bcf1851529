package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"auxreport/internal/config"
	apierrors "auxreport/internal/errors"
	"auxreport/internal/exporter"
	"auxreport/internal/services"
	"auxreport/internal/validation"
	v1 "auxreport/pkg/contracts/api/v1"
	"auxreport/pkg/contracts/domain"
)

const (
	// formFiles is the multipart field holding the uploaded spreadsheets
	formFiles = "files"

	// multipartMemory is kept in memory before parts spill to disk
	multipartMemory = 8 << 20

	formatJSON = "json"
)

// ReportHandler handles the report processing endpoints
type ReportHandler struct {
	service      ReportServiceInterface
	validator    *validation.UploadValidator
	errorHandler *apierrors.ErrorHandler
	export       config.ExportConfig
	defaultMode  domain.Mode
	logger       *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportServiceInterface, validator *validation.UploadValidator,
	errorHandler *apierrors.ErrorHandler, cfg *config.Config, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		export:       cfg.Export,
		defaultMode:  cfg.DefaultMode(),
		logger:       logger.With(slog.String("handler", "report")),
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/process", h.Process)
	r.Post("/detect", h.Detect)
	return r
}

// Process handles POST /api/v1/reports/process
func (h *ReportHandler) Process(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uploads, err := h.readUploads(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	req := v1.ProcessRequest{Mode: r.FormValue("mode"), Format: r.FormValue("format")}
	if err := h.validator.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	mode := h.defaultMode
	if req.Mode != "" {
		if mode, err = domain.ParseMode(req.Mode); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("mode", err.Error()))
			return
		}
	}

	format := req.Format
	if format == "" {
		format = h.export.DefaultFormat
	}

	result, err := h.service.Process(ctx, uploads, mode)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if format == formatJSON {
		render.JSON(w, r, result.Response())
		return
	}
	h.writeAttachment(w, r, result, format)
}

// Detect handles POST /api/v1/reports/detect. Only the first file is read.
func (h *ReportHandler) Detect(w http.ResponseWriter, r *http.Request) {
	uploads, err := h.readUploads(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.service.Detect(r.Context(), uploads[0])
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

func (h *ReportHandler) writeAttachment(w http.ResponseWriter, r *http.Request, result *services.ReportResult, name string) {
	format, err := exporter.ParseFormat(name)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
		return
	}
	writer, err := exporter.NewWriter(format, h.export)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := writer.Write(&buf, result.Table); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewStorageError("failed to build report file", err))
		return
	}

	filename := format.FileName(h.export.FileName)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Run-ID", result.RunID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to send report file",
			slog.String("file", filename),
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "Report file sent",
		slog.String("run_id", result.RunID),
		slog.String("file", filename),
		slog.Int("bytes", buf.Len()))
}

// readUploads parses the multipart body and reads every part of the files
// field in upload order
func (h *ReportHandler) readUploads(r *http.Request) ([]services.Upload, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return nil, maxBytes
		}
		return nil, apierrors.InvalidRequestWithError(err)
	}

	parts := r.MultipartForm.File[formFiles]
	if len(parts) == 0 {
		return nil, apierrors.ErrMissingFiles
	}

	uploads := make([]services.Upload, 0, len(parts))
	for _, part := range parts {
		data, err := readPart(part)
		if err != nil {
			return nil, apierrors.InvalidRequestWithError(fmt.Errorf("read %s: %w", part.Filename, err))
		}
		uploads = append(uploads, services.Upload{Name: part.Filename, Data: data})
	}
	return uploads, nil
}

func readPart(part *multipart.FileHeader) ([]byte, error) {
	f, err := part.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
