package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"auxreport/internal/config"
	"auxreport/pkg/contracts/domain"
)

// Writer serializes a DetailTable
type Writer interface {
	Format() Format
	Write(w io.Writer, table domain.DetailTable) error
}

// NewWriter returns the writer for format configured from cfg
func NewWriter(format Format, cfg config.ExportConfig) (Writer, error) {
	switch format {
	case FormatXLSX:
		return NewXLSXWriter(cfg.SheetName), nil
	case FormatCSV:
		return NewCSVWriter(cfg.CSVBOM), nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// WriteFile writes table to path, creating parent directories as needed
func WriteFile(path string, table domain.DetailTable, w Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := w.Write(file, table); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	logger.Info("Writing report file",
		slog.String("path", path),
		slog.String("format", string(w.Format())),
		slog.Int("rows", table.Len()))
	return nil
}
