package validation

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "auxreport/internal/errors"
	"auxreport/internal/files"
	"auxreport/pkg/contracts/domain"
)

// FileHeader is the metadata of one uploaded file
type FileHeader struct {
	Name string `json:"name" validate:"required,max=255,filename,spreadsheet_ext"`
	Size int64  `json:"size" validate:"gte=0"`
}

// Limits bounds one upload
type Limits struct {
	MaxFiles     int
	MaxFileBytes int64
}

// UploadValidator validates request forms and uploaded file metadata
type UploadValidator struct {
	validate *validator.Validate
	limits   Limits
	logger   *slog.Logger
}

// NewUploadValidator creates a validator with the custom tags registered
func NewUploadValidator(limits Limits, logger *slog.Logger) *UploadValidator {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("filename", isValidFilename)
	v.RegisterValidation("spreadsheet_ext", isSpreadsheet)
	v.RegisterValidation("processing_mode", isProcessingMode)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &UploadValidator{
		validate: v,
		limits:   limits,
		logger:   logger.With(slog.String("component", "upload_validator")),
	}
}

// Struct validates s against its validate tags
func (v *UploadValidator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateFiles checks the file count, every file name and every size
func (v *UploadValidator) ValidateFiles(headers []FileHeader) error {
	if len(headers) == 0 {
		return apierrors.ErrMissingFiles
	}
	if v.limits.MaxFiles > 0 && len(headers) > v.limits.MaxFiles {
		v.logger.Warn("Too many files in upload",
			slog.Int("files", len(headers)),
			slog.Int("max_files", v.limits.MaxFiles))
		return apierrors.NewAppValidationError(
			fmt.Sprintf("%d files uploaded, at most %d allowed", len(headers), v.limits.MaxFiles), nil).
			WithContext("max_files", v.limits.MaxFiles)
	}

	for _, h := range headers {
		if err := v.validate.Struct(h); err != nil {
			v.logger.Warn("Rejected upload file",
				slog.String("file", h.Name),
				slog.String("error", err.Error()))
			return err
		}
		if v.limits.MaxFileBytes > 0 && h.Size > v.limits.MaxFileBytes {
			return apierrors.NewTooLargeError(
				fmt.Sprintf("%s is %d bytes, above the %d byte limit", h.Name, h.Size, v.limits.MaxFileBytes), nil).
				WithContext("max_file_bytes", v.limits.MaxFileBytes)
		}
	}
	return nil
}

// isValidFilename rejects empty names and anything carrying a directory
func isValidFilename(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return false
	}
	return filepath.Base(name) == name
}

func isSpreadsheet(fl validator.FieldLevel) bool {
	return files.IsSpreadsheet(fl.Field().String())
}

func isProcessingMode(fl validator.FieldLevel) bool {
	_, err := domain.ParseMode(fl.Field().String())
	return err == nil
}
