package gridloader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"auxreport/pkg/contracts/domain"
)

// Format names one spreadsheet container.
type Format string

const (
	FormatXLSX          Format = "xlsx"
	FormatXLS           Format = "xls"
	FormatHTML          Format = "html"
	FormatSpreadsheetML Format = "spreadsheetml"
	FormatCSV           Format = "csv"
)

// Loader errors
var (
	ErrEmptyFile   = errors.New("file is empty")
	ErrNoTable     = errors.New("no usable table found")
	ErrUndecodable = errors.New("file could not be decoded as a spreadsheet")
)

var (
	zipMagic  = []byte("PK")
	cfbfMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	utf8BOM   = []byte{0xEF, 0xBB, 0xBF}

	spreadsheetNS = []byte("urn:schemas-microsoft-com:office:spreadsheet")
	excelHTMLNS   = []byte(`xmlns:x="urn:schemas-microsoft-com:office:excel"`)
)

// sniffWindow is how many leading bytes are inspected.
const sniffWindow = 4096

// Attempt records the outcome of one decoder tried on a file.
type Attempt struct {
	Format Format
	Err    error
}

// Result is a decoded grid plus the decoders tried to get it. The last
// attempt is the successful one.
type Result struct {
	Grid     domain.RawGrid
	Format   Format
	Attempts []Attempt
}

// DecodeError is returned when every candidate decoder failed.
type DecodeError struct {
	Source   string
	Attempts []Attempt
}

func (e *DecodeError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s: %v", a.Format, a.Err)
	}
	return fmt.Sprintf("%s: %v (%s)", e.Source, ErrUndecodable, strings.Join(parts, "; "))
}

// Unwrap exposes ErrUndecodable and every attempt error to errors.Is.
func (e *DecodeError) Unwrap() []error {
	errs := []error{ErrUndecodable}
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}

type decodeFunc func(data []byte) ([][]string, error)

var decoders = map[Format]decodeFunc{
	FormatXLSX:          decodeXLSX,
	FormatXLS:           decodeXLS,
	FormatHTML:          decodeHTML,
	FormatSpreadsheetML: decodeSpreadsheetML,
	FormatCSV:           decodeCSV,
}

// Sniff returns the decoders to try for a file, most likely first. The
// content decides; the file name only matters for text without markup.
func Sniff(name string, data []byte) []Format {
	head := data
	if len(head) > sniffWindow {
		head = head[:sniffWindow]
	}

	switch {
	case bytes.HasPrefix(head, zipMagic):
		return []Format{FormatXLSX}
	case bytes.HasPrefix(head, cfbfMagic):
		return []Format{FormatXLS}
	case isHTML(head):
		return []Format{FormatHTML, FormatSpreadsheetML}
	case bytes.Contains(head, []byte("<Workbook")) || bytes.Contains(head, spreadsheetNS):
		return []Format{FormatSpreadsheetML}
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", ".tsv":
		return []Format{FormatCSV}
	}
	return []Format{FormatXLSX, FormatXLS, FormatCSV}
}

func isHTML(head []byte) bool {
	lower := bytes.ToLower(bytes.TrimLeft(bytes.TrimPrefix(head, utf8BOM), " \t\r\n"))
	if bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.HasPrefix(lower, []byte("<html")) {
		return true
	}
	window := lower
	if len(window) > 1024 {
		window = window[:1024]
	}
	return bytes.Contains(window, []byte("<table")) || bytes.Contains(head, excelHTMLNS)
}

// Decode turns the bytes of one uploaded file into a RawGrid. Candidate
// decoders from Sniff are tried in order and the first success wins.
func Decode(name string, data []byte) (Result, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Result{}, fmt.Errorf("%s: %w", name, ErrEmptyFile)
	}

	var attempts []Attempt
	for _, format := range Sniff(name, data) {
		rows, err := decoders[format](data)
		if err == nil && len(rows) == 0 {
			err = ErrNoTable
		}
		attempts = append(attempts, Attempt{Format: format, Err: err})
		if err != nil {
			continue
		}
		return Result{
			Grid:     domain.NewRawGrid(name, rows),
			Format:   format,
			Attempts: attempts,
		}, nil
	}
	return Result{}, &DecodeError{Source: name, Attempts: attempts}
}

// LoadFile reads and decodes the file at path. The grid source is the
// base name of path.
func LoadFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(filepath.Base(path), data)
}

// trimTrailingEmpty drops empty cells at the end of a row.
func trimTrailingEmpty(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	return row[:end]
}
