package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"auxreport/internal/config"
	"auxreport/internal/dataprocessing"
	apierrors "auxreport/internal/errors"
	"auxreport/internal/services"
	"auxreport/internal/shared/testutil"
	"auxreport/internal/validation"
	v1 "auxreport/pkg/contracts/api/v1"
	"auxreport/pkg/contracts/domain"
)

type part struct {
	name string
	data []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...part) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func newTestReportHandler(t *testing.T) *ReportHandler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	cfg := config.Default()

	processor, err := dataprocessing.NewReportProcessor(dataprocessing.DefaultOptions(), logger)
	require.NoError(t, err)
	validator := validation.NewUploadValidator(validation.Limits{MaxFiles: 4, MaxFileBytes: 1 << 20}, logger)
	service := services.NewReportService(processor, validator, nil, nil, logger)

	return NewReportHandler(service, validator, apierrors.NewErrorHandler(logger, false), cfg, logger)
}

func post(t *testing.T, h http.Handler, path string, fields map[string]string, files ...part) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, files...)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func ledgerPart(t *testing.T) part {
	return part{name: "auxiliar.csv", data: testutil.CSVBytes(t, testutil.LedgerRows())}
}

func TestReportHandler_ProcessJSON(t *testing.T) {
	h := newTestReportHandler(t).Routes()

	rec := post(t, h, "/process", map[string]string{"format": "json"}, ledgerPart(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp v1.ProcessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ModeLedger, resp.Mode)
	assert.Equal(t, 3, resp.Totals.Kept)
	require.Len(t, resp.Rows, 3)
	assert.Equal(t, testutil.BankAccount, resp.Rows[0].Values[0])
	assert.Equal(t, "auxiliar.csv", resp.Rows[0].Source)
	assert.Equal(t, domain.ColumnAccount, resp.Columns[0])

	charges := -1
	for i, c := range resp.Columns {
		if c == "Cargos" {
			charges = i
		}
	}
	require.GreaterOrEqual(t, charges, 0)
	assert.Equal(t, "1000", resp.Rows[0].Values[charges])
	assert.Nil(t, resp.Rows[1].Values[charges], "missing amounts are null")
}

func TestReportHandler_ProcessPerAccountOrder(t *testing.T) {
	h := newTestReportHandler(t).Routes()

	rec := post(t, h, "/process", map[string]string{"format": "json", "mode": "per_account"},
		part{name: "b.csv", data: testutil.CSVBytes(t, testutil.PerAccountRows("B2", "Cobro", "20"))},
		part{name: "a.csv", data: testutil.CSVBytes(t, testutil.PerAccountRows("A1", "Pago", "10"))},
	)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp v1.ProcessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "b.csv", resp.Rows[0].Source, "upload order is kept")
	assert.Equal(t, "B2", resp.Rows[0].Values[0])
	assert.Equal(t, "A1", resp.Rows[1].Values[0])
	assert.Equal(t, 2, resp.Totals.Files)
}

func TestReportHandler_ProcessAttachments(t *testing.T) {
	h := newTestReportHandler(t).Routes()

	t.Run("xlsx by default", func(t *testing.T) {
		rec := post(t, h, "/process", nil, ledgerPart(t))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, `attachment; filename="Reporte_procesado.xlsx"`, rec.Header().Get("Content-Disposition"))
		assert.NotEmpty(t, rec.Header().Get("X-Run-ID"))

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("REPORTE")
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, domain.ColumnAccount, rows[0][0])
		assert.Equal(t, testutil.SupplierAccount, rows[3][0])
	})

	t.Run("csv", func(t *testing.T) {
		rec := post(t, h, "/process", map[string]string{"format": "csv"}, ledgerPart(t))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, `attachment; filename="Reporte_procesado.csv"`, rec.Header().Get("Content-Disposition"))
		assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))

		body := strings.TrimPrefix(rec.Body.String(), "\ufeff")
		lines := strings.Split(strings.TrimSpace(body), "\n")
		assert.Len(t, lines, 4)
		assert.True(t, strings.HasPrefix(lines[0], "Account,"))
	})
}

func TestReportHandler_ProcessErrors(t *testing.T) {
	h := newTestReportHandler(t).Routes()

	tests := []struct {
		name   string
		fields map[string]string
		files  []part
		status int
		typ    string
	}{
		{"no files", nil, nil, http.StatusBadRequest, apierrors.TypeValidation},
		{"bad mode", map[string]string{"mode": "star9"}, []part{ledgerPart(t)}, http.StatusBadRequest, apierrors.TypeValidation},
		{"bad format", map[string]string{"format": "pdf"}, []part{ledgerPart(t)}, http.StatusBadRequest, apierrors.TypeValidation},
		{"bad extension", nil, []part{{name: "notes.pdf", data: []byte("x")}}, http.StatusBadRequest, apierrors.TypeValidation},
		{"empty file", nil, []part{{name: "vacio.xlsx", data: []byte(" ")}}, http.StatusUnprocessableEntity, apierrors.TypeUnreadableFile},
		{
			"missing account",
			map[string]string{"mode": "per_account"},
			[]part{{name: "x.csv", data: testutil.CSVBytes(t, [][]string{{"Poliza", "Concepto", "Fecha", "Cargos"}, {"", "Pago", "10/01/2025", "10"}})}},
			http.StatusUnprocessableEntity,
			apierrors.TypeAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, "/process", tt.fields, tt.files...)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var problem map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, tt.typ, problem["type"])
			assert.Equal(t, "/process", problem["instance"])
		})
	}

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReportHandler_Detect(t *testing.T) {
	h := newTestReportHandler(t).Routes()

	rec := post(t, h, "/detect", nil,
		part{name: "bancos.xlsx", data: testutil.XLSXBytes(t, testutil.PerAccountRows("A1", "Pago", "1"))},
		ledgerPart(t),
	)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp v1.DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bancos.xlsx", resp.Source)
	assert.Equal(t, domain.ModePerAccount, resp.Mode)
	assert.True(t, resp.HeaderFound)
	assert.Equal(t, "Poliza", resp.Columns[0])

	rec = post(t, h, "/detect", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
