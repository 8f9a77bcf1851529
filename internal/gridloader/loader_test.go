package gridloader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		want []Format
	}{
		{"zip magic", "report.xls", []byte("PK\x03\x04rest"), []Format{FormatXLSX}},
		{"cfbf magic", "report.xlsx", append(append([]byte{}, cfbfMagic...), 0, 0), []Format{FormatXLS}},
		{"html doctype", "report.xls", []byte("  <!DOCTYPE html><html></html>"), []Format{FormatHTML, FormatSpreadsheetML}},
		{"html with bom", "report.xls", []byte("\xef\xbb\xbf<HTML><body>"), []Format{FormatHTML, FormatSpreadsheetML}},
		{"bare table", "report.xls", []byte("<meta charset=utf-8><table><tr><td>1</td></tr></table>"), []Format{FormatHTML, FormatSpreadsheetML}},
		{
			"excel html namespace", "report.xls",
			[]byte(`<?xml version="1.0"?><root xmlns:x="urn:schemas-microsoft-com:office:excel">`),
			[]Format{FormatHTML, FormatSpreadsheetML},
		},
		{"spreadsheetml", "report.xml", []byte(`<?xml version="1.0"?><Workbook>`), []Format{FormatSpreadsheetML}},
		{"csv by extension", "report.CSV", []byte("a,b\n1,2\n"), []Format{FormatCSV}},
		{"unknown", "report.dat", []byte("a,b\n1,2\n"), []Format{FormatXLSX, FormatXLS, FormatCSV}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sniff(tt.file, tt.data))
		})
	}
}

func TestDecode_XLSX(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"REPORTE AUXILIAR"},
		{"Cuenta / Concepto", "Cheque", "Fecha", "Cargos"},
		{"Pago", "CHK1", 45667, 1200.5},
	})

	result, err := Decode("auxiliar.xlsx", data)
	require.NoError(t, err)

	assert.Equal(t, FormatXLSX, result.Format)
	require.Len(t, result.Attempts, 1)
	assert.NoError(t, result.Attempts[0].Err)

	grid := result.Grid
	assert.Equal(t, "auxiliar.xlsx", grid.Source)
	assert.Equal(t, 3, grid.Len())
	assert.Equal(t, 4, grid.Width())
	assert.Equal(t, []string{"REPORTE AUXILIAR", "", "", ""}, grid.Rows[0])
	assert.Equal(t, "45667", grid.Cell(2, 2))
	assert.Equal(t, "1200.5", grid.Cell(2, 3))
}

func TestDecode_HTML(t *testing.T) {
	page := "<html><head><meta http-equiv=Content-Type content=\"text/html\"></head><body>" +
		"<table>" +
		"<tr><th>Cuenta / Concepto</th><th>Tr\xe1fico</th><th>Cargos</th></tr>" +
		"<tr><td colspan=\"2\">  100-01-01-001-01-001-0001 - BANCOS </td><td></td></tr>" +
		"<tr><td>Pago&nbsp;</td><td>T-1</td><td>$1,200.00</td></tr>" +
		"</table>" +
		"<table><tr><td>second table</td></tr></table>" +
		"</body></html>"

	result, err := Decode("auxiliar.xls", []byte(page))
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, result.Format)

	grid := result.Grid
	require.Equal(t, 3, grid.Len())
	assert.Equal(t, []string{"Cuenta / Concepto", "Tráfico", "Cargos"}, grid.Rows[0])
	assert.Equal(t, []string{"100-01-01-001-01-001-0001 - BANCOS", "", ""}, grid.Rows[1])
	assert.Equal(t, []string{"Pago", "T-1", "$1,200.00"}, grid.Rows[2])
}

func TestDecode_HTMLNamespacedTable(t *testing.T) {
	page := `<html xmlns:x="urn:schemas-microsoft-com:office:excel"><body>
<x:table><x:tr><x:td>Poliza</x:td><x:td>Concepto</x:td></x:tr>
<x:tr><x:td>: 100-01</x:td><x:td></x:td></x:tr></x:table>
</body></html>`

	result, err := Decode("cuenta.xls", []byte(page))
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, result.Format)
	assert.Equal(t, [][]string{{"Poliza", "Concepto"}, {": 100-01", ""}}, result.Grid.Rows)
}

const workbookXML = `<Workbook xmlns="urn:schemas-microsoft-com:office:spreadsheet"
 xmlns:ss="urn:schemas-microsoft-com:office:spreadsheet">
 <Worksheet ss:Name="Hoja1">
  <Table>
   <Row>
    <Cell><Data ss:Type="String">Cuenta / Concepto</Data></Cell>
    <Cell ss:Index="3"><Data ss:Type="String">Cargos</Data></Cell>
   </Row>
   <Row ss:Index="3">
    <Cell><Data ss:Type="Number">10</Data></Cell>
    <Cell/>
   </Row>
  </Table>
 </Worksheet>
</Workbook>`

func TestDecode_SpreadsheetML(t *testing.T) {
	result, err := Decode("auxiliar.xml", []byte(`<?xml version="1.0"?>`+"\n"+workbookXML))
	require.NoError(t, err)
	assert.Equal(t, FormatSpreadsheetML, result.Format)

	assert.Equal(t, [][]string{
		{"Cuenta / Concepto", "", "Cargos"},
		{"", "", ""},
		{"10", "", ""},
	}, result.Grid.Rows)
}

func TestDecode_SpreadsheetMLInsideHTML(t *testing.T) {
	page := "<html><body><xml>" + workbookXML + "</xml></body></html>"

	result, err := Decode("auxiliar.xls", []byte(page))
	require.NoError(t, err)
	assert.Equal(t, FormatSpreadsheetML, result.Format)
	require.Len(t, result.Attempts, 2)
	assert.Equal(t, FormatHTML, result.Attempts[0].Format)
	assert.ErrorIs(t, result.Attempts[0].Err, ErrNoTable)
	assert.NoError(t, result.Attempts[1].Err)
	assert.Equal(t, "Cargos", result.Grid.Cell(0, 2))
}

func TestDecode_CSV(t *testing.T) {
	data := []byte("\xef\xbb\xbfCuenta / Concepto;Cargos\n\"Pago; parcial\";10\nsolo\n")

	result, err := Decode("auxiliar.csv", data)
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, result.Format)
	assert.Equal(t, [][]string{
		{"Cuenta / Concepto", "Cargos"},
		{"Pago; parcial", "10"},
		{"solo", ""},
	}, result.Grid.Rows)
}

func TestDecode_Failures(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := Decode("empty.xlsx", []byte("  \n"))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("corrupt zip", func(t *testing.T) {
		_, err := Decode("broken.xlsx", []byte("PK\x03\x04not really a zip"))
		var decodeErr *DecodeError
		require.True(t, errors.As(err, &decodeErr))
		require.Len(t, decodeErr.Attempts, 1)
		assert.Equal(t, FormatXLSX, decodeErr.Attempts[0].Format)
		assert.ErrorIs(t, err, ErrUndecodable)
		assert.Contains(t, err.Error(), "broken.xlsx")
	})

	t.Run("truncated xls", func(t *testing.T) {
		data := append(append([]byte{}, cfbfMagic...), 0, 0, 0, 0)
		assert.NotPanics(t, func() {
			_, err := Decode("broken.xls", data)
			assert.ErrorIs(t, err, ErrUndecodable)
		})
	})

	t.Run("binary without magic", func(t *testing.T) {
		_, err := Decode("blob.bin", []byte{0x01, 0x00, 0x02, 0x03})
		var decodeErr *DecodeError
		require.True(t, errors.As(err, &decodeErr))
		formats := make([]Format, len(decodeErr.Attempts))
		for i, a := range decodeErr.Attempts {
			formats[i] = a.Format
			assert.Error(t, a.Err)
		}
		assert.Equal(t, []Format{FormatXLSX, FormatXLS, FormatCSV}, formats)
	})

	t.Run("html without table", func(t *testing.T) {
		_, err := Decode("page.xls", []byte("<html><body><p>nothing here</p></body></html>"))
		assert.ErrorIs(t, err, ErrNoTable)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cuenta.xlsx")
	require.NoError(t, os.WriteFile(path, buildWorkbook(t, [][]interface{}{{"Poliza", "Concepto"}}), 0o644))

	result, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "cuenta.xlsx", result.Grid.Source)
	assert.Equal(t, FormatXLSX, result.Format)

	_, err = LoadFile(filepath.Join(dir, "missing.xlsx"))
	assert.Error(t, err)
}
