package gridloader

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
)

// Excel 2003 XML workbook. Element and attribute names are matched on their
// local part, so both the default namespace and an "ss:" prefix decode.
type ssWorkbook struct {
	Worksheets []ssWorksheet `xml:"Worksheet"`
}

type ssWorksheet struct {
	Tables []ssTable `xml:"Table"`
}

type ssTable struct {
	Rows []ssRow `xml:"Row"`
}

type ssRow struct {
	Index int      `xml:"Index,attr"`
	Cells []ssCell `xml:"Cell"`
}

type ssCell struct {
	Index int     `xml:"Index,attr"`
	Data  *ssData `xml:"Data"`
}

type ssData struct {
	Text string `xml:",chardata"`
}

// workbookIsland returns the span of data holding the <Workbook> element,
// which HTML exports embed inside an <xml> block, sometimes escaped.
func workbookIsland(data []byte) ([]byte, bool) {
	if island, ok := findWorkbook(data); ok {
		return island, true
	}
	if bytes.Contains(data, []byte("&lt;Workbook")) || bytes.Contains(data, []byte("&lt;ss:Workbook")) {
		return findWorkbook([]byte(html.UnescapeString(string(data))))
	}
	return nil, false
}

func findWorkbook(data []byte) ([]byte, bool) {
	start := -1
	for _, open := range [][]byte{[]byte("<Workbook"), []byte("<ss:Workbook")} {
		if i := bytes.Index(data, open); i >= 0 && (start < 0 || i < start) {
			start = i
		}
	}
	if start < 0 {
		return nil, false
	}
	end := bytes.LastIndex(data, []byte("Workbook>"))
	if end < start {
		return data[start:], true
	}
	return data[start : end+len("Workbook>")], true
}

// decodeSpreadsheetML reads the first table of the first worksheet.
// ss:Index attributes skip columns (and rows); the gaps become empty cells.
func decodeSpreadsheetML(data []byte) ([][]string, error) {
	island, ok := workbookIsland(data)
	if !ok {
		return nil, fmt.Errorf("%w: no Workbook element", ErrNoTable)
	}

	// The XML declaration is cut off with the island, so the text is
	// decoded up front.
	dec := xml.NewDecoder(bytes.NewReader(toUTF8(island)))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	var wb ssWorkbook
	if err := dec.Decode(&wb); err != nil {
		return nil, fmt.Errorf("parse spreadsheetml: %w", err)
	}

	var table *ssTable
	for i := range wb.Worksheets {
		if len(wb.Worksheets[i].Tables) > 0 {
			table = &wb.Worksheets[i].Tables[0]
			break
		}
	}
	if table == nil {
		return nil, fmt.Errorf("%w: no Worksheet/Table", ErrNoTable)
	}

	var rows [][]string
	for _, r := range table.Rows {
		// ss:Index is 1-based
		for r.Index > 0 && len(rows) < r.Index-1 {
			rows = append(rows, nil)
		}
		var cells []string
		for _, c := range r.Cells {
			for c.Index > 0 && len(cells) < c.Index-1 {
				cells = append(cells, "")
			}
			value := ""
			if c.Data != nil {
				value = c.Data.Text
			}
			cells = append(cells, value)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
