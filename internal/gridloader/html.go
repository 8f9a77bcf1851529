package gridloader

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/charmap"
)

// maxColspan bounds the empty cells inserted for one spanning cell.
const maxColspan = 256

// toUTF8 strips a byte order mark and decodes Windows-1252 when data is not
// valid UTF-8. Legacy exports from Windows desktops write that code page.
func toUTF8(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return data
	}
	return decoded
}

// hasName reports whether the node name of s is one of names, with or
// without a namespace prefix ("x:table").
func hasName(s *goquery.Selection, names ...string) bool {
	n := strings.ToLower(goquery.NodeName(s))
	for _, name := range names {
		if n == name || strings.HasSuffix(n, ":"+name) {
			return true
		}
	}
	return false
}

func findByName(s *goquery.Selection, names ...string) *goquery.Selection {
	return s.Find("*").FilterFunction(func(_ int, el *goquery.Selection) bool {
		return hasName(el, names...)
	})
}

// decodeHTML reads the first table of an HTML page saved with a spreadsheet
// extension. Cells spanning several columns are followed by empty cells so
// that columns stay aligned.
func decodeHTML(data []byte) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(toUTF8(data)))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := findByName(doc.Selection, "table").First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	var rows [][]string
	findByName(table, "tr").Each(func(_ int, tr *goquery.Selection) {
		// Rows of nested tables belong to their own table.
		if tr.ParentsFiltered("*").FilterFunction(func(_ int, p *goquery.Selection) bool {
			return hasName(p, "table")
		}).First().Get(0) != table.Get(0) {
			return
		}

		var cells []string
		tr.Children().Each(func(_ int, td *goquery.Selection) {
			if !hasName(td, "td", "th") {
				return
			}
			cells = append(cells, strings.TrimSpace(td.Text()))
			for i := 1; i < colspan(td); i++ {
				cells = append(cells, "")
			}
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})

	if len(rows) == 0 {
		return nil, ErrNoTable
	}
	return rows, nil
}

func colspan(td *goquery.Selection) int {
	v, ok := td.Attr("colspan")
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	if n > maxColspan {
		return maxColspan
	}
	return n
}
