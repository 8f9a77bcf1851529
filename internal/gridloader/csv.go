package gridloader

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// csvDelimiters are the separators recognized in the first line.
var csvDelimiters = []rune{',', ';', '\t'}

func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, count := ',', 0
	for _, d := range csvDelimiters {
		if n := bytes.Count(line, []byte(string(d))); n > count {
			best, count = d, n
		}
	}
	return best
}

// decodeCSV reads delimited text. Rows may differ in length.
func decodeCSV(data []byte) ([][]string, error) {
	text := toUTF8(data)
	if bytes.IndexByte(text, 0) >= 0 {
		return nil, fmt.Errorf("binary content is not delimited text")
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = sniffDelimiter(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}
