package gridloader

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
)

// xlsCharset is used for 8-bit strings of pre-BIFF8 workbooks.
const xlsCharset = "cp1252"

// decodeXLS reads the first sheet of a legacy binary workbook. The decoder
// panics on some malformed files; those become errors.
func decodeXLS(data []byte) (rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("malformed xls workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), xlsCharset)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, ErrNoTable
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrNoTable
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for c := 0; c <= row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, trimTrailingEmpty(cells))
	}

	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows, nil
}
