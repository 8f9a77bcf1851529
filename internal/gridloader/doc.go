// Package gridloader decodes uploaded ledger exports into header-less text
// grids.
//
// The accounting system saves reports in several containers, often with a
// misleading extension: real XLSX and XLS workbooks, HTML pages renamed to
// .xls, Excel 2003 XML (SpreadsheetML, sometimes embedded in such an HTML
// page) and plain CSV. Sniff inspects the leading bytes and returns the
// decoders to try; Decode runs them in order and records every Attempt.
// Only the first sheet or table of a file is read.
package gridloader
