// Package files discovers report exports on disk and reads them for
// processing.
//
// Discovery lists spreadsheet files in a directory sorted by name, which
// is the order they are merged in. Manager reads each file under the
// configured size limit and resolves where the cleaned report is written.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.DataDir)
//	inputs, err := discovery.FindSpreadsheets("exports")
//
//	manager := files.NewManager(paths, cfg.Processing.MaxFileBytes, logger)
//	data, err := manager.ReadFile(inputs[0].Path)
package files
