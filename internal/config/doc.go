// Package config provides centralized configuration management for the
// auxiliary report cleaner. It loads configuration from multiple sources,
// validates it, and exposes a typed API to the server and the CLI.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (config.yaml, configs/config.yaml or AUXR_CONFIG_FILE)
//	3. Default values from struct tags (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern AUXR_<SECTION>_<FIELD>:
//
//	AUXR_SERVER_PORT=8080
//	AUXR_LOGGING_LEVEL=debug
//	AUXR_PROCESSING_SKIP_LEADING_ROWS=1
//	AUXR_PROCESSING_VOCABULARY_FILE=/etc/auxreport/vocabulary.yaml
//	AUXR_EXPORT_SHEET_NAME=REPORTE
//	AUXR_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Path Management
//
// Paths resolves data, report and log directories relative to the
// executable location:
//
//	paths, err := config.ResolvePaths(cfg.Paths)
//	out := paths.GetReportPath("Reporte_procesado.xlsx")
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts, err := cfg.ProcessingOptions()
package config
