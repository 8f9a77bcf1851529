package config

import "time"

// Application constants
const (
	AppName     = "Auxiliary Report Cleaner"
	ServiceName = "auxreport"

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultReportsDir = "data/reports"

	// Export defaults
	DefaultSheetName      = "REPORTE"
	DefaultExportFileName = "Reporte_procesado"

	// Network Timeouts
	DefaultHTTPTimeout = 30 * time.Second
	ReadinessTimeout   = 2 * time.Second

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// API Endpoints (internal)
	APIBasePath     = "/api/v1"
	ReportsEndpoint = "/api/v1/reports"
	HealthEndpoint  = "/api/health"
	MetricsEndpoint = "/metrics"
)
