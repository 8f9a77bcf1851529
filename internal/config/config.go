package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"auxreport/internal/dataprocessing"
	"auxreport/pkg/contracts/domain"
)

// envPrefix namespaces all environment variables (AUXR_SERVER_PORT, ...).
const envPrefix = "AUXR"

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" envconfig:"SERVER"`
	Security   SecurityConfig   `yaml:"security" envconfig:"SECURITY"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
	Export     ExportConfig     `yaml:"export" envconfig:"EXPORT"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"2m"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"20"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"40"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/auxreport.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains file system paths configuration, relative to the
// executable directory unless absolute
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// ProcessingConfig controls how uploaded ledger exports are cleaned
type ProcessingConfig struct {
	HeaderScanRows  int    `yaml:"header_scan_rows" envconfig:"HEADER_SCAN_ROWS" default:"12"`
	SkipLeadingRows int    `yaml:"skip_leading_rows" envconfig:"SKIP_LEADING_ROWS" default:"0"`
	DefaultMode     string `yaml:"default_mode" envconfig:"DEFAULT_MODE" default:"auto"`
	MaxUploadBytes  int64  `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`
	MaxFileBytes    int64  `yaml:"max_file_bytes" envconfig:"MAX_FILE_BYTES" default:"16777216"`
	MaxFiles        int    `yaml:"max_files" envconfig:"MAX_FILES" default:"50"`
	// VocabularyFile optionally replaces the built-in header synonyms and
	// summary phrases with a YAML file
	VocabularyFile string `yaml:"vocabulary_file" envconfig:"VOCABULARY_FILE"`
}

// ExportConfig controls the cleaned report download
type ExportConfig struct {
	SheetName     string `yaml:"sheet_name" envconfig:"SHEET_NAME" default:"REPORTE"`
	FileName      string `yaml:"file_name" envconfig:"FILE_NAME" default:"Reporte_procesado"`
	DefaultFormat string `yaml:"default_format" envconfig:"DEFAULT_FORMAT" default:"xlsx"`
	CSVBOM        bool   `yaml:"csv_bom" envconfig:"CSV_BOM" default:"true"`
}

// TelemetryConfig selects the OpenTelemetry exporters
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"auxreport"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration with the YAML file at path ("" for none).
// Precedence: environment, then file, then defaults.
func LoadFrom(path string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path != "" {
		fileConfig, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs copies every non-zero file value into the env config unless
// the matching environment variable is set.
func mergeConfigs(fileConfig, envConfig Config) Config {
	mergeStruct(reflect.ValueOf(&envConfig).Elem(), reflect.ValueOf(fileConfig), envPrefix)
	return envConfig
}

func mergeStruct(dst, src reflect.Value, prefix string) {
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key := prefix + "_" + field.Tag.Get("envconfig")
		d, s := dst.Field(i), src.Field(i)

		if field.Type.Kind() == reflect.Struct {
			mergeStruct(d, s, key)
			continue
		}
		if _, set := os.LookupEnv(key); set || s.IsZero() {
			continue
		}
		d.Set(s)
	}
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}

	// JSON is the only supported log format
	c.Logging.Format = "json"

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid log output: %q", c.Logging.Output)
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/auxreport.log"
	}

	if c.Processing.HeaderScanRows <= 0 {
		return fmt.Errorf("header scan rows must be positive: %d", c.Processing.HeaderScanRows)
	}

	if c.Processing.SkipLeadingRows < 0 {
		return fmt.Errorf("skip leading rows must not be negative: %d", c.Processing.SkipLeadingRows)
	}

	if _, err := domain.ParseMode(c.Processing.DefaultMode); err != nil {
		return fmt.Errorf("invalid default mode: %w", err)
	}

	if c.Processing.MaxFiles <= 0 {
		return fmt.Errorf("max files must be positive: %d", c.Processing.MaxFiles)
	}

	if c.Processing.MaxFileBytes <= 0 || c.Processing.MaxUploadBytes < c.Processing.MaxFileBytes {
		return fmt.Errorf("max upload bytes (%d) must be at least max file bytes (%d) and positive",
			c.Processing.MaxUploadBytes, c.Processing.MaxFileBytes)
	}

	if c.Export.SheetName == "" || len(c.Export.SheetName) > 31 || strings.ContainsAny(c.Export.SheetName, `:\/?*[]`) {
		return fmt.Errorf("invalid export sheet name: %q", c.Export.SheetName)
	}

	switch c.Export.DefaultFormat {
	case "xlsx", "csv":
	default:
		return fmt.Errorf("invalid export format: %q", c.Export.DefaultFormat)
	}

	switch c.Telemetry.TraceExporter {
	case "none", "stdout":
	default:
		return fmt.Errorf("invalid trace exporter: %q", c.Telemetry.TraceExporter)
	}

	switch c.Telemetry.MetricExporter {
	case "none", "prometheus":
	default:
		return fmt.Errorf("invalid metric exporter: %q", c.Telemetry.MetricExporter)
	}

	return nil
}

// DefaultMode returns the configured processing mode
func (c *Config) DefaultMode() domain.Mode {
	mode, err := domain.ParseMode(c.Processing.DefaultMode)
	if err != nil {
		return domain.ModeAuto
	}
	return mode
}

// ProcessingOptions builds the pipeline options, reading the vocabulary
// file when one is configured
func (c *Config) ProcessingOptions() (dataprocessing.ProcessingOptions, error) {
	opts := dataprocessing.DefaultOptions()
	opts.HeaderScanRows = c.Processing.HeaderScanRows
	opts.SkipLeadingRows = c.Processing.SkipLeadingRows

	if c.Processing.VocabularyFile != "" {
		vocab, err := dataprocessing.LoadVocabulary(c.Processing.VocabularyFile)
		if err != nil {
			return opts, fmt.Errorf("failed to load vocabulary: %w", err)
		}
		opts.Vocabulary = vocab
	}
	return opts, nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(envPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  2 * time.Minute,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/auxreport.log",
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			ReportsDir: DefaultReportsDir,
			LogsDir:    DefaultLogsDir,
		},
		Processing: ProcessingConfig{
			HeaderScanRows:  dataprocessing.DefaultHeaderScanRows,
			SkipLeadingRows: 0,
			DefaultMode:     string(domain.ModeAuto),
			MaxUploadBytes:  32 << 20,
			MaxFileBytes:    16 << 20,
			MaxFiles:        50,
		},
		Export: ExportConfig{
			SheetName:     DefaultSheetName,
			FileName:      DefaultExportFileName,
			DefaultFormat: "xlsx",
			CSVBOM:        true,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    ServiceName,
			TraceExporter:  "none",
			MetricExporter: "prometheus",
		},
	}
}
