package contract

import (
	"fmt"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/chartdeck/chartdeck/schema"
)

// Default values for configuration.
const (
	DefaultSource     = "."
	DefaultOutDir     = "site"
	DefaultAddr       = "127.0.0.1:8080"
	DefaultTimeout    = 10 * time.Second
	DefaultPrecision  = 2
	MaxPrecision      = 6
	DefaultPageSize   = 10
	MaxPageSize       = 500
	DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for rendering.
// This struct remains the "final, validated" config.
type Config struct {
	Page      schema.PageName
	TableName string

	Source   string
	BasePath string
	Remote   bool
	Timeout  time.Duration

	Output     schema.OutputMode
	OutputFile string
	OutDir     string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	Addr       string
	AssetsHost string
	Workers    int

	Search     string
	PageNumber int
	PageSize   int

	RunBackend   schema.DatabaseBackend
	RunDBConnect string // Please use env var as this is plaintext

	Verbose bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	PageStr  string
	TableStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Source       string `mapstructure:"source"`
	BasePath     string `mapstructure:"base-path"`
	Timeout      string `mapstructure:"timeout"`
	Output       string `mapstructure:"output"`
	OutputFile   string `mapstructure:"output-file"`
	Precision    int    `mapstructure:"precision"`
	Width        int    `mapstructure:"width"`
	Color        string `mapstructure:"color"`
	Workers      int    `mapstructure:"workers"`
	RunBackend   string `mapstructure:"run-backend"`
	RunDBConnect string `mapstructure:"run-db-connect"`
	Verbose      bool   `mapstructure:"verbose"`

	// --- Fields from buildCmd.Flags() ---
	OutDir string `mapstructure:"out-dir"`

	// --- Fields from serveCmd.Flags() ---
	Addr       string `mapstructure:"addr"`
	AssetsHost string `mapstructure:"assets-host"`

	// --- Fields from tableCmd.Flags() ---
	Search     string `mapstructure:"search"`
	PageNumber int    `mapstructure:"page-number"`
	PageSize   int    `mapstructure:"page-size"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSource(cfg, input); err != nil {
		return err
	}
	if err := processPageAndTable(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("run-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("run-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the render-run backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.RunBackend = schema.DatabaseBackend(strings.ToLower(input.RunBackend))
	if cfg.RunBackend == "" {
		cfg.RunBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.RunBackend]; !ok {
		return fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", input.RunBackend)
	}
	cfg.RunDBConnect = input.RunDBConnect
	return ValidateDatabaseConnectionString(cfg.RunBackend, cfg.RunDBConnect)
}

// validateSimpleInputs processes and validates all non-source fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose
	cfg.Search = input.Search

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, csv, html, parquet", input.Output)
	}

	// --- 3. Timeout Validation ---
	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout '%s': %w", input.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("timeout must be positive (received %s)", input.Timeout)
		}
		cfg.Timeout = d
	}

	// --- 4. Paging Validation ---
	cfg.PageNumber = max(input.PageNumber, 1)
	cfg.PageSize = input.PageSize
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.PageSize < 0 || cfg.PageSize > MaxPageSize {
		return fmt.Errorf("page-size must be between 1 and %d (received %d)", MaxPageSize, input.PageSize)
	}

	// --- 5. Server and build settings ---
	cfg.Addr = input.Addr
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	cfg.OutDir = input.OutDir
	if cfg.OutDir == "" {
		cfg.OutDir = DefaultOutDir
	}
	cfg.AssetsHost = input.AssetsHost
	if cfg.AssetsHost == "" {
		cfg.AssetsHost = DefaultAssetsHost
	}
	if !strings.HasSuffix(cfg.AssetsHost, "/") {
		cfg.AssetsHost += "/"
	}

	return nil
}

// processSource resolves the artifact source and the deployment base path.
func processSource(cfg *Config, input *ConfigRawInput) error {
	src := strings.TrimSpace(input.Source)
	if src == "" {
		src = DefaultSource
	}
	cfg.BasePath = NormalizeBasePath(input.BasePath)

	lower := strings.ToLower(src)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		u, err := url.Parse(src)
		if err != nil {
			return fmt.Errorf("invalid source URL '%s': %w", src, err)
		}
		if u.Host == "" {
			return fmt.Errorf("source URL '%s' has no host", src)
		}
		cfg.Remote = true
		cfg.Source = strings.TrimRight(src, "/")
		return nil
	}

	cfg.Remote = false
	cfg.Source = src
	return nil
}

// processPageAndTable resolves positional page and table arguments.
func processPageAndTable(cfg *Config, input *ConfigRawInput) error {
	page := schema.PageName(strings.ToLower(strings.TrimSpace(input.PageStr)))
	if page == "" {
		page = schema.OverviewPage
	}
	switch page {
	case schema.OverviewPage, schema.AnalysisPage, schema.DataPage, schema.ModelingPage:
		cfg.Page = page
	default:
		return fmt.Errorf("invalid page '%s'. must be overview, analysis, data, modeling", input.PageStr)
	}
	cfg.TableName = strings.TrimSpace(input.TableStr)
	return nil
}

// NormalizeBasePath strips surrounding slashes so "/Aomsin-Tid-Data/" becomes "Aomsin-Tid-Data".
func NormalizeBasePath(p string) string {
	return strings.Trim(strings.TrimSpace(p), "/")
}
