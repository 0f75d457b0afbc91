package cmd

import (
	"fmt"
	"os"

	"github.com/chartdeck/chartdeck/core"
	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/internal/runstore"
	"github.com/chartdeck/chartdeck/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadRunBackend reads and validates the render tracking settings.
func loadRunBackend() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("run-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("run-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// runsSetup loads minimal configuration needed for run-store operations.
// This is used by commands that need the store without full shared setup.
func runsSetup() error {
	backend, connStr, err := loadRunBackend()
	if err != nil {
		return err
	}

	if err := runstore.InitRunStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize render tracking: %w", err)
	}

	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for runs commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetup loads configuration for migrations without opening the store,
// so migrations can run against a fresh database.
func runsMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := loadRunBackend()
	if err != nil {
		return err
	}
	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr
	return nil
}

// runsCmd focused on render-run tracking.
//
// Note: runs subcommands use minimal initialization (runsSetup) instead of
// the full sharedSetup used by render commands.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage render-run tracking and exports",
	Long: `Manage the history of page renders.

When enabled with --run-backend, every render records:
- Run metadata (page, chart source, configuration, duration)
- One summary per chart (type, series, rows, placeholder or not)

This shows how often pages fall back to demo data and which charts fail to draw.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show tracking statistics
  export  - Export data to Parquet
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  chartdeck runs status --run-backend sqlite

  # Export for analysis in DuckDB
  chartdeck runs export --run-backend sqlite --output-file runs`,
}

// runsStatusCmd shows render tracking status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display render tracking statistics and connection details",
	Long: `Show the backend, connection state, number of runs, last and oldest run,
charts rendered, runs that used fallback data, and table sizes.

Examples:
  chartdeck runs status --run-backend sqlite`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRunStatus(cfg, runManager); err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
	},
}

// runsClearCmd removes the tracking data.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all render tracking data",
	Long: `Delete all stored render runs and chart summaries.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  chartdeck runs export --run-backend sqlite --output-file backup
  chartdeck runs clear --run-backend sqlite`,
	PreRunE: runsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		dbPath := cfg.RunDBConnect
		if dbPath == "" {
			dbPath = contract.GetRunDBFilePath()
		}
		if err := runstore.ClearRuns(cfg.RunBackend, dbPath, cfg.RunDBConnect); err != nil {
			contract.LogFatal("Failed to clear render tracking data", err)
		}
		fmt.Println("Render tracking data cleared successfully.")
	},
}

// runsExportCmd exports tracking data to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export render history to Parquet",
	Long: `Export all stored render data to two Parquet files:
- <output-file>.render_runs.parquet
- <output-file>.render_charts.parquet

Requires: --output-file parameter

Examples:
  chartdeck runs export --run-backend sqlite --output-file history
  duckdb -c "SELECT page, count(*) FROM read_parquet('history.render_runs.parquet') GROUP BY page"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ExportRuns(os.Stdout, runManager.GetRunStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export render tracking data", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the render tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  chartdeck runs migrate --run-backend postgresql --run-db-connect "host=localhost dbname=chartdeck"

  # Rollback to initial state
  chartdeck runs migrate --run-backend sqlite --target-version 0`,
	PreRunE: runsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := runstore.MigrateRuns(os.Stdout, cfg.RunBackend, cfg.RunDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
