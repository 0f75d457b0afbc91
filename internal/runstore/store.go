package runstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/schema"
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for render tracking.
const (
	renderRunsTable   = "chartdeck_render_runs"
	renderChartsTable = "chartdeck_render_charts"
)

// sqliteTimeLayout is fixed width so text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// driverFor returns the database/sql driver name registered for backend.
func driverFor(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// openDB opens and pings the database for backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	driverName, err := driverFor(backend)
	if err != nil {
		return nil, err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetRunDBFilePath()
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// A single connection avoids "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the DSN includes parseTime=true."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct."
		default:
			connDetail = "Check that the directory is writable."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, nil
}

// NewRunStore creates a new RunStore with the specified backend.
// The none backend yields a store that records nothing.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend || backend == "" {
		return &RunStoreImpl{backend: schema.NoneBackend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create render tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// createRunTables applies the first schema migration's statements directly.
// They use IF NOT EXISTS, so this is safe on an already migrated database.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	dir, err := migrationsDir(backend)
	if err != nil {
		return err
	}
	body, err := fs.ReadFile(migrationsFS, dir+"/000001_create_render_tables.up.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	for stmt := range strings.SplitSeq(string(body), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}

func (rs *RunStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

// rebind rewrites ? placeholders into $n for PostgreSQL.
func rebind(backend schema.DatabaseBackend, query string) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// quoteTableName quotes a table name for the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t
}

// scanTime reads a time column stored as text in SQLite or natively elsewhere.
type scanTime struct {
	backend schema.DatabaseBackend
	text    sql.NullString
	native  sql.NullTime
}

func (st *scanTime) dest() any {
	if st.backend == schema.SQLiteBackend {
		return &st.text
	}
	return &st.native
}

func (st *scanTime) value() (*time.Time, error) {
	if st.backend != schema.SQLiteBackend {
		if !st.native.Valid {
			return nil, nil
		}
		t := st.native.Time
		return &t, nil
	}
	if !st.text.Valid {
		return nil, nil
	}
	t, err := time.Parse(sqliteTimeLayout, st.text.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse time %q: %w", st.text.String, err)
	}
	return &t, nil
}

// BeginRun creates a new render run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(page schema.PageName, startTime time.Time, configParams map[string]any) (string, error) {
	if rs.disabled() {
		return "", nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config params: %w", err)
	}

	runID := uuid.NewString()
	query := fmt.Sprintf(`INSERT INTO %s (run_id, page, start_time, config_params) VALUES (?, ?, ?, ?)`,
		quoteTableName(renderRunsTable, rs.backend))
	if _, err := rs.db.Exec(rebind(rs.backend, query), runID, string(page), formatTime(startTime, rs.backend), string(configJSON)); err != nil {
		return "", fmt.Errorf("failed to insert render run: %w", err)
	}
	return runID, nil
}

// RecordChart stores the summary of one rendered chart.
func (rs *RunStoreImpl) RecordChart(record schema.RenderChartRecord) error {
	if rs.disabled() {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_id, chart_index, title, chart_type, series_count, row_count, placeholder)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, quoteTableName(renderChartsTable, rs.backend))
	_, err := rs.db.Exec(rebind(rs.backend, query),
		record.RunID, record.ChartIndex, record.Title, record.ChartType,
		record.SeriesCount, record.RowCount, record.Placeholder)
	if err != nil {
		return fmt.Errorf("failed to insert chart %d of run %s: %w", record.ChartIndex, record.RunID, err)
	}
	return nil
}

// EndRun updates the render run with completion data.
func (rs *RunStoreImpl) EndRun(runID string, endTime time.Time, source schema.BundleSource, totalCharts, placeholderCharts int) error {
	if rs.disabled() {
		return nil
	}

	table := quoteTableName(renderRunsTable, rs.backend)
	start := scanTime{backend: rs.backend}
	row := rs.db.QueryRow(rebind(rs.backend, fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, table)), runID)
	if err := row.Scan(start.dest()); err != nil {
		return fmt.Errorf("failed to get start_time for run %s: %w", runID, err)
	}
	startTime, err := start.value()
	if err != nil {
		return err
	}
	var durationMs int64
	if startTime != nil {
		durationMs = endTime.Sub(*startTime).Milliseconds()
	}

	query := fmt.Sprintf(`UPDATE %s SET end_time = ?, duration_ms = ?, bundle_source = ?, total_charts = ?, placeholder_charts = ? WHERE run_id = ?`, table)
	_, err = rs.db.Exec(rebind(rs.backend, query),
		formatTime(endTime, rs.backend), durationMs, string(source), totalCharts, placeholderCharts, runID)
	if err != nil {
		return fmt.Errorf("failed to update render run: %w", err)
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.disabled() {
		return status, nil
	}

	runs := quoteTableName(renderRunsTable, rs.backend)
	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		last := scanTime{backend: rs.backend}
		row := rs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY start_time DESC LIMIT 1", runs))
		if err := row.Scan(&status.LastRunID, last.dest()); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		if t, err := last.value(); err != nil {
			return status, err
		} else if t != nil {
			status.LastRunTime = *t
		}

		oldest := scanTime{backend: rs.backend}
		row = rs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY start_time ASC LIMIT 1", runs))
		if err := row.Scan(oldest.dest()); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		if t, err := oldest.value(); err != nil {
			return status, err
		} else if t != nil {
			status.OldestRunTime = *t
		}

		row = rs.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_charts), 0) FROM %s", runs))
		if err := row.Scan(&status.TotalCharts); err != nil {
			return status, fmt.Errorf("failed to get total charts: %w", err)
		}

		query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE bundle_source IS NOT NULL AND bundle_source <> ?", runs)
		row = rs.db.QueryRow(rebind(rs.backend, query), string(schema.PrimarySource))
		if err := row.Scan(&status.TotalFallbacks); err != nil {
			return status, fmt.Errorf("failed to get fallback count: %w", err)
		}
	}

	for _, table := range []string{renderRunsTable, renderChartsTable} {
		var count int64
		if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all render runs, oldest first.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RenderRunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, page, bundle_source, start_time, end_time, duration_ms,
		total_charts, placeholder_charts, config_params FROM %s ORDER BY start_time, run_id`,
		quoteTableName(renderRunsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query render runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RenderRunRecord
	for rows.Next() {
		var (
			record     schema.RenderRunRecord
			source     sql.NullString
			duration   sql.NullInt64
			config     sql.NullString
			start      = scanTime{backend: rs.backend}
			end        = scanTime{backend: rs.backend}
			total, phs int64
		)
		if err := rows.Scan(&record.RunID, &record.Page, &source, start.dest(), end.dest(),
			&duration, &total, &phs, &config); err != nil {
			return nil, fmt.Errorf("failed to scan render run: %w", err)
		}
		startTime, err := start.value()
		if err != nil {
			return nil, err
		}
		if startTime != nil {
			record.StartTime = *startTime
		}
		if record.EndTime, err = end.value(); err != nil {
			return nil, err
		}
		record.BundleSource = source.String
		if duration.Valid {
			record.DurationMs = &duration.Int64
		}
		if config.Valid {
			record.ConfigParams = &config.String
		}
		record.TotalCharts = int32(total)
		record.PlaceholderCharts = int32(phs)
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating render runs: %w", err)
	}
	return results, nil
}

// GetAllCharts retrieves all chart summaries ordered by run and position.
func (rs *RunStoreImpl) GetAllCharts() ([]schema.RenderChartRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, chart_index, title, chart_type, series_count, row_count, placeholder
		FROM %s ORDER BY run_id, chart_index`, quoteTableName(renderChartsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query render charts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RenderChartRecord
	for rows.Next() {
		var record schema.RenderChartRecord
		if err := rows.Scan(&record.RunID, &record.ChartIndex, &record.Title, &record.ChartType,
			&record.SeriesCount, &record.RowCount, &record.Placeholder); err != nil {
			return nil, fmt.Errorf("failed to scan render chart: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating render charts: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}
