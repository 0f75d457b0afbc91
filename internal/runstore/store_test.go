package runstore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chartdeck/chartdeck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *RunStoreImpl {
	t.Helper()
	store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*RunStoreImpl)
}

func TestRunStore_NoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(schema.OverviewPage, time.Now(), map[string]any{"page": "overview"})
	assert.NoError(t, err)
	assert.Empty(t, runID)

	assert.NoError(t, store.RecordChart(schema.RenderChartRecord{RunID: runID}))
	assert.NoError(t, store.EndRun(runID, time.Now(), schema.PrimarySource, 1, 0))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)
	assert.NoError(t, store.Close())
}

func TestRunStore_UnsupportedBackend(t *testing.T) {
	_, err := NewRunStore("oracle", "")
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestRunStore_SQLiteLifecycle(t *testing.T) {
	store := newSQLiteStore(t)

	start := time.Now().Add(-2 * time.Second)
	runID, err := store.BeginRun(schema.AnalysisPage, start, map[string]any{"source": "."})
	require.NoError(t, err)
	assert.Len(t, runID, 36, "run ids are uuids")

	require.NoError(t, store.RecordChart(schema.RenderChartRecord{RunID: runID, ChartIndex: 0, Title: "Sales", ChartType: "bar", SeriesCount: 2, RowCount: 12}))
	require.NoError(t, store.RecordChart(schema.RenderChartRecord{RunID: runID, ChartIndex: 1, Title: "Odd", ChartType: "heatmap", Placeholder: true}))
	require.NoError(t, store.EndRun(runID, time.Now(), schema.DemoSource, 2, 1))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, "analysis", run.Page)
	assert.Equal(t, "demo", run.BundleSource)
	assert.Equal(t, int32(2), run.TotalCharts)
	assert.Equal(t, int32(1), run.PlaceholderCharts)
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.DurationMs)
	assert.GreaterOrEqual(t, *run.DurationMs, int64(2000))
	require.NotNil(t, run.ConfigParams)
	assert.JSONEq(t, `{"source":"."}`, *run.ConfigParams)
	assert.WithinDuration(t, start, run.StartTime, time.Microsecond)

	charts, err := store.GetAllCharts()
	require.NoError(t, err)
	require.Len(t, charts, 2)
	assert.Equal(t, "Sales", charts[0].Title)
	assert.False(t, charts[0].Placeholder)
	assert.True(t, charts[1].Placeholder)
}

func TestRunStore_DuplicateChartIndexFails(t *testing.T) {
	store := newSQLiteStore(t)
	runID, err := store.BeginRun(schema.DataPage, time.Now(), nil)
	require.NoError(t, err)

	record := schema.RenderChartRecord{RunID: runID, ChartIndex: 0, Title: "A", ChartType: "bar"}
	require.NoError(t, store.RecordChart(record))
	assert.Error(t, store.RecordChart(record))
}

func TestRunStore_EndUnknownRun(t *testing.T) {
	store := newSQLiteStore(t)
	err := store.EndRun("does-not-exist", time.Now(), schema.PrimarySource, 0, 0)
	assert.ErrorContains(t, err, "does-not-exist")
}

func TestRunStore_Status(t *testing.T) {
	store := newSQLiteStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalRuns)
	assert.Equal(t, int64(0), status.TableSizes[renderRunsTable])

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sources := []schema.BundleSource{schema.PrimarySource, schema.DemoSource, schema.NoSource}
	var lastID string
	for i, source := range sources {
		start := base.Add(time.Duration(i) * time.Hour)
		runID, err := store.BeginRun(schema.OverviewPage, start, nil)
		require.NoError(t, err)
		require.NoError(t, store.RecordChart(schema.RenderChartRecord{RunID: runID, Title: "c", ChartType: "bar"}))
		require.NoError(t, store.EndRun(runID, start.Add(time.Second), source, 4, 0))
		lastID = runID
	}

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalRuns)
	assert.Equal(t, lastID, status.LastRunID)
	assert.True(t, base.Equal(status.OldestRunTime))
	assert.True(t, base.Add(2*time.Hour).Equal(status.LastRunTime))
	assert.Equal(t, 12, status.TotalCharts)
	assert.Equal(t, 2, status.TotalFallbacks)
	assert.Equal(t, int64(3), status.TableSizes[renderChartsTable])
}

func TestRebind(t *testing.T) {
	q := "UPDATE t SET a = ?, b = ? WHERE c = ?"
	assert.Equal(t, q, rebind(schema.MySQLBackend, q))
	assert.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE c = $3", rebind(schema.PostgreSQLBackend, q))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`runs`", quoteTableName("runs", schema.MySQLBackend))
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.PostgreSQLBackend))
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.SQLiteBackend))
}

func TestClearRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = os.Stat(dbPath)
	require.NoError(t, err)

	require.NoError(t, ClearRuns(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ClearRuns(schema.SQLiteBackend, dbPath, ""), "clearing twice is fine")
	assert.Error(t, ClearRuns(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearRuns(schema.NoneBackend, "", ""))
	assert.Error(t, ClearRuns("oracle", "", ""))
}

func TestMigrateRuns(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorContains(t, MigrateRuns(&out, schema.NoneBackend, "", -1), "not supported")

	dbPath := filepath.Join(t.TempDir(), "migrate.db")
	require.NoError(t, MigrateRuns(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "to version 1")

	out.Reset()
	require.NoError(t, MigrateRuns(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "already at the latest version")

	require.NoError(t, MigrateRuns(&out, schema.SQLiteBackend, dbPath, 0))
	require.NoError(t, MigrateRuns(&out, schema.SQLiteBackend, dbPath, 1))

	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err, "store opens on a migrated database")
	assert.NoError(t, store.Close())
}

func TestManagerDefaultsToNoop(t *testing.T) {
	mgr := &RunStoreManager{}
	store := mgr.GetRunStore()
	require.NotNil(t, store)
	runID, err := store.BeginRun(schema.OverviewPage, time.Now(), nil)
	assert.NoError(t, err)
	assert.Empty(t, runID)
}
