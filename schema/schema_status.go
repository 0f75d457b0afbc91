package schema

import "time"

// RunStatus represents the status of the render-run store.
type RunStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	TotalRuns      int              `json:"total_runs"`
	LastRunID      string           `json:"last_run_id"`
	LastRunTime    time.Time        `json:"last_run_time"`
	OldestRunTime  time.Time        `json:"oldest_run_time"`
	TotalCharts    int              `json:"total_charts"`
	TotalFallbacks int              `json:"total_fallbacks"`
	TableSizes     map[string]int64 `json:"table_sizes"`
}
