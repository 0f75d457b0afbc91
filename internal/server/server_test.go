package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/internal/runstore"
	"github.com/chartdeck/chartdeck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLoader struct {
	data  schema.PageData
	pages []schema.PageName
}

func (f *fakeLoader) LoadPage(_ context.Context, spec schema.PageSpec) (schema.PageData, error) {
	f.pages = append(f.pages, spec.Name)
	return f.data, nil
}

func newTestServer(t *testing.T, mgr contract.RunManager) (*fakeLoader, http.Handler) {
	t.Helper()
	loader := &fakeLoader{data: schema.PageData{
		Source: schema.PrimarySource,
		Charts: []schema.ChartConfiguration{{
			Title:  "Monthly Sales",
			Type:   schema.BarChart,
			XAxis:  &schema.AxisSpec{DataKey: "month"},
			Series: []schema.SeriesSpec{{DataKey: "sales", Name: "Sales"}},
			Data:   []schema.Row{{"month": "Jan", "sales": 120.0}},
		}},
	}}
	cfg := &contract.Config{Timeout: time.Second, AssetsHost: contract.DefaultAssetsHost, Workers: 1}
	return loader, New(cfg, loader, mgr, zap.NewNop()).Routes()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRootServesOverview(t *testing.T) {
	loader, h := newTestServer(t, nil)

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Monthly Sales")
	assert.Contains(t, body, `<a href="/" class="active">`)
	assert.Contains(t, body, `href="/modeling"`)
	assert.Equal(t, []schema.PageName{schema.OverviewPage}, loader.pages)
}

func TestNamedPage(t *testing.T) {
	loader, h := newTestServer(t, nil)

	rec := get(t, h, "/analysis")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<a href="/analysis" class="active">`)
	assert.Equal(t, []schema.PageName{schema.AnalysisPage}, loader.pages)
}

func TestUnknownPage(t *testing.T) {
	_, h := newTestServer(t, nil)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/reports").Code)

	rec := get(t, h, "/api/reports")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "unknown page")
}

func TestPageAPI(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := get(t, h, "/api/data")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var page schema.RenderedPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, schema.DataPage, page.Page)
	assert.Equal(t, schema.PrimarySource, page.Source)
	require.Len(t, page.Charts, 1)
	assert.Equal(t, "chart-0", page.Charts[0].ID)
}

func TestListPages(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := get(t, h, "/api/pages")
	require.Equal(t, http.StatusOK, rec.Code)
	var specs []schema.PageSpec
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &specs))
	assert.Len(t, specs, 4)
}

func TestLivez(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := get(t, h, "/livez")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}

func TestRequestsAreTracked(t *testing.T) {
	store := &runstore.MockRunStore{}
	store.On("BeginRun", schema.ModelingPage, mock.Anything, mock.Anything).Return("run-1", nil)
	store.On("RecordChart", mock.MatchedBy(func(r schema.RenderChartRecord) bool { return r.RunID == "run-1" })).Return(nil)
	store.On("EndRun", "run-1", mock.Anything, schema.PrimarySource, 1, 0).Return(nil)
	mgr := &runstore.MockRunManager{}
	mgr.On("GetRunStore").Return(store)

	_, h := newTestServer(t, mgr)
	require.Equal(t, http.StatusOK, get(t, h, "/modeling").Code)
	store.AssertExpectations(t)
}

func TestNavLinks(t *testing.T) {
	nav := NavLinks(schema.DataPage)
	require.Len(t, nav, 4)
	assert.Equal(t, "/", nav[0].Href)
	for _, link := range nav {
		assert.Equal(t, link.Href == "/data", link.Active)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := &contract.Config{Addr: "127.0.0.1:0", Timeout: time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(cfg, &fakeLoader{}, nil, nil).Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}
