package source

import (
	"context"
	"errors"
	"maps"

	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/schema"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Loader loads page artifacts through a Fetcher.
// Failures are logged and degrade to empty data; they never abort a page.
type Loader struct {
	fetcher contract.Fetcher
	logger  *zap.Logger
}

// NewLoader creates a loader over fetcher using the process logger.
func NewLoader(fetcher contract.Fetcher) *Loader {
	return &Loader{fetcher: fetcher, logger: contract.Logger()}
}

// WithLogger returns a copy of the loader logging to l.
func (l *Loader) WithLogger(lg *zap.Logger) *Loader {
	clone := *l
	clone.logger = lg
	return &clone
}

// LoadBundle tries the primary bundle and, only if it fails, the fallback.
// The primary must be a { charts } wrapper; unwrap applies to the fallback.
func (l *Loader) LoadBundle(ctx context.Context, primary, fallback string, unwrap UnwrapStrategy) ([]schema.ChartConfiguration, schema.BundleSource) {
	bundle, err := l.loadBundle(ctx, primary, WrapperOnly)
	if err == nil {
		return bundle.Charts, schema.PrimarySource
	}
	l.logFailure(err)
	if fallback == "" || ctx.Err() != nil {
		return nil, schema.NoSource
	}

	l.logger.Info("falling back to demo bundle", zap.String("primary", primary), zap.String("fallback", fallback))
	bundle, err = l.loadBundle(ctx, fallback, unwrap)
	if err == nil {
		return bundle.Charts, schema.DemoSource
	}
	l.logFailure(err)
	return nil, schema.NoSource
}

func (l *Loader) loadBundle(ctx context.Context, p string, unwrap UnwrapStrategy) (schema.Bundle, error) {
	data, err := l.fetcher.Fetch(ctx, p)
	if err != nil {
		return schema.Bundle{}, &schema.LoadError{Path: p, Stage: schema.StageFetch, Err: err}
	}
	bundle, err := DecodeBundle(p, data, unwrap)
	if err != nil {
		return schema.Bundle{}, &schema.LoadError{Path: p, Stage: schema.StageDecode, Err: err}
	}
	return bundle, nil
}

// LoadMetrics fetches and decodes one metrics document.
func (l *Loader) LoadMetrics(ctx context.Context, p string) (schema.Metrics, error) {
	data, err := l.fetcher.Fetch(ctx, p)
	if err != nil {
		return nil, &schema.LoadError{Path: p, Stage: schema.StageFetch, Err: err}
	}
	m, err := DecodeMetrics(p, data)
	if err != nil {
		return nil, &schema.LoadError{Path: p, Stage: schema.StageDecode, Err: err}
	}
	return m, nil
}

// LoadPage implements contract.PageLoader.
// The bundle and every metrics file are fetched concurrently and joined.
// Metrics files are merged in order, later keys winning.
func (l *Loader) LoadPage(ctx context.Context, spec schema.PageSpec) (schema.PageData, error) {
	var (
		charts  []schema.ChartConfiguration
		source  schema.BundleSource
		metrics = make([]schema.Metrics, len(spec.MetricsFiles))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		charts, source = l.LoadBundle(gctx, spec.Bundle, spec.DemoBundle, WrapperOrBare)
		return nil
	})
	for i, p := range spec.MetricsFiles {
		g.Go(func() error {
			m, err := l.LoadMetrics(gctx, p)
			if err != nil {
				l.logFailure(err)
				return nil
			}
			metrics[i] = m
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return schema.PageData{}, err
	}

	merged := schema.Metrics{}
	for _, m := range metrics {
		maps.Copy(merged, m)
	}
	return schema.PageData{Charts: charts, Source: source, Metrics: merged}, nil
}

func (l *Loader) logFailure(err error) {
	var le *schema.LoadError
	if !errors.As(err, &le) {
		l.logger.Warn("artifact unavailable", zap.Error(err))
		return
	}
	l.logger.Warn("artifact unavailable",
		zap.String("path", le.Path),
		zap.String("stage", le.Stage),
		zap.Bool("not_found", errors.Is(err, schema.ErrNotFound)),
		zap.Error(le.Err),
	)
}

var _ contract.PageLoader = &Loader{}
