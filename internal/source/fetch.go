// Package source fetches and decodes dashboard artifacts from a web origin or a local directory.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/schema"
	"github.com/spf13/afero"
)

// maxArtifactBytes caps the size of a single artifact.
const maxArtifactBytes = 32 << 20

// HTTPFetcher reads artifacts with plain GET requests against an origin.
type HTTPFetcher struct {
	origin   string
	basePath string
	client   *http.Client
}

// NewHTTPFetcher creates a fetcher for origin, prefixing basePath to every artifact.
func NewHTTPFetcher(origin, basePath string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		origin:   strings.TrimRight(origin, "/"),
		basePath: contract.NormalizeBasePath(basePath),
		client:   &http.Client{Timeout: timeout},
	}
}

// URL returns the absolute location of an artifact.
func (f *HTTPFetcher) URL(p string) string {
	return f.origin + "/" + path.Join(f.basePath, strings.TrimLeft(p, "/"))
}

// Fetch implements contract.Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	u := f.URL(p)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("GET %s: %w", u, schema.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: unexpected status %d", u, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxArtifactBytes))
}

// Describe implements contract.Fetcher.
func (f *HTTPFetcher) Describe() string {
	return f.URL("")
}

// FSFetcher reads artifacts from an afero filesystem rooted at a directory.
type FSFetcher struct {
	fs       afero.Fs
	root     string
	basePath string
}

// NewFSFetcher creates a fetcher over fsys. Paths resolve under root/basePath.
func NewFSFetcher(fsys afero.Fs, root, basePath string) *FSFetcher {
	return &FSFetcher{fs: fsys, root: root, basePath: contract.NormalizeBasePath(basePath)}
}

// NewDirFetcher creates a fetcher over a directory of the real filesystem.
func NewDirFetcher(root, basePath string) *FSFetcher {
	return NewFSFetcher(afero.NewReadOnlyFs(afero.NewOsFs()), root, basePath)
}

// Path returns the filesystem location of an artifact.
func (f *FSFetcher) Path(p string) string {
	return path.Join(f.root, f.basePath, strings.TrimLeft(p, "/"))
}

// Fetch implements contract.Fetcher.
func (f *FSFetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := f.Path(p)
	data, err := afero.ReadFile(f.fs, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", name, schema.ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}

// Describe implements contract.Fetcher.
func (f *FSFetcher) Describe() string {
	return f.Path("")
}

// NewFetcher picks the fetcher matching the configured source.
func NewFetcher(cfg *contract.Config) contract.Fetcher {
	if cfg.Remote {
		return NewHTTPFetcher(cfg.Source, cfg.BasePath, cfg.Timeout)
	}
	return NewDirFetcher(cfg.Source, cfg.BasePath)
}

var (
	_ contract.Fetcher = &HTTPFetcher{}
	_ contract.Fetcher = &FSFetcher{}
)
