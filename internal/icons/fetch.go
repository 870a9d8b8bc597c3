package icons

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Fetcher loads the raw SVG markup of a named icon.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// NewFetcher returns an HTTP fetcher when source is an http(s) base URL
// and a directory fetcher otherwise. Icons resolve to <source>/<name>.svg.
func NewFetcher(source string) Fetcher {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return &HTTPFetcher{BaseURL: strings.TrimRight(source, "/")}
	}
	return DirFetcher{Dir: source}
}

// DirFetcher reads icons from a local directory.
type DirFetcher struct {
	Dir string
}

// Fetch reads <Dir>/<name>.svg.
func (f DirFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid icon name %q", name)
	}
	data, err := os.ReadFile(filepath.Join(f.Dir, name+".svg"))
	if err != nil {
		return nil, fmt.Errorf("failed to read icon %s: %w", name, err)
	}
	return data, nil
}

// HTTPFetcher downloads icons from a base URL.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

const maxIconBytes = 1 << 20

// Fetch requests <BaseURL>/<name>.svg.
func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"/"+name+".svg", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build icon request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch icon %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch icon %s: HTTP %d", name, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIconBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read icon %s: %w", name, err)
	}
	return data, nil
}
