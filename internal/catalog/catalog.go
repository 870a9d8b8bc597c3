// Package catalog holds the case records of one browsing session together
// with the search index built over them, and the filter engine that turns a
// query into a case list.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/Ashfaaq98/case-map-console/internal/search"
)

// ErrCatalogInstalled is returned by Install once a catalog is in place.
var ErrCatalogInstalled = errors.New("catalog already installed")

// Options configures New.
type Options struct {
	// Threshold is the minimum search score a match needs to pass Filter.
	Threshold float64
	Logger    *log.Logger
	// DisableFTS forces the index's in-process scorer.
	DisableFTS bool
}

// Catalog is the immutable case list of a session, sorted by title, and the
// search index over it.
type Catalog struct {
	cases     []Case
	byID      map[string]int
	index     *search.Index
	threshold float64
	logger    *log.Logger
}

// New sorts cases by title, drops repeated IDs and indexes the rest.
func New(ctx context.Context, cases []Case, opts Options) (*Catalog, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	sorted := make([]Case, 0, len(cases))
	byID := make(map[string]int, len(cases))
	seen := make(map[string]bool, len(cases))
	for _, c := range cases {
		if seen[c.ID] {
			logger.Printf("Skipping case with repeated id %s (%q)", c.ID, c.Title)
			continue
		}
		seen[c.ID] = true
		sorted = append(sorted, c)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Title < sorted[j].Title })
	for i, c := range sorted {
		byID[c.ID] = i
	}

	docs := make([]search.Document, len(sorted))
	for i, c := range sorted {
		docs[i] = search.Document{
			ID:      c.ID,
			Title:   c.Title,
			Body:    c.Body,
			Agency:  c.Agency,
			POCName: c.POC.Name,
			States:  strings.Join(c.States, ","),
			Status:  c.Status,
		}
	}
	index, err := search.Build(ctx, docs, search.Options{Logger: logger, DisableFTS: opts.DisableFTS})
	if err != nil {
		return nil, fmt.Errorf("failed to build search index: %w", err)
	}

	return &Catalog{
		cases:     sorted,
		byID:      byID,
		index:     index,
		threshold: opts.Threshold,
		logger:    logger,
	}, nil
}

// All returns a copy of every case in title order.
func (c *Catalog) All() []Case { return slices.Clone(c.cases) }

// Len returns the number of cases.
func (c *Catalog) Len() int { return len(c.cases) }

// Threshold returns the configured filter score threshold.
func (c *Catalog) Threshold() float64 { return c.threshold }

// ByID looks a case up by ID.
func (c *Catalog) ByID(id string) (Case, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Case{}, false
	}
	return c.cases[i], true
}

// Query exposes the raw ranked matches for query.
func (c *Catalog) Query(ctx context.Context, query string) []search.Result {
	return c.index.Query(ctx, query)
}

// Filter runs the filter engine over the whole catalog with the configured
// threshold. The returned slice is the caller's to keep.
func (c *Catalog) Filter(ctx context.Context, query string) []Case {
	return slices.Clone(filter(ctx, c.cases, c.index, query, c.threshold, func(ref string) {
		c.logger.Printf("Search returned unknown case %s", ref)
	}))
}

// Close releases the search index.
func (c *Catalog) Close() error { return c.index.Close() }

var current atomic.Pointer[Catalog]

// Install makes c the process-wide catalog. It must run once, before any
// browser instance is created; later calls fail with ErrCatalogInstalled.
func Install(c *Catalog) error {
	if c == nil {
		return errors.New("install: nil catalog")
	}
	if !current.CompareAndSwap(nil, c) {
		return ErrCatalogInstalled
	}
	return nil
}

// Current returns the installed catalog, or nil before Install.
func Current() *Catalog { return current.Load() }
