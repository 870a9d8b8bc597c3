package catalog

import (
	"context"
	"strings"

	"github.com/Ashfaaq98/case-map-console/internal/search"
)

// Searcher is the ranked index the filter engine queries.
type Searcher interface {
	Query(ctx context.Context, text string) []search.Result
}

// Filter returns the cases matching query. An empty (or blank) query returns
// all unchanged. Otherwise matches scoring below threshold are discarded and
// the rest are mapped back to cases by ID in ranked order, best first. Refs
// with no case in all are dropped, as are repeated refs.
func Filter(ctx context.Context, all []Case, s Searcher, query string, threshold float64) []Case {
	return filter(ctx, all, s, query, threshold, nil)
}

func filter(ctx context.Context, all []Case, s Searcher, query string, threshold float64, stale func(ref string)) []Case {
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}

	byID := make(map[string]int, len(all))
	for i, c := range all {
		if _, dup := byID[c.ID]; !dup {
			byID[c.ID] = i
		}
	}

	results := s.Query(ctx, query)
	out := make([]Case, 0, len(results))
	seen := make(map[string]bool, len(results))
	for _, r := range results {
		if r.Score < threshold || seen[r.Ref] {
			continue
		}
		i, ok := byID[r.Ref]
		if !ok {
			if stale != nil {
				stale(r.Ref)
			}
			continue
		}
		seen[r.Ref] = true
		out = append(out, all[i])
	}
	return out
}
