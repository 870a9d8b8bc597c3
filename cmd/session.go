package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/Ashfaaq98/case-map-console/internal/catalog"
	"github.com/Ashfaaq98/case-map-console/internal/store"
)

// openStore opens the configured database, resolving a relative path
// against the working directory.
func openStore(config Config, logger *log.Logger) (*store.Store, error) {
	path := resolvePathRelativeToBase(getWorkingDir(), config.Database.Path)
	logger.Printf("Using database at %s", path)
	st, err := store.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return st, nil
}

// loadCatalog reads the cases with the configured statuses and indexes
// them.
func loadCatalog(ctx context.Context, st *store.Store, config Config, logger *log.Logger) (*catalog.Catalog, error) {
	cases, err := st.ListCases(ctx, config.Cases.Statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	logger.Printf("Loaded %d cases (statuses %v)", len(cases), config.Cases.Statuses)

	cat, err := catalog.New(ctx, cases, catalog.Options{
		Threshold: config.Filter.ScoreThreshold,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	return cat, nil
}
