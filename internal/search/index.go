// Package search is a ranked full-text index over case records.
//
// The index lives in a private in-memory SQLite database using an FTS5 table
// with per-column bm25 weights. Tokens are not stemmed: users type partial
// words into the filter box and a stemmer mangles those prefixes. When the
// linked SQLite build lacks FTS5 the index falls back to an in-process
// prefix scorer with the same matching rules.
package search

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/Ashfaaq98/case-map-console/internal/sqlite"
)

// Document is the indexed projection of a case record. States holds the
// case's state names joined into one string.
type Document struct {
	ID      string
	Title   string
	Body    string
	Agency  string
	POCName string
	States  string
	Status  string
}

// Result is one ranked match. Ref is the Document ID; higher scores are
// better matches.
type Result struct {
	Ref   string  `json:"ref"`
	Score float64 `json:"score"`
}

// Column order of the FTS table and the weight given to matches in each.
var (
	columns = []string{"id", "title", "body", "agency", "poc_name", "states", "status"}
	weights = []float64{1, 100, 1, 100, 100, 100, 1}
)

// Options configures Build.
type Options struct {
	Logger *log.Logger
	// DisableFTS forces the in-process scorer even when FTS5 is available.
	DisableFTS bool
}

// Index is immutable once built. It is safe for concurrent queries.
type Index struct {
	db     *sql.DB
	fts    bool
	docs   []scoredDoc
	size   int
	logger *log.Logger
}

// Build indexes docs. Document IDs must be unique; they are what Query
// returns as Result.Ref.
func Build(ctx context.Context, docs []Document, opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	ix := &Index{logger: logger, size: len(docs)}

	if !opts.DisableFTS {
		db, err := sqlite.Open(sqlite.Memory)
		if err != nil {
			return nil, fmt.Errorf("failed to open index database: %w", err)
		}
		if err := createFTS(ctx, db); err != nil {
			logger.Printf("FTS5 unavailable (%v); using in-process scorer", err)
			db.Close()
		} else {
			ix.db = db
			ix.fts = true
		}
	}

	if ix.fts {
		if err := ix.insertAll(ctx, docs); err != nil {
			ix.db.Close()
			return nil, err
		}
	} else {
		ix.docs = make([]scoredDoc, 0, len(docs))
		for _, d := range docs {
			ix.docs = append(ix.docs, newScoredDoc(d))
		}
	}

	logger.Printf("Indexed %d documents (fts5=%t)", len(docs), ix.fts)
	return ix, nil
}

func createFTS(ctx context.Context, db *sql.DB) error {
	stmt := fmt.Sprintf(
		`CREATE VIRTUAL TABLE cases_fts USING fts5(%s, tokenize = 'unicode61 remove_diacritics 2')`,
		strings.Join(columns, ", "))
	_, err := db.ExecContext(ctx, stmt)
	return err
}

func (ix *Index) insertAll(ctx context.Context, docs []Document) error {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin index transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cases_fts(id, title, body, agency, poc_name, states, status) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare index insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range docs {
		if _, err := stmt.ExecContext(ctx, d.ID, d.Title, PlainText(d.Body), d.Agency, d.POCName, d.States, d.Status); err != nil {
			return fmt.Errorf("failed to index document %s: %w", d.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index: %w", err)
	}
	return nil
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int { return ix.size }

// FullText reports whether queries run through SQLite FTS5.
func (ix *Index) FullText() bool { return ix.fts }

// Close releases the backing database.
func (ix *Index) Close() error {
	if ix.db == nil {
		return nil
	}
	return ix.db.Close()
}

// Query returns the documents matching every token of text, best first.
// Each token matches as a prefix so partially typed words still hit. Text
// with no letters or digits matches nothing, and query failures are logged
// and reported as no matches.
func (ix *Index) Query(ctx context.Context, text string) []Result {
	tokens := Tokens(text)
	if len(tokens) == 0 {
		return nil
	}
	var results []Result
	if ix.fts {
		var err error
		results, err = ix.queryFTS(ctx, tokens)
		if err != nil {
			ix.logger.Printf("query %q failed: %v", text, err)
			return nil
		}
	} else {
		results = ix.queryScan(tokens)
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Ref < results[j].Ref
	})
	return results
}

// matchExpression renders tokens as quoted FTS5 prefix terms joined by AND.
// Tokens only ever contain letters and digits, so quoting cannot be broken.
func matchExpression(tokens []string) string {
	terms := make([]string, len(tokens))
	for i, t := range tokens {
		terms[i] = strconv.Quote(t) + "*"
	}
	return strings.Join(terms, " AND ")
}

func (ix *Index) queryFTS(ctx context.Context, tokens []string) ([]Result, error) {
	w := make([]string, len(weights))
	for i, v := range weights {
		w[i] = strconv.FormatFloat(v, 'f', 1, 64)
	}
	q := fmt.Sprintf(
		`SELECT id, bm25(cases_fts, %s) AS rank FROM cases_fts WHERE cases_fts MATCH ? ORDER BY rank, id`,
		strings.Join(w, ", "))

	rows, err := ix.db.QueryContext(ctx, q, matchExpression(tokens))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var ref string
		var rank float64
		if err := rows.Scan(&ref, &rank); err != nil {
			return nil, err
		}
		// bm25 is negative; lower is better.
		results = append(results, Result{Ref: ref, Score: -rank})
	}
	return results, rows.Err()
}
