// Package ingest loads case exports from a folder into the case store, once
// or continuously while the folder is watched.
package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/Ashfaaq98/case-map-console/internal/catalog"
	"github.com/Ashfaaq98/case-map-console/internal/store"
)

// Saver is the part of the case store the ingestor writes to.
type Saver interface {
	SaveCases(ctx context.Context, cs []catalog.Case) error
	AddIngestEntry(ctx context.Context, entry store.IngestEntry) error
}

// FolderOptions controls ingest-folder behavior.
type FolderOptions struct {
	Dir      string
	Watch    bool
	Patterns []string // e.g. []string{"*.json", "*.yaml"}
	Logger   *log.Logger
	// Ready, when set, is closed once the watcher is registered.
	Ready chan<- struct{}
}

// Stats counts what a run has ingested so far.
type Stats struct {
	Files   int
	Cases   int
	Skipped int
	Errors  int
}

// FolderIngestor ingests case exports from a directory (one-shot or watch mode).
type FolderIngestor struct {
	store Saver
	opts  FolderOptions

	mu    sync.Mutex
	stats Stats
}

// NewFolderIngestor constructs a folder ingestor.
func NewFolderIngestor(st Saver, opts FolderOptions) *FolderIngestor {
	if opts.Logger == nil {
		opts.Logger = log.New(log.Writer(), "[ingest] ", log.LstdFlags)
	}
	if len(opts.Patterns) == 0 {
		opts.Patterns = []string{"*.json", "*.jsonl", "*.yaml", "*.yml"}
	}
	return &FolderIngestor{store: st, opts: opts}
}

// Stats returns the counters of the current run.
func (fi *FolderIngestor) Stats() Stats {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	return fi.stats
}

// Run executes the ingestion per options (one-shot or watch).
func (fi *FolderIngestor) Run(ctx context.Context) error {
	if err := fi.scanOnce(ctx); err != nil {
		return err
	}

	if !fi.opts.Watch {
		st := fi.Stats()
		fi.opts.Logger.Printf("Completed one-shot ingest: files=%d cases=%d skipped=%d errors=%d",
			st.Files, st.Cases, st.Skipped, st.Errors)
		return nil
	}

	return fi.watchLoop(ctx)
}

func (fi *FolderIngestor) matches(name string) bool {
	lower := strings.ToLower(name)
	for _, pat := range fi.opts.Patterns {
		p := strings.TrimSpace(strings.ToLower(pat))
		if ok, _ := filepath.Match(p, lower); ok {
			return true
		}
	}
	return false
}

func (fi *FolderIngestor) scanOnce(ctx context.Context) error {
	entries, err := os.ReadDir(fi.opts.Dir)
	if err != nil {
		return fmt.Errorf("read dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !fi.matches(e.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fi.IngestFile(ctx, filepath.Join(fi.opts.Dir, e.Name()))
	}
	return nil
}

func (fi *FolderIngestor) watchLoop(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer w.Close()

	if err := w.Add(fi.opts.Dir); err != nil {
		return fmt.Errorf("watch add: %w", err)
	}
	if fi.opts.Ready != nil {
		close(fi.opts.Ready)
	}

	fi.opts.Logger.Printf("Watching directory: %s (patterns: %s)", fi.opts.Dir, strings.Join(fi.opts.Patterns, ","))

	for {
		select {
		case <-ctx.Done():
			st := fi.Stats()
			fi.opts.Logger.Printf("Watch stopping: cases=%d skipped=%d errors=%d", st.Cases, st.Skipped, st.Errors)
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !fi.matches(filepath.Base(ev.Name)) {
				continue
			}
			// Exports are replaced whole; upserts make re-reading a file harmless.
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				fi.IngestFile(ctx, ev.Name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fi.opts.Logger.Printf("watch error: %v", err)
		}
	}
}

// IngestFile decodes one export, saves its cases and records the attempt
// in the ingest log. Failures are logged and counted.
func (fi *FolderIngestor) IngestFile(ctx context.Context, path string) {
	format := Format(path)
	entry := store.IngestEntry{Source: path, Format: format}

	cs, skipped, err := fi.decodeFile(path)
	if err == nil && len(cs) > 0 {
		err = fi.store.SaveCases(ctx, cs)
	}

	fi.mu.Lock()
	fi.stats.Files++
	fi.stats.Skipped += skipped
	if err != nil {
		fi.stats.Errors++
	} else {
		fi.stats.Cases += len(cs)
	}
	fi.mu.Unlock()

	entry.Skipped = skipped
	if err != nil {
		fi.opts.Logger.Printf("error processing %s: %v", path, err)
		entry.Error = err.Error()
	} else {
		entry.Cases = len(cs)
	}
	if lerr := fi.store.AddIngestEntry(ctx, entry); lerr != nil {
		fi.opts.Logger.Printf("failed to log ingest of %s: %v", path, lerr)
	}
}

func (fi *FolderIngestor) decodeFile(path string) ([]catalog.Case, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	raw, err := Decode(f, Format(path))
	if err != nil {
		return nil, 0, err
	}

	var cs []catalog.Case
	skipped := 0
	for _, c := range raw {
		c, err := Normalize(c)
		if err != nil {
			fi.opts.Logger.Printf("skipping record in %s: %v", path, err)
			skipped++
			continue
		}
		cs = append(cs, c)
	}
	return cs, skipped, nil
}

// Format names the export format implied by the file extension.
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return "jsonl"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Decode reads case records in the given format. JSON and YAML exports may
// hold a list of cases, a single case, or an object with a "cases" list.
func Decode(r io.Reader, format string) ([]catalog.Case, error) {
	switch format {
	case "jsonl":
		return decodeJSONL(r)
	case "yaml":
		return decodeYAML(r)
	default:
		return decodeJSON(r)
	}
}

type envelope struct {
	Cases []catalog.Case `json:"cases" yaml:"cases"`
}

func decodeJSON(r io.Reader) ([]catalog.Case, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	trim := bytes.TrimSpace(data)
	if len(trim) == 0 {
		return nil, nil
	}

	if trim[0] == '[' {
		var cs []catalog.Case
		if err := json.Unmarshal(trim, &cs); err != nil {
			return nil, fmt.Errorf("failed to decode case list: %w", err)
		}
		return cs, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trim, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode case export: %w", err)
	}
	if _, ok := probe["cases"]; ok {
		var env envelope
		if err := json.Unmarshal(trim, &env); err != nil {
			return nil, fmt.Errorf("failed to decode case list: %w", err)
		}
		return env.Cases, nil
	}

	var c catalog.Case
	if err := json.Unmarshal(trim, &c); err != nil {
		return nil, fmt.Errorf("failed to decode case: %w", err)
	}
	return []catalog.Case{c}, nil
}

func decodeJSONL(r io.Reader) ([]catalog.Case, error) {
	reader := bufio.NewScanner(r)
	// Case bodies are HTML and can be long.
	buf := make([]byte, 0, 1024*1024)
	reader.Buffer(buf, 10*1024*1024)

	var cs []catalog.Case
	lineNo := 0
	for reader.Scan() {
		lineNo++
		line := bytes.TrimSpace(reader.Bytes())
		if len(line) == 0 {
			continue
		}
		var c catalog.Case
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		cs = append(cs, c)
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return cs, nil
}

func decodeYAML(r io.Reader) ([]catalog.Case, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode yaml export: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var cs []catalog.Case
		if err := root.Decode(&cs); err != nil {
			return nil, fmt.Errorf("failed to decode case list: %w", err)
		}
		return cs, nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			if root.Content[i].Value == "cases" {
				var env envelope
				if err := root.Decode(&env); err != nil {
					return nil, fmt.Errorf("failed to decode case list: %w", err)
				}
				return env.Cases, nil
			}
		}
		var c catalog.Case
		if err := root.Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to decode case: %w", err)
		}
		return []catalog.Case{c}, nil
	default:
		return nil, fmt.Errorf("unexpected yaml document kind %d", root.Kind)
	}
}

// Normalize trims the record and rejects cases without an id or title.
func Normalize(c catalog.Case) (catalog.Case, error) {
	c.ID = strings.TrimSpace(c.ID)
	c.Title = strings.TrimSpace(c.Title)
	c.URL = strings.TrimSpace(c.URL)
	c.Agency = strings.TrimSpace(c.Agency)
	c.Status = strings.TrimSpace(c.Status)
	c.POC.Name = strings.TrimSpace(c.POC.Name)
	c.POC.Title = strings.TrimSpace(c.POC.Title)
	c.POC.Email = strings.TrimSpace(c.POC.Email)
	c.POC.Phone = strings.TrimSpace(c.POC.Phone)

	if c.ID == "" {
		return c, fmt.Errorf("case %q has no id", c.Title)
	}
	if c.Title == "" {
		return c, fmt.Errorf("case %s has no title", c.ID)
	}

	states := make([]string, 0, len(c.States))
	for _, s := range c.States {
		if s = strings.TrimSpace(s); s != "" {
			states = append(states, s)
		}
	}
	c.States = states
	return c, nil
}
