package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ashfaaq98/case-map-console/internal/catalog"
	"github.com/Ashfaaq98/case-map-console/internal/ingest"
	"github.com/Ashfaaq98/case-map-console/internal/store"
)

var (
	ingestDir      string
	ingestWatch    bool
	ingestPatterns []string
	stdinFormat    string
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest case exports from files, stdin or a folder",
	Long: `Ingest normalized case exports into the SQLite database.

Exports may be JSON (a list of cases, a single case or {"cases": [...]}),
JSONL with one case per line, or YAML. The format follows the file
extension. Records without an id or a title are skipped. A case whose id
is already stored is updated in place.

Every ingested file is recorded in the ingest log (see 'case-map list ingests').

Examples:
  # Ingest files
  case-map ingest cases.json more.jsonl

  # Ingest from stdin
  cat cases.yaml | case-map ingest - --format yaml

  # Ingest every export in a folder once
  case-map ingest --dir ./data/incoming

  # Keep watching the folder for new or changed exports
  case-map ingest --dir ./data/incoming --watch`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVarP(&ingestDir, "dir", "d", "", "Folder of exports to ingest")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "Watch the folder for new or changed exports")
	ingestCmd.Flags().StringSliceVarP(&ingestPatterns, "pattern", "p", nil, "Glob patterns of files to ingest (default *.json, *.jsonl, *.yaml, *.yml)")
	ingestCmd.Flags().StringVar(&stdinFormat, "format", "json", "Format of stdin input (json, jsonl, yaml)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()
	logger := log.New(os.Stderr, "[ingest] ", log.LstdFlags)

	if ingestDir == "" && len(args) == 0 {
		return fmt.Errorf("no input: pass files, '-' for stdin, or --dir")
	}
	if ingestWatch && ingestDir == "" {
		return fmt.Errorf("--watch requires --dir")
	}

	st, err := openStore(config, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	fi := ingest.NewFolderIngestor(st, ingest.FolderOptions{
		Dir:      ingestDir,
		Watch:    ingestWatch,
		Patterns: ingestPatterns,
		Logger:   logger,
	})

	for _, arg := range args {
		if arg == "-" {
			if err := ingestStdin(cmd, st, logger); err != nil {
				return err
			}
			continue
		}
		fi.IngestFile(ctx, arg)
	}

	if ingestDir != "" {
		if ingestWatch {
			logger.Printf("Watching %s (Ctrl+C to stop)", ingestDir)
		}
		if err := fi.Run(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("folder ingest failed: %w", err)
		}
	}

	stats := fi.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d cases from %d files (%d skipped, %d errors)\n",
		stats.Cases, stats.Files, stats.Skipped, stats.Errors)
	if stats.Errors > 0 && !ingestWatch {
		return fmt.Errorf("%d files failed to ingest", stats.Errors)
	}
	return nil
}

// ingestStdin decodes one export from stdin in --format.
func ingestStdin(cmd *cobra.Command, st *store.Store, logger *log.Logger) error {
	ctx := cmd.Context()
	entry := store.IngestEntry{Source: "stdin", Format: stdinFormat}

	raw, err := ingest.Decode(cmd.InOrStdin(), stdinFormat)
	if err != nil {
		entry.Error = err.Error()
		if lerr := st.AddIngestEntry(ctx, entry); lerr != nil {
			logger.Printf("failed to log ingest of stdin: %v", lerr)
		}
		return fmt.Errorf("failed to decode stdin: %w", err)
	}

	cases := make([]catalog.Case, 0, len(raw))
	for _, c := range raw {
		c, err := ingest.Normalize(c)
		if err != nil {
			logger.Printf("skipping record: %v", err)
			entry.Skipped++
			continue
		}
		cases = append(cases, c)
	}

	if err := st.SaveCases(ctx, cases); err != nil {
		return fmt.Errorf("failed to save cases: %w", err)
	}
	entry.Cases = len(cases)
	if err := st.AddIngestEntry(ctx, entry); err != nil {
		logger.Printf("failed to log ingest of stdin: %v", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d cases from stdin (%d skipped)\n", entry.Cases, entry.Skipped)
	return nil
}
