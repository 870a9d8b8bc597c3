package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ashfaaq98/case-map-console/internal/catalog"
	"github.com/Ashfaaq98/case-map-console/internal/format"
	"github.com/Ashfaaq98/case-map-console/internal/grid"
	"github.com/Ashfaaq98/case-map-console/internal/search"
	"github.com/Ashfaaq98/case-map-console/internal/states"
	"github.com/Ashfaaq98/case-map-console/internal/store"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [cases|states|page N|ingests]",
	Short: "List cases, states and ingest history",
	Long: `List cases from the database in a simple text format.
This command works in any terminal environment and provides an alternative
to the browser when terminal capabilities are limited.

Examples:
  # List every loaded case
  case-map list cases

  # Cases matching a filter, the same way the browser filters
  case-map list cases --query "bridge replacement"

  # Cases grouped per state, as placed on the map
  case-map list states

  # The second card grid page
  case-map list page 2

  # Recent ingest runs
  case-map list ingests --limit 10`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runList,
}

var (
	listQuery string
	limit     int
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Filter text applied before listing")
	listCmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of ingest runs to show")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()
	logger := log.New(io.Discard, "", 0)

	st, err := openStore(config, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	targetType := "cases"
	if len(args) > 0 {
		targetType = strings.ToLower(args[0])
	}
	if targetType == "ingests" {
		return listIngests(ctx, st, limit)
	}

	cat, err := loadCatalog(ctx, st, config, logger)
	if err != nil {
		return err
	}
	defer cat.Close()

	cases := cat.All()
	if listQuery != "" {
		cases = cat.Filter(ctx, listQuery)
	}

	switch targetType {
	case "cases":
		return listCases(ctx, cat, cases)
	case "states":
		return listStates(cases)
	case "page":
		page := 1
		if len(args) > 1 {
			page, err = strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid page number %q: %w", args[1], err)
			}
		}
		return listPage(cases, page, config.Layout.NarrowWidth)
	default:
		return fmt.Errorf("unknown list type: %s (use 'cases', 'states', 'page' or 'ingests')", targetType)
	}
}

func listCases(ctx context.Context, cat *catalog.Catalog, cases []catalog.Case) error {
	if len(cases) == 0 {
		fmt.Println("No cases found.")
		return nil
	}

	scores := make(map[string]search.Result)
	if listQuery != "" {
		for _, r := range cat.Query(ctx, listQuery) {
			scores[r.Ref] = r
		}
	}

	fmt.Printf("Found %d cases:\n\n", len(cases))
	for i, c := range cases {
		fmt.Printf("%s %s\n", format.CaseNumber(i), c.Title)
		fmt.Printf("   ID: %s\n", c.ID)
		if c.Status != "" {
			fmt.Printf("   Status: %s\n", c.Status)
		}
		if loc := c.Location(); loc != "" {
			fmt.Printf("   Location: %s\n", loc)
		}
		if c.Agency != "" {
			fmt.Printf("   Agency: %s\n", c.Agency)
		}
		if r, ok := scores[c.ID]; ok {
			fmt.Printf("   Score: %.3f\n", r.Score)
		}
		if body := search.PlainText(c.Body); body != "" {
			fmt.Printf("   %s\n", format.AppendEllipsis(160, strings.ReplaceAll(body, "\n", " ")))
		}
		fmt.Println()
	}
	return nil
}

func listStates(cases []catalog.Case) error {
	groups := states.Aggregate(cases)
	if len(groups) == 0 {
		fmt.Println("No states found.")
		return nil
	}

	fmt.Printf("%d states with cases:\n\n", len(groups))
	for _, g := range groups {
		fmt.Printf("%s  %-24s %3d  (%.4f, %.4f)\n", g.Abbreviation, g.Name, len(g.Cases), g.Coordinates.Lat, g.Coordinates.Lng)
	}
	return nil
}

func listPage(cases []catalog.Case, page, narrowWidth int) error {
	g := grid.New(narrowWidth)
	g.DisplayCases(cases)
	g.SetPage(page - 1)

	fmt.Println(g.StatsLabel())
	fmt.Println()
	for i, c := range g.PageCases() {
		fmt.Printf("%s %s\n", format.CaseNumber(g.PageStart(g.Page())+i), strings.ReplaceAll(grid.CardTitle(c), "\n", " "))
		fmt.Printf("   %s\n", c.URL)
	}

	var links []string
	for _, l := range g.Nav() {
		label := l.Label
		switch l.Kind {
		case grid.LinkPrev:
			label = "«"
		case grid.LinkNext:
			label = "»"
		}
		if !l.Enabled {
			continue
		}
		if l.Current {
			label = "[" + label + "]"
		}
		links = append(links, label)
	}
	fmt.Println()
	fmt.Println(strings.Join(links, " "))
	return nil
}

func listIngests(ctx context.Context, st *store.Store, limit int) error {
	entries, err := st.GetIngestEntries(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list ingest runs: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No ingest runs found.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %-5s %4d cases %3d skipped  %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Format, e.Cases, e.Skipped, e.Source)
		if e.Error != "" {
			fmt.Printf("   Error: %s\n", e.Error)
		}
	}
	return nil
}
