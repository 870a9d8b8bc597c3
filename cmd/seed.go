package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/Ashfaaq98/case-map-console/internal/catalog"
)

var (
	seedCount int
	seedForce bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed sample Section 106 cases into the database",
	Long: `Seed sample Section 106 cases into the SQLite database.
This is useful for local testing when the database is empty. The samples
spread over several states so the map shows single, multiple and
clustered markers, and over enough cards to page through the grid.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVar(&seedCount, "count", 14, "Number of sample cases to create")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Seed even when the database already has cases")
}

// sampleProjects are cycled through to build the seeded cases.
var sampleProjects = []struct {
	title  string
	agency string
	states []string
	body   string
}{
	{"Bridge Replacement over Cache Creek", "Federal Highway Administration", []string{"California"},
		"<p>Replacement of a 1931 <strong>concrete arch bridge</strong> listed in the National Register.</p>"},
	{"Rio Grande Levee Improvements", "U.S. Army Corps of Engineers", []string{"Texas", "New Mexico"},
		"<p>Raising of levees along the Rio Grande near historic acequias.</p>"},
	{"Downtown Post Office Rehabilitation", "U.S. Postal Service", []string{"Colorado"},
		"<p>Rehabilitation of a 1936 post office with New Deal era murals.</p>"},
	{"Transmission Line Right of Way", "Bureau of Land Management", []string{"Utah", "Nevada", "Arizona"},
		"<p>New 500kV line crossing <em>traditional cultural properties</em>.</p>"},
	{"Harbor Dredging and Pier Removal", "U.S. Coast Guard", []string{"Massachusetts"},
		"<p>Removal of a 19th century timber pier within a historic district.</p>"},
	{"Military Housing Demolition", "Department of the Air Force", []string{"Texas"},
		"<p>Demolition of Capehart era family housing.</p>"},
	{"Wind Energy Facility", "Bureau of Ocean Energy Management", []string{"Rhode Island", "Massachusetts"},
		"<p>Offshore turbines visible from historic properties on the coast.</p>"},
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	config := GetConfig()

	logger := log.New(cmd.OutOrStdout(), "[seed] ", log.LstdFlags)
	logger.Println("Seeding sample data...")

	st, err := openStore(config, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	existing, err := st.ListCases(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list cases: %w", err)
	}
	if len(existing) > 0 && !seedForce {
		logger.Printf("Database already has %d cases, skipping (use --force to seed anyway)", len(existing))
		return nil
	}

	cases := sampleCases(seedCount)
	if err := st.SaveCases(ctx, cases); err != nil {
		return fmt.Errorf("failed to save sample cases: %w", err)
	}

	logger.Printf("Seeded %d cases", len(cases))
	return nil
}

// sampleCases builds n cases cycling through sampleProjects. Every
// seventh case is closed so the status filter has something to drop.
func sampleCases(n int) []catalog.Case {
	cases := make([]catalog.Case, 0, n)
	for i := 0; i < n; i++ {
		p := sampleProjects[i%len(sampleProjects)]
		title := p.title
		if i >= len(sampleProjects) {
			title = fmt.Sprintf("%s, Phase %d", p.title, i/len(sampleProjects)+1)
		}
		status := "Open"
		if i%7 == 6 {
			status = "Closed"
		}
		id := fmt.Sprintf("seed-%03d", i+1)
		cases = append(cases, catalog.Case{
			ID:     id,
			URL:    "https://www.achp.gov/section106/cases/" + id,
			Title:  title,
			Body:   p.body,
			Agency: p.agency,
			POC: catalog.PointOfContact{
				Name:  "Jordan Reyes",
				Title: "Federal Preservation Officer",
				Email: "preservation@example.gov",
				Phone: "202-555-0100",
			},
			States: p.states,
			Status: status,
		})
	}
	return cases
}
