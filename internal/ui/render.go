package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rivo/tview"

	"github.com/Ashfaaq98/case-map-console/internal/catalog"
	"github.com/Ashfaaq98/case-map-console/internal/format"
	"github.com/Ashfaaq98/case-map-console/internal/grid"
	"github.com/Ashfaaq98/case-map-console/internal/mapview"
	"github.com/Ashfaaq98/case-map-console/internal/search"
	"github.com/Ashfaaq98/case-map-console/internal/view"
)

// itemKind distinguishes what a map cell shows.
type itemKind int

const (
	itemSingle itemKind = iota
	itemMultiple
	itemCluster
)

// mapItem is one drawable marker or cluster on the canvas.
type mapItem struct {
	X, Y     int
	Kind     itemKind
	Label    string
	MarkerID string
	Cluster  *mapview.Cluster
	Selected bool
}

// mapItems projects the current layer onto the canvas. Items whose icon
// asset is not available are left out of this render, as are items
// outside the viewport. Items are ordered left to right, top to bottom.
func mapItems(m *mapview.Map) []mapItem {
	layer := m.Layer()
	items := make([]mapItem, 0, len(layer.Clusters)+len(layer.Markers))

	for _, c := range layer.Clusters {
		icon := m.ClusterIcon(c)
		if icon == nil {
			continue
		}
		x, y, ok := m.Project(c.Center())
		if !ok {
			continue
		}
		items = append(items, mapItem{X: x, Y: y, Kind: itemCluster, Label: "(" + icon.Badge + ")", Cluster: c})
	}

	for _, mk := range layer.Markers {
		icon := m.MarkerIcon(mk.ID)
		if icon == nil {
			continue
		}
		x, y, ok := m.Project(mk.Position)
		if !ok {
			continue
		}
		item := mapItem{
			X:        x,
			Y:        y,
			Kind:     itemSingle,
			Label:    strings.ToUpper(mk.Abbreviation),
			MarkerID: mk.ID,
			Selected: mk.ID == m.Selected(),
		}
		if icon.Badge != "" {
			item.Kind = itemMultiple
			item.Label += ":" + icon.Badge
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Y != items[j].Y {
			return items[i].Y < items[j].Y
		}
		return items[i].X < items[j].X
	})
	return items
}

// tabsText renders the header tabs with the selected one highlighted.
func tabsText(selected view.Mode, th Theme) string {
	tab := func(m view.Mode, label string) string {
		if m == selected {
			return fmt.Sprintf("[%s::bu] %s [-::-]", th.TagAccent, label)
		}
		return fmt.Sprintf("[%s]  %s  [-]", th.TagMuted, label)
	}
	return tab(view.ModeMap, "Map") + " " + tab(view.ModeGrid, "Grid")
}

// panelText renders the state panel: its title and every case in the group.
func panelText(p mapview.Panel, th Theme) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s::b]%s[-::-]\n\n", th.TagHeader, tview.Escape(p.Title))
	for i, c := range p.Group.Cases {
		fmt.Fprintf(&sb, "[%s]%s[-] %s\n", th.TagAccent, format.CaseNumber(i), tview.Escape(c.Title))
		if c.URL != "" {
			fmt.Fprintf(&sb, "   [%s]%s[-]\n", th.TagMuted, tview.Escape(c.URL))
		}
	}
	return sb.String()
}

// cardText renders one grid card: the ellipsed title over its location.
func cardText(c catalog.Case, th Theme) string {
	return fmt.Sprintf("[%s::b]%s[-::-]\n[%s]%s[-]",
		th.TagTextPrimary, tview.Escape(grid.CardTitle(c)),
		th.TagMuted, tview.Escape(c.Location()))
}

// navText renders the page navigation links.
func navText(links []grid.NavLink, th Theme) string {
	parts := make([]string, 0, len(links)+2)
	for _, l := range links {
		label := l.Label
		switch l.Kind {
		case grid.LinkPrev:
			label = "« PREV"
		case grid.LinkNext:
			label = "NEXT »"
		}

		var r string
		switch {
		case !l.Enabled:
			r = fmt.Sprintf("[%s]%s[-]", th.TagMuted, label)
		case l.Current:
			r = fmt.Sprintf("[%s::r] %s [-::-]", th.TagAccent, label)
		default:
			r = fmt.Sprintf("[%s]%s[-]", th.TagTextPrimary, label)
		}

		if l.Kind == grid.LinkQuickEnd {
			parts = append(parts, "…")
		}
		parts = append(parts, r)
		if l.Kind == grid.LinkQuickStart {
			parts = append(parts, "…")
		}
	}
	return strings.Join(parts, " ")
}

// detailText renders the overlay body for the case at index of the grid
// list.
func detailText(c catalog.Case, index int, th Theme) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s::b]%s[-::-]  [%s::b]%s[-::-]\n", th.TagAccent, format.CaseNumber(index), th.TagHeader, tview.Escape(c.Title))
	if loc := c.Location(); loc != "" {
		fmt.Fprintf(&sb, "[%s]%s[-]\n", th.TagMuted, tview.Escape(loc))
	}
	sb.WriteString("\n")

	if body := search.PlainText(c.Body); body != "" {
		sb.WriteString(tview.Escape(body))
		sb.WriteString("\n\n")
	}

	if c.Agency != "" {
		fmt.Fprintf(&sb, "[%s::b]Agency Involved:[-::-]\n%s\n\n", th.TagTextPrimary, tview.Escape(c.Agency))
	}

	poc := c.POC
	if poc.Name != "" || poc.Title != "" || poc.Email != "" || poc.Phone != "" {
		fmt.Fprintf(&sb, "[%s::b]Federal Point of Contact:[-::-]\n", th.TagTextPrimary)
		for _, line := range []string{poc.Name, poc.Title, poc.Email} {
			if line != "" {
				sb.WriteString(tview.Escape(line))
				sb.WriteString("\n")
			}
		}
		if poc.Phone != "" {
			fmt.Fprintf(&sb, "Phone: %s\n", tview.Escape(poc.Phone))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// overlayNavText renders the PREVIOUS/NEXT controls of the overlay.
func overlayNavText(g *grid.Grid, th Theme) string {
	link := func(label string, enabled bool) string {
		if enabled {
			return fmt.Sprintf("[%s::b]%s[-::-]", th.TagAccent, label)
		}
		return fmt.Sprintf("[%s]%s[-]", th.TagMuted, label)
	}
	return link("← PREVIOUS", g.PrevEnabled()) + "    " + link("NEXT →", g.NextEnabled()) +
		fmt.Sprintf("    [%s]f[-]:facebook [%s]w[-]:twitter [%s]e[-]:email [%s]c[-]:copy link [%s]Esc[-]:close",
			th.TagAccent, th.TagAccent, th.TagAccent, th.TagAccent, th.TagAccent)
}

func itoa(n int) string { return strconv.Itoa(n) }

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) }
