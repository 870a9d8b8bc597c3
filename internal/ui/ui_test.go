package ui

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashfaaq98/case-map-console/internal/catalog"
	"github.com/Ashfaaq98/case-map-console/internal/grid"
	"github.com/Ashfaaq98/case-map-console/internal/icons"
	"github.com/Ashfaaq98/case-map-console/internal/share"
	"github.com/Ashfaaq98/case-map-console/internal/view"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 50 50"><title>marker</title><circle cx="25" cy="25" r="10"/></svg>`

// titleSource matches a query against case titles, ignoring case.
type titleSource struct {
	all []catalog.Case
}

func (s *titleSource) All() []catalog.Case { return append([]catalog.Case(nil), s.all...) }

func (s *titleSource) Filter(ctx context.Context, query string) []catalog.Case {
	var out []catalog.Case
	for _, c := range s.all {
		if strings.Contains(strings.ToLower(c.Title), strings.ToLower(query)) {
			out = append(out, c)
		}
	}
	return out
}

func testCases(n int) []catalog.Case {
	stateNames := []string{"California", "California", "Texas"}
	cs := make([]catalog.Case, n)
	for i := range cs {
		cs[i] = catalog.Case{
			ID:     fmt.Sprintf("%d", i+1),
			URL:    fmt.Sprintf("https://www.achp.gov/cases/%d", i+1),
			Title:  fmt.Sprintf("Case %02d", i+1),
			States: []string{stateNames[i%len(stateNames)]},
		}
	}
	return cs
}

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func loadedIcons(t *testing.T) *icons.Cache {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{icons.SingleCase, icons.MultipleCases, icons.MarkerGroup} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".svg"), []byte(testSVG), 0644))
	}
	cache := icons.New(icons.DirFetcher{Dir: dir}, icons.Options{Logger: quietLogger()})
	require.NoError(t, cache.Prefetch(context.Background(), icons.SingleCase, icons.MultipleCases, icons.MarkerGroup))
	return cache
}

type recorder struct {
	opened []string
	copied []string
}

func newTestUI(t *testing.T, cs []catalog.Case, instances int) (*UI, *recorder) {
	t.Helper()
	rec := &recorder{}
	sharer := share.New(share.Options{
		Logger: quietLogger(),
		Open:   func(url string) error { rec.opened = append(rec.opened, url); return nil },
		Copy:   func(text string) error { rec.copied = append(rec.copied, text); return nil },
	})
	ui := NewUI(context.Background(), Options{
		Source:    &titleSource{all: cs},
		Instances: instances,
		Icons:     loadedIcons(t),
		Sharer:    sharer,
		Logger:    quietLogger(),
		Theme:     "dark",
	})
	t.Cleanup(ui.cancel)
	return ui, rec
}

func runeKey(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }

func frontPage(p *Pane) string {
	name, _ := p.body.GetFrontPage()
	return name
}

func TestNewUI(t *testing.T) {
	ui, _ := newTestUI(t, testCases(3), 0)

	require.Len(t, ui.panes, 1)
	stats := ui.GetStats()
	assert.Equal(t, 1, stats["panes"])
	assert.Equal(t, "dark", stats["theme"])
	assert.Equal(t, "map", stats["pane_1_mode"])
	assert.Equal(t, 3, stats["pane_1_cases"])
	assert.Equal(t, pageMap, frontPage(ui.panes[0]))
	assert.Contains(t, ui.statusBar.GetText(true), "Ready")
}

func TestInstancesAreClampedAndIndependent(t *testing.T) {
	ui, _ := newTestUI(t, testCases(3), 9)
	require.Len(t, ui.panes, MaxInstances)

	ui.panes[0].filter.SetText("case 01")
	ui.panes[1].showGrid()

	insts := ui.Panes()
	assert.Len(t, insts[0].Cases(), 1)
	assert.Equal(t, view.ModeMap, insts[0].Mode())
	assert.Len(t, insts[1].Cases(), 3)
	assert.Equal(t, view.ModeGrid, insts[1].Mode())
	assert.Equal(t, view.ModeMap, insts[2].Mode())
}

func TestFilterInputAndClear(t *testing.T) {
	ui, _ := newTestUI(t, testCases(3), 1)
	p := ui.panes[0]

	assert.Empty(t, p.clearHint.GetText(true))

	p.filter.SetText("case 03")
	assert.Equal(t, "case 03", p.inst.State().Query)
	require.Len(t, p.inst.Cases(), 1)
	assert.Contains(t, p.clearHint.GetText(true), "clear")

	p.clear()
	assert.Empty(t, p.filter.GetText())
	assert.Empty(t, p.inst.State().Query)
	assert.Len(t, p.inst.Cases(), 3)
	assert.Empty(t, p.clearHint.GetText(true))

	// Blank input behaves like clear.
	p.filter.SetText("case 01")
	p.filter.SetText("   ")
	assert.Len(t, p.inst.Cases(), 3)
}

func TestTabKeysSwitchModes(t *testing.T) {
	ui, _ := newTestUI(t, testCases(3), 1)
	p := ui.panes[0]

	assert.Nil(t, p.mapKeys(runeKey('g')))
	assert.Equal(t, view.ModeGrid, p.inst.Mode())
	assert.Equal(t, pageGrid, frontPage(p))
	assert.Contains(t, p.tabs.GetText(false), "::bu] Grid ")

	assert.Nil(t, p.gridKeys(runeKey('m')))
	assert.Equal(t, view.ModeMap, p.inst.Mode())
	assert.Equal(t, pageMap, frontPage(p))
}

func TestGridPaging(t *testing.T) {
	ui, _ := newTestUI(t, testCases(13), 1)
	p := ui.panes[0]
	p.showGrid()

	g := p.inst.Grid
	assert.Equal(t, "1-6 of 13 Section 106 Cases", p.stats.GetText(true))

	p.gridKeys(runeKey(']'))
	assert.Equal(t, 1, g.Page())
	p.gridKeys(key(tcell.KeyEnd))
	assert.Equal(t, 2, g.Page())
	assert.Equal(t, "13-13 of 13 Section 106 Cases", p.stats.GetText(true))

	// Next is disabled on the last page.
	p.gridKeys(runeKey(']'))
	assert.Equal(t, 2, g.Page())

	p.gridKeys(runeKey('2'))
	assert.Equal(t, 1, g.Page())
	p.gridKeys(key(tcell.KeyHome))
	assert.Equal(t, 0, g.Page())

	p.gridKeys(key(tcell.KeyRight))
	p.gridKeys(key(tcell.KeyDown))
	assert.Equal(t, 4, p.card)
	p.gridKeys(key(tcell.KeyDown))
	assert.Equal(t, 4, p.card, "moving past the page keeps the card")
}

func TestOpenCardShowsOverlay(t *testing.T) {
	ui, _ := newTestUI(t, testCases(13), 1)
	p := ui.panes[0]
	p.root.SetRect(0, 0, 120, 40)
	p.showGrid()

	p.gridKeys(key(tcell.KeyRight))
	p.gridKeys(key(tcell.KeyEnter))
	idx, ok := p.inst.Grid.Overlay()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, pageOverlay, frontPage(p))
	assert.Contains(t, p.overlay.GetText(true), "Case 02")

	p.overlayKeys(key(tcell.KeyRight))
	idx, _ = p.inst.Grid.Overlay()
	assert.Equal(t, 2, idx)

	p.overlayKeys(key(tcell.KeyLeft))
	p.overlayKeys(key(tcell.KeyLeft))
	p.overlayKeys(key(tcell.KeyLeft))
	idx, _ = p.inst.Grid.Overlay()
	assert.Equal(t, 0, idx)
	assert.Contains(t, p.overlay.GetText(true), "01")

	p.overlayKeys(key(tcell.KeyEsc))
	_, ok = p.inst.Grid.Overlay()
	assert.False(t, ok)
	assert.Equal(t, pageGrid, frontPage(p))
}

func TestNarrowPaneNavigates(t *testing.T) {
	ui, rec := newTestUI(t, testCases(3), 1)
	p := ui.panes[0]
	p.root.SetRect(0, 0, 60, 40)
	p.showGrid()

	p.gridKeys(key(tcell.KeyEnter))
	_, ok := p.inst.Grid.Overlay()
	assert.False(t, ok)
	assert.Equal(t, []string{"https://www.achp.gov/cases/1"}, rec.opened)
}

func TestShareFromOverlay(t *testing.T) {
	ui, rec := newTestUI(t, testCases(3), 1)
	p := ui.panes[0]
	p.root.SetRect(0, 0, 120, 40)
	p.showGrid()
	p.gridKeys(key(tcell.KeyEnter))

	p.overlayKeys(runeKey('c'))
	assert.Equal(t, []string{"https://www.achp.gov/cases/1"}, rec.copied)
	assert.Contains(t, ui.statusBar.GetText(true), share.CopiedToast)

	p.overlayKeys(runeKey('w'))
	require.Len(t, rec.opened, 1)
	assert.True(t, strings.HasPrefix(rec.opened[0], "https://twitter.com/"), rec.opened[0])
}

func TestMapMarkersAndPanel(t *testing.T) {
	ui, _ := newTestUI(t, testCases(3), 1)
	p := ui.panes[0]
	p.canvas.layout(120, 40)

	labels := map[string]mapItem{}
	for _, it := range p.canvas.items {
		labels[it.Label] = it
	}
	require.Contains(t, labels, "CA:2")
	require.Contains(t, labels, "TX")
	assert.Equal(t, itemMultiple, labels["CA:2"].Kind)
	assert.Equal(t, itemSingle, labels["TX"].Kind)
	assert.Contains(t, p.attribution.GetText(true), "OpenStreetMap")

	p.canvas.cursorKey = itemKey(labels["CA:2"])
	p.mapKeys(key(tcell.KeyEnter))

	panel, ok := p.inst.Map.Panel()
	require.True(t, ok)
	assert.Equal(t, "Cases in California", panel.Title)
	assert.Contains(t, p.panel.GetText(true), "Cases in California")
	assert.Empty(t, p.attribution.GetText(true))

	p.canvas.layout(120, 40)
	for _, it := range p.canvas.items {
		assert.Equal(t, it.Label == "CA:2", it.Selected, it.Label)
	}

	p.mapKeys(key(tcell.KeyEsc))
	_, ok = p.inst.Map.Panel()
	assert.False(t, ok)
	assert.Contains(t, p.attribution.GetText(true), "OpenStreetMap")
}

func TestMapCursorWraps(t *testing.T) {
	ui, _ := newTestUI(t, testCases(3), 1)
	p := ui.panes[0]
	p.canvas.layout(120, 40)
	require.Len(t, p.canvas.items, 2)

	first := p.canvas.cursor()
	p.mapKeys(runeKey('n'))
	assert.Equal(t, (first+1)%2, p.canvas.cursor())
	p.mapKeys(runeKey('n'))
	assert.Equal(t, first, p.canvas.cursor())
	p.mapKeys(runeKey('p'))
	assert.Equal(t, (first+1)%2, p.canvas.cursor())
}

func TestMissingIconsHideMarkers(t *testing.T) {
	cache := icons.New(icons.DirFetcher{Dir: t.TempDir()}, icons.Options{Logger: quietLogger()})
	_ = cache.Prefetch(context.Background(), icons.SingleCase, icons.MultipleCases, icons.MarkerGroup)

	ui := NewUI(context.Background(), Options{
		Source: &titleSource{all: testCases(3)},
		Icons:  cache,
		Logger: quietLogger(),
	})
	t.Cleanup(ui.cancel)

	p := ui.panes[0]
	p.canvas.layout(120, 40)
	assert.Empty(t, p.canvas.items)
	_, ok := p.canvas.activate()
	assert.False(t, ok)
}

func TestResizeScalesEveryPane(t *testing.T) {
	ui, _ := newTestUI(t, testCases(3), 2)

	ui.resize(100, 30)
	for _, in := range ui.Panes() {
		assert.True(t, in.State().Compact)
	}

	ui.resize(100, 50)
	for _, in := range ui.Panes() {
		assert.False(t, in.State().Compact)
	}
}

func TestThemes(t *testing.T) {
	assert.Equal(t, "light", nextTheme("dark"))
	assert.Equal(t, "dark", nextTheme("high-contrast"))
	assert.Equal(t, "dark", nextTheme("unknown"))

	name, th := themeByName("bogus")
	assert.Equal(t, "dark", name)
	assert.Equal(t, themeDark(), th)

	ui, _ := newTestUI(t, testCases(1), 1)
	ui.cycleTheme()
	assert.Equal(t, "light", ui.themeName)
	assert.Contains(t, ui.statusBar.GetText(true), "Theme: light")
}

func TestDetailText(t *testing.T) {
	c := catalog.Case{
		Title:  "Lighthouse Restoration",
		Body:   "<p>Repair the <b>lens</b>.</p><script>x()</script>",
		Agency: "U.S. Coast Guard",
		POC:    catalog.PointOfContact{Name: "Ann Lee", Title: "Historian", Email: "ann@example.gov", Phone: "555-0100"},
		States: []string{"Maine", "New Hampshire"},
	}
	text := detailText(c, 11, themeDark())
	for _, want := range []string{
		"12", "Lighthouse Restoration", "Maine, New Hampshire", "Repair the lens.",
		"Agency Involved:", "U.S. Coast Guard",
		"Federal Point of Contact:", "Ann Lee", "Historian", "ann@example.gov", "Phone: 555-0100",
	} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "x()")

	bare := detailText(catalog.Case{Title: "Bare"}, 0, themeDark())
	assert.NotContains(t, bare, "Agency Involved:")
	assert.NotContains(t, bare, "Federal Point of Contact:")
}

func TestNavText(t *testing.T) {
	g := grid.New(0)
	g.DisplayCases(testCases(60))
	g.SetPage(5)

	text := navText(g.Nav(), themeDark())
	assert.Contains(t, text, "« PREV")
	assert.Contains(t, text, "NEXT »")
	assert.Contains(t, text, "1[-] …")
	assert.Contains(t, text, "… [")
	assert.Contains(t, text, " 6 ")
}

func TestHelpText(t *testing.T) {
	text := helpText(themeDark())
	assert.Contains(t, text, "PREVIOUS / NEXT")
	assert.Contains(t, text, "copy link")
}
