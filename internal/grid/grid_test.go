package grid

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashfaaq98/case-map-console/internal/catalog"
)

func makeCases(n int) []catalog.Case {
	cs := make([]catalog.Case, n)
	for i := range cs {
		id := strconv.Itoa(i + 1)
		cs[i] = catalog.Case{ID: id, Title: "Case " + id, URL: "https://example.org/case/" + id}
	}
	return cs
}

func TestThirteenCases(t *testing.T) {
	g := New(0)
	g.DisplayCases(makeCases(13))

	assert.Equal(t, 3, g.NumPages())
	assert.Equal(t, 0, g.Page())
	page := g.PageCases()
	require.Len(t, page, 6)
	assert.Equal(t, "1", page[0].ID)
	assert.Equal(t, "6", page[5].ID)
	assert.Equal(t, "1-6 of 13", g.Stats())

	g.SetPage(2)
	page = g.PageCases()
	require.Len(t, page, 1)
	assert.Equal(t, "13", page[0].ID)
	assert.Equal(t, "13-13 of 13", g.Stats())
	assert.Equal(t, "13-13 of 13 Section 106 Cases", g.StatsLabel())
}

func TestPaginationExactness(t *testing.T) {
	for n := 0; n <= 40; n++ {
		g := New(0)
		g.DisplayCases(makeCases(n))
		numPages := g.NumPages()
		assert.Equal(t, (n+5)/6, numPages, "n=%d", n)
		for p := 0; p < numPages; p++ {
			g.SetPage(p)
			size := len(g.PageCases())
			if p < numPages-1 {
				assert.Equal(t, PageSize, size, "n=%d page=%d", n, p)
			} else {
				assert.Equal(t, n-PageSize*(numPages-1), size, "n=%d page=%d", n, p)
				assert.Positive(t, size)
			}
		}
	}
}

func TestEmptyGrid(t *testing.T) {
	g := New(0)
	g.DisplayCases(nil)
	assert.Equal(t, 0, g.NumPages())
	assert.Empty(t, g.PageCases())
	assert.Equal(t, "0-0 of 0", g.Stats())

	start, end := g.LinkRange()
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)

	nav := g.Nav()
	require.Len(t, nav, 2)
	assert.False(t, nav[0].Enabled)
	assert.False(t, nav[1].Enabled)
}

func TestLinkWindowBound(t *testing.T) {
	for n := 0; n <= 80; n += 3 {
		g := New(0)
		g.DisplayCases(makeCases(n))
		numPages := g.NumPages()
		for p := 0; p < max(numPages, 1); p++ {
			g.SetPage(p)
			start, end := g.LinkRange()
			assert.Equal(t, min(numPages, MaxLinks), end-start, "n=%d page=%d", n, p)
			assert.GreaterOrEqual(t, start, 0)
			assert.LessOrEqual(t, end, numPages)
			if numPages > 0 {
				assert.True(t, start <= p && p < end, "current page inside window")
			}
		}
	}
}

func TestLinkWindowShifts(t *testing.T) {
	g := New(0)
	g.DisplayCases(makeCases(60)) // 10 pages

	cases := []struct {
		page, start, end int
	}{
		{0, 0, 5},
		{1, 0, 5},
		{2, 0, 5},
		{5, 3, 8},
		{8, 5, 10},
		{9, 5, 10},
	}
	for _, tc := range cases {
		g.SetPage(tc.page)
		start, end := g.LinkRange()
		assert.Equal(t, tc.start, start, "page %d", tc.page)
		assert.Equal(t, tc.end, end, "page %d", tc.page)
	}
}

func TestNavQuickLinks(t *testing.T) {
	g := New(0)
	g.DisplayCases(makeCases(60))
	g.SetPage(5)

	nav := g.Nav()
	kinds := make([]LinkKind, len(nav))
	for i, l := range nav {
		kinds[i] = l.Kind
	}
	assert.Equal(t, []LinkKind{LinkPrev, LinkQuickStart, LinkPage, LinkPage, LinkPage, LinkPage, LinkPage, LinkQuickEnd, LinkNext}, kinds)
	assert.Equal(t, "1", nav[1].Label)
	assert.Equal(t, "10", nav[7].Label)
	assert.Equal(t, 9, nav[7].Page)
	assert.True(t, nav[4].Current)
	assert.Equal(t, "6", nav[4].Label)

	g.SetPage(0)
	nav = g.Nav()
	assert.False(t, nav[0].Enabled)
	assert.NotEqual(t, LinkQuickStart, nav[1].Kind)
	assert.Equal(t, LinkQuickEnd, nav[len(nav)-2].Kind)

	assert.False(t, g.Follow(nav[0]))
	assert.True(t, g.Follow(nav[len(nav)-1]))
	assert.Equal(t, 1, g.Page())
}

func TestSetPageClamps(t *testing.T) {
	g := New(0)
	g.DisplayCases(makeCases(7))
	g.SetPage(99)
	assert.Equal(t, 1, g.Page())
	g.SetPage(-3)
	assert.Equal(t, 0, g.Page())
}

func TestOpenCaseByWidth(t *testing.T) {
	g := New(0)
	g.DisplayCases(makeCases(8))

	act := g.OpenCase(2, 400)
	assert.Equal(t, ActionNavigate, act.Kind)
	assert.Equal(t, "https://example.org/case/3", act.URL)
	_, open := g.Overlay()
	assert.False(t, open)

	act = g.OpenCase(2, DefaultNarrowWidth)
	assert.Equal(t, ActionOverlay, act.Kind)
	idx, open := g.Overlay()
	assert.True(t, open)
	assert.Equal(t, 2, idx)

	assert.Equal(t, ActionNone, g.OpenCase(99, 1000).Kind)
}

func TestOverlayAsymmetricBounds(t *testing.T) {
	g := New(0)
	g.DisplayCases(makeCases(13))

	g.OpenCase(0, 1000)
	assert.False(t, g.PrevEnabled())
	assert.False(t, g.OverlayPrev())
	assert.True(t, g.NextEnabled())

	for i := 1; i < 6; i++ {
		require.True(t, g.OverlayNext())
	}
	idx, _ := g.Overlay()
	assert.Equal(t, 5, idx)
	// Last card of page 0: NEXT stops even though case 7 exists.
	assert.False(t, g.NextEnabled())
	assert.False(t, g.OverlayNext())

	g.CloseOverlay()
	g.SetPage(1)
	g.OpenCase(6, 1000)
	// First card of page 1: PREVIOUS crosses back into page 0.
	assert.True(t, g.OverlayPrev())
	c, ok := g.OverlayCase()
	require.True(t, ok)
	assert.Equal(t, "6", c.ID)
	assert.True(t, g.NextEnabled())

	g.CloseOverlay()
	_, ok = g.OverlayCase()
	assert.False(t, ok)
}

func TestDisplayCasesResets(t *testing.T) {
	g := New(0)
	g.DisplayCases(makeCases(20))
	g.SetPage(3)
	g.OpenCase(18, 1000)

	g.DisplayCases(makeCases(4))
	assert.Equal(t, 0, g.Page())
	_, open := g.Overlay()
	assert.False(t, open)
}

func TestCardTitle(t *testing.T) {
	short := catalog.Case{Title: "Dam Safety Upgrade"}
	assert.Equal(t, "Dam Safety Upgrade", CardTitle(short))

	long := catalog.Case{Title: "Replacement of the Historic Main Street Bridge over the Cuyahoga River in Cleveland"}
	got := CardTitle(long)
	assert.LessOrEqual(t, len(got), TitleLineLength*TitleLines)
	assert.Contains(t, got, "...")
}
