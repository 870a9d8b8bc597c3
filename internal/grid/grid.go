// Package grid paginates a case list into cards and tracks the case
// detail overlay.
package grid

import (
	"fmt"
	"strconv"

	"github.com/Ashfaaq98/case-map-console/internal/catalog"
	"github.com/Ashfaaq98/case-map-console/internal/format"
)

const (
	// PageSize is the number of cards per page.
	PageSize = 6
	// MaxLinks caps the number of direct page links.
	MaxLinks = 5
	// DefaultNarrowWidth is the viewport width below which a card opens
	// the case page instead of the overlay.
	DefaultNarrowWidth = 650

	// Card titles are cropped to two lines of 28 characters.
	TitleLineLength = 28
	TitleLines      = 2
)

// Grid is the paginated card view over an ordered case list.
type Grid struct {
	cases       []catalog.Case
	page        int
	overlay     int
	visible     bool
	narrowWidth int
}

// New creates an empty, hidden grid. A non-positive narrowWidth selects
// DefaultNarrowWidth.
func New(narrowWidth int) *Grid {
	if narrowWidth <= 0 {
		narrowWidth = DefaultNarrowWidth
	}
	return &Grid{overlay: -1, narrowWidth: narrowWidth}
}

// DisplayCases replaces the list, closes the overlay and shows page 0.
func (g *Grid) DisplayCases(cs []catalog.Case) {
	g.cases = cs
	g.overlay = -1
	g.SetPage(0)
}

// Cases returns the displayed list.
func (g *Grid) Cases() []catalog.Case {
	return g.cases
}

// SetPage shows page p, clamped to the existing pages.
func (g *Grid) SetPage(p int) {
	if last := g.NumPages() - 1; p > last {
		p = last
	}
	if p < 0 {
		p = 0
	}
	g.page = p
}

// Page returns the current page index.
func (g *Grid) Page() int {
	return g.page
}

// NumPages returns ceil(len(cases) / PageSize).
func (g *Grid) NumPages() int {
	return (len(g.cases) + PageSize - 1) / PageSize
}

// PageStart returns the index of the first case on page p.
func (g *Grid) PageStart(p int) int {
	return p * PageSize
}

// PageEnd returns one past the index of the last case on page p.
func (g *Grid) PageEnd(p int) int {
	return min(g.PageStart(p)+PageSize, len(g.cases))
}

// PageCases returns the cases on the current page.
func (g *Grid) PageCases() []catalog.Case {
	start, end := g.PageStart(g.page), g.PageEnd(g.page)
	if start >= end {
		return nil
	}
	return g.cases[start:end]
}

// IsFirstPage reports whether the current page is the first one.
func (g *Grid) IsFirstPage() bool {
	return g.page <= 0
}

// IsLastPage reports whether the current page is the last one.
func (g *Grid) IsLastPage() bool {
	return g.page >= g.NumPages()-1
}

// NumLinks is the number of direct page links shown.
func (g *Grid) NumLinks() int {
	return min(g.NumPages(), MaxLinks)
}

// LinkRange returns the half-open range of pages linked directly. The
// window centers on the current page and shifts at either end so that
// it keeps NumLinks pages.
func (g *Grid) LinkRange() (start, end int) {
	n := g.NumLinks()
	numPages := g.NumPages()
	first := g.page - floorDiv(n-1, 2)
	last := g.page + floorDiv(n+2, 2)
	leftOverflow := max(0-first, 0)
	rightOverflow := max(last-numPages, 0)
	return max(first-rightOverflow, 0), min(last+leftOverflow, numPages)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// LinkKind distinguishes nav links.
type LinkKind int

const (
	LinkPrev LinkKind = iota
	LinkQuickStart
	LinkPage
	LinkQuickEnd
	LinkNext
)

// NavLink is one page navigation control.
type NavLink struct {
	Kind    LinkKind
	Page    int
	Label   string
	Enabled bool
	Current bool
}

// Nav returns the navigation controls in display order: previous, the
// quick link to the first page, the page window, the quick link to the
// last page, next.
func (g *Grid) Nav() []NavLink {
	start, end := g.LinkRange()
	numPages := g.NumPages()

	links := []NavLink{g.prevLink()}
	if start > 0 {
		links = append(links, NavLink{Kind: LinkQuickStart, Page: 0, Label: "1", Enabled: true})
	}
	for p := start; p < end; p++ {
		links = append(links, NavLink{
			Kind:    LinkPage,
			Page:    p,
			Label:   strconv.Itoa(p + 1),
			Enabled: true,
			Current: p == g.page,
		})
	}
	if end < numPages {
		links = append(links, NavLink{Kind: LinkQuickEnd, Page: numPages - 1, Label: strconv.Itoa(numPages), Enabled: true})
	}
	return append(links, g.nextLink())
}

func (g *Grid) prevLink() NavLink {
	if g.IsFirstPage() {
		return NavLink{Kind: LinkPrev, Page: g.page}
	}
	return NavLink{Kind: LinkPrev, Page: g.page - 1, Enabled: true}
}

func (g *Grid) nextLink() NavLink {
	if g.IsLastPage() {
		return NavLink{Kind: LinkNext, Page: g.page}
	}
	return NavLink{Kind: LinkNext, Page: g.page + 1, Enabled: true}
}

// Follow activates a nav link. Disabled links do nothing.
func (g *Grid) Follow(l NavLink) bool {
	if !l.Enabled {
		return false
	}
	g.SetPage(l.Page)
	return true
}

// Stats returns "X-Y of N" for the current page, "0-0 of 0" when empty.
func (g *Grid) Stats() string {
	first := "0"
	if len(g.cases) > 0 {
		first = strconv.Itoa(g.PageStart(g.page) + 1)
	}
	return fmt.Sprintf("%s-%d of %d", first, g.PageEnd(g.page), len(g.cases))
}

// StatsLabel is Stats followed by the collection name.
func (g *Grid) StatsLabel() string {
	return g.Stats() + " Section 106 Cases"
}

// CardTitle crops a case title for a card.
func CardTitle(c catalog.Case) string {
	return format.Ellipse(TitleLineLength, TitleLines, c.Title)
}

// SetVisible shows or hides the view.
func (g *Grid) SetVisible(v bool) {
	g.visible = v
}

// Visible reports whether the view is shown.
func (g *Grid) Visible() bool {
	return g.visible
}
