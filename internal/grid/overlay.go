package grid

import "github.com/Ashfaaq98/case-map-console/internal/catalog"

// ActionKind is the outcome of opening a card.
type ActionKind int

const (
	ActionNone ActionKind = iota
	// ActionOverlay shows the case in the detail overlay.
	ActionOverlay
	// ActionNavigate leaves for the case's own page.
	ActionNavigate
)

// Action tells the host what a card click did.
type Action struct {
	Kind  ActionKind
	Index int
	URL   string
}

// OpenCase handles a click on the card at index for a viewport of the
// given width. Narrow viewports navigate to the case URL; wider ones open
// the overlay.
func (g *Grid) OpenCase(index, width int) Action {
	if index < 0 || index >= len(g.cases) {
		return Action{}
	}
	if width < g.narrowWidth {
		return Action{Kind: ActionNavigate, Index: index, URL: g.cases[index].URL}
	}
	g.overlay = index
	return Action{Kind: ActionOverlay, Index: index}
}

// Overlay returns the index of the case in the open overlay.
func (g *Grid) Overlay() (int, bool) {
	return g.overlay, g.overlay >= 0
}

// OverlayCase returns the case in the open overlay.
func (g *Grid) OverlayCase() (catalog.Case, bool) {
	if g.overlay < 0 || g.overlay >= len(g.cases) {
		return catalog.Case{}, false
	}
	return g.cases[g.overlay], true
}

// PrevEnabled reports whether PREVIOUS can move. It is bounded by the
// start of the whole list.
func (g *Grid) PrevEnabled() bool {
	return g.overlay > 0
}

// NextEnabled reports whether NEXT can move. It is bounded by the end of
// the current page, not the end of the list.
func (g *Grid) NextEnabled() bool {
	return g.overlay >= 0 && g.overlay < g.PageEnd(g.page)-1
}

// OverlayPrev shows the previous case when enabled.
func (g *Grid) OverlayPrev() bool {
	if !g.PrevEnabled() {
		return false
	}
	g.overlay--
	return true
}

// OverlayNext shows the next case when enabled.
func (g *Grid) OverlayNext() bool {
	if !g.NextEnabled() {
		return false
	}
	g.overlay++
	return true
}

// CloseOverlay hides the overlay.
func (g *Grid) CloseOverlay() {
	g.overlay = -1
}
