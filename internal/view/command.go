package view

import "github.com/Ashfaaq98/case-map-console/internal/catalog"

// Command is a side effect requested by a transition.
type Command interface {
	command()
}

type (
	// SetMarkers replaces the map markers.
	SetMarkers struct{ Cases []catalog.Case }
	// DisplayCases replaces the grid list and resets it to page 0.
	DisplayCases struct{ Cases []catalog.Case }
	// FocusMap fits the map to its markers.
	FocusMap struct{}
	// CenterMap fits the map to the default bounds.
	CenterMap struct{}
	// SelectTab highlights the tab of a mode.
	SelectTab struct{ Mode Mode }
	ShowMap   struct{}
	HideMap   struct{}
	ShowGrid  struct{}
	HideGrid  struct{}
	// InvalidateMapSize makes the map re-read its canvas size.
	InvalidateMapSize struct{}
	// SetCompact toggles the compact layout.
	SetCompact struct{ Compact bool }
	// QueryChanged reports a non-empty filter query.
	QueryChanged struct {
		Query   string
		Matches int
	}
)

func (SetMarkers) command()        {}
func (DisplayCases) command()      {}
func (FocusMap) command()          {}
func (CenterMap) command()         {}
func (SelectTab) command()         {}
func (ShowMap) command()           {}
func (HideMap) command()           {}
func (ShowGrid) command()          {}
func (HideGrid) command()          {}
func (InvalidateMapSize) command() {}
func (SetCompact) command()        {}
func (QueryChanged) command()      {}
