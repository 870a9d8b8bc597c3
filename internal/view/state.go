// Package view is the feature instance controller. It owns the filter
// input and the Map/Grid mode, and keeps the active view in sync with
// the active case subset.
//
// Transitions are pure: each takes a State and returns the next State
// plus the Commands the host applies to its views.
package view

import (
	"context"
	"strings"

	"github.com/Ashfaaq98/case-map-console/internal/catalog"
)

// Mode is the active view.
type Mode int

const (
	ModeMap Mode = iota
	ModeGrid
)

func (m Mode) String() string {
	switch m {
	case ModeMap:
		return "Map"
	case ModeGrid:
		return "Grid"
	default:
		return "unknown"
	}
}

// DefaultCompactHeight is the viewport height below which the compact
// layout is used.
const DefaultCompactHeight = 750

// State is the per-instance view state.
type State struct {
	Mode Mode
	// Query is the raw filter input.
	Query string
	// Active is the case subset both views render from.
	Active  []catalog.Case
	Compact bool
}

// ClearVisible reports whether the clear control is shown.
func (s State) ClearVisible() bool {
	return s.Query != ""
}

// Source supplies the full case list and filtered subsets.
// *catalog.Catalog satisfies it.
type Source interface {
	All() []catalog.Case
	Filter(ctx context.Context, query string) []catalog.Case
}

// Initial returns the starting state: map mode over every case, centered
// on the default bounds.
func Initial(all []catalog.Case) (State, []Command) {
	s := State{Mode: ModeMap, Active: all}
	cmds := []Command{
		SetMarkers{Cases: all},
		SelectTab{Mode: ModeMap},
		HideGrid{},
		ShowMap{},
		InvalidateMapSize{},
		CenterMap{},
	}
	return s, cmds
}

// ToMap switches to map mode, pushes the active subset and fits the
// viewport to its markers.
func ToMap(s State) (State, []Command) {
	s.Mode = ModeMap
	return s, []Command{
		SetMarkers{Cases: s.Active},
		SelectTab{Mode: ModeMap},
		HideGrid{},
		ShowMap{},
		InvalidateMapSize{},
		FocusMap{},
	}
}

// ToGrid switches to grid mode and pushes the active subset.
func ToGrid(s State) (State, []Command) {
	s.Mode = ModeGrid
	return s, []Command{
		DisplayCases{Cases: s.Active},
		SelectTab{Mode: ModeGrid},
		HideMap{},
		ShowGrid{},
	}
}

// Input applies a new filter input. An input that is blank after
// trimming behaves like Clear.
func Input(ctx context.Context, s State, src Source, query string) (State, []Command) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		next, cmds := Clear(s, src.All())
		next.Query = query
		return next, cmds
	}

	s.Query = query
	s.Active = src.Filter(ctx, trimmed)
	cmds := []Command{QueryChanged{Query: trimmed, Matches: len(s.Active)}}
	switch s.Mode {
	case ModeMap:
		cmds = append(cmds, SetMarkers{Cases: s.Active}, FocusMap{})
	case ModeGrid:
		cmds = append(cmds, DisplayCases{Cases: s.Active})
	}
	return s, cmds
}

// Clear empties the filter and restores every case. Map mode re-centers
// on the default bounds instead of focusing the markers.
func Clear(s State, all []catalog.Case) (State, []Command) {
	s.Query = ""
	s.Active = all
	var cmds []Command
	switch s.Mode {
	case ModeMap:
		cmds = []Command{CenterMap{}, SetMarkers{Cases: all}}
	case ModeGrid:
		cmds = []Command{DisplayCases{Cases: all}}
	}
	return s, cmds
}

// Scale re-evaluates the compact layout for a viewport height and asks
// the map to recompute its size.
func Scale(s State, height, threshold int) (State, []Command) {
	if threshold <= 0 {
		threshold = DefaultCompactHeight
	}
	s.Compact = height < threshold
	return s, []Command{SetCompact{Compact: s.Compact}, InvalidateMapSize{}}
}
