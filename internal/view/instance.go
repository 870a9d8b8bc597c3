package view

import (
	"context"
	"io"
	"log"

	"github.com/Ashfaaq98/case-map-console/internal/catalog"
	"github.com/Ashfaaq98/case-map-console/internal/grid"
	"github.com/Ashfaaq98/case-map-console/internal/mapview"
)

// Options configures an Instance.
type Options struct {
	Icons  mapview.IconSource
	Logger *log.Logger
	// CompactHeight is the height threshold of the compact layout, in the
	// host's units. Zero selects DefaultCompactHeight.
	CompactHeight int
	// NarrowWidth is the card click breakpoint. Zero selects
	// grid.DefaultNarrowWidth.
	NarrowWidth int
	// OnQuery observes every non-empty filter query.
	OnQuery func(query string, matches int)
}

// Instance is one feature instance: a filter, a map and a grid over a
// shared, read-only case source. An Instance is not safe for concurrent
// use; the host drives it from its event loop.
type Instance struct {
	src    Source
	state  State
	opts   Options
	logger *log.Logger

	Map  *mapview.Map
	Grid *grid.Grid

	selectedTab Mode
}

// NewInstance creates an instance in map mode showing every case.
func NewInstance(src Source, opts Options) *Instance {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	in := &Instance{
		src:    src,
		opts:   opts,
		logger: logger,
		Map:    mapview.New(mapview.Options{Icons: opts.Icons, Logger: logger}),
		Grid:   grid.New(opts.NarrowWidth),
	}
	var cmds []Command
	in.state, cmds = Initial(src.All())
	in.Apply(cmds)
	return in
}

// State returns the current view state.
func (in *Instance) State() State {
	return in.state
}

// Mode returns the active mode.
func (in *Instance) Mode() Mode {
	return in.state.Mode
}

// SelectedTab returns the highlighted tab.
func (in *Instance) SelectedTab() Mode {
	return in.selectedTab
}

// Cases returns a copy of the active subset.
func (in *Instance) Cases() []catalog.Case {
	return append([]catalog.Case(nil), in.state.Active...)
}

// ToMap switches to map mode.
func (in *Instance) ToMap() {
	in.step(ToMap(in.state))
}

// ToGrid switches to grid mode.
func (in *Instance) ToGrid() {
	in.step(ToGrid(in.state))
}

// Input applies filter input.
func (in *Instance) Input(ctx context.Context, query string) {
	in.step(Input(ctx, in.state, in.src, query))
}

// Clear resets the filter.
func (in *Instance) Clear() {
	in.step(Clear(in.state, in.src.All()))
}

// Scale re-evaluates the layout for a viewport height.
func (in *Instance) Scale(height int) {
	in.step(Scale(in.state, height, in.opts.CompactHeight))
}

func (in *Instance) step(s State, cmds []Command) {
	in.state = s
	in.Apply(cmds)
}

// Apply executes commands against the instance's views.
func (in *Instance) Apply(cmds []Command) {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case SetMarkers:
			in.Map.SetMarkers(c.Cases)
		case DisplayCases:
			in.Grid.DisplayCases(c.Cases)
		case FocusMap:
			in.Map.Focus()
		case CenterMap:
			in.Map.Center()
		case SelectTab:
			in.selectedTab = c.Mode
		case ShowMap:
			in.Map.SetVisible(true)
		case HideMap:
			in.Map.SetVisible(false)
		case ShowGrid:
			in.Grid.SetVisible(true)
		case HideGrid:
			in.Grid.SetVisible(false)
		case InvalidateMapSize:
			in.Map.Resize(in.Map.Size())
		case SetCompact:
			// Layout is read back through State().Compact.
		case QueryChanged:
			if in.opts.OnQuery != nil {
				in.opts.OnQuery(c.Query, c.Matches)
			}
		default:
			in.logger.Printf("Unhandled view command %T", cmd)
		}
	}
}
