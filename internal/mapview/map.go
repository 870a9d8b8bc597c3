// Package mapview models the map view: one marker per state group,
// proximity clusters, the viewport, and the state detail panel.
//
// Rendering is left to the host. Markers carry only an id; the state
// group behind each marker lives in a side-table owned by the Map.
package mapview

import (
	"io"
	"log"
	"math"

	"github.com/google/uuid"

	"github.com/Ashfaaq98/case-map-console/internal/catalog"
	"github.com/Ashfaaq98/case-map-console/internal/states"
)

// Marker is one rendered state marker.
type Marker struct {
	ID           string
	Abbreviation string
	Position     states.LatLng
	Hash         string
}

// Panel is the open state detail panel.
type Panel struct {
	Title string
	Group states.Group
}

// Options configures a Map.
type Options struct {
	Icons  IconSource
	Logger *log.Logger
	Width  int
	Height int
}

// Map holds the markers, viewport and panel of one map view.
type Map struct {
	icons  IconSource
	logger *log.Logger

	order   []string
	markers map[string]Marker
	groups  map[string]states.Group

	selected    string
	panel       *Panel
	attribution bool
	visible     bool

	center states.LatLng
	zoom   int
	fitted Bounds
	width  int
	height int
}

// New creates an empty map showing DefaultBounds.
func New(opts Options) *Map {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	m := &Map{
		icons:       opts.Icons,
		logger:      logger,
		markers:     make(map[string]Marker),
		groups:      make(map[string]states.Group),
		attribution: true,
		visible:     true,
		width:       opts.Width,
		height:      opts.Height,
	}
	m.Center()
	return m
}

// SetMarkers replaces every marker with one per state group of cs.
func (m *Map) SetMarkers(cs []catalog.Case) {
	m.order = m.order[:0]
	m.markers = make(map[string]Marker)
	m.groups = make(map[string]states.Group)
	m.selected = ""

	for _, g := range states.Aggregate(cs) {
		id := uuid.NewString()
		m.order = append(m.order, id)
		m.markers[id] = Marker{
			ID:           id,
			Abbreviation: g.Abbreviation,
			Position:     g.Coordinates,
			Hash:         markerHash(g.Coordinates),
		}
		m.groups[id] = g
	}
}

// Markers returns the current markers in state abbreviation order.
func (m *Map) Markers() []Marker {
	out := make([]Marker, len(m.order))
	for i, id := range m.order {
		out[i] = m.markers[id]
	}
	return out
}

// Group returns the state group behind a marker.
func (m *Map) Group(markerID string) (states.Group, bool) {
	g, ok := m.groups[markerID]
	return g, ok
}

// MarkerFor returns the marker of a state abbreviation.
func (m *Map) MarkerFor(abbr string) (Marker, bool) {
	for _, id := range m.order {
		if mk := m.markers[id]; mk.Abbreviation == abbr {
			return mk, true
		}
	}
	return Marker{}, false
}

// Click selects a marker and opens the panel listing its cases. Unknown
// ids are ignored.
func (m *Map) Click(markerID string) (Panel, bool) {
	g, ok := m.groups[markerID]
	if !ok {
		return Panel{}, false
	}
	m.selected = markerID
	m.panel = &Panel{Title: "Cases in " + g.Name, Group: g}
	m.attribution = false
	return *m.panel, true
}

// Selected returns the id of the selected marker, or "".
func (m *Map) Selected() string {
	return m.selected
}

// Panel returns the open panel.
func (m *Map) Panel() (Panel, bool) {
	if m.panel == nil {
		return Panel{}, false
	}
	return *m.panel, true
}

// ClosePanel hides the panel and restores the attribution.
func (m *Map) ClosePanel() {
	m.panel = nil
	m.attribution = true
}

// AttributionVisible reports whether the tile provider attribution is
// shown. It is hidden exactly while the panel is open.
func (m *Map) AttributionVisible() bool {
	return m.attribution
}

// SetVisible shows or hides the view.
func (m *Map) SetVisible(v bool) {
	m.visible = v
}

// Visible reports whether the view is shown.
func (m *Map) Visible() bool {
	return m.visible
}

// MarkerBounds returns the bounds of the current markers.
func (m *Map) MarkerBounds() (Bounds, bool) {
	points := make([]states.LatLng, 0, len(m.order))
	for _, id := range m.order {
		points = append(points, m.markers[id].Position)
	}
	return BoundsOf(points)
}

// Focus fits the viewport to the markers plus FocusMargin. It does
// nothing when there are no markers.
func (m *Map) Focus() bool {
	b, ok := m.MarkerBounds()
	if !ok {
		return false
	}
	m.FitBounds(b.Pad(FocusMargin))
	return true
}

// Center fits the viewport to DefaultBounds.
func (m *Map) Center() {
	m.FitBounds(DefaultBounds())
}

// FitBounds centers the viewport on b at the largest zoom that shows it.
func (m *Map) FitBounds(b Bounds) {
	m.fitted = b
	m.center = b.Center()
	m.zoom = fitZoom(b, m.width, m.height)
}

// Viewport returns the center and zoom.
func (m *Map) Viewport() (states.LatLng, int) {
	return m.center, m.zoom
}

// Fitted returns the last bounds passed to FitBounds.
func (m *Map) Fitted() Bounds {
	return m.fitted
}

// Zoom returns the current zoom level.
func (m *Map) Zoom() int {
	return m.zoom
}

// SetZoom changes the zoom, clamped to [MinZoom, MaxZoom].
func (m *Map) SetZoom(z int) {
	m.zoom = clampZoom(z)
}

// Pan moves the center by dx columns and dy rows.
func (m *Map) Pan(dx, dy int) {
	cpd := cellsPerDegree(m.zoom)
	m.center.Lng += float64(dx) / cpd
	m.center.Lat -= float64(dy) * 2 / cpd
	m.center.Lat = math.Max(-85, math.Min(85, m.center.Lat))
}

// Resize records the canvas size and refits the last fitted bounds.
func (m *Map) Resize(width, height int) {
	m.width, m.height = width, height
	m.FitBounds(m.fitted)
}

// Size returns the canvas size.
func (m *Map) Size() (int, int) {
	return m.width, m.height
}

// Project maps p to a canvas cell. ok is false when the cell lies
// outside the canvas.
func (m *Map) Project(p states.LatLng) (x, y int, ok bool) {
	cpd := cellsPerDegree(m.zoom)
	fx := (p.Lng-m.center.Lng)*cpd + float64(m.width)/2
	fy := (m.center.Lat-p.Lat)*cpd/2 + float64(m.height)/2
	x, y = int(math.Floor(fx)), int(math.Floor(fy))
	ok = x >= 0 && y >= 0 && x < m.width && y < m.height
	return x, y, ok
}

// Layer returns the clusters and free markers at the current zoom.
func (m *Map) Layer() Layer {
	return cluster(m.Markers(), m.zoom)
}

// ZoomToCluster fits the viewport to c, zooming in at least one level.
func (m *Map) ZoomToCluster(c *Cluster) {
	before := m.zoom
	m.FitBounds(c.Bounds.Pad(FocusMargin))
	if m.zoom <= before {
		m.zoom = clampZoom(before + 1)
	}
}

// ClusterCaseCount sums the cases of every marker nested in n.
func (m *Map) ClusterCaseCount(n Node) int {
	total := 0
	for _, mk := range n.DirectMarkers() {
		total += len(m.groups[mk.ID].Cases)
	}
	for _, child := range n.Children() {
		total += m.ClusterCaseCount(child)
	}
	return total
}

// MarkerIcon synthesizes the icon of a marker. It returns nil while the
// asset is not cached or after it failed to load.
func (m *Map) MarkerIcon(markerID string) *Icon {
	g, ok := m.groups[markerID]
	if !ok || m.icons == nil {
		return nil
	}
	name := MarkerIconName(g)
	raw, ok := m.icons.Get(name)
	if !ok {
		return nil
	}
	svg, err := MarkerSVG(raw, g, markerID == m.selected)
	if err != nil {
		m.logger.Printf("Failed to build marker icon for %s: %v", g.Abbreviation, err)
		return nil
	}
	icon := &Icon{Name: name, SVG: svg}
	if len(g.Cases) > 1 {
		icon.Badge = itoa(len(g.Cases))
	}
	return icon
}

// ClusterIcon synthesizes the icon of a cluster labelled with its case
// count. It returns nil when the asset is unavailable.
func (m *Map) ClusterIcon(c *Cluster) *Icon {
	if m.icons == nil {
		return nil
	}
	raw, ok := m.icons.Get(markerGroupIcon)
	if !ok {
		return nil
	}
	count := m.ClusterCaseCount(c)
	svg, err := ClusterSVG(raw, count)
	if err != nil {
		m.logger.Printf("Failed to build cluster icon: %v", err)
		return nil
	}
	return &Icon{Name: markerGroupIcon, SVG: svg, Badge: itoa(count)}
}
