package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Ashfaaq98/case-map-console/internal/mapview"
	"github.com/Ashfaaq98/case-map-console/internal/states"
)

// graticuleStep is the spacing of the background grid, in degrees.
const graticuleStep = 5

// mapCanvas draws one pane's map: a graticule, clusters and markers, and
// a cursor used to pick a marker or cluster from the keyboard.
type mapCanvas struct {
	*tview.Box
	pane *Pane

	items     []mapItem
	cursorKey string
}

func newMapCanvas(p *Pane) *mapCanvas {
	c := &mapCanvas{Box: tview.NewBox(), pane: p}
	c.SetBorder(true)
	c.SetTitleAlign(tview.AlignLeft)
	return c
}

func itemKey(it mapItem) string {
	if it.Cluster != nil {
		return "cluster:" + it.Cluster.Hash
	}
	return "marker:" + it.MarkerID
}

// layout resizes the map to the canvas and recomputes the drawable items.
func (c *mapCanvas) layout(w, h int) {
	m := c.pane.inst.Map
	if mw, mh := m.Size(); mw != w || mh != h {
		m.Resize(w, h)
	}
	c.items = mapItems(m)
}

// cursor returns the index of the item under the cursor, or -1.
func (c *mapCanvas) cursor() int {
	if len(c.items) == 0 {
		return -1
	}
	for i, it := range c.items {
		if itemKey(it) == c.cursorKey {
			return i
		}
	}
	return 0
}

// moveCursor steps the cursor through the items, wrapping at either end.
func (c *mapCanvas) moveCursor(delta int) {
	if len(c.items) == 0 {
		return
	}
	i := c.cursor() + delta
	n := len(c.items)
	i = ((i % n) + n) % n
	c.cursorKey = itemKey(c.items[i])
}

// activate clicks the item under the cursor. Markers open the state
// panel; clusters zoom in.
func (c *mapCanvas) activate() (mapItem, bool) {
	i := c.cursor()
	if i < 0 {
		return mapItem{}, false
	}
	it := c.items[i]
	m := c.pane.inst.Map
	if it.Cluster != nil {
		m.ZoomToCluster(it.Cluster)
	} else {
		m.Click(it.MarkerID)
	}
	c.items = mapItems(m)
	return it, true
}

// Draw implements tview.Primitive.
func (c *mapCanvas) Draw(screen tcell.Screen) {
	c.Box.DrawForSubclass(screen, c)
	x, y, w, h := c.GetInnerRect()
	if w <= 0 || h <= 0 {
		return
	}
	th := c.pane.ui.theme
	c.layout(w, h)
	m := c.pane.inst.Map

	land := tcell.StyleDefault.Background(th.Land).Foreground(th.TextMuted)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			screen.SetContent(x+col, y+row, ' ', nil, land)
		}
	}
	for lat := -90; lat <= 90; lat += graticuleStep {
		for lng := -180; lng <= 180; lng += graticuleStep {
			if gx, gy, ok := m.Project(states.LatLng{Lat: float64(lat), Lng: float64(lng)}); ok {
				screen.SetContent(x+gx, y+gy, '·', nil, land)
			}
		}
	}

	cur := c.cursor()
	for i, it := range c.items {
		color := th.Marker
		switch {
		case it.Selected:
			color = th.MarkerSelected
		case it.Kind == itemCluster:
			color = th.Cluster
		case it.Kind == itemMultiple:
			color = th.MarkerMultiple
		}
		style := tcell.StyleDefault.Background(th.Land).Foreground(color).Bold(true)
		if i == cur && c.HasFocus() {
			style = style.Reverse(true)
		}
		col := x + it.X
		for _, r := range it.Label {
			if col >= x+w {
				break
			}
			screen.SetContent(col, y+it.Y, r, nil, style)
			col++
		}
	}

	center, zoom := m.Viewport()
	c.SetTitle(viewportTitle(center, zoom, len(c.items)))
}

func viewportTitle(center states.LatLng, zoom, items int) string {
	return " Map  z" + itoa(zoom) + "  " + latLngText(center) + "  " + itoa(items) + " shown "
}

func latLngText(p states.LatLng) string {
	return formatFloat(p.Lat) + "," + formatFloat(p.Lng)
}

// clusterCases is the case count shown for a cluster item.
func clusterCases(m *mapview.Map, it mapItem) int {
	if it.Cluster == nil {
		return 0
	}
	return m.ClusterCaseCount(it.Cluster)
}
