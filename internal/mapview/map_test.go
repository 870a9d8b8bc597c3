package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashfaaq98/case-map-console/internal/catalog"
	"github.com/Ashfaaq98/case-map-console/internal/icons"
	"github.com/Ashfaaq98/case-map-console/internal/states"
)

const rawIcon = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" class="icon"><title>placeholder</title><use xlink:href="#pin"/></svg>`

type fakeIcons map[string]string

func (f fakeIcons) Get(name string) (string, bool) {
	s, ok := f[name]
	return s, ok
}

func allIcons() fakeIcons {
	return fakeIcons{
		icons.SingleCase:    rawIcon,
		icons.MultipleCases: rawIcon,
		icons.MarkerGroup:   rawIcon,
	}
}

func scenarioCases() []catalog.Case {
	return []catalog.Case{
		{ID: "1", Title: "A", States: []string{"California"}},
		{ID: "2", Title: "B", States: []string{"California"}},
		{ID: "3", Title: "C", States: []string{"Texas"}},
	}
}

func newMap(t *testing.T, src IconSource) *Map {
	t.Helper()
	return New(Options{Icons: src, Width: 80, Height: 40})
}

func TestSetMarkersSideTable(t *testing.T) {
	m := newMap(t, allIcons())
	m.SetMarkers(scenarioCases())

	markers := m.Markers()
	require.Len(t, markers, 2)
	assert.Equal(t, "ca", markers[0].Abbreviation)
	assert.Equal(t, "tx", markers[1].Abbreviation)
	assert.NotEqual(t, markers[0].ID, markers[1].ID)

	g, ok := m.Group(markers[0].ID)
	require.True(t, ok)
	assert.Len(t, g.Cases, 2)

	m.SetMarkers(nil)
	assert.Empty(t, m.Markers())
	_, ok = m.Group(markers[0].ID)
	assert.False(t, ok)
}

func TestClickOpensPanelAndHidesAttribution(t *testing.T) {
	m := newMap(t, allIcons())
	m.SetMarkers(scenarioCases())
	tx, ok := m.MarkerFor("tx")
	require.True(t, ok)

	assert.True(t, m.AttributionVisible())
	panel, ok := m.Click(tx.ID)
	require.True(t, ok)
	assert.Equal(t, "Cases in Texas", panel.Title)
	assert.Len(t, panel.Group.Cases, 1)
	assert.Equal(t, tx.ID, m.Selected())
	assert.False(t, m.AttributionVisible())

	ca, _ := m.MarkerFor("ca")
	m.Click(ca.ID)
	assert.Equal(t, ca.ID, m.Selected())

	m.ClosePanel()
	assert.True(t, m.AttributionVisible())
	_, open := m.Panel()
	assert.False(t, open)

	_, ok = m.Click("no-such-marker")
	assert.False(t, ok)
	assert.True(t, m.AttributionVisible())
}

func TestFocusPadsMarkerBounds(t *testing.T) {
	m := newMap(t, allIcons())
	assert.False(t, m.Focus())
	assert.Equal(t, DefaultBounds(), m.Fitted())

	m.SetMarkers(scenarioCases())
	require.True(t, m.Focus())
	b := m.Fitted()
	assert.InDelta(t, 36.17+FocusMargin, b.North, 1e-9)
	assert.InDelta(t, 31.106-FocusMargin, b.South, 1e-9)
	assert.InDelta(t, -119.7462-FocusMargin, b.West, 1e-9)
	assert.InDelta(t, -97.6475+FocusMargin, b.East, 1e-9)

	m.Center()
	assert.Equal(t, DefaultBounds(), m.Fitted())
}

func TestFitZoom(t *testing.T) {
	assert.Equal(t, 3, fitZoom(DefaultBounds(), 80, 40))
	assert.Equal(t, MinZoom, fitZoom(DefaultBounds(), 0, 0))
	assert.Equal(t, MaxZoom, fitZoom(Bounds{North: 1, South: 0, West: 0, East: 1}, 200, 100))

	m := New(Options{})
	assert.Equal(t, MinZoom, m.Zoom())
	m.Resize(80, 40)
	assert.Equal(t, 3, m.Zoom())

	m.SetZoom(99)
	assert.Equal(t, MaxZoom, m.Zoom())
	m.SetZoom(-1)
	assert.Equal(t, MinZoom, m.Zoom())
}

func TestProject(t *testing.T) {
	m := newMap(t, nil)
	center, _ := m.Viewport()
	x, y, ok := m.Project(center)
	require.True(t, ok)
	assert.Equal(t, 40, x)
	assert.Equal(t, 20, y)

	_, _, ok = m.Project(states.LatLng{Lat: -60, Lng: 100})
	assert.False(t, ok)
}

func TestClustersByZoom(t *testing.T) {
	m := newMap(t, allIcons())
	m.SetMarkers(scenarioCases())

	m.SetZoom(MinZoom)
	layer := m.Layer()
	require.Len(t, layer.Clusters, 1)
	assert.Empty(t, layer.Markers)
	assert.Equal(t, 3, m.ClusterCaseCount(layer.Clusters[0]))
	assert.Len(t, Markers(layer.Clusters[0]), 2)

	m.SetZoom(MaxZoom)
	layer = m.Layer()
	assert.Empty(t, layer.Clusters)
	assert.Len(t, layer.Markers, 2)
}

func TestClusterCaseCountIsRecursive(t *testing.T) {
	m := newMap(t, allIcons())
	m.SetMarkers([]catalog.Case{
		{ID: "1", States: []string{"Maryland", "Delaware"}},
		{ID: "2", States: []string{"Maryland"}},
		{ID: "3", States: []string{"District of Columbia"}},
		{ID: "4", States: []string{"Virginia"}},
	})
	m.SetZoom(MinZoom)
	layer := m.Layer()
	require.Len(t, layer.Clusters, 1)

	root := layer.Clusters[0]
	assert.Equal(t, 5, m.ClusterCaseCount(root))

	var walk func(c *Cluster) int
	walk = func(c *Cluster) int {
		n := len(c.DirectMarkers())
		for _, child := range c.children {
			n += walk(child)
		}
		return n
	}
	assert.Equal(t, 4, walk(root))
}

func TestZoomToCluster(t *testing.T) {
	m := newMap(t, allIcons())
	m.SetMarkers(scenarioCases())
	m.SetZoom(MinZoom)
	c := m.Layer().Clusters[0]
	m.ZoomToCluster(c)
	assert.Greater(t, m.Zoom(), MinZoom)
}

func TestMarkerIcon(t *testing.T) {
	m := newMap(t, allIcons())
	m.SetMarkers(scenarioCases())
	ca, _ := m.MarkerFor("ca")
	tx, _ := m.MarkerFor("tx")

	icon := m.MarkerIcon(ca.ID)
	require.NotNil(t, icon)
	assert.Equal(t, icons.MultipleCases, icon.Name)
	assert.Equal(t, "2", icon.Badge)
	assert.Contains(t, icon.SVG, `class="icon section_106_map_marker section_106_map_multiple_cases_marker"`)
	assert.Contains(t, icon.SVG, `data-section-106-map-marker-state="ca"`)
	assert.Contains(t, icon.SVG, `<title>California</title>`)
	assert.Contains(t, icon.SVG, `<text transform="translate(25, 25)" class="section_106_map_marker_label">2</text>`)
	assert.Contains(t, icon.SVG, `xlink:href="#pin"`)
	assert.NotContains(t, icon.SVG, "<?xml")
	assert.NotContains(t, icon.SVG, "placeholder")

	single := m.MarkerIcon(tx.ID)
	require.NotNil(t, single)
	assert.Equal(t, icons.SingleCase, single.Name)
	assert.Empty(t, single.Badge)
	assert.Contains(t, single.SVG, "section_106_map_single_case_marker")
	assert.NotContains(t, single.SVG, "<text")

	m.Click(tx.ID)
	assert.Contains(t, m.MarkerIcon(tx.ID).SVG, SelectedClass)
	assert.NotContains(t, m.MarkerIcon(ca.ID).SVG, SelectedClass)
}

func TestIconsUnavailable(t *testing.T) {
	m := newMap(t, fakeIcons{})
	m.SetMarkers(scenarioCases())
	ca, _ := m.MarkerFor("ca")
	assert.Nil(t, m.MarkerIcon(ca.ID))

	m.SetZoom(MinZoom)
	assert.Nil(t, m.ClusterIcon(m.Layer().Clusters[0]))

	noSource := newMap(t, nil)
	noSource.SetMarkers(scenarioCases())
	tx, _ := noSource.MarkerFor("tx")
	assert.Nil(t, noSource.MarkerIcon(tx.ID))
}

func TestClusterIcon(t *testing.T) {
	m := newMap(t, allIcons())
	m.SetMarkers(scenarioCases())
	m.SetZoom(MinZoom)

	icon := m.ClusterIcon(m.Layer().Clusters[0])
	require.NotNil(t, icon)
	assert.Equal(t, "3", icon.Badge)
	assert.Contains(t, icon.SVG, `class="icon section_106_map_cluster_marker"`)
	assert.Contains(t, icon.SVG, `<title></title>`)
	assert.Contains(t, icon.SVG, `<text transform="translate(30, 25)" class="section_106_map_cluster_marker_label">3</text>`)
}

func TestMarkerSVGAppendsTitle(t *testing.T) {
	g := states.Group{Name: "Ohio", Abbreviation: "oh", Cases: []catalog.Case{{ID: "1"}}}
	svg, err := MarkerSVG(`<svg><path d="M0 0"/></svg>`, g, false)
	require.NoError(t, err)
	assert.Contains(t, svg, `class="section_106_map_marker section_106_map_single_case_marker"`)
	assert.Contains(t, svg, "<title>Ohio</title></svg>")

	_, err = MarkerSVG("not markup", g, false)
	assert.Error(t, err)
}

func TestBounds(t *testing.T) {
	_, ok := BoundsOf(nil)
	assert.False(t, ok)

	b, ok := BoundsOf([]states.LatLng{{Lat: 10, Lng: -20}, {Lat: -5, Lng: 30}})
	require.True(t, ok)
	assert.Equal(t, Bounds{North: 10, West: -20, South: -5, East: 30}, b)
	assert.True(t, b.Contains(states.LatLng{Lat: 0, Lng: 0}))
	assert.Equal(t, states.LatLng{Lat: 2.5, Lng: 5}, b.Center())
	assert.Equal(t, Bounds{North: 11, West: -21, South: -6, East: 31}, b.Pad(1))
}
