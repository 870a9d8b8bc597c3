package mapview

import (
	"sort"

	"github.com/mmcloughlin/geohash"

	"github.com/Ashfaaq98/case-map-console/internal/states"
)

// hashChars is the geohash precision stored on markers. It is one more
// than the prefix used at MaxZoom so clusters can always nest one level.
const hashChars = MaxZoom

// Node is a cluster tree node: nested child clusters plus markers held
// directly by the node.
type Node interface {
	Children() []Node
	DirectMarkers() []Marker
}

// Cluster groups markers that share a geohash prefix.
type Cluster struct {
	Hash     string
	Bounds   Bounds
	children []*Cluster
	markers  []Marker
}

// Children returns the nested clusters.
func (c *Cluster) Children() []Node {
	nodes := make([]Node, len(c.children))
	for i, child := range c.children {
		nodes[i] = child
	}
	return nodes
}

// DirectMarkers returns markers held by c but not by a child.
func (c *Cluster) DirectMarkers() []Marker {
	return c.markers
}

// Center returns the midpoint of the cluster's bounds.
func (c *Cluster) Center() states.LatLng {
	return c.Bounds.Center()
}

// Markers returns every marker in the tree rooted at n, direct markers
// first, then each child's markers in order.
func Markers(n Node) []Marker {
	out := append([]Marker(nil), n.DirectMarkers()...)
	for _, child := range n.Children() {
		out = append(out, Markers(child)...)
	}
	return out
}

// Layer is what the map shows at one zoom level: clusters and the
// markers that did not join any cluster.
type Layer struct {
	Zoom     int
	Clusters []*Cluster
	Markers  []Marker
}

// prefixLen is the geohash prefix length shared by markers clustered at
// zoom z.
func prefixLen(z int) int {
	return clampZoom(z) - 1
}

func markerHash(p states.LatLng) string {
	return geohash.EncodeWithPrecision(p.Lat, p.Lng, hashChars)
}

// cluster partitions markers at zoom z.
func cluster(markers []Marker, z int) Layer {
	layer := Layer{Zoom: clampZoom(z)}
	n := prefixLen(z)
	for _, g := range partition(markers, n) {
		if len(g.markers) == 1 {
			layer.Markers = append(layer.Markers, g.markers[0])
			continue
		}
		layer.Clusters = append(layer.Clusters, buildCluster(g.prefix, g.markers))
	}
	return layer
}

func buildCluster(prefix string, markers []Marker) *Cluster {
	c := &Cluster{Hash: prefix}
	points := make([]states.LatLng, len(markers))
	for i, m := range markers {
		points[i] = m.Position
	}
	c.Bounds, _ = BoundsOf(points)

	if len(prefix) >= hashChars {
		c.markers = markers
		return c
	}
	for _, g := range partition(markers, len(prefix)+1) {
		if len(g.markers) == 1 {
			c.markers = append(c.markers, g.markers[0])
			continue
		}
		c.children = append(c.children, buildCluster(g.prefix, g.markers))
	}
	return c
}

type hashGroup struct {
	prefix  string
	markers []Marker
}

// partition groups markers by the first n characters of their geohash,
// sorted by prefix.
func partition(markers []Marker, n int) []hashGroup {
	byPrefix := make(map[string][]Marker)
	for _, m := range markers {
		p := m.Hash
		if len(p) > n {
			p = p[:n]
		}
		byPrefix[p] = append(byPrefix[p], m)
	}
	groups := make([]hashGroup, 0, len(byPrefix))
	for p, ms := range byPrefix {
		groups = append(groups, hashGroup{prefix: p, markers: ms})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].prefix < groups[j].prefix })
	return groups
}
