package states

import (
	"sort"
	"strings"

	"github.com/Ashfaaq98/case-map-console/internal/catalog"
)

// Group is the set of cases that share one resolvable state or territory.
// One map marker is placed per group.
type Group struct {
	Name         string         `json:"name"`
	Abbreviation string         `json:"abbreviation"`
	Coordinates  LatLng         `json:"coordinates"`
	Cases        []catalog.Case `json:"cases"`
}

// Names returns the sorted, de-duplicated state names listed by cs.
func Names(cs []catalog.Case) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, c := range cs {
		for _, s := range c.States {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			names = append(names, s)
		}
	}
	sort.Strings(names)
	return names
}

// Aggregate partitions cs into one group per recognized state. A case
// joins every group for every state it lists, once per group, in input
// order. Names without an abbreviation or a centroid produce no group.
// Groups are sorted by abbreviation.
func Aggregate(cs []catalog.Case) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, name := range Names(cs) {
		abbr, ok := Abbreviation(name)
		if !ok {
			continue
		}
		coords, ok := Coordinates(abbr)
		if !ok {
			continue
		}
		if _, ok := index[abbr]; ok {
			continue
		}
		index[abbr] = len(groups)
		groups = append(groups, Group{Name: name, Abbreviation: abbr, Coordinates: coords})
	}

	for _, c := range cs {
		joined := make(map[int]bool, len(c.States))
		for _, s := range c.States {
			abbr, ok := Abbreviation(s)
			if !ok {
				continue
			}
			i, ok := index[abbr]
			if !ok || joined[i] {
				continue
			}
			joined[i] = true
			groups[i].Cases = append(groups[i].Cases, c)
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Abbreviation < groups[j].Abbreviation
	})
	return groups
}
