package mapview

import (
	"encoding/xml"
	"strconv"

	"github.com/Ashfaaq98/case-map-console/internal/icons"
	"github.com/Ashfaaq98/case-map-console/internal/states"
)

// IconSource returns cached icon markup by name. *icons.Cache satisfies it.
type IconSource interface {
	Get(name string) (string, bool)
}

// Icon is a synthesized marker or cluster icon.
type Icon struct {
	// Name is the asset the icon was built from.
	Name string
	SVG  string
	// Badge is the number drawn on the icon, empty for single-case markers.
	Badge string
}

// MarkerIconName returns the asset used for a group's marker.
func MarkerIconName(g states.Group) string {
	if len(g.Cases) > 1 {
		return icons.MultipleCases
	}
	return icons.SingleCase
}

// MarkerSVG builds the marker markup for g from the raw asset.
func MarkerSVG(raw string, g states.Group, selected bool) (string, error) {
	multiple := len(g.Cases) > 1
	edit := svgEdit{
		classes:     []string{MarkerClass, singleCaseClass},
		attrs:       []xml.Attr{{Name: xml.Name{Local: MarkerStateAttr}, Value: g.Abbreviation}},
		title:       g.Name,
		appendTitle: true,
	}
	if multiple {
		edit.classes[1] = multipleCaseClass
		edit.label = &svgLabel{
			transform: "translate(25, 25)",
			class:     markerLabelClass,
			text:      strconv.Itoa(len(g.Cases)),
		}
	}
	if selected {
		edit.classes = append(edit.classes, SelectedClass)
	}
	return rewriteSVG(raw, edit)
}

// ClusterSVG builds the cluster markup labelled with count.
func ClusterSVG(raw string, count int) (string, error) {
	return rewriteSVG(raw, svgEdit{
		classes: []string{clusterClass},
		label: &svgLabel{
			transform: "translate(30, 25)",
			class:     clusterLabelClass,
			text:      strconv.Itoa(count),
		},
	})
}

const markerGroupIcon = icons.MarkerGroup

func itoa(n int) string {
	return strconv.Itoa(n)
}
