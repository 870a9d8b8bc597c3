package catalog

import (
	"strings"
)

// PointOfContact is the federal point of contact listed on a case.
type PointOfContact struct {
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone string `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// Case is one Section 106 consultation record. Cases are supplied already
// normalized and are never mutated after they reach a Catalog.
type Case struct {
	ID     string         `json:"id" yaml:"id"`
	URL    string         `json:"url" yaml:"url"`
	Title  string         `json:"title" yaml:"title"`
	Body   string         `json:"body" yaml:"body"` // HTML
	Agency string         `json:"agency,omitempty" yaml:"agency,omitempty"`
	POC    PointOfContact `json:"poc" yaml:"poc"`
	States []string       `json:"states" yaml:"states"`
	Status string         `json:"status,omitempty" yaml:"status,omitempty"`
}

// Location joins the case's state names for display, e.g. "Texas, Utah".
func (c Case) Location() string {
	return strings.Join(c.States, ", ")
}

// HasState reports whether the case lists the given state name (exact match).
func (c Case) HasState(name string) bool {
	for _, s := range c.States {
		if s == name {
			return true
		}
	}
	return false
}
