package mapview

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Class and attribute names written onto synthesized icons.
const (
	classPrefix       = "section_106_map"
	MarkerClass       = classPrefix + "_marker"
	SelectedClass     = classPrefix + "_selected"
	MarkerStateAttr   = "data-section-106-map-marker-state"
	multipleCaseClass = classPrefix + "_multiple_cases_marker"
	singleCaseClass   = classPrefix + "_single_case_marker"
	clusterClass      = classPrefix + "_cluster_marker"
	markerLabelClass  = classPrefix + "_marker_label"
	clusterLabelClass = classPrefix + "_cluster_marker_label"
)

// svgEdit describes how to rewrite the root element of an icon.
type svgEdit struct {
	classes []string
	attrs   []xml.Attr
	// title replaces the text of the first <title>; one is appended to the
	// root when missing and appendTitle is set.
	title       string
	appendTitle bool
	label       *svgLabel
}

type svgLabel struct {
	transform string
	class     string
	text      string
}

var errNoRoot = errors.New("svg has no root element")

// rewriteSVG re-serializes the root element of raw with the edit applied.
// Prolog tokens before the root are dropped.
func rewriteSVG(raw string, edit svgEdit) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(raw))
	dec.Strict = false
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)

	depth := 0
	titleDone := false
	skipping := 0
	sawRoot := false

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse svg: %w", err)
		}

		if skipping > 0 {
			switch tok.(type) {
			case xml.StartElement:
				skipping++
			case xml.EndElement:
				skipping--
				if skipping == 0 {
					if err := enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "title"}}); err != nil {
						return "", err
					}
					depth--
				}
			}
			continue
		}

		switch t := tok.(type) {
		case xml.StartElement:
			t = flatten(t)
			if depth == 0 {
				if sawRoot {
					return "", fmt.Errorf("failed to parse svg: multiple root elements")
				}
				sawRoot = true
				t = editRoot(t, edit)
			}
			depth++
			if !titleDone && t.Name.Local == "title" {
				titleDone = true
				if err := enc.EncodeToken(t); err != nil {
					return "", err
				}
				if err := encodeText(enc, edit.title); err != nil {
					return "", err
				}
				skipping = 1
				continue
			}
			if err := enc.EncodeToken(t); err != nil {
				return "", err
			}
		case xml.EndElement:
			if depth == 0 {
				continue
			}
			if depth == 1 {
				if !titleDone && edit.appendTitle {
					if err := encodeElement(enc, "title", nil, edit.title); err != nil {
						return "", err
					}
				}
				if l := edit.label; l != nil {
					attrs := []xml.Attr{
						{Name: xml.Name{Local: "transform"}, Value: l.transform},
						{Name: xml.Name{Local: "class"}, Value: l.class},
					}
					if err := encodeElement(enc, "text", attrs, l.text); err != nil {
						return "", err
					}
				}
			}
			depth--
			if err := enc.EncodeToken(xml.EndElement{Name: flatName(t.Name)}); err != nil {
				return "", err
			}
		case xml.CharData:
			if depth > 0 {
				if err := enc.EncodeToken(t.Copy()); err != nil {
					return "", err
				}
			}
		case xml.Comment:
			if depth > 0 {
				if err := enc.EncodeToken(t.Copy()); err != nil {
					return "", err
				}
			}
		}
	}
	if !sawRoot {
		return "", errNoRoot
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// flatten folds raw namespace prefixes into local names so the encoder
// writes them back unchanged.
func flatten(t xml.StartElement) xml.StartElement {
	out := xml.StartElement{Name: flatName(t.Name), Attr: make([]xml.Attr, len(t.Attr))}
	for i, a := range t.Attr {
		out.Attr[i] = xml.Attr{Name: flatName(a.Name), Value: a.Value}
	}
	return out
}

func flatName(n xml.Name) xml.Name {
	if n.Space == "" {
		return n
	}
	return xml.Name{Local: n.Space + ":" + n.Local}
}

func editRoot(t xml.StartElement, edit svgEdit) xml.StartElement {
	classIdx := -1
	for i, a := range t.Attr {
		if a.Name.Local == "class" {
			classIdx = i
		}
	}
	extra := strings.Join(edit.classes, " ")
	if classIdx >= 0 {
		t.Attr[classIdx].Value = strings.TrimSpace(t.Attr[classIdx].Value + " " + extra)
	} else if extra != "" {
		t.Attr = append(t.Attr, xml.Attr{Name: xml.Name{Local: "class"}, Value: extra})
	}
	for _, a := range edit.attrs {
		replaced := false
		for i := range t.Attr {
			if t.Attr[i].Name.Local == a.Name.Local {
				t.Attr[i].Value = a.Value
				replaced = true
			}
		}
		if !replaced {
			t.Attr = append(t.Attr, a)
		}
	}
	return t
}

func encodeText(enc *xml.Encoder, text string) error {
	if text == "" {
		return nil
	}
	return enc.EncodeToken(xml.CharData(text))
}

func encodeElement(enc *xml.Encoder, name string, attrs []xml.Attr, text string) error {
	if err := enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}); err != nil {
		return err
	}
	if err := encodeText(enc, text); err != nil {
		return err
	}
	return enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}
