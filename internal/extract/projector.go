package extract

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/hyperifyio/fiksextract/internal/gtin"
	"github.com/hyperifyio/fiksextract/internal/xmltree"
)

// Local names of the sibling pair some documents use instead of a named
// element: <code>EPD</code><text>123</text> stands for <EPD>123</EPD>.
const (
	pairCode = "code"
	pairText = "text"
)

// TagProjector turns every Parent element into a Record holding the text of
// the listed Children. Tag names are matched by local name, ignoring case and
// namespaces. Record keys are the upper-cased child names.
type TagProjector struct {
	Parent   string
	Children []string
	// Deep scans the parent and all of its descendants; otherwise only its
	// direct children are looked at.
	Deep bool
}

// Project returns one record per Parent element below root, in document
// order, or ErrNoMatchingElements when there is none.
func (p TagProjector) Project(root *etree.Element) ([]Record, error) {
	want := xmltree.LocalName(p.Parent)
	var parents []*etree.Element
	xmltree.Walk(root, func(e *etree.Element) bool {
		if xmltree.Name(e) == want {
			parents = append(parents, e)
		}
		return true
	})
	if len(parents) == 0 {
		return nil, noElements(p.Parent)
	}

	declared := make(map[string]bool, len(p.Children))
	for _, c := range p.Children {
		declared[xmltree.LocalName(c)] = true
	}
	out := make([]Record, 0, len(parents))
	for _, el := range parents {
		out = append(out, p.project(el, declared))
	}
	return out, nil
}

// project fills one record. A declared child keeps its first value. A code
// element marks its text as pending and the next text element is stored
// under that code, provided the code is a declared child that no direct
// element has filled.
func (p TagProjector) project(el *etree.Element, declared map[string]bool) Record {
	rec := make(Record)
	paired := make(map[string]string)
	pending := ""

	visit := func(sub *etree.Element) bool {
		name := xmltree.Name(sub)
		text := xmltree.Text(sub)
		if declared[name] {
			rec.setIfAbsent(strings.ToUpper(name), text)
		}
		switch name {
		case pairCode:
			pending = text
		case pairText:
			if pending != "" {
				paired[upper(pending)] = text
				pending = ""
			}
		}
		return true
	}

	if p.Deep {
		xmltree.Walk(el, visit)
	} else {
		for _, c := range el.ChildElements() {
			visit(c)
		}
	}

	for _, c := range p.Children {
		key := upper(xmltree.LocalName(c))
		if v, ok := paired[key]; ok {
			rec.setIfAbsent(key, v)
		}
	}
	return rec
}

// Generic is the tag-driven strategy: it runs a TagProjector over the whole
// document. GTIN fields are cleaned like in every other strategy.
type Generic struct {
	Projector TagProjector
}

// Extract implements Strategy.
func (g Generic) Extract(text string) (Result, error) {
	doc, err := xmltree.Parse(text)
	if err != nil {
		return Result{}, err
	}
	records, err := g.Projector.Project(&doc.Element)
	if err != nil {
		return Result{}, err
	}
	for _, rec := range records {
		for k, v := range rec {
			if gtin.IsCode(k) {
				rec[k] = gtin.Clean(v)
			}
		}
	}
	return Result{
		Kind:  KindItems,
		Items: &ItemsResult{Parent: g.Projector.Parent, Records: records},
	}, nil
}
