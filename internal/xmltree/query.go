package xmltree

import (
	"sort"

	"github.com/beevik/etree"
)

// Walk calls fn for el and then every descendant in document order. Returning
// false from fn skips that element's subtree.
func Walk(el *etree.Element, fn func(*etree.Element) bool) {
	if el == nil || !fn(el) {
		return
	}
	for _, c := range el.ChildElements() {
		Walk(c, fn)
	}
}

// All returns the descendants of el (not el itself) named tag, in document
// order.
func All(el *etree.Element, tag string) []*etree.Element {
	if el == nil {
		return nil
	}
	want := LocalName(tag)
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		Walk(c, func(e *etree.Element) bool {
			if Name(e) == want {
				out = append(out, e)
			}
			return true
		})
	}
	return out
}

// Children returns the direct children of el named tag.
func Children(el *etree.Element, tag string) []*etree.Element {
	if el == nil {
		return nil
	}
	want := LocalName(tag)
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if Name(c) == want {
			out = append(out, c)
		}
	}
	return out
}

// FindAll resolves a path below el. The first step matches descendants at
// any depth, every further step matches direct children, so
// FindAll(el, "A", "B") behaves like the XPath .//A/B with local names.
func FindAll(el *etree.Element, path ...string) []*etree.Element {
	if el == nil || len(path) == 0 {
		return nil
	}
	cur := All(el, path[0])
	for _, step := range path[1:] {
		var next []*etree.Element
		for _, c := range cur {
			next = append(next, Children(c, step)...)
		}
		cur = next
	}
	return cur
}

// Find returns the first element FindAll would return, or nil.
func Find(el *etree.Element, path ...string) *etree.Element {
	if res := FindAll(el, path...); len(res) > 0 {
		return res[0]
	}
	return nil
}

// FindText returns the trimmed text of Find(el, path...). The boolean is
// false when no element matched, so callers can tell a missing element from
// an empty one.
func FindText(el *etree.Element, path ...string) (string, bool) {
	found := Find(el, path...)
	if found == nil {
		return "", false
	}
	return Text(found), true
}

// UniqueTags lists the distinct element names in doc with namespaces
// stripped, sorted. Case is kept so the list reads like the source.
func UniqueTags(doc *etree.Document) []string {
	if doc == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, c := range doc.ChildElements() {
		Walk(c, func(e *etree.Element) bool {
			seen[BareName(e.Tag)] = struct{}{}
			return true
		})
	}
	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
