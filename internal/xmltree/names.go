package xmltree

import (
	"strings"

	"github.com/beevik/etree"
)

// BareName strips a "{namespace-uri}" prefix and any "alias:" prefix from
// tag, keeping its case.
func BareName(tag string) string {
	if strings.HasPrefix(tag, "{") {
		if i := strings.IndexByte(tag, '}'); i >= 0 {
			tag = tag[i+1:]
		}
	}
	if i := strings.LastIndexByte(tag, ':'); i >= 0 {
		tag = tag[i+1:]
	}
	return tag
}

// LocalName is BareName lower-cased; it is the form all matching uses.
func LocalName(tag string) string {
	return strings.ToLower(BareName(tag))
}

// Name returns the local name of el.
func Name(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return LocalName(el.Tag)
}

// Is reports whether el's local name equals the local name of tag.
func Is(el *etree.Element, tag string) bool {
	return el != nil && Name(el) == LocalName(tag)
}

// Text returns el's leading character data, trimmed.
func Text(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}
