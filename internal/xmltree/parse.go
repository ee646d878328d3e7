// Package xmltree parses trade documents into an etree DOM without giving up
// on malformed markup, and offers namespace-agnostic lookups over it.
//
// Every lookup compares local names (see LocalName), so callers never spell
// out a namespace URI or prefix.
package xmltree

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/rs/zerolog/log"
)

// ErrParseRecoveryFailed is returned when not even a root element could be
// salvaged from the input.
var ErrParseRecoveryFailed = errors.New("xml: no root element could be recovered")

// Parse builds a tree from text. Well-formed input goes through etree's own
// permissive reader. Anything that reader rejects is rebuilt token by token:
// mismatched end tags close the open elements up to their partner, stray end
// tags are dropped, elements still open at the end are closed, and a syntax
// error ends reading but keeps everything built up to that point.
func Parse(text string) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: keepUTF8,
		Permissive:    true,
	}
	err := doc.ReadFromString(text)
	if err == nil && doc.Root() != nil {
		return doc, nil
	}
	log.Debug().Err(err).Msg("xml not well-formed; rebuilding tree tolerantly")

	doc = rebuild(text)
	if doc.Root() == nil {
		return nil, ErrParseRecoveryFailed
	}
	return doc, nil
}

// keepUTF8 ignores the encoding named in an XML declaration. Parse takes a
// Go string, so the text is UTF-8 already and decoding it again would
// garble every non-ASCII character.
func keepUTF8(_ string, r io.Reader) (io.Reader, error) { return r, nil }

// rebuild constructs a document from raw tokens, repairing nesting as it
// goes. Raw tokens keep namespace prefixes, so Element.Space and
// Element.NamespaceURI behave the same as after a regular etree read.
func rebuild(text string) *etree.Document {
	doc := etree.NewDocument()
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = keepUTF8

	stack := []*etree.Element{&doc.Element}
	for {
		tok, err := dec.RawToken()
		if err != nil {
			if err != io.EOF {
				log.Debug().Err(err).Int("open", len(stack)-1).Msg("xml syntax error; keeping partial tree")
			}
			break
		}
		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			el := top.CreateElement(qualify(t.Name))
			for _, a := range t.Attr {
				el.CreateAttr(qualify(a.Name), a.Value)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if i := openIndex(stack, t.Name); i > 0 {
				stack = stack[:i]
			}
		case xml.CharData:
			if len(stack) > 1 {
				top.CreateText(string(t))
			}
		}
	}
	return doc
}

func qualify(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// openIndex finds the innermost open element an end tag refers to. An exact
// prefix and name match is preferred; otherwise local names are compared
// case-insensitively. It returns 0 when nothing matches.
func openIndex(stack []*etree.Element, name xml.Name) int {
	for i := len(stack) - 1; i > 0; i-- {
		if stack[i].Space == name.Space && stack[i].Tag == name.Local {
			return i
		}
	}
	want := LocalName(name.Local)
	for i := len(stack) - 1; i > 0; i-- {
		if Name(stack[i]) == want {
			return i
		}
	}
	return 0
}
