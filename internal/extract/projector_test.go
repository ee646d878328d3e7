package extract

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hyperifyio/fiksextract/internal/xmltree"
)

func project(t *testing.T, p TagProjector, text string) []Record {
	t.Helper()
	doc, err := xmltree.Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	recs, err := p.Project(&doc.Element)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	return recs
}

func TestTagProjector_DeepAndShallow(t *testing.T) {
	text := `<Root><Item><Name>a</Name><Sub><Name>b</Name><Price>3</Price></Sub></Item></Root>`

	deep := project(t, TagProjector{Parent: "Item", Children: []string{"Name", "Price"}, Deep: true}, text)
	if want := (Record{"NAME": "a", "PRICE": "3"}); !reflect.DeepEqual(deep[0], want) {
		t.Fatalf("deep: got %v want %v", deep[0], want)
	}

	shallow := project(t, TagProjector{Parent: "Item", Children: []string{"Name", "Price"}}, text)
	if want := (Record{"NAME": "a"}); !reflect.DeepEqual(shallow[0], want) {
		t.Fatalf("shallow: got %v want %v", shallow[0], want)
	}
}

func TestTagProjector_OneRecordPerParentInOrder(t *testing.T) {
	text := `<Root><Item><Name>first</Name></Item><Group><Item><Name>second</Name></Item></Group></Root>`
	recs := project(t, TagProjector{Parent: "item", Children: []string{"name"}, Deep: true}, text)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0]["NAME"] != "first" || recs[1]["NAME"] != "second" {
		t.Fatalf("unexpected order: %v", recs)
	}
}

func TestTagProjector_FirstOccurrenceWinsAndEmptyKept(t *testing.T) {
	text := `<Root><Item><Name> one </Name><Name>two</Name><Note/></Item></Root>`
	recs := project(t, TagProjector{Parent: "Item", Children: []string{"Name", "Note", "Missing"}, Deep: true}, text)
	want := Record{"NAME": "one", "NOTE": ""}
	if !reflect.DeepEqual(recs[0], want) {
		t.Fatalf("got %v want %v", recs[0], want)
	}
}

func TestTagProjector_CodeTextPairing(t *testing.T) {
	p := TagProjector{Parent: "Item", Children: []string{"EPD", "GTIN", "Name"}, Deep: true}
	text := `<Root>
	  <Item>
	    <Name>Milk</Name>
	    <Id><code>epd</code><text>123</text></Id>
	    <Id><code>COLOR</code><text>red</text></Id>
	    <Id><code>GTIN</code><text>1</text></Id>
	    <GTIN>2</GTIN>
	  </Item>
	</Root>`
	recs := project(t, p, text)
	want := Record{"NAME": "Milk", "EPD": "123", "GTIN": "2"}
	if !reflect.DeepEqual(recs[0], want) {
		t.Fatalf("got %v want %v", recs[0], want)
	}
}

func TestTagProjector_NamespacesIgnored(t *testing.T) {
	text := `<x:Root xmlns:x="urn:a" xmlns="urn:b"><x:Item><Name>n</Name></x:Item></x:Root>`
	recs := project(t, TagProjector{Parent: "Item", Children: []string{"Name"}}, text)
	if recs[0]["NAME"] != "n" {
		t.Fatalf("got %v", recs[0])
	}
}

func TestTagProjector_NoParent(t *testing.T) {
	doc, err := xmltree.Parse(`<Root><Other/></Root>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = TagProjector{Parent: "Item"}.Project(&doc.Element)
	if !errors.Is(err, ErrNoMatchingElements) {
		t.Fatalf("expected ErrNoMatchingElements, got %v", err)
	}
}

func TestGeneric_CleansGTINFields(t *testing.T) {
	g := Generic{Projector: TagProjector{
		Parent:   "BaseItemDetails",
		Children: []string{"Description", "GTIN", "GTIN-FPAK"},
		Deep:     true,
	}}
	res, err := g.Extract(`<Root><BaseItemDetails><Description>Milk</Description>
	  <AdditionalProductId><Code>GTIN</Code><Text>07032069848975</Text></AdditionalProductId>
	  <GTIN-FPAK>1-7032069-848975</GTIN-FPAK>
	</BaseItemDetails></Root>`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Kind != KindItems || res.Items == nil {
		t.Fatalf("unexpected result %+v", res)
	}
	want := Record{"DESCRIPTION": "Milk", "GTIN": "7032069848975", "GTIN-FPAK": "7032069848975"}
	if !reflect.DeepEqual(res.Items.Records[0], want) {
		t.Fatalf("got %v want %v", res.Items.Records[0], want)
	}
	if res.Items.Parent != "BaseItemDetails" {
		t.Fatalf("parent: %q", res.Items.Parent)
	}
}

func TestGeneric_NoParentReturnsNothing(t *testing.T) {
	res, err := Generic{Projector: TagProjector{Parent: "BaseItemDetails"}}.Extract(`<Root/>`)
	if !errors.Is(err, ErrNoMatchingElements) {
		t.Fatalf("expected ErrNoMatchingElements, got %v", err)
	}
	if res.Kind != "" || res.Items != nil {
		t.Fatalf("expected zero result, got %+v", res)
	}
}
