package extract

import (
	"math/rand/v2"
	"strings"

	"github.com/beevik/etree"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/fiksextract/internal/gtin"
	"github.com/hyperifyio/fiksextract/internal/xmltree"
)

// eannorDefaultNS is removed before parsing so delivery notes that declare
// it and those that do not produce the same tree.
const eannorDefaultNS = `xmlns="http://www.ean-nor.no/schemas/eannor"`

// ShippingNote extracts delivery notes (despatch advice) and groups their
// items by package.
type ShippingNote struct {
	// Placeholder numbers packages without an IdentFrom. Empty means random.
	Placeholder PlaceholderMode
	// Rand feeds random placeholders. Nil uses the goroutine-safe global
	// source. A *rand.Rand is not safe for concurrent use, so do not share
	// one between strategies that run in parallel.
	Rand *rand.Rand
}

// Extract implements Strategy.
func (s ShippingNote) Extract(text string) (Result, error) {
	doc, err := xmltree.Parse(strings.ReplaceAll(text, eannorDefaultNS, ""))
	if err != nil {
		return Result{}, err
	}
	root := &doc.Element

	blocks := xmltree.All(root, "DeliveryNoteDetails")
	if len(blocks) == 0 {
		return Result{}, noElements("DeliveryNoteDetails")
	}

	out := &ShippingNoteResult{Packages: NewPackages()}
	out.DeliveryNoteNumber, _ = xmltree.FindText(root, "DeliveryNoteNumber")

	ph := &placeholders{mode: s.Placeholder, rng: s.Rand}
	for _, block := range blocks {
		ident, _ := xmltree.FindText(block, "ParcelIdentification", "IdentFrom")
		if ident == "" {
			ident = ph.next(out.Packages.Has)
			log.Debug().Str("package", ident).Msg("delivery note block has no IdentFrom; using placeholder")
		}
		out.Packages.Ensure(ident)
		for _, item := range xmltree.All(block, "BaseItemDetails") {
			out.Packages.Add(ident, shippedItem(item))
		}
	}
	log.Debug().Int("packages", out.Packages.Len()).Msg("delivery note grouped")
	return Result{Kind: KindShippingNote, ShippingNote: out}, nil
}

func shippedItem(item *etree.Element) Record {
	rec := make(Record)
	rec.fill("Varenavn", item, "Description")
	rec.fill("REMAid", item, "BuyersProductId")

	qty, _ := xmltree.FindText(item, "DeliveredQuantity", "Quantity")
	unit, _ := xmltree.FindText(item, "DeliveredQuantity", "QuantityUnit")
	switch {
	case qty != "" && unit != "":
		rec["Quantity"] = qty + " " + unit
	case qty != "":
		rec["Quantity"] = qty
	}

	rec.fill("BuyersOrderNumber", item, "BuyersOrderInfo", "OrderNumber")
	if v, ok := additionalID(item, "GTIN"); ok {
		rec["GTIN"] = gtin.Clean(v)
	}
	if v, ok := additionalID(item, "EPD"); ok {
		rec["EPD"] = v
	}
	return rec
}

// additionalID returns the Text of the first AdditionalProductId below el
// that has a Code child equal to code, ignoring case.
func additionalID(el *etree.Element, code string) (string, bool) {
	for _, id := range xmltree.All(el, "AdditionalProductId") {
		for _, c := range xmltree.Children(id, "Code") {
			if !strings.EqualFold(xmltree.Text(c), code) {
				continue
			}
			if t := xmltree.Children(id, "Text"); len(t) > 0 {
				return xmltree.Text(t[0]), true
			}
		}
	}
	return "", false
}
