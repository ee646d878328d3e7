package extract

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/hyperifyio/fiksextract/internal/gtin"
	"github.com/hyperifyio/fiksextract/internal/xmltree"
)

// OrderDateRef is the reference code under which orders carry their date.
const OrderDateRef = "ORDER_DATE"

// Order extracts purchase orders (EAN-NOR ORDERS messages).
type Order struct{}

// Extract implements Strategy.
func (Order) Extract(text string) (Result, error) {
	doc, err := xmltree.Parse(text)
	if err != nil {
		return Result{}, err
	}
	root := &doc.Element

	items := xmltree.All(root, "BaseItemDetails")
	if len(items) == 0 {
		return Result{}, noElements("BaseItemDetails")
	}

	out := &OrderResult{
		OrderDate: RefValue(root, OrderDateRef),
		Products:  make([]Record, 0, len(items)),
	}
	out.OrderNumber, _ = xmltree.FindText(root, "OrderNumber")

	for _, item := range items {
		rec := make(Record)
		rec.fill("Varenavn", item, "Description")
		rec.fill("REMAid", item, "BuyersProductId")
		rec.fill("Quantity", item, "QuantityOrdered")
		for _, id := range productIDs(item) {
			code, _ := xmltree.FindText(id, "Code")
			val, _ := xmltree.FindText(id, "Text")
			code = strings.ToUpper(code)
			if code == "" || val == "" {
				continue
			}
			if gtin.IsCode(code) {
				val = gtin.Clean(val)
			}
			rec.setIfAbsent(code, val)
		}
		out.Products = append(out.Products, rec)
	}
	return Result{Kind: KindOrder, Order: out}, nil
}

// RefValue scans every Ref element below root for one whose Code equals
// code and returns the trimmed text of its Text. It returns "" when there is
// no such reference.
func RefValue(root *etree.Element, code string) string {
	for _, ref := range xmltree.All(root, "Ref") {
		c, ok := xmltree.FindText(ref, "Code")
		if !ok || c != code {
			continue
		}
		if t, ok := xmltree.FindText(ref, "Text"); ok {
			return t
		}
	}
	return ""
}

// productIDs returns the AdditionalProductId elements nested anywhere under
// a ProductIdentification of item, each once.
func productIDs(item *etree.Element) []*etree.Element {
	var out []*etree.Element
	seen := make(map[*etree.Element]bool)
	for _, pi := range xmltree.All(item, "ProductIdentification") {
		for _, id := range xmltree.All(pi, "AdditionalProductId") {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
