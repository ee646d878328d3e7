package extract

import (
	"github.com/beevik/etree"

	"github.com/hyperifyio/fiksextract/internal/gtin"
	"github.com/hyperifyio/fiksextract/internal/xmltree"
)

// invoiceLines projects invoice line items. GTIN and EPD usually arrive as
// AdditionalProductId code/text pairs.
var invoiceLines = TagProjector{
	Parent: "BaseItemDetails",
	Children: []string{
		"Description",
		"GTIN",
		"EPD",
		"UnitPrice",
		"LineItemAmount",
		"VatAmount",
		"QuantityInvoiced",
	},
	Deep: true,
}

var invoiceFieldNames = map[string]string{
	"DESCRIPTION":      "Varenavn",
	"UNITPRICE":        "UnitPrice",
	"LINEITEMAMOUNT":   "LineItemAmount",
	"VATAMOUNT":        "VatAmount",
	"QUANTITYINVOICED": "QuantityInvoiced",
}

// Invoice extracts invoices.
type Invoice struct{}

// Extract implements Strategy.
func (Invoice) Extract(text string) (Result, error) {
	doc, err := xmltree.Parse(text)
	if err != nil {
		return Result{}, err
	}
	root := &doc.Element

	lines, err := invoiceLines.Project(root)
	if err != nil {
		return Result{}, err
	}
	products := make([]Record, 0, len(lines))
	for _, rec := range lines {
		products = append(products, rec.renamed(invoiceFieldNames))
	}
	for _, p := range products {
		if v, ok := p["GTIN"]; ok {
			p["GTIN"] = gtin.Clean(v)
		}
	}

	out := &InvoiceResult{Products: products}
	out.InvoiceNumber, _ = xmltree.FindText(root, "InvoiceNumber")
	out.InvoiceDate, _ = xmltree.FindText(root, "InvoiceDate")
	out.Summary.TotalAmount, _ = xmltree.FindText(root, "LineItemTotalsAmount")
	out.Summary.VatAmount = headerVat(root)
	out.Summary.Currency, _ = xmltree.FindText(root, "Currency")
	return Result{Kind: KindInvoice, Invoice: out}, nil
}

// headerVat returns the first VatAmount that is not part of a line item,
// falling back to the first one anywhere.
func headerVat(root *etree.Element) string {
	var found *etree.Element
	xmltree.Walk(root, func(e *etree.Element) bool {
		if found != nil || xmltree.Is(e, "BaseItemDetails") {
			return false
		}
		if e != root && xmltree.Is(e, "VatAmount") {
			found = e
			return false
		}
		return true
	})
	if found != nil {
		return xmltree.Text(found)
	}
	v, _ := xmltree.FindText(root, "VatAmount")
	return v
}
