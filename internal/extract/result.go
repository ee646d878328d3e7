package extract

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/hyperifyio/fiksextract/internal/xmltree"
)

// Kind tags which variant a Result carries.
type Kind string

const (
	KindOrder        Kind = "order"
	KindInvoice      Kind = "invoice"
	KindShippingNote Kind = "shipping_note"
	KindItems        Kind = "items"
)

// Record is one normalized line: field name to value. Fields missing from the
// source document are missing from the record.
type Record map[string]string

// fill stores the trimmed text found at path under key, unless key is
// already set or nothing was found.
func (r Record) fill(key string, el *etree.Element, path ...string) {
	if _, ok := r[key]; ok {
		return
	}
	if v, ok := xmltree.FindText(el, path...); ok {
		r[key] = v
	}
}

func (r Record) setIfAbsent(key, value string) {
	if _, ok := r[key]; !ok {
		r[key] = value
	}
}

// renamed returns a copy of r with keys translated through names. Keys
// without a translation are kept.
func (r Record) renamed(names map[string]string) Record {
	out := make(Record, len(r))
	for k, v := range r {
		if n, ok := names[k]; ok {
			k = n
		}
		out[k] = v
	}
	return out
}

// OrderResult is the projection of a purchase order.
type OrderResult struct {
	OrderNumber string   `json:"OrderNumber" yaml:"OrderNumber"`
	OrderDate   string   `json:"OrderDate" yaml:"OrderDate"`
	Products    []Record `json:"Products" yaml:"Products"`
}

// InvoiceSummary holds the document-level invoice totals.
type InvoiceSummary struct {
	TotalAmount string `json:"TotalAmount" yaml:"TotalAmount"`
	VatAmount   string `json:"VatAmount" yaml:"VatAmount"`
	Currency    string `json:"Currency" yaml:"Currency"`
}

// InvoiceResult is the projection of an invoice.
type InvoiceResult struct {
	InvoiceNumber string         `json:"InvoiceNumber" yaml:"InvoiceNumber"`
	InvoiceDate   string         `json:"InvoiceDate" yaml:"InvoiceDate"`
	Products      []Record       `json:"Products" yaml:"Products"`
	Summary       InvoiceSummary `json:"Summary" yaml:"Summary"`
}

// ShippingNoteResult is the projection of a delivery note, items grouped by
// package identifier.
type ShippingNoteResult struct {
	DeliveryNoteNumber string    `json:"DeliveryNoteNumber" yaml:"DeliveryNoteNumber"`
	Packages           *Packages `json:"Packages" yaml:"Packages"`
}

// ItemsResult is what the generic tag-driven strategy produces: one record
// per matched parent element.
type ItemsResult struct {
	Parent  string   `json:"Parent" yaml:"Parent"`
	Records []Record `json:"Records" yaml:"Records"`
}

// Result is the tagged outcome of an extraction. Exactly the field matching
// Kind is set; consumers switch on Kind.
type Result struct {
	Kind         Kind
	Order        *OrderResult
	Invoice      *InvoiceResult
	ShippingNote *ShippingNoteResult
	Items        *ItemsResult
}

// Payload returns the variant value for Kind, suitable for encoding.
func (r Result) Payload() any {
	switch r.Kind {
	case KindOrder:
		return r.Order
	case KindInvoice:
		return r.Invoice
	case KindShippingNote:
		return r.ShippingNote
	case KindItems:
		return r.Items
	}
	return nil
}

// Data converts the result into plain nested maps and slices, the shape
// export and presentation code consumes. Package order is not preserved by
// the map; use ShippingNote.Packages.IDs when order matters.
func (r Result) Data() map[string]any {
	switch r.Kind {
	case KindOrder:
		if o := r.Order; o != nil {
			return map[string]any{
				"OrderNumber": o.OrderNumber,
				"OrderDate":   o.OrderDate,
				"Products":    plainRecords(o.Products),
			}
		}
	case KindInvoice:
		if inv := r.Invoice; inv != nil {
			return map[string]any{
				"InvoiceNumber": inv.InvoiceNumber,
				"InvoiceDate":   inv.InvoiceDate,
				"Products":      plainRecords(inv.Products),
				"Summary": map[string]string{
					"TotalAmount": inv.Summary.TotalAmount,
					"VatAmount":   inv.Summary.VatAmount,
					"Currency":    inv.Summary.Currency,
				},
			}
		}
	case KindShippingNote:
		if sn := r.ShippingNote; sn != nil {
			groups := make(map[string][]map[string]string)
			if sn.Packages != nil {
				for _, id := range sn.Packages.IDs() {
					groups[id] = plainRecords(sn.Packages.Items(id))
				}
			}
			return map[string]any{
				"DeliveryNoteNumber": sn.DeliveryNoteNumber,
				"Packages":           groups,
			}
		}
	case KindItems:
		if it := r.Items; it != nil {
			return map[string]any{
				"Parent":  it.Parent,
				"Records": plainRecords(it.Records),
			}
		}
	}
	return map[string]any{}
}

// Count returns the number of records in the result, summed over packages
// for shipping notes.
func (r Result) Count() int {
	switch r.Kind {
	case KindOrder:
		if r.Order != nil {
			return len(r.Order.Products)
		}
	case KindInvoice:
		if r.Invoice != nil {
			return len(r.Invoice.Products)
		}
	case KindShippingNote:
		if r.ShippingNote != nil && r.ShippingNote.Packages != nil {
			n := 0
			for _, id := range r.ShippingNote.Packages.IDs() {
				n += len(r.ShippingNote.Packages.Items(id))
			}
			return n
		}
	case KindItems:
		if r.Items != nil {
			return len(r.Items.Records)
		}
	}
	return 0
}

func plainRecords(in []Record) []map[string]string {
	out := make([]map[string]string, 0, len(in))
	for _, r := range in {
		m := make(map[string]string, len(r))
		for k, v := range r {
			m[k] = v
		}
		out = append(out, m)
	}
	return out
}

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
