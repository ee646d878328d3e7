package registry

import (
	"math/rand/v2"
	"regexp"

	"github.com/hyperifyio/fiksextract/internal/extract"
)

// Names of the built-in formats.
const (
	FormatShippingNote = "ASN"
	FormatInvoice      = "InvoiceToGold"
	FormatOrder        = "POtoAzure"
	FormatBaseItems    = "BaseItems"
)

// Options tune the built-in strategies.
type Options struct {
	// Placeholder numbers shipping-note packages without an identifier.
	Placeholder extract.PlaceholderMode
	// Seed, when non-zero, makes random placeholders reproducible: every
	// shipping-note strategy gets its own generator seeded with it.
	Seed uint64
}

// Predicates run on lower-cased text.
var (
	deliveryNoteRe  = regexp.MustCompile(`<(?:[\w.-]+:)?deliverynote(?:details)?[\s>/]`)
	invoiceNumberRe = regexp.MustCompile(`<\s*(?:[\w.-]+:)?invoicenumber\s*>`)
	invoiceDateRe   = regexp.MustCompile(`<\s*(?:[\w.-]+:)?invoicedate\s*>`)
	ordersTypeRe    = regexp.MustCompile(`messagetype\s*=\s*["']orders["']`)
	baseItemsRe     = regexp.MustCompile(`<(?:[\w.-]+:)?baseitemdetails[\s>/]`)
)

// IsShippingNote matches documents with a DeliveryNote or
// DeliveryNoteDetails element.
func IsShippingNote(lowered string) bool { return deliveryNoteRe.MatchString(lowered) }

// IsInvoice matches documents carrying both an InvoiceNumber and an
// InvoiceDate element anywhere.
func IsInvoice(lowered string) bool {
	return invoiceNumberRe.MatchString(lowered) && invoiceDateRe.MatchString(lowered)
}

// IsOrder matches ORDERS messages by their MessageType attribute.
func IsOrder(lowered string) bool { return ordersTypeRe.MatchString(lowered) }

// HasBaseItems matches any document with BaseItemDetails line items.
func HasBaseItems(lowered string) bool { return baseItemsRe.MatchString(lowered) }

// BaseItemsProjector is the fallback projection for documents that carry
// line items but match no specific format.
var BaseItemsProjector = extract.TagProjector{
	Parent: "BaseItemDetails",
	Children: []string{
		"Description",
		"SuppliersProductId",
		"BuyersProductId",
		"GTIN",
		"GTIN-FPAK",
		"EPD",
		"QuantityOrdered",
	},
	Deep: true,
}

// Descriptors returns the built-in formats in evaluation order. Shipping
// notes come first because they may also mention invoice and order numbers.
func Descriptors(opts Options) []Descriptor {
	return []Descriptor{
		{
			Name:  FormatShippingNote,
			Match: IsShippingNote,
			New: func() extract.Strategy {
				s := extract.ShippingNote{Placeholder: opts.Placeholder}
				if opts.Seed != 0 {
					s.Rand = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
				}
				return s
			},
		},
		{
			Name:  FormatInvoice,
			Match: IsInvoice,
			New:   func() extract.Strategy { return extract.Invoice{} },
		},
		{
			Name:  FormatOrder,
			Match: IsOrder,
			New:   func() extract.Strategy { return extract.Order{} },
		},
		{
			Name:  FormatBaseItems,
			Match: HasBaseItems,
			New:   func() extract.Strategy { return extract.Generic{Projector: BaseItemsProjector} },
		},
	}
}

// Default builds the registry of built-in formats.
func Default(opts Options) *Registry {
	b := NewBuilder()
	for _, d := range Descriptors(opts) {
		b.MustRegister(d)
	}
	return b.Build()
}
