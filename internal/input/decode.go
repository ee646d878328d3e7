// Package input turns document bytes read from files or stdin into text.
package input

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// encodingLabelRe finds the encoding pseudo-attribute of an XML declaration.
var encodingLabelRe = regexp.MustCompile(`(?i)<\?xml[^>]*?\sencoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

// sniffLen bounds how much of the input is searched for a declaration.
const sniffLen = 1024

// Decode converts b to UTF-8 and reports the encoding it used. A UTF-8 BOM
// is dropped. An encoding named in the XML declaration wins when it is known.
// Otherwise valid UTF-8 is kept as is and anything else is sniffed, which
// for EDI exports usually ends up as windows-1252.
//
// The declaration itself is left in the text; the extraction pipeline
// removes it before parsing.
func Decode(b []byte) (string, string, error) {
	if bytes.HasPrefix(b, utf8BOM) {
		b = b[len(utf8BOM):]
	}

	if label := declaredEncoding(b); label != "" {
		if enc, name := charset.Lookup(label); enc != nil {
			if name == "utf-8" && utf8.Valid(b) {
				return string(b), name, nil
			}
			if name != "utf-8" {
				return decodeWith(b, enc, name)
			}
		}
	}

	if utf8.Valid(b) {
		return string(b), "utf-8", nil
	}
	enc, name, _ := charset.DetermineEncoding(b, "text/xml")
	return decodeWith(b, enc, name)
}

func decodeWith(b []byte, enc encoding.Encoding, name string) (string, string, error) {
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", name, fmt.Errorf("decode %s: %w", name, err)
	}
	return strings.TrimPrefix(string(out), "\uFEFF"), name, nil
}

func declaredEncoding(b []byte) string {
	head := b
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	m := encodingLabelRe.FindSubmatch(head)
	if m == nil {
		return ""
	}
	return strings.ToLower(string(m[1]))
}
