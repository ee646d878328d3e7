// Package gtin normalizes Global Trade Item Numbers found in trade documents.
package gtin

import "strings"

// maxLen is the length of a GTIN-13. Longer digit strings carry a packaging
// indicator in front that consumers do not want.
const maxLen = 13

// Clean keeps only the digits of value and, when more than 13 digits remain
// and the first one is 0-3, drops that leading indicator digit. It never
// fails; input without digits yields "".
//
// Exactly one digit is dropped per call, so Clean is idempotent for every
// input of at most 14 digits, which covers GTIN-8 through GTIN-14.
func Clean(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if c := value[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	s := b.String()
	if len(s) > maxLen && s[0] >= '0' && s[0] <= '3' {
		s = s[1:]
	}
	return s
}

// IsCode reports whether an AdditionalProductId code names a GTIN variant
// (GTIN, GTIN-FPAK, GTIN-DPAK, ...). Codes are compared case-insensitively.
func IsCode(code string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(code)), "GTIN")
}
