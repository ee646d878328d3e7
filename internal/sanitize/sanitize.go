// Package sanitize cleans raw pasted text and recovers the XML portion of it
// so the tolerant parser gets a single-rooted document to work on.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Options tunes Input. The zero value applies the plain rules.
type Options struct {
	// FoldDiacritics decomposes accented letters before non-ASCII runes are
	// removed, so "Crème" becomes "Creme" rather than "Crme".
	FoldDiacritics bool
}

var (
	styleRe   = regexp.MustCompile(`(?is)<style[^>]*>.*?</style\s*>`)
	scriptRe  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script\s*>`)
	commentRe = regexp.MustCompile(`(?s)<!--.*?-->`)
	doctypeRe = regexp.MustCompile(`(?i)<!DOCTYPE[^>]*>`)
	prologRe  = regexp.MustCompile(`(?i)<\?xml[^>]*\?>`)
	blankRe   = regexp.MustCompile(`\n(?:[ \t]*\n)+`)

	entities = strings.NewReplacer("&nbsp;", " ", "&amp;", "&")
)

// Input removes markup noise from text. In order it drops style and script
// blocks, comments, DOCTYPE and XML declarations, replaces &nbsp; and &amp;,
// strips everything outside 7-bit ASCII, collapses blank lines and trims.
// Input is total; the worst case is an empty string.
func Input(text string, opts Options) string {
	text = styleRe.ReplaceAllString(text, "")
	text = scriptRe.ReplaceAllString(text, "")
	text = commentRe.ReplaceAllString(text, "")
	text = doctypeRe.ReplaceAllString(text, "")
	text = prologRe.ReplaceAllString(text, "")
	text = entities.Replace(text)
	text = toASCII(text, opts.FoldDiacritics)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blankRe.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

func nonASCII(r rune) bool { return r > unicode.MaxASCII }

// toASCII drops every rune above 0x7F. Invalid UTF-8 decodes to U+FFFD and
// is dropped with it.
func toASCII(s string, fold bool) string {
	var t transform.Transformer = runes.Remove(runes.Predicate(nonASCII))
	if fold {
		t = transform.Chain(norm.NFKD, t)
	}
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.Map(func(r rune) rune {
			if nonASCII(r) {
				return -1
			}
			return r
		}, s)
	}
	return out
}
