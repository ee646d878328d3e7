package sanitize

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoXMLContent is returned by RecoverXML when the text has no
// bracket-delimited content at all.
var ErrNoXMLContent = errors.New("no XML content found")

// syntheticRoot wraps sibling fragments so they parse as one tree.
const syntheticRoot = "Root"

var leadingPrologRe = regexp.MustCompile(`(?i)^<\?xml[^>]*\?>`)

// RecoverXML locates the XML part of text: everything from the first '<' to
// the last '>' after discarding anything before an XML declaration. A
// leading declaration and stray quotes from copy-paste are removed, and text
// with several tags that does not already start with <root is wrapped in a
// synthetic <Root> element. It does not validate; malformed but bracketed
// input is returned for the tolerant parser to deal with.
func RecoverXML(text string) (string, error) {
	if i := strings.Index(text, "<?xml"); i >= 0 {
		text = text[i:]
	}
	start := strings.IndexByte(text, '<')
	end := strings.LastIndexByte(text, '>')
	if start < 0 || end <= start {
		return "", ErrNoXMLContent
	}

	out := strings.TrimSpace(text[start : end+1])
	out = leadingPrologRe.ReplaceAllString(out, "")
	out = strings.Trim(strings.TrimSpace(out), `'"`)
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrNoXMLContent
	}

	if strings.Count(out, "<") > 1 && !strings.HasPrefix(strings.ToLower(out), "<root") {
		out = "<" + syntheticRoot + ">" + out + "</" + syntheticRoot + ">"
	}
	return out, nil
}
