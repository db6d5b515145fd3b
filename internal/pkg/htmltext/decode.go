// Package htmltext provides the small text transforms applied to scraped
// page metadata: HTML entity decoding and backslash-escape cleanup.
package htmltext

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// numericEntityRe matches decimal (&#NNN;) and hex (&#xHHHH;) character
// references.
var numericEntityRe = regexp.MustCompile(`&#([xX]?)([0-9a-fA-F]+);`)

// namedEntities covers the handful of named references Instagram actually
// emits in meta tags. Applied after numeric decoding so &amp;-prefixed
// text is not double-decoded in a single pass.
var namedEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&#39;", "'",
	"&#039;", "'",
	"&nbsp;", " ",
)

// DecodeEntities converts named and numeric HTML character references into
// their literal characters. Numeric references beyond the 16-bit range
// decode to a single code point (emoji stay intact); anything that is not
// a valid character becomes the Unicode replacement character. The
// function is total and idempotent on already-decoded text.
func DecodeEntities(text string) string {
	text = numericEntityRe.ReplaceAllStringFunc(text, decodeNumericRef)
	return namedEntities.Replace(text)
}

func decodeNumericRef(ref string) string {
	m := numericEntityRe.FindStringSubmatch(ref)
	if m == nil {
		return ref
	}

	base := 10
	if m[1] != "" {
		base = 16
	}

	cp, err := strconv.ParseUint(m[2], base, 32)
	if err != nil {
		return string(utf8.RuneError)
	}

	r := rune(cp)
	if !utf8.ValidRune(r) {
		// Out of range or a lone surrogate half
		return string(utf8.RuneError)
	}

	return string(r)
}

var (
	whitespaceEscapeRe = regexp.MustCompile(`\\[ntr]`)
	whitespaceRunRe    = regexp.MustCompile(`\s+`)
)

// CleanEscapes collapses literal backslash escapes left over from embedded
// JSON or sloppy markup: \n, \t and \r become a space, \" \' and \\ are
// unescaped, whitespace runs collapse to a single space, and the result is
// trimmed. Not applied to URL fields, which it would corrupt.
func CleanEscapes(text string) string {
	text = whitespaceEscapeRe.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, `\"`, `"`)
	text = strings.ReplaceAll(text, `\'`, "'")
	text = strings.ReplaceAll(text, `\\`, `\`)
	text = whitespaceRunRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
