package preview

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/net/html"

	"gramfix/internal/domain"
	"gramfix/internal/pkg/htmltext"
)

// Instagram markup is adversarial toward scraping and frequently garbled,
// so extraction uses single-purpose anchored patterns instead of a strict
// document parse. A strict parser rejects pages these patterns still
// salvage; do not "fix" this into one.
var (
	ogTitleRe       = regexp.MustCompile(`(?i)<meta[^>]*property=["']og:title["'][^>]*content=["']([^"']*)["']`)
	ogDescriptionRe = regexp.MustCompile(`(?i)<meta[^>]*property=["']og:description["'][^>]*content=["']([^"']*)["']`)
	ogImageRe       = regexp.MustCompile(`(?i)<meta[^>]*property=["']og:image["'][^>]*content=["']([^"']*)["']`)
	ogURLRe         = regexp.MustCompile(`(?i)<meta[^>]*property=["']og:url["'][^>]*content=["']([^"']*)["']`)
	ogSiteNameRe    = regexp.MustCompile(`(?i)<meta[^>]*property=["']og:site_name["'][^>]*content=["']([^"']*)["']`)
	ogTypeRe        = regexp.MustCompile(`(?i)<meta[^>]*property=["']og:type["'][^>]*content=["']([^"']*)["']`)
)

// profilePicPatterns locate the poster's profile picture inside the page's
// embedded JSON. Tried strictest first; the loose variants catch the
// re-escaped and reshuffled blobs Instagram ships on some page types.
var profilePicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"profile_pic_url"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`\\"profile_pic_url\\":\\"(.+?)\\"`),
	regexp.MustCompile(`profile_pic_url[^"']*["']([^"']+)["']`),
}

// Extract scrapes a raw HTML document into a LinkMetadata record. Returns
// nil unless the result carries a title or description. The decode policy
// is per-field: human-readable text is entity-decoded and escape-cleaned,
// URL fields are entity-decoded only, and the profile-picture URI gets
// JSON string decoding since it comes from embedded JSON, not attribute
// text.
func Extract(doc, sourceURL string) *domain.LinkMetadata {
	meta := &domain.LinkMetadata{}

	if m := ogTitleRe.FindStringSubmatch(doc); m != nil {
		meta.Title = htmltext.CleanEscapes(htmltext.DecodeEntities(m[1]))
	}
	if m := ogDescriptionRe.FindStringSubmatch(doc); m != nil {
		meta.Description = htmltext.CleanEscapes(htmltext.DecodeEntities(m[1]))
	}
	if m := ogImageRe.FindStringSubmatch(doc); m != nil {
		meta.Image = htmltext.DecodeEntities(m[1])
	}

	for _, re := range profilePicPatterns {
		if m := re.FindStringSubmatch(doc); m != nil {
			pic := decodeJSONString(m[1])
			meta.Thumbnail = pic
			if meta.Image == "" {
				meta.Image = pic
			}
			break
		}
	}

	if m := ogURLRe.FindStringSubmatch(doc); m != nil {
		meta.URL = htmltext.DecodeEntities(m[1])
	}
	if m := ogSiteNameRe.FindStringSubmatch(doc); m != nil {
		meta.SiteName = htmltext.DecodeEntities(m[1])
	}
	if m := ogTypeRe.FindStringSubmatch(doc); m != nil {
		meta.Type = htmltext.DecodeEntities(m[1])
	}

	if meta.Title == "" {
		if title := documentTitle(doc); title != "" {
			meta.Title = htmltext.CleanEscapes(htmltext.DecodeEntities(title))
		}
	}

	if !meta.Usable() {
		return nil
	}

	if meta.URL == "" {
		meta.URL = sourceURL
	}

	return meta
}

// documentTitle pulls the plain <title> element as a fallback when no
// og:title is present. html.Parse tolerates arbitrarily malformed input,
// so this never hard-fails on garbled pages.
func documentTitle(doc string) string {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return ""
	}
	return findTitleInNode(root)
}

func findTitleInNode(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				return c.Data
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitleInNode(c); title != "" {
			return title
		}
	}

	return ""
}

// decodeJSONString undoes the escaping a JSON string value carries when
// lifted straight out of page source: \/ becomes /, and \uXXXX sequences
// decode to characters, pairing surrogate halves so emoji survive intact.
func decodeJSONString(s string) string {
	s = strings.ReplaceAll(s, `\/`, "/")
	if !strings.Contains(s, `\u`) {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] == '\\' && i+6 <= len(s) && s[i+1] == 'u' {
			if v, err := strconv.ParseUint(s[i+2:i+6], 16, 32); err == nil {
				r := rune(v)
				size := 6
				if utf16.IsSurrogate(r) && i+12 <= len(s) && s[i+6] == '\\' && s[i+7] == 'u' {
					if v2, err := strconv.ParseUint(s[i+8:i+12], 16, 32); err == nil {
						if paired := utf16.DecodeRune(r, rune(v2)); paired != utf8.RuneError {
							r = paired
							size = 12
						}
					}
				}
				if utf16.IsSurrogate(r) {
					// Unpaired half
					r = utf8.RuneError
				}
				b.WriteRune(r)
				i += size
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}

	return b.String()
}
