package urldetector

import (
	"net/url"
	"strings"
)

// NormalizeShareURL rewrites an instagr.am share link into its canonical
// www.instagram.com form, which extracts far more reliably. Anything else
// passes through unchanged, including URLs that fail to parse.
func NormalizeShareURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	host := strings.ToLower(u.Hostname())
	if host != "instagr.am" && host != "www.instagr.am" {
		return raw
	}

	u.Scheme = "https"
	u.Host = "www.instagram.com"
	return u.String()
}

// MobileVariant rewrites a URL's host to the mobile subdomain, used as a
// fallback when the desktop site refuses the request.
func MobileVariant(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Host = "m.instagram.com"
	return u.String()
}
