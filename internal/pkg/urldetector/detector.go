// Package urldetector recognizes Instagram URLs in free-form message text.
package urldetector

import (
	"net/url"
	"regexp"
	"strings"
)

// instagramHosts is the fixed allow-list of exact host forms, including
// the instagr.am short alias.
var instagramHosts = map[string]bool{
	"instagram.com":     true,
	"www.instagram.com": true,
	"m.instagram.com":   true,
	"instagr.am":        true,
	"www.instagr.am":    true,
}

// urlTokenRe is a permissive URL-token grammar: a scheme, then everything
// up to whitespace or a bracket/quote delimiter. Instagram paths never
// legitimately contain those characters, and message text frequently
// wraps links in them.
var urlTokenRe = regexp.MustCompile(`https?://[^\s<>"'()\[\]{}]+`)

// IsInstagramURL reports whether raw parses as a URL whose host is an
// Instagram host. Parse failures return false, never an error.
func IsInstagramURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}

	if instagramHosts[host] {
		return true
	}

	// Any subdomain of the apex (help., about., regional prefixes)
	return strings.HasSuffix(host, ".instagram.com")
}

// ExtractInstagramURLs scans message content and returns every Instagram
// URL in order of appearance. Duplicates are kept: a message that pastes
// the same link twice gets two entries.
func ExtractInstagramURLs(content string) []string {
	var urls []string
	for _, token := range urlTokenRe.FindAllString(content, -1) {
		if IsInstagramURL(token) {
			urls = append(urls, token)
		}
	}
	return urls
}
