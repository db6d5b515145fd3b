package urldetector

import (
	"reflect"
	"testing"
)

func TestIsInstagramURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{
			name: "Canonical post URL",
			url:  "https://www.instagram.com/p/Cxyz123/",
			want: true,
		},
		{
			name: "Apex host",
			url:  "https://instagram.com/someuser",
			want: true,
		},
		{
			name: "Mobile host",
			url:  "https://m.instagram.com/p/Cxyz123/",
			want: true,
		},
		{
			name: "Short alias",
			url:  "https://instagr.am/p/Cxyz123/",
			want: true,
		},
		{
			name: "Uppercase host",
			url:  "https://WWW.INSTAGRAM.COM/p/Cxyz123/",
			want: true,
		},
		{
			name: "Arbitrary subdomain of apex",
			url:  "https://help.instagram.com/faq",
			want: true,
		},
		{
			name: "Host with port",
			url:  "https://instagram.com:443/p/abc/",
			want: true,
		},
		{
			name: "Different site",
			url:  "https://www.youtube.com/watch?v=abc",
			want: false,
		},
		{
			name: "Lookalike suffix",
			url:  "https://notinstagram.com/p/abc/",
			want: false,
		},
		{
			name: "Instagram as subdomain of attacker domain",
			url:  "https://instagram.com.evil.example/p/abc/",
			want: false,
		},
		{
			name: "Scheme-less text",
			url:  "instagram.com/p/abc",
			want: false,
		},
		{
			name: "Unparseable URL returns false without panicking",
			url:  "https://insta gram.com/p/abc",
			want: false,
		},
		{
			name: "Invalid percent escape",
			url:  "https://instagram.com/p/%zz",
			want: false,
		},
		{
			name: "Empty string",
			url:  "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInstagramURL(tt.url); got != tt.want {
				t.Errorf("IsInstagramURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtractInstagramURLs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "Single link",
			content: "check this out https://www.instagram.com/p/Cxyz123/",
			want:    []string{"https://www.instagram.com/p/Cxyz123/"},
		},
		{
			name:    "Order of appearance preserved",
			content: "first https://instagram.com/p/aaa/ then https://instagram.com/p/bbb/",
			want:    []string{"https://instagram.com/p/aaa/", "https://instagram.com/p/bbb/"},
		},
		{
			name:    "Duplicates are kept",
			content: "https://instagram.com/p/aaa/ again https://instagram.com/p/aaa/",
			want:    []string{"https://instagram.com/p/aaa/", "https://instagram.com/p/aaa/"},
		},
		{
			name:    "Non-instagram links filtered out",
			content: "https://youtube.com/watch?v=x and https://instagram.com/p/ccc/",
			want:    []string{"https://instagram.com/p/ccc/"},
		},
		{
			name:    "Link wrapped in angle brackets",
			content: "<https://instagram.com/p/ddd/>",
			want:    []string{"https://instagram.com/p/ddd/"},
		},
		{
			name:    "Link inside parentheses",
			content: "(see https://instagram.com/p/eee)",
			want:    []string{"https://instagram.com/p/eee"},
		},
		{
			name:    "No links",
			content: "just chatting, nothing to see",
			want:    nil,
		},
		{
			name:    "Short alias detected",
			content: "https://instagr.am/p/fff/",
			want:    []string{"https://instagr.am/p/fff/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractInstagramURLs(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractInstagramURLs(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}
