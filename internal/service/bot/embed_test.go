package bot

import (
	"strings"
	"testing"
	"unicode/utf8"

	"gramfix/internal/domain"
)

func TestBuildEmbedFullMetadata(t *testing.T) {
	meta := &domain.LinkMetadata{
		Title:       "someuser on Instagram",
		Description: "A sunny day",
		Image:       "https://cdn.example.net/post.jpg",
		Thumbnail:   "https://cdn.example.net/face.jpg",
		URL:         "https://www.instagram.com/p/abc/",
		SiteName:    "Instagram",
	}

	embed := buildEmbed(meta)

	if embed.Title != meta.Title {
		t.Errorf("Title = %q", embed.Title)
	}
	if embed.Image == nil || embed.Image.URL != meta.Image {
		t.Errorf("Image = %+v", embed.Image)
	}
	if embed.Thumbnail == nil || embed.Thumbnail.URL != meta.Thumbnail {
		t.Errorf("Thumbnail = %+v", embed.Thumbnail)
	}
	if embed.Footer == nil || embed.Footer.Text != "Instagram" {
		t.Errorf("Footer = %+v", embed.Footer)
	}
}

func TestBuildEmbedSkipsDuplicateThumbnail(t *testing.T) {
	// When the profile pic was promoted to Image, don't show it twice
	meta := &domain.LinkMetadata{
		Title:     "someuser",
		Image:     "https://cdn.example.net/face.jpg",
		Thumbnail: "https://cdn.example.net/face.jpg",
	}

	embed := buildEmbed(meta)

	if embed.Image == nil {
		t.Fatal("Image not set")
	}
	if embed.Thumbnail != nil {
		t.Errorf("Thumbnail = %+v, want nil when identical to Image", embed.Thumbnail)
	}
}

func TestBuildEmbedOmitsEmptyFields(t *testing.T) {
	meta := &domain.LinkMetadata{Title: "someuser"}

	embed := buildEmbed(meta)

	if embed.Image != nil || embed.Thumbnail != nil || embed.Footer != nil {
		t.Errorf("empty metadata fields produced embed parts: %+v", embed)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 5000)
	got := truncate(long, embedDescriptionLimit)
	if len(got) > embedDescriptionLimit {
		t.Errorf("truncate produced %d bytes, limit %d", len(got), embedDescriptionLimit)
	}
	if !strings.HasSuffix(got, "…") {
		t.Error("truncated string missing ellipsis")
	}

	short := "short"
	if truncate(short, embedDescriptionLimit) != short {
		t.Error("short string modified")
	}

	// Must not split a multi-byte rune at the cut point
	emoji := strings.Repeat("😀", 100)
	cut := truncate(emoji, 21)
	if !utf8.ValidString(cut) {
		t.Errorf("truncate split a rune: %q", cut)
	}
}

func TestTruncateTinyLimits(t *testing.T) {
	// Limits smaller than the ellipsis itself must still cut cleanly
	for limit := 0; limit <= 4; limit++ {
		for _, s := range []string{"", "ab", "abcdef", "😀😀"} {
			got := truncate(s, limit)
			if len(got) > limit {
				t.Errorf("truncate(%q, %d) = %q, %d bytes", s, limit, got, len(got))
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) split a rune: %q", s, limit, got)
			}
		}
	}
}
