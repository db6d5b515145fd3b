package bot

import (
	"github.com/bwmarrin/discordgo"

	"gramfix/internal/domain"
)

// Discord transport limits for embed fields
const (
	embedTitleLimit       = 256
	embedDescriptionLimit = 2048
)

const instagramColor = 0xE1306C

// buildEmbed assembles the reply embed from extracted metadata. The
// thumbnail slot is reserved for the poster's profile picture; when it is
// the only image we have, it was already promoted to Image upstream, so
// showing it twice is skipped.
func buildEmbed(meta *domain.LinkMetadata) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       truncate(meta.Title, embedTitleLimit),
		Description: truncate(meta.Description, embedDescriptionLimit),
		URL:         meta.URL,
		Color:       instagramColor,
	}

	if meta.Image != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: meta.Image}
	}
	if meta.Thumbnail != "" && meta.Thumbnail != meta.Image {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: meta.Thumbnail}
	}
	if meta.SiteName != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: meta.SiteName}
	}

	return embed
}

// truncate cuts s to at most limit bytes without splitting a rune. An
// ellipsis marks the cut when there is room for one.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	if limit < len("…") {
		cut := limit
		for cut > 0 && s[cut]&0xC0 == 0x80 {
			cut--
		}
		return s[:cut]
	}

	cut := limit - len("…")
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut] + "…"
}
