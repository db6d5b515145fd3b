package bot

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"gramfix/internal/domain"
	"gramfix/internal/pkg/urldetector"
)

const (
	// resolveTimeout bounds one URL's whole pipeline run, fetch included.
	resolveTimeout = 30 * time.Second

	// embedSuppressDelay gives Discord time to attach its own preview to
	// the source message before we suppress it.
	embedSuppressDelay = time.Second
)

// onMessageCreate handles new Discord messages
func (s *BotService) onMessageCreate(session *discordgo.Session, message *discordgo.MessageCreate) {
	// Ignore bot messages
	if message.Author == nil || message.Author.Bot {
		return
	}

	urls := urldetector.ExtractInstagramURLs(message.Content)
	if len(urls) == 0 {
		return
	}

	s.logger.Info("Detected Instagram links in message",
		"message_id", message.ID,
		"channel_id", message.ChannelID,
		"guild_id", message.GuildID,
		"count", len(urls),
	)

	var admitted []string
	for _, url := range urls {
		if !s.limiter.Admit(message.ChannelID) {
			s.logger.Warn("Channel rate limit exceeded, dropping link",
				"channel_id", message.ChannelID,
				"url", url,
			)
			continue
		}
		admitted = append(admitted, url)
	}
	if len(admitted) == 0 {
		return
	}

	// Resolve every admitted URL concurrently; one link's failure or
	// timeout must never hold up its siblings.
	var wg sync.WaitGroup
	var posted atomic.Int32
	for _, url := range admitted {
		wg.Add(1)
		go func(link string) {
			defer wg.Done()
			if s.handleLink(session, message, link) {
				posted.Add(1)
			}
		}(url)
	}
	wg.Wait()

	if posted.Load() > 0 {
		s.suppressSourceEmbeds(session, message)
	}
}

// handleLink runs the pipeline for one URL and posts the resulting embed
// as a reply. Returns true if an embed was sent.
func (s *BotService) handleLink(session *discordgo.Session, message *discordgo.MessageCreate, link string) bool {
	ctx, cancel := context.WithTimeout(s.ctx, resolveTimeout)
	defer cancel()

	meta := s.pipeline.Resolve(ctx, link)
	if meta == nil {
		// Silent degrade: no preview, no user-facing error
		s.logger.Debug("No preview produced", "url", link)
		return false
	}

	send := &discordgo.MessageSend{
		Embeds:    []*discordgo.MessageEmbed{buildEmbed(meta)},
		Reference: message.Reference(),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			// Replying must not re-ping the author
			RepliedUser: false,
		},
	}

	if _, err := session.ChannelMessageSendComplex(message.ChannelID, send); err != nil {
		s.logger.Error("Failed to send embed",
			"error", err,
			"url", link,
			"channel_id", message.ChannelID,
		)
		return false
	}

	s.logger.Info("Posted preview embed",
		"url", link,
		"message_id", message.ID,
		"has_image", meta.Image != "",
	)

	s.recordLink(ctx, message, link, meta)
	return true
}

// suppressSourceEmbeds hides Discord's own preview on the source message
// after a short delay. Best-effort: needs the Manage Messages permission.
func (s *BotService) suppressSourceEmbeds(session *discordgo.Session, message *discordgo.MessageCreate) {
	time.Sleep(embedSuppressDelay)

	edit := &discordgo.MessageEdit{
		Channel: message.ChannelID,
		ID:      message.ID,
		Flags:   discordgo.MessageFlagsSuppressEmbeds,
	}

	if _, err := session.ChannelMessageEditComplex(edit); err != nil {
		s.logger.Debug("Failed to suppress source embeds",
			"error", err,
			"message_id", message.ID,
		)
	}
}

// recordLink stores the processed link for the stats API. Best-effort.
func (s *BotService) recordLink(ctx context.Context, message *discordgo.MessageCreate, link string, meta *domain.LinkMetadata) {
	if s.linkRepo == nil {
		return
	}

	record := &domain.Link{
		ID:        uuid.New(),
		GuildID:   message.GuildID,
		ChannelID: message.ChannelID,
		MessageID: message.ID,
		URL:       link,
		PostedAt:  time.Now(),
	}
	if meta.Title != "" {
		title := meta.Title
		record.Title = &title
	}

	if err := s.linkRepo.Create(ctx, record); err != nil {
		s.logger.Warn("Failed to record link",
			"error", err,
			"url", link,
		)
	}
}
