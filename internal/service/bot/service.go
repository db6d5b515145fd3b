package bot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"gramfix/internal/config"
	"gramfix/internal/domain"
	"gramfix/internal/pkg/ratelimit"
	"gramfix/internal/service/preview"
)

// BotService watches Discord messages for Instagram links and replaces
// the platform's broken previews with self-fetched embeds.
type BotService struct {
	config   *config.Config
	logger   *slog.Logger
	session  *discordgo.Session
	pipeline *preview.Pipeline
	limiter  *ratelimit.ChannelLimiter
	linkRepo domain.LinkRepository // Optional - for the stats API

	// State
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new bot service. The limiter is constructed by the caller
// and handed in so its window state has exactly one owner per process.
func New(
	config *config.Config,
	logger *slog.Logger,
	pipeline *preview.Pipeline,
	limiter *ratelimit.ChannelLimiter,
	linkRepo domain.LinkRepository, // Optional - can be nil
) (*BotService, error) {
	ctx, cancel := context.WithCancel(context.Background())

	botService := &BotService{
		config:   config,
		logger:   logger,
		pipeline: pipeline,
		limiter:  limiter,
		linkRepo: linkRepo,
		ctx:      ctx,
		cancel:   cancel,
	}

	// Create Discord session
	session, err := discordgo.New("Bot " + config.DiscordToken)
	if err != nil {
		cancel()
		return nil, err
	}

	// Reading message bodies requires the privileged content intent
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	botService.session = session

	// Register handlers
	botService.registerHandlers()

	return botService, nil
}

func (s *BotService) Start() error {
	s.logger.Info("Starting Discord bot...")

	// Open connection to Discord
	if err := s.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	s.logger.Info("Discord bot connected successfully")

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	s.logger.Info("Bot is running. Press Ctrl+C to stop.")
	<-stop

	s.logger.Info("Shutting down Discord bot...")
	return s.Stop()
}

func (s *BotService) Stop() error {
	s.cancel()

	if s.session != nil {
		s.logger.Info("Closing Discord connection...")
		if err := s.session.Close(); err != nil {
			s.logger.Error("Error closing Discord connection", "error", err)
			return err
		}
	}

	s.logger.Info("Discord bot stopped")
	return nil
}

func (s *BotService) registerHandlers() {
	s.session.AddHandler(s.onReady)
	s.session.AddHandler(s.onMessageCreate)
}

// onReady is called when the bot successfully connects to Discord
func (s *BotService) onReady(session *discordgo.Session, ready *discordgo.Ready) {
	s.logger.Info("Bot is ready",
		"username", ready.User.Username,
		"guilds", len(ready.Guilds),
	)

	if err := session.UpdateGameStatus(0, "Fixing Instagram previews"); err != nil {
		s.logger.Error("Failed to set bot status", "error", err)
	}
}
