package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"gramfix/internal/domain"
)

// LinkRepository implements the domain.LinkRepository interface using PostgreSQL
type LinkRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewLinkRepository creates a new PostgreSQL link repository
func NewLinkRepository(db *sql.DB, logger *slog.Logger) *LinkRepository {
	return &LinkRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new link record. Re-processing the same message and URL
// is a no-op rather than an error.
func (r *LinkRepository) Create(ctx context.Context, link *domain.Link) error {
	query := `
		INSERT INTO links (id, guild_id, channel_id, message_id, url, title, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (message_id, url) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		link.ID,
		link.GuildID,
		link.ChannelID,
		link.MessageID,
		link.URL,
		link.Title,
		link.PostedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert link",
			"error", err,
			"url", link.URL,
			"message_id", link.MessageID,
		)
		return fmt.Errorf("failed to insert link: %w", err)
	}

	r.logger.Debug("Link recorded",
		"link_id", link.ID,
		"url", link.URL,
	)
	return nil
}

// GetByMessageID retrieves the link recorded for a Discord message
func (r *LinkRepository) GetByMessageID(ctx context.Context, messageID string) (*domain.Link, error) {
	query := `
		SELECT id, guild_id, channel_id, message_id, url, title, posted_at, created_at
		FROM links
		WHERE message_id = $1
		ORDER BY created_at
		LIMIT 1`

	link, err := scanLink(r.db.QueryRowContext(ctx, query, messageID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query link by message: %w", err)
	}

	return link, nil
}

// Count returns the total number of recorded links
func (r *LinkRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM links").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}
	return count, nil
}

// CountByGuild returns the number of links recorded for a server
func (r *LinkRepository) CountByGuild(ctx context.Context, guildID string) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM links WHERE guild_id = $1"
	if err := r.db.QueryRowContext(ctx, query, guildID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count links for guild: %w", err)
	}
	return count, nil
}

// GetRecentByGuild gets the most recent links for a server
func (r *LinkRepository) GetRecentByGuild(ctx context.Context, guildID string, limit int) ([]*domain.Link, error) {
	query := `
		SELECT id, guild_id, channel_id, message_id, url, title, posted_at, created_at
		FROM links
		WHERE guild_id = $1
		ORDER BY posted_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent links: %w", err)
	}
	defer rows.Close()

	var links []*domain.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link row: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate link rows: %w", err)
	}

	return links, nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLink(row rowScanner) (*domain.Link, error) {
	link := &domain.Link{}
	var title sql.NullString

	err := row.Scan(
		&link.ID,
		&link.GuildID,
		&link.ChannelID,
		&link.MessageID,
		&link.URL,
		&title,
		&link.PostedAt,
		&link.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if title.Valid {
		link.Title = &title.String
	}

	return link, nil
}
