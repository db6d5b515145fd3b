package domain

import (
	"time"

	"github.com/google/uuid"
)

// Link represents an Instagram link we produced an embed for, recorded
// so the stats API can report activity per server.
type Link struct {
	ID        uuid.UUID `json:"id" db:"id"`
	GuildID   string    `json:"guild_id" db:"guild_id"`
	ChannelID string    `json:"channel_id" db:"channel_id"`
	MessageID string    `json:"message_id" db:"message_id"`
	URL       string    `json:"url" db:"url"`
	Title     *string   `json:"title" db:"title"`

	PostedAt  time.Time `json:"posted_at" db:"posted_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
