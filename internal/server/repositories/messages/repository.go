// Package messages provides the PostgreSQL-backed repository for
// conversation history rows.
package messages

import (
	"context"

	"github.com/doralyyyyy/Psych-Doctor/internal/server/models"
)

type Repository interface {
	// Append inserts one utterance and returns it with ID and CreatedAt set.
	// A userID referencing no user yields common.ErrorNotFound.
	Append(ctx context.Context, userID int64, content string, isBot bool) (*models.Message, error)

	// List returns messages owned by userID ordered (created_at, id)
	// ascending, skipping offset rows and returning at most limit.
	List(ctx context.Context, userID int64, offset, limit int) ([]*models.Message, error)

	// ListRecent returns the most recent limit messages owned by userID,
	// reordered oldest-first.
	ListRecent(ctx context.Context, userID int64, limit int) ([]*models.Message, error)

	// Count returns the number of messages owned by userID.
	Count(ctx context.Context, userID int64) (int, error)

	// Delete removes one message. A row owned by another user yields
	// common.ErrorForbidden and stays persisted; a missing id yields
	// common.ErrorNotFound.
	Delete(ctx context.Context, messageID, requestingUserID int64) error
}
