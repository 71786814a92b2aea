package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/doralyyyyy/Psych-Doctor/internal/common"
	"github.com/doralyyyyy/Psych-Doctor/internal/dbx"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/models"
)

// pgForeignKeyViolation is the PostgreSQL error code raised when an insert
// references a missing row (messages_user_id_fkey here).
const pgForeignKeyViolation = "23503"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, userID int64, content string, isBot bool) (*models.Message, error) {

	query :=
		`INSERT INTO messages (user_id, content, is_bot)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	msg := &models.Message{UserID: userID, Content: content, IsBot: isBot}

	err := r.db.QueryRowContext(ctx, query,
		userID, content, isBot).Scan(&msg.ID, &msg.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	msg.CreatedAt = msg.CreatedAt.UTC()
	return msg, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID int64, offset, limit int) ([]*models.Message, error) {
	query :=
		`SELECT id, user_id, content, created_at, is_bot FROM messages
		 WHERE user_id = $1
		 ORDER BY created_at ASC, id ASC
		 OFFSET $2 LIMIT $3
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (r *PostgresRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]*models.Message, error) {
	// The inner query picks the newest rows; the outer one restores
	// chronological order for the caller.
	query :=
		`SELECT id, user_id, content, created_at, is_bot FROM (
		     SELECT id, user_id, content, created_at, is_bot FROM messages
		     WHERE user_id = $1
		     ORDER BY created_at DESC, id DESC
		     LIMIT $2
		 ) recent
		 ORDER BY created_at ASC, id ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (r *PostgresRepository) Count(ctx context.Context, userID int64) (int, error) {
	query := `SELECT count(*) FROM messages WHERE user_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, messageID, requestingUserID int64) error {
	var ownerID int64
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM messages WHERE id = $1`, messageID).Scan(&ownerID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	if ownerID != requestingUserID {
		return common.ErrorForbidden
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM messages WHERE id = $1`, messageID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func scanMessages(rows *sql.Rows) ([]*models.Message, error) {
	result := []*models.Message{}

	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Content, &msg.CreatedAt, &msg.IsBot); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		msg.CreatedAt = msg.CreatedAt.UTC()
		result = append(result, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
