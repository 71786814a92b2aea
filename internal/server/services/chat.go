package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/doralyyyyy/Psych-Doctor/internal/common"
	"github.com/doralyyyyy/Psych-Doctor/internal/dbx"
	"github.com/doralyyyyy/Psych-Doctor/internal/logging"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/gpt"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/models"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/repositories/repomanager"
)

// minChatLimit is the floor applied to the history page size.
const minChatLimit = 5

// ReplyGenerator produces counselor reply text for an assembled message
// sequence. It never fails: on any upstream problem it returns a notice
// string instead.
type ReplyGenerator interface {
	Reply(ctx context.Context, messages []gpt.Message) string
}

type ChatService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	generator   ReplyGenerator
	logger      logging.Logger
}

func NewChatService(db *sql.DB, m repomanager.RepositoryManager, g ReplyGenerator, l logging.Logger) *ChatService {
	return &ChatService{
		db:          db,
		repomanager: m,
		generator:   g,
		logger:      l.With("module", "chat_service"),
	}
}

// SendMessage runs one turn: persist the user's utterance, obtain the
// counselor reply, persist it, and return both rows.
//
// The two writes are deliberately independent. If the second one fails the
// user's message stays persisted and the error surfaces to the caller; no
// transaction spans the model call.
func (s *ChatService) SendMessage(ctx context.Context, userID int64, text string) (*models.Message, *models.Message, error) {

	content := strings.TrimSpace(text)
	if content == "" {
		return nil, nil, fmt.Errorf("%w: 消息内容不能为空", common.ErrorValidation)
	}

	repo := s.repomanager.Messages(s.db)

	userMsg, err := repo.Append(ctx, userID, content, false)
	if err != nil {
		return nil, nil, fmt.Errorf("error saving user message: %w", err)
	}

	replyText, err := s.generateReply(ctx, userID, content)
	if err != nil {
		return nil, nil, fmt.Errorf("error building reply context: %w", err)
	}

	botMsg, err := repo.Append(ctx, userID, replyText, true)
	if err != nil {
		s.logger.Error(ctx, "reply not persisted, user message retained",
			"user_id", userID, "user_message_id", userMsg.ID, "error", err.Error())
		return nil, nil, fmt.Errorf("error saving bot message: %w", err)
	}

	return userMsg, botMsg, nil
}

// generateReply loads the history window and hands the assembled context to
// the generator. Empty input short-circuits to a canned clarification
// without touching the model.
func (s *ChatService) generateReply(ctx context.Context, userID int64, text string) (string, error) {

	if strings.TrimSpace(text) == "" {
		return clarificationNotice, nil
	}

	repo := s.repomanager.Messages(s.db)

	history, err := repo.ListRecent(ctx, userID, historyWindow)
	if err != nil {
		return "", err
	}

	return s.generator.Reply(ctx, buildContext(history, text)), nil
}

// ListChat returns the most recent limit messages oldest-first, plus whether
// older history exists beyond the returned page. Page sizes below the floor
// are raised to it.
func (s *ChatService) ListChat(ctx context.Context, userID int64, limit int) ([]*models.Message, bool, error) {

	if limit < minChatLimit {
		limit = minChatLimit
	}

	repo := s.repomanager.Messages(s.db)

	total, err := repo.Count(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	start := total - limit
	if start < 0 {
		start = 0
	}

	messages, err := repo.List(ctx, userID, start, limit)
	if err != nil {
		return nil, false, err
	}

	return messages, limit < total, nil
}

// DeleteMessage removes one message owned by the caller. The ownership check
// and the delete run in one transaction so Forbidden vs NotFound stays
// accurate under concurrent deletes.
func (s *ChatService) DeleteMessage(ctx context.Context, userID, messageID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Messages(tx).Delete(ctx, messageID, userID)
	})
}
