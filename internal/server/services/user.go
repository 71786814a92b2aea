// Package services contains the business logic of the chat application:
// account management and the per-message turn pipeline.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doralyyyyy/Psych-Doctor/internal/common"
	"github.com/doralyyyyy/Psych-Doctor/internal/cryptox"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/auth"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/config"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/models"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/repositories/repomanager"
)

type UserService struct {
	db                      *sql.DB
	repomanager             repomanager.RepositoryManager
	jwtSecret               []byte
	sessionValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                      db,
		repomanager:             m,
		jwtSecret:               []byte(cfg.SecretKey),
		sessionValidityDuration: cfg.SessionValidityDuration,
	}
}

// Register creates an account. Both password fields must match; the unique
// constraint on usernames is authoritative for duplicate detection.
func (s *UserService) Register(ctx context.Context, username, password, password2 string) (*models.User, error) {

	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	password2 = strings.TrimSpace(password2)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: 用户名和密码不能为空", common.ErrorValidation)
	}

	if password != password2 {
		return nil, fmt.Errorf("%w: 两次输入的密码不一致", common.ErrorValidation)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.Create(ctx, &models.User{Username: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login checks the credentials and issues a session token. Wrong username
// and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {

	username = strings.TrimSpace(username)

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, common.ErrorInternal
	}

	if !cryptox.CheckPassword(user.PasswordHash, password) {
		return "", nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.sessionValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, user, nil
}

// GetByID resolves an authenticated identity back to its account row, the
// per-request user lookup behind the session gate.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}
