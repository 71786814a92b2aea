package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/doralyyyyy/Psych-Doctor/internal/common"
	"github.com/doralyyyyy/Psych-Doctor/internal/cryptox"
	"github.com/doralyyyyy/Psych-Doctor/internal/dbx"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/auth"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/config"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/models"
	messagesrepo "github.com/doralyyyyy/Psych-Doctor/internal/server/repositories/messages"
	usersrepo "github.com/doralyyyyy/Psych-Doctor/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newUserService(t *testing.T, db *sql.DB, rm *fakeRepoManager) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:               "k",
		SessionValidityDuration: time.Hour,
	}
	return NewUserService(db, rm, cfg)
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *u
	out.ID = f.createOut.ID
	out.CreatedAt = f.createOut.CreatedAt
	return &out, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

// fakeRepoManager hands out the fake repositories regardless of the DBTX.
type fakeRepoManager struct {
	users    *fakeUsersRepo
	messages *fakeMessagesRepo
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return f.users }
func (f *fakeRepoManager) Messages(db dbx.DBTX) messagesrepo.Repository {
	return f.messages
}

// --- Register ---

func TestRegister_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{users: &fakeUsersRepo{
		createOut: &models.User{ID: 1, CreatedAt: time.Now().UTC()},
	}}
	svc := newUserService(t, db, rm)

	user, err := svc.Register(context.Background(), "alice", "pw123", "pw123")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.ID != 1 || user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash == "" || user.PasswordHash == "pw123" {
		t.Fatalf("plaintext must never be stored: %q", user.PasswordHash)
	}
}

func TestRegister_EmptyFields(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	svc := newUserService(t, db, &fakeRepoManager{users: &fakeUsersRepo{}})

	for _, tc := range []struct{ username, password string }{
		{"", "pw"},
		{"alice", ""},
		{"   ", "pw"},
	} {
		_, err := svc.Register(context.Background(), tc.username, tc.password, tc.password)
		if !errors.Is(err, common.ErrorValidation) {
			t.Fatalf("(%q,%q): expected ErrorValidation, got %v", tc.username, tc.password, err)
		}
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	svc := newUserService(t, db, &fakeRepoManager{users: &fakeUsersRepo{}})

	_, err := svc.Register(context.Background(), "alice", "pw1", "pw2")
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected ErrorValidation, got %v", err)
	}
}

func TestRegister_DuplicateName(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{users: &fakeUsersRepo{createErr: common.ErrorAlreadyExists}}
	svc := newUserService(t, db, rm)

	_, err := svc.Register(context.Background(), "alice", "pw", "pw")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected ErrorAlreadyExists, got %v", err)
	}
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, err := cryptox.HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	rm := &fakeRepoManager{users: &fakeUsersRepo{
		getOut: &models.User{ID: 7, Username: "alice", PasswordHash: hash},
	}}
	svc := newUserService(t, db, rm)

	token, user, err := svc.Login(context.Background(), "alice", "pw123")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if user.ID != 7 {
		t.Fatalf("unexpected user: %+v", user)
	}

	gotID, err := auth.GetUserIDFromToken(token, []byte("k"))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if gotID != 7 {
		t.Fatalf("token carries wrong user id: %d", gotID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, err := cryptox.HashPassword("right")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	rm := &fakeRepoManager{users: &fakeUsersRepo{
		getOut: &models.User{ID: 7, Username: "alice", PasswordHash: hash},
	}}
	svc := newUserService(t, db, rm)

	_, _, err = svc.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{users: &fakeUsersRepo{getErr: common.ErrorNotFound}}
	svc := newUserService(t, db, rm)

	_, _, err := svc.Login(context.Background(), "ghost", "pw")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}

// --- GetByID ---

func TestGetByID_MissingUserIsUnauthorized(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{users: &fakeUsersRepo{getErr: common.ErrorNotFound}}
	svc := newUserService(t, db, rm)

	_, err := svc.GetByID(context.Background(), 99)
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}
