// Package httpserver exposes the JSON API of the chat application. Identity
// is threaded explicitly: middleware authenticates the request and stores the
// user id in the request context; handlers extract it once and pass it as a
// parameter into the services.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/doralyyyyy/Psych-Doctor/internal/logging"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/models"
)

// UserProvider is the account surface the handlers need.
type UserProvider interface {
	Register(ctx context.Context, username, password, password2 string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// ChatProvider is the conversation surface the handlers need.
type ChatProvider interface {
	SendMessage(ctx context.Context, userID int64, text string) (*models.Message, *models.Message, error)
	ListChat(ctx context.Context, userID int64, limit int) ([]*models.Message, bool, error)
	DeleteMessage(ctx context.Context, userID, messageID int64) error
}

type HTTPServer struct {
	address         string
	logger          logging.Logger
	users           UserProvider
	chat            ChatProvider
	jwtSecret       []byte
	sessionValidity time.Duration
}

func NewHTTPServer(address string, l logging.Logger, users UserProvider, chat ChatProvider, secretKey string, sessionValidity time.Duration) *HTTPServer {
	return &HTTPServer{
		address:         address,
		logger:          l.With("module", "http_server"),
		users:           users,
		chat:            chat,
		jwtSecret:       []byte(secretKey),
		sessionValidity: sessionValidity,
	}
}

// Handler builds the route table with middleware applied.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", s.handlePing)
	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.Handle("POST /api/logout", s.requireAuth(http.HandlerFunc(s.handleLogout)))
	mux.Handle("GET /chat", s.requireAuth(http.HandlerFunc(s.handleChat)))
	mux.Handle("POST /api/send_message", s.requireAuth(http.HandlerFunc(s.handleSendMessage)))
	mux.Handle("POST /delete_message/{id}", s.requireAuth(http.HandlerFunc(s.handleDeleteMessage)))

	return chainMiddlewares(mux, s.withLogging, withRequestID)
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
