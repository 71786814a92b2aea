// Package server initializes and runs the main application server.
// It opens the database, runs migrations, wires the services and the model
// client, and serves the HTTP API until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/doralyyyyy/Psych-Doctor/internal/common"
	"github.com/doralyyyyy/Psych-Doctor/internal/logging"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/config"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/gpt"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/httpserver"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/repositories/repomanager"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	chatService *services.ChatService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	// Sessions signed with a random secret do not survive a restart.
	if c.SecretKey == "" {
		secret, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("secret init error: %w", err)
		}
		c.SecretKey = secret
		logger.Warn(ctx, "SECRET_KEY is not set, using a random per-process secret")
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	gptClient := gpt.NewClient(c.GPTBaseURL, c.GPTAPIKey, c.GPTModel, c.GPTTimeout, logger)
	if c.GPTAPIKey == "" {
		logger.Warn(ctx, "GPT_API_KEY is not set, replies degrade to a notice")
	}

	us := services.NewUserService(db, rm, c)
	cs := services.NewChatService(db, rm, gptClient, logger)

	return &App{config: c, logger: logger, db: db, userService: us, chatService: cs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpserver.NewHTTPServer(app.config.Address, app.logger,
		app.userService, app.chatService, app.config.SecretKey, app.config.SessionValidityDuration)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
