package repomanager

import (
	"context"
	"database/sql"

	"github.com/doralyyyyy/Psych-Doctor/internal/dbx"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/repositories/messages"
	"github.com/doralyyyyy/Psych-Doctor/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Messages(db dbx.DBTX) messages.Repository
}
