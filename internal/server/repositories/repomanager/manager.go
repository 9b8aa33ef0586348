// Package repomanager vends repositories bound to a database handle and owns
// the storage lifecycle: migrations, transactions and closing.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/respondents"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/responses"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/surveys"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// Conn is the handle for work outside a transaction.
	Conn() dbx.DBTX
	// RunInTx runs fn with a handle whose writes commit together.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Close() error

	Users(db dbx.DBTX) users.Repository
	Surveys(db dbx.DBTX) surveys.Repository
	Respondents(db dbx.DBTX) respondents.Repository
	Responses(db dbx.DBTX) responses.Repository
}
