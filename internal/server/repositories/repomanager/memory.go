package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/respondents"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/responses"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/surveys"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/users"
)

// InMemoryRepositoryManager keeps all state in process memory. The db
// argument of the factories is ignored; every call returns the same store.
// RunInTx serializes transactional units against each other but has no
// rollback.
type InMemoryRepositoryManager struct {
	txMu        sync.Mutex
	users       *users.MemoryRepository
	surveys     *surveys.MemoryRepository
	respondents *respondents.MemoryRepository
	responses   *responses.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:       users.NewMemoryRepository(),
		surveys:     surveys.NewMemoryRepository(),
		respondents: respondents.NewMemoryRepository(),
		responses:   responses.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Conn() dbx.DBTX { return nil }

func (m *InMemoryRepositoryManager) RunInTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, nil)
}

func (m *InMemoryRepositoryManager) Close() error { return nil }

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *InMemoryRepositoryManager) Surveys(dbx.DBTX) surveys.Repository { return m.surveys }

func (m *InMemoryRepositoryManager) Respondents(dbx.DBTX) respondents.Repository {
	return m.respondents
}

func (m *InMemoryRepositoryManager) Responses(dbx.DBTX) responses.Repository { return m.responses }
