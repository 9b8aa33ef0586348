package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	"github.com/dmitrijs2005/surveykeeper/internal/server/config"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.BcryptCost = bcrypt.MinCost
	return cfg
}

type env struct {
	m           *repomanager.InMemoryRepositoryManager
	users       *UserService
	surveys     *SurveyService
	respondents *RespondentService
	responses   *ResponseService
	exports     *ExportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	m := repomanager.NewInMemoryRepositoryManager()
	cfg := testConfig()
	log := discardLogger()
	return &env{
		m:           m,
		users:       NewUserService(m, cfg, log),
		surveys:     NewSurveyService(m, log),
		respondents: NewRespondentService(m, log),
		responses:   NewResponseService(m, log),
		exports:     NewExportService(m, cfg, log),
	}
}

// ticker returns a clock that advances one second per call so ordering by
// time is deterministic.
func ticker(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	}
}
