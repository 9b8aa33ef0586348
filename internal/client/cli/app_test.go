package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/client/config"
	"github.com/dmitrijs2005/surveykeeper/internal/client/store"
	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	sc "github.com/dmitrijs2005/surveykeeper/internal/server/config"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/surveykeeper/internal/server/rest"
	"github.com/dmitrijs2005/surveykeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &sc.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.BcryptCost = bcrypt.MinCost

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	m := repomanager.NewInMemoryRepositoryManager()
	users := services.NewUserService(m, cfg, log)

	srv := httptest.NewServer(rest.NewRouter(rest.RouterConfig{
		AuthHandler:       rest.NewAuthHandler(users),
		SurveyHandler:     rest.NewSurveyHandler(services.NewSurveyService(m, log)),
		ResponseHandler:   rest.NewResponseHandler(services.NewResponseService(m, log), services.NewExportService(m, cfg, log)),
		RespondentHandler: rest.NewRespondentHandler(services.NewRespondentService(m, log)),
		Verifier:          users,
		Logger:            log,
		CORSOrigins:       cfg.CORSOrigins,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	old := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = old })
}

type harness struct {
	cfg *config.Config
	out *bytes.Buffer
}

func newHarness(t *testing.T, serverURL string) *harness {
	t.Helper()
	return &harness{
		cfg: &config.Config{
			ServerURL:      serverURL,
			SessionDBPath:  filepath.Join(t.TempDir(), "session.db"),
			RequestTimeout: 5 * time.Second,
		},
		out: &bytes.Buffer{},
	}
}

// app opens a fresh App over the harness's session database with input as
// the user's typing.
func (h *harness) app(t *testing.T, input string) *App {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, h.cfg.SessionDBPath)
	require.NoError(t, err)

	a, err := newApp(ctx, h.cfg, st, bufio.NewReader(strings.NewReader(input)), h.out)
	require.NoError(t, err)
	return a
}

// run executes one command in a fresh App, as a separate invocation would.
func (h *harness) run(t *testing.T, input string, args ...string) error {
	t.Helper()
	h.out.Reset()
	return h.app(t, input).Run(context.Background(), args)
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCLI_EndToEnd(t *testing.T) {
	srv := newBackend(t)
	stubPassword(t, "secret")
	h := newHarness(t, srv.URL)

	require.NoError(t, h.run(t, "a@x.com\nAnn\n", "register"))
	assert.Contains(t, h.out.String(), "Registered a@x.com")

	assert.ErrorIs(t, h.run(t, "", "surveys"), ErrNotLoggedIn)

	require.NoError(t, h.run(t, "a@x.com\n", "login"))
	assert.Contains(t, h.out.String(), "Logged in as a@x.com")

	require.NoError(t, h.run(t, "", "me"))
	assert.Contains(t, h.out.String(), "Ann <a@x.com>")

	surveyFile := writeFile(t, "survey.json", `{
		"title": "Feedback",
		"description": "Quarterly",
		"questions": [{"id": "q1", "type": "single-choice", "question": "Happy?", "options": ["yes", "no"], "required": true}]
	}`)
	require.NoError(t, h.run(t, "", "create", surveyFile))
	require.Contains(t, h.out.String(), "Created survey ")
	surveyID := strings.Fields(strings.TrimPrefix(h.out.String(), "Created survey "))[0]

	require.NoError(t, h.run(t, "", "surveys", "draft"))
	assert.Contains(t, h.out.String(), "Feedback")
	assert.Contains(t, h.out.String(), "page 1 of 1 (1 total)")

	require.NoError(t, h.run(t, "", "publish", surveyID))

	require.NoError(t, h.run(t, "", "surveys", "draft"))
	assert.NotContains(t, h.out.String(), "Feedback")

	answers := writeFile(t, "answers.json", `{
		"respondent": {"email": "r@x.com", "name": "Rita"},
		"answers": {"q1": "yes"}
	}`)
	require.NoError(t, h.run(t, "", "submit", surveyID, answers))
	assert.Contains(t, h.out.String(), "Submitted response ")

	require.NoError(t, h.run(t, "", "responses", surveyID))
	assert.Contains(t, h.out.String(), "r@x.com")

	require.NoError(t, h.run(t, "", "respondents", "rita"))
	assert.Contains(t, h.out.String(), "Rita")

	require.NoError(t, h.run(t, "", "show", surveyID))
	assert.Contains(t, h.out.String(), "Feedback [active]")
	assert.Contains(t, h.out.String(), "responses: 1")
	assert.Contains(t, h.out.String(), "options: yes, no")

	csvPath := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, h.run(t, "", "export", surveyID, csvPath))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "response_id,completed_at,respondent_email,respondent_name,q1"))

	require.NoError(t, h.run(t, "", "delete", surveyID))
	assert.Error(t, h.run(t, "", "show", surveyID))

	require.NoError(t, h.run(t, "", "logout"))
	assert.ErrorIs(t, h.run(t, "", "me"), ErrNotLoggedIn)
}

func TestCLI_ExecuteValidation(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")
	a := h.app(t, "")
	defer a.store.Close()
	ctx := context.Background()

	assert.ErrorIs(t, a.Execute(ctx, []string{"frobnicate"}), ErrUnknownCommand)
	assert.EqualError(t, a.Execute(ctx, []string{"submit", "only-id"}), "usage: submit <id> <file.json>")
	assert.ErrorIs(t, a.Execute(ctx, []string{"export", "s1"}), ErrNotLoggedIn)
	assert.NoError(t, a.Execute(ctx, nil))
}

func TestCLI_SessionFromOtherServerIgnored(t *testing.T) {
	h := newHarness(t, "http://api.one")
	ctx := context.Background()

	st, err := store.Open(ctx, h.cfg.SessionDBPath)
	require.NoError(t, err)
	require.NoError(t, st.SaveSession(ctx, store.Session{Token: "tok", Email: "a@x.com", ServerURL: "http://api.one"}))
	require.NoError(t, st.Close())

	a := h.app(t, "")
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "a@x.com", a.status())
	require.NoError(t, a.store.Close())

	h.cfg.ServerURL = "http://api.two"
	a = h.app(t, "")
	defer a.store.Close()
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "anonymous", a.status())
}

func TestRunREPL(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")
	a := h.app(t, "help\n\nfrobnicate\nsurveys\nexit\nme\n")

	require.NoError(t, a.Run(context.Background(), nil))

	out := h.out.String()
	assert.Contains(t, out, "Available commands:")
	assert.Contains(t, out, "  submit <id> <file.json>")
	assert.Contains(t, out, "error: unknown command: frobnicate")
	assert.Contains(t, out, "error: "+ErrNotLoggedIn.Error())
	assert.Contains(t, out, "surveyctl (anonymous)> ")
	assert.True(t, strings.HasSuffix(out, "Bye!\n"))
}

func TestRunREPL_StopsAtEOF(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")
	a := h.app(t, "help")

	require.NoError(t, a.Run(context.Background(), nil))
	assert.Contains(t, h.out.String(), "Available commands:")
}
