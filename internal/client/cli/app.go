package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/surveykeeper/internal/client/api"
	"github.com/dmitrijs2005/surveykeeper/internal/client/config"
	"github.com/dmitrijs2005/surveykeeper/internal/client/store"
)

type App struct {
	config  *config.Config
	api     *api.Client
	store   *store.Store
	session *store.Session
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp opens the session store and restores a previous login.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	st, err := store.Open(ctx, c.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing session store: %w", err)
	}
	return newApp(ctx, c, st, bufio.NewReader(os.Stdin), os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, st *store.Store, in *bufio.Reader, out io.Writer) (*App, error) {
	a := &App{
		config: c,
		api:    api.New(c.ServerURL, c.RequestTimeout),
		store:  st,
		reader: in,
		out:    out,
	}

	sess, err := st.LoadSession(ctx)
	switch {
	case err == nil:
		a.setSession(sess)
	case !errors.Is(err, store.ErrNoSession):
		_ = st.Close()
		return nil, err
	}
	return a, nil
}

// setSession installs sess, or clears the current one when sess is nil.
// A session issued by another server is ignored.
func (a *App) setSession(sess *store.Session) {
	if sess != nil && sess.ServerURL != "" && sess.ServerURL != a.config.ServerURL {
		sess = nil
	}
	a.session = sess
	token := ""
	if sess != nil {
		token = sess.Token
	}
	a.api.SetToken(token)
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) status() string {
	if a.session == nil {
		return "anonymous"
	}
	return a.session.Email
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// Run executes args as a single command, or starts the REPL when args is
// empty.
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.store.Close()

	if len(args) > 0 {
		return a.Execute(ctx, args)
	}
	runREPL(ctx, a, a.reader)
	return nil
}
