package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNotLoggedIn    = errors.New("not logged in; run login first")
)

type command struct {
	usage     string
	minArgs   int
	needsAuth bool
	run       func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"register":    {usage: "register", run: (*App).register},
	"login":       {usage: "login", run: (*App).login},
	"logout":      {usage: "logout", run: (*App).logout},
	"me":          {usage: "me", needsAuth: true, run: (*App).me},
	"surveys":     {usage: "surveys [status] [search]", needsAuth: true, run: (*App).listSurveys},
	"show":        {usage: "show <id>", minArgs: 1, needsAuth: true, run: (*App).showSurvey},
	"create":      {usage: "create <file.json>", minArgs: 1, needsAuth: true, run: (*App).createSurvey},
	"publish":     {usage: "publish <id>", minArgs: 1, needsAuth: true, run: (*App).publishSurvey},
	"delete":      {usage: "delete <id>", minArgs: 1, needsAuth: true, run: (*App).deleteSurvey},
	"responses":   {usage: "responses <id> [page]", minArgs: 1, needsAuth: true, run: (*App).listResponses},
	"respondents": {usage: "respondents [search]", needsAuth: true, run: (*App).listRespondents},
	"submit":      {usage: "submit <id> <file.json>", minArgs: 2, run: (*App).submit},
	"export":      {usage: "export <id> [out.csv]", minArgs: 1, needsAuth: true, run: (*App).export},
}

// Execute runs one command line.
func (a *App) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	if len(args)-1 < cmd.minArgs {
		return fmt.Errorf("usage: %s", cmd.usage)
	}
	if cmd.needsAuth && !a.isLoggedIn() {
		return ErrNotLoggedIn
	}
	return cmd.run(a, ctx, args[1:])
}

func usageLines() []string {
	lines := make([]string, 0, len(commands))
	for _, c := range commands {
		lines = append(lines, "  "+c.usage)
	}
	sort.Strings(lines)
	return lines
}

func runREPL(ctx context.Context, a *App, reader *bufio.Reader) {
	a.printf("surveyctl (type 'help' for commands)\n")

	for {
		a.printf("surveyctl (%s)> ", a.status())
		line, err := readLine(reader)
		if err != nil {
			a.printf("\n")
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			a.printf("Available commands:\n%s\n  exit\n", strings.Join(usageLines(), "\n"))
		case "exit", "quit":
			a.printf("Bye!\n")
			return
		default:
			if err := a.Execute(ctx, parts); err != nil {
				a.printf("error: %v\n", err)
			}
		}
	}
}
