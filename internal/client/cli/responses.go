package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/surveykeeper/internal/client/api"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
)

func (a *App) listResponses(ctx context.Context, args []string) error {
	page := models.PageRequest{}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid page %q", args[1])
		}
		page.Page = n
	}

	list, err := a.api.ListResponses(ctx, args[0], page)
	if err != nil {
		return err
	}
	printResponses(a.out, list)
	return nil
}

func (a *App) listRespondents(ctx context.Context, args []string) error {
	search := ""
	if len(args) > 0 {
		search = args[0]
	}

	list, err := a.api.ListRespondents(ctx, search, models.PageRequest{})
	if err != nil {
		return err
	}
	printRespondents(a.out, list)
	return nil
}

// submit sends the file's {respondent, answers} document anonymously.
func (a *App) submit(ctx context.Context, args []string) error {
	var sub api.Submission
	if err := readJSONFile(args[1], &sub); err != nil {
		return err
	}

	id, err := a.api.SubmitResponse(ctx, args[0], sub)
	if err != nil {
		return err
	}
	a.printf("Submitted response %s\n", id)
	return nil
}

// export prints the download link, or writes the CSV to the named file
// (default: the server-suggested filename).
func (a *App) export(ctx context.Context, args []string) error {
	exp, err := a.api.ExportResponses(ctx, args[0])
	if err != nil {
		return err
	}

	if exp.URL != "" {
		a.printf("Export uploaded as %s\nDownload: %s\n", exp.Key, exp.URL)
		return nil
	}

	path := exp.Filename
	if len(args) > 1 {
		path = args[1]
	}
	if path == "" {
		path = "responses-" + args[0] + ".csv"
	}
	if err := os.WriteFile(path, exp.CSV, 0o600); err != nil {
		return err
	}
	a.printf("Wrote %d bytes to %s\n", len(exp.CSV), path)
	return nil
}
