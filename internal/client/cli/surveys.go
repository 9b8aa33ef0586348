package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
)

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// listSurveys treats a first argument naming a status as a filter and the
// rest as the search text.
func (a *App) listSurveys(ctx context.Context, args []string) error {
	var status models.SurveyStatus
	if len(args) > 0 && models.SurveyStatus(args[0]).Valid() {
		status = models.SurveyStatus(args[0])
		args = args[1:]
	}
	search := ""
	if len(args) > 0 {
		search = args[0]
	}

	list, err := a.api.ListSurveys(ctx, status, search, models.PageRequest{})
	if err != nil {
		return err
	}
	printSurveys(a.out, list)
	return nil
}

func (a *App) showSurvey(ctx context.Context, args []string) error {
	s, err := a.api.GetSurvey(ctx, args[0])
	if err != nil {
		return err
	}
	printSurvey(a.out, s)
	return nil
}

func (a *App) createSurvey(ctx context.Context, args []string) error {
	var in models.SurveyInput
	if err := readJSONFile(args[0], &in); err != nil {
		return err
	}

	s, err := a.api.CreateSurvey(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Created survey %s (%s)\n", s.ID, s.Status)
	return nil
}

func (a *App) publishSurvey(ctx context.Context, args []string) error {
	s, err := a.api.PublishSurvey(ctx, args[0])
	if err != nil {
		return err
	}
	a.printf("Published survey %s\n", s.ID)
	return nil
}

func (a *App) deleteSurvey(ctx context.Context, args []string) error {
	if err := a.api.DeleteSurvey(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Deleted survey %s\n", args[0])
	return nil
}
