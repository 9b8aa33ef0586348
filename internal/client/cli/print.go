package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printPagination(w io.Writer, p models.Pagination) {
	fmt.Fprintf(w, "page %d of %d (%d total)\n", p.CurrentPage, p.TotalPages, p.TotalItems)
}

func printSurveys(w io.Writer, list *models.SurveyList) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tCREATED")
	for _, s := range list.Surveys {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Status, s.Title, s.CreatedAt.Format(time.DateOnly))
	}
	tw.Flush()
	printPagination(w, list.Pagination)
}

func printSurvey(w io.Writer, s *models.Survey) {
	fmt.Fprintf(w, "%s [%s]\n", s.Title, s.Status)
	if s.Description != "" {
		fmt.Fprintln(w, s.Description)
	}
	fmt.Fprintf(w, "id: %s\nresponses: %d\n", s.ID, s.ResponsesCount)
	if s.PublishedAt != nil {
		fmt.Fprintf(w, "published: %s\n", s.PublishedAt.Format(time.RFC3339))
	}
	for i, q := range s.Questions {
		req := ""
		if q.Required {
			req = " *"
		}
		fmt.Fprintf(w, "%d. [%s] %s (%s)%s\n", i+1, q.ID, q.Prompt, q.Type, req)
		if len(q.Options) > 0 {
			fmt.Fprintf(w, "   options: %s\n", strings.Join(q.Options, ", "))
		}
	}
}

func printResponses(w io.Writer, list *models.ResponseList) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tRESPONDENT\tCOMPLETED\tANSWERS")
	for _, r := range list.Responses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", r.ID, r.Respondent.Email, r.CompletedAt.Format(time.RFC3339), len(r.Answers))
	}
	tw.Flush()
	printPagination(w, list.Pagination)
}

func printRespondents(w io.Writer, list *models.RespondentList) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tCOMPLETED")
	for _, r := range list.Respondents {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", r.ID, r.Email, r.Name, r.SurveysCompleted)
	}
	tw.Flush()
	printPagination(w, list.Pagination)
}
