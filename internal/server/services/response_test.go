package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publishedSurvey(t *testing.T, e *env, owner, title string) *models.Survey {
	t.Helper()
	s := createSurvey(t, e, owner, title)
	s, err := e.surveys.Publish(context.Background(), s.ID, owner)
	require.NoError(t, err)
	return s
}

func submission(email string) Submission {
	return Submission{
		Respondent: models.RespondentInput{Email: email, Name: "Rita"},
		Answers:    models.Answers{"q1": "yes"},
	}
}

func TestSubmit_EndToEnd(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	alice, err := e.users.Register(ctx, "alice@x.com", "pw", "Alice")
	require.NoError(t, err)
	s := createSurvey(t, e, alice.ID, "Feedback")
	assert.Equal(t, models.SurveyStatusDraft, s.Status)
	_, err = e.surveys.Publish(ctx, s.ID, alice.ID)
	require.NoError(t, err)

	resp, err := e.responses.Submit(ctx, s.ID, submission("r@x.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)

	list, err := e.responses.ListForSurvey(ctx, s.ID, alice.ID, models.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Responses, 1)
	assert.Equal(t, "r@x.com", list.Responses[0].Respondent.Email)
	assert.Equal(t, "yes", list.Responses[0].Answers["q1"])
	assert.Equal(t, 1, list.Pagination.TotalItems)

	respondents, err := e.respondents.List(ctx, "r@x.com", models.PageRequest{})
	require.NoError(t, err)
	require.Len(t, respondents.Respondents, 1)
	assert.Equal(t, 1, respondents.Respondents[0].SurveysCompleted)
	assert.NotNil(t, respondents.Respondents[0].LastResponseAt)

	got, err := e.surveys.Get(ctx, s.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ResponsesCount)
}

func TestSubmit_SameRespondentTwoSurveys(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	s1 := publishedSurvey(t, e, "alice", "One")
	s2 := publishedSurvey(t, e, "alice", "Two")

	_, err := e.responses.Submit(ctx, s1.ID, submission("r@x.com"))
	require.NoError(t, err)
	_, err = e.responses.Submit(ctx, s2.ID, submission("r@x.com"))
	require.NoError(t, err)

	all, err := e.respondents.List(ctx, "", models.PageRequest{})
	require.NoError(t, err)
	require.Len(t, all.Respondents, 1)
	assert.Equal(t, 2, all.Respondents[0].SurveysCompleted)
}

func TestSubmit_DraftSurveyChangesNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := createSurvey(t, e, "alice", "Draft")

	_, err := e.responses.Submit(ctx, s.ID, submission("r@x.com"))
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, "Survey is not active", common.Message(err, ""))

	respondents, err := e.respondents.List(ctx, "", models.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, respondents.Respondents)

	responses, err := e.responses.ListForSurvey(ctx, s.ID, "alice", models.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, responses.Responses)
}

func TestSubmit_PreconditionOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.responses.Submit(ctx, "missing", Submission{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, "Survey not found", common.Message(err, ""))

	draft := createSurvey(t, e, "alice", "Draft")
	_, err = e.responses.Submit(ctx, draft.ID, Submission{})
	assert.Equal(t, "Survey is not active", common.Message(err, ""))

	active := publishedSurvey(t, e, "alice", "Active")
	_, err = e.responses.Submit(ctx, active.ID, Submission{Respondent: models.RespondentInput{Email: "r@x.com"}})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestSubmit_NilAnswersStoredAsEmpty(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	s := publishedSurvey(t, e, "alice", "S")

	resp, err := e.responses.Submit(ctx, s.ID, Submission{Respondent: models.RespondentInput{Email: "r@x.com", Name: "R"}})
	require.NoError(t, err)
	assert.NotNil(t, resp.Answers)
}

func TestListForSurvey_OwnerScopedAndNewestFirst(t *testing.T) {
	e := newEnv(t)
	e.responses.now = ticker(time.Now())
	ctx := context.Background()
	s := publishedSurvey(t, e, "alice", "S")

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		_, err := e.responses.Submit(ctx, s.ID, submission(email))
		require.NoError(t, err)
	}

	_, err := e.responses.ListForSurvey(ctx, s.ID, "bob", models.PageRequest{})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	page, err := e.responses.ListForSurvey(ctx, s.ID, "alice", models.PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Responses, 2)
	assert.Equal(t, "c@x.com", page.Responses[0].Respondent.Email)
	assert.Equal(t, models.Pagination{CurrentPage: 1, TotalPages: 2, TotalItems: 3, ItemsPerPage: 2}, page.Pagination)
}

func TestSubmit_PostgresRunsInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	m := repomanager.NewPostgresRepositoryManager(db)
	svc := NewResponseService(m, discardLogger())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	surveyCols := []string{"id", "owner_id", "title", "description", "status", "questions", "created_at", "updated_at", "published_at"}
	respondentCols := []string{"id", "email", "name", "metadata", "surveys_completed", "last_response_at", "created_at"}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM surveys WHERE id = $1`)).
		WithArgs("s-1").
		WillReturnRows(sqlmock.NewRows(surveyCols).AddRow("s-1", "o", "t", "", "active", []byte(`[]`), now, now, now))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT\s+INTO\s+respondents`).
		WithArgs("r@x.com", "Rita", "{}", now).
		WillReturnRows(sqlmock.NewRows(respondentCols).AddRow("r-1", "r@x.com", "Rita", []byte(`{}`), 0, nil, now))
	mock.ExpectQuery(`INSERT\s+INTO\s+responses`).
		WithArgs("s-1", "r@x.com", "Rita", `{"q1":"yes"}`, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("resp-1"))
	mock.ExpectQuery(`WITH\s+counted`).
		WithArgs("r-1", "resp-1", now).
		WillReturnRows(sqlmock.NewRows(respondentCols).AddRow("r-1", "r@x.com", "Rita", []byte(`{}`), 1, now, now))
	mock.ExpectCommit()

	resp, err := svc.Submit(context.Background(), "s-1", Submission{
		Respondent: models.RespondentInput{Email: "r@x.com", Name: "Rita"},
		Answers:    models.Answers{"q1": "yes"},
	})
	require.NoError(t, err)
	assert.Equal(t, "resp-1", resp.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmit_PostgresRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	m := repomanager.NewPostgresRepositoryManager(db)
	svc := NewResponseService(m, discardLogger())
	now := time.Now()

	surveyCols := []string{"id", "owner_id", "title", "description", "status", "questions", "created_at", "updated_at", "published_at"}
	mock.ExpectQuery(`FROM\s+surveys`).
		WillReturnRows(sqlmock.NewRows(surveyCols).AddRow("s-1", "o", "t", "", "active", []byte(`[]`), now, now, now))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT\s+INTO\s+respondents`).WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	_, err = svc.Submit(context.Background(), "s-1", submission("r@x.com"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}
