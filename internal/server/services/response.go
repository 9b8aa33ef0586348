package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
)

// Submission is an anonymous answer to a published survey.
type Submission struct {
	Respondent models.RespondentInput
	Answers    models.Answers
}

// ResponseService accepts submissions and lists them for survey owners.
type ResponseService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         func() time.Time
}

func NewResponseService(m repomanager.RepositoryManager, log logging.Logger) *ResponseService {
	return &ResponseService{
		repomanager: m,
		log:         log.With("module", "responses"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Submit records a response to an active survey. Preconditions are checked
// in order (survey exists, survey is active, respondent identity present)
// and nothing is written when one fails. The respondent upsert, the response
// insert and the completion increment commit together; the increment is keyed
// by response id so a replay does not count twice. Answers are stored as given.
func (s *ResponseService) Submit(ctx context.Context, surveyID string, sub Submission) (*models.Response, error) {
	survey, err := s.repomanager.Surveys(s.repomanager.Conn()).Get(ctx, surveyID)
	if err != nil {
		return nil, notFound(err, surveyNotFound)
	}
	if survey.Status != models.SurveyStatusActive {
		return nil, common.NewValidationError("Survey is not active")
	}
	in, err := validateRespondent(sub.Respondent)
	if err != nil {
		return nil, err
	}

	answers := sub.Answers
	if answers == nil {
		answers = models.Answers{}
	}

	var created *models.Response
	err = s.repomanager.RunInTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		now := s.now()

		respondent, err := s.repomanager.Respondents(tx).Upsert(ctx, in, now)
		if err != nil {
			return fmt.Errorf("upsert respondent: %w", err)
		}

		created, err = s.repomanager.Responses(tx).Create(ctx, &models.Response{
			SurveyID:    survey.ID,
			Respondent:  models.RespondentSnapshot{Email: in.Email, Name: in.Name},
			Answers:     answers,
			CompletedAt: now,
		})
		if err != nil {
			return fmt.Errorf("create response: %w", err)
		}

		if _, err := s.repomanager.Respondents(tx).IncrementCompletion(ctx, respondent.ID, created.ID, now); err != nil {
			return fmt.Errorf("increment completion: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error submitting response: %w", err)
	}

	s.log.Info(ctx, "response submitted", "survey_id", survey.ID, "response_id", created.ID)
	return created, nil
}

// ListForSurvey returns one page of an owned survey's responses, newest
// first.
func (s *ResponseService) ListForSurvey(ctx context.Context, surveyID, ownerID string, page models.PageRequest) (*models.ResponseList, error) {
	conn := s.repomanager.Conn()
	if _, err := s.repomanager.Surveys(conn).GetOwned(ctx, surveyID, ownerID); err != nil {
		return nil, notFound(err, surveyNotFound)
	}

	page = normalizePage(page)
	repo := s.repomanager.Responses(conn)

	items, total, err := fetchPage(ctx,
		func(ctx context.Context) ([]models.Response, error) { return repo.ListBySurvey(ctx, surveyID, page) },
		func(ctx context.Context) (int, error) { return repo.CountBySurvey(ctx, surveyID) },
	)
	if err != nil {
		return nil, fmt.Errorf("error listing responses: %w", err)
	}

	return &models.ResponseList{Responses: items, Pagination: models.NewPagination(page, total)}, nil
}
