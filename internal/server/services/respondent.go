package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
)

const respondentNotFound = "Respondent not found"

// RespondentService is the registry of people who answered surveys, keyed by
// email.
type RespondentService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         func() time.Time
}

func NewRespondentService(m repomanager.RepositoryManager, log logging.Logger) *RespondentService {
	return &RespondentService{
		repomanager: m,
		log:         log.With("module", "respondents"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func validateRespondent(in models.RespondentInput) (models.RespondentInput, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Name == "" {
		return in, common.NewValidationError("Respondent email and name are required")
	}
	return in, nil
}

// Upsert creates or refreshes the respondent for in.Email.
func (s *RespondentService) Upsert(ctx context.Context, in models.RespondentInput) (*models.Respondent, error) {
	in, err := validateRespondent(in)
	if err != nil {
		return nil, err
	}

	r, err := s.repomanager.Respondents(s.repomanager.Conn()).Upsert(ctx, in, s.now())
	if err != nil {
		return nil, fmt.Errorf("error upserting respondent: %w", err)
	}
	return r, nil
}

func (s *RespondentService) Get(ctx context.Context, id string) (*models.Respondent, error) {
	r, err := s.repomanager.Respondents(s.repomanager.Conn()).GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, respondentNotFound)
	}
	return r, nil
}

// List returns one page of respondents, newest first, optionally narrowed by
// a case-insensitive match on name or email.
func (s *RespondentService) List(ctx context.Context, search string, page models.PageRequest) (*models.RespondentList, error) {
	page = normalizePage(page)
	repo := s.repomanager.Respondents(s.repomanager.Conn())

	items, total, err := fetchPage(ctx,
		func(ctx context.Context) ([]models.Respondent, error) { return repo.List(ctx, search, page) },
		func(ctx context.Context) (int, error) { return repo.Count(ctx, search) },
	)
	if err != nil {
		return nil, fmt.Errorf("error listing respondents: %w", err)
	}

	return &models.RespondentList{Respondents: items, Pagination: models.NewPagination(page, total)}, nil
}
