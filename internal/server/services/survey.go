package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const surveyNotFound = "Survey not found"

// SurveyService owns survey documents. Every method except GetPublic is
// scoped to ownerID, and a survey owned by someone else is reported exactly
// like a missing one.
type SurveyService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         func() time.Time
}

func NewSurveyService(m repomanager.RepositoryManager, log logging.Logger) *SurveyService {
	return &SurveyService{
		repomanager: m,
		log:         log.With("module", "surveys"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// normalizeQuestions validates question types and text and assigns ids to
// questions that arrive without one. The input slice is not modified.
func normalizeQuestions(in []models.Question) ([]models.Question, error) {
	out := make([]models.Question, 0, len(in))
	for i, q := range in {
		if !q.Type.Valid() {
			return nil, common.NewValidationError(fmt.Sprintf("Question %d has invalid type %q", i+1, q.Type))
		}
		if strings.TrimSpace(q.Prompt) == "" {
			return nil, common.NewValidationError(fmt.Sprintf("Question %d text is required", i+1))
		}
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		out = append(out, q)
	}
	return out, nil
}

func notFound(err error, msg string) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.NewNotFoundError(msg)
	}
	return err
}

// Create stores a new survey for ownerID. Status defaults to draft.
func (s *SurveyService) Create(ctx context.Context, ownerID string, in models.SurveyInput) (*models.Survey, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, common.NewValidationError("Please enter all fields")
	}
	status := in.Status
	if status == "" {
		status = models.SurveyStatusDraft
	}
	if !status.Valid() {
		return nil, common.NewValidationError(fmt.Sprintf("Invalid status %q", status))
	}
	questions, err := normalizeQuestions(in.Questions)
	if err != nil {
		return nil, err
	}

	now := s.now()
	survey := &models.Survey{
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Questions:   questions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == models.SurveyStatusActive {
		survey.PublishedAt = &now
	}

	created, err := s.repomanager.Surveys(s.repomanager.Conn()).Create(ctx, survey)
	if err != nil {
		return nil, fmt.Errorf("error creating survey: %w", err)
	}

	s.log.Info(ctx, "survey created", "survey_id", created.ID, "owner_id", ownerID)
	return created, nil
}

// Get returns an owned survey together with its response count.
func (s *SurveyService) Get(ctx context.Context, id, ownerID string) (*models.Survey, error) {
	conn := s.repomanager.Conn()

	survey, err := s.repomanager.Surveys(conn).GetOwned(ctx, id, ownerID)
	if err != nil {
		return nil, notFound(err, surveyNotFound)
	}

	count, err := s.repomanager.Responses(conn).CountBySurvey(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error counting responses: %w", err)
	}
	survey.ResponsesCount = count
	return survey, nil
}

// GetPublic returns a survey only while it is active.
func (s *SurveyService) GetPublic(ctx context.Context, id string) (*models.Survey, error) {
	survey, err := s.repomanager.Surveys(s.repomanager.Conn()).Get(ctx, id)
	if err != nil {
		return nil, notFound(err, surveyNotFound)
	}
	if survey.Status != models.SurveyStatusActive {
		return nil, common.NewNotFoundError(surveyNotFound)
	}
	return survey, nil
}

// List returns one page of the owner's surveys, newest first.
func (s *SurveyService) List(ctx context.Context, filter models.SurveyFilter, page models.PageRequest) (*models.SurveyList, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, common.NewValidationError(fmt.Sprintf("Invalid status %q", filter.Status))
	}
	page = normalizePage(page)
	repo := s.repomanager.Surveys(s.repomanager.Conn())

	items, total, err := fetchPage(ctx,
		func(ctx context.Context) ([]models.Survey, error) { return repo.List(ctx, filter, page) },
		func(ctx context.Context) (int, error) { return repo.Count(ctx, filter) },
	)
	if err != nil {
		return nil, fmt.Errorf("error listing surveys: %w", err)
	}

	return &models.SurveyList{Surveys: items, Pagination: models.NewPagination(page, total)}, nil
}

// Update merges patch into an owned survey and stamps the update time.
// Status may be set to any enumerated value.
func (s *SurveyService) Update(ctx context.Context, id, ownerID string, patch models.SurveyPatch) (*models.Survey, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, common.NewValidationError("Title cannot be empty")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, common.NewValidationError(fmt.Sprintf("Invalid status %q", *patch.Status))
	}
	if patch.Questions != nil {
		questions, err := normalizeQuestions(*patch.Questions)
		if err != nil {
			return nil, err
		}
		patch.Questions = &questions
	}

	survey, err := s.repomanager.Surveys(s.repomanager.Conn()).Update(ctx, id, ownerID, patch, s.now())
	if err != nil {
		return nil, notFound(err, surveyNotFound)
	}
	return survey, nil
}

// Delete removes an owned survey. Its responses are kept.
func (s *SurveyService) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.repomanager.Surveys(s.repomanager.Conn()).Delete(ctx, id, ownerID); err != nil {
		return notFound(err, surveyNotFound)
	}
	s.log.Info(ctx, "survey deleted", "survey_id", id, "owner_id", ownerID)
	return nil
}

// Publish marks an owned survey active. Calling it again re-stamps the
// publish and update times.
func (s *SurveyService) Publish(ctx context.Context, id, ownerID string) (*models.Survey, error) {
	survey, err := s.repomanager.Surveys(s.repomanager.Conn()).Publish(ctx, id, ownerID, s.now())
	if err != nil {
		return nil, notFound(err, surveyNotFound)
	}
	s.log.Info(ctx, "survey published", "survey_id", id)
	return survey, nil
}
