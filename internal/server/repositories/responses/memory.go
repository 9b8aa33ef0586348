package responses

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu       sync.RWMutex
	bySurvey map[string][]models.Response
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bySurvey: make(map[string][]models.Response)}
}

func (m *MemoryRepository) Create(ctx context.Context, response *models.Response) (*models.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if response.Answers == nil {
		response.Answers = models.Answers{}
	}
	response.ID = uuid.NewString()
	m.bySurvey[response.SurveyID] = append(m.bySurvey[response.SurveyID], *response)

	return response, nil
}

// sorted returns a copy of the survey's responses in completion order;
// stored order breaks ties.
func (m *MemoryRepository) sorted(surveyID string) []models.Response {
	out := make([]models.Response, len(m.bySurvey[surveyID]))
	copy(out, m.bySurvey[surveyID])
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.Before(out[j].CompletedAt)
	})
	return out
}

func (m *MemoryRepository) ListBySurvey(ctx context.Context, surveyID string, page models.PageRequest) ([]models.Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.sorted(surveyID)
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}

	result := []models.Response{}
	result = append(result, models.Paginate(all, page)...)
	return result, nil
}

func (m *MemoryRepository) CountBySurvey(ctx context.Context, surveyID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.bySurvey[surveyID]), nil
}

func (m *MemoryRepository) AllBySurvey(ctx context.Context, surveyID string) ([]models.Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sorted(surveyID), nil
}
