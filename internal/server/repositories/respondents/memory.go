package respondents

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.Respondent
	byEmail map[string]string
	counted map[string]struct{}
	order   map[string]int64
	seq     int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.Respondent),
		byEmail: make(map[string]string),
		counted: make(map[string]struct{}),
		order:   make(map[string]int64),
	}
}

func clone(r *models.Respondent) *models.Respondent {
	c := *r
	if r.Metadata != nil {
		c.Metadata = models.MergeMetadata(nil, r.Metadata)
	}
	if r.LastResponseAt != nil {
		t := *r.LastResponseAt
		c.LastResponseAt = &t
	}
	return &c
}

func (m *MemoryRepository) Upsert(ctx context.Context, in models.RespondentInput, now time.Time) (*models.Respondent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.byEmail[in.Email]; ok {
		r := m.byID[id]
		r.Name = in.Name
		r.Metadata = models.MergeMetadata(r.Metadata, in.Metadata)
		return clone(r), nil
	}

	r := &models.Respondent{
		ID:        uuid.NewString(),
		Email:     in.Email,
		Name:      in.Name,
		Metadata:  models.MergeMetadata(nil, in.Metadata),
		CreatedAt: now,
	}
	m.seq++
	m.byID[r.ID] = r
	m.byEmail[r.Email] = r.ID
	m.order[r.ID] = m.seq

	return clone(r), nil
}

func (m *MemoryRepository) IncrementCompletion(ctx context.Context, respondentID, responseID string, at time.Time) (*models.Respondent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.byID[respondentID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if _, done := m.counted[responseID]; !done {
		m.counted[responseID] = struct{}{}
		r.SurveysCompleted++
		r.LastResponseAt = &at
	}
	return clone(r), nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Respondent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(r), nil
}

func (m *MemoryRepository) filtered(search string) []*models.Respondent {
	needle := strings.ToLower(search)
	var out []*models.Respondent
	for _, r := range m.byID {
		if needle == "" ||
			strings.Contains(strings.ToLower(r.Name), needle) ||
			strings.Contains(strings.ToLower(r.Email), needle) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return m.order[out[i].ID] > m.order[out[j].ID]
	})
	return out
}

func (m *MemoryRepository) List(ctx context.Context, search string, page models.PageRequest) ([]models.Respondent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []models.Respondent{}
	for _, r := range models.Paginate(m.filtered(search), page) {
		result = append(result, *clone(r))
	}
	return result, nil
}

func (m *MemoryRepository) Count(ctx context.Context, search string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.filtered(search)), nil
}
