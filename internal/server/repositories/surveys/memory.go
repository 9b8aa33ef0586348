package surveys

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
	mu    sync.RWMutex
	items map[string]models.Survey
	seq   int64
	order map[string]int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: make(map[string]models.Survey),
		order: make(map[string]int64),
	}
}

// clone copies the question slice so callers cannot alias stored state.
func clone(s models.Survey) *models.Survey {
	q := make([]models.Question, len(s.Questions))
	copy(q, s.Questions)
	s.Questions = q
	if s.PublishedAt != nil {
		t := *s.PublishedAt
		s.PublishedAt = &t
	}
	return &s
}

func (r *MemoryRepository) Create(ctx context.Context, survey *models.Survey) (*models.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := *clone(*survey)
	s.ID = uuid.NewString()
	s.UpdatedAt = s.CreatedAt
	r.seq++
	r.items[s.ID] = s
	r.order[s.ID] = r.seq

	return clone(s), nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(s), nil
}

func (r *MemoryRepository) GetOwned(ctx context.Context, id, ownerID string) (*models.Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[id]
	if !ok || s.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return clone(s), nil
}

func matches(s models.Survey, f models.SurveyFilter) bool {
	if s.OwnerID != f.OwnerID {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(s.Title), needle) &&
			!strings.Contains(strings.ToLower(s.Description), needle) {
			return false
		}
	}
	return true
}

// filtered returns matching surveys newest first; insertion order breaks
// ties between equal creation times.
func (r *MemoryRepository) filtered(f models.SurveyFilter) []models.Survey {
	var out []models.Survey
	for _, s := range r.items {
		if matches(s, f) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.order[out[i].ID] > r.order[out[j].ID]
	})
	return out
}

func (r *MemoryRepository) List(ctx context.Context, filter models.SurveyFilter, page models.PageRequest) ([]models.Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.filtered(filter)
	result := []models.Survey{}
	for _, s := range models.Paginate(all, page) {
		result = append(result, *clone(s))
	}
	return result, nil
}

func (r *MemoryRepository) Count(ctx context.Context, filter models.SurveyFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.filtered(filter)), nil
}

func (r *MemoryRepository) Update(ctx context.Context, id, ownerID string, patch models.SurveyPatch, now time.Time) (*models.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok || s.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	patch.Apply(&s)
	s.UpdatedAt = now
	s = *clone(s)
	r.items[id] = s

	return clone(s), nil
}

func (r *MemoryRepository) Publish(ctx context.Context, id, ownerID string, now time.Time) (*models.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok || s.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	s.Status = models.SurveyStatusActive
	s.PublishedAt = &now
	s.UpdatedAt = now
	r.items[id] = s

	return clone(s), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok || s.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(r.items, id)
	delete(r.order, id)
	return nil
}
