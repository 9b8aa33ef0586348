package models

import "time"

// SurveyStatus is the lifecycle label of a survey.
type SurveyStatus string

const (
	SurveyStatusDraft     SurveyStatus = "draft"
	SurveyStatusActive    SurveyStatus = "active"
	SurveyStatusCompleted SurveyStatus = "completed"
)

// Valid reports whether s is one of the enumerated statuses.
func (s SurveyStatus) Valid() bool {
	switch s {
	case SurveyStatusDraft, SurveyStatusActive, SurveyStatusCompleted:
		return true
	}
	return false
}

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	QuestionSingleChoice   QuestionType = "single-choice"
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionLongText       QuestionType = "long-text"
	QuestionShortText      QuestionType = "short-text"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionSingleChoice, QuestionMultipleChoice, QuestionLongText, QuestionShortText:
		return true
	}
	return false
}

// Question is embedded in its survey and has no lifecycle of its own.
type Question struct {
	ID       string       `json:"id"`
	Type     QuestionType `json:"type"`
	Prompt   string       `json:"question"`
	Options  []string     `json:"options"`
	Required bool         `json:"required"`
}

// Survey is owned by exactly one user for its whole life. OwnerID is not
// serialized so public reads never reveal it.
type Survey struct {
	ID             string       `json:"id"`
	OwnerID        string       `json:"-"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Status         SurveyStatus `json:"status"`
	Questions      []Question   `json:"questions"`
	ResponsesCount int          `json:"responses_count"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	PublishedAt    *time.Time   `json:"published_at,omitempty"`
}

// SurveyPatch carries a partial update. Nil fields are left untouched.
type SurveyPatch struct {
	Title       *string
	Description *string
	Questions   *[]Question
	Status      *SurveyStatus
}

// Apply merges the set fields of p into s.
func (p SurveyPatch) Apply(s *Survey) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Questions != nil {
		s.Questions = *p.Questions
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
}

// SurveyFilter scopes a survey listing. Status and Search are optional.
type SurveyFilter struct {
	OwnerID string
	Status  SurveyStatus
	Search  string
}

// SurveyInput is the payload of a survey creation. An empty Status means
// draft.
type SurveyInput struct {
	Title       string
	Description string
	Questions   []Question
	Status      SurveyStatus
}
