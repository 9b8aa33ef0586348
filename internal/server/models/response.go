package models

import "time"

// RespondentSnapshot is copied into a response at submission time and is
// not updated when the respondent record changes later.
type RespondentSnapshot struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Answers maps question id to the submitted value. The value shape depends
// on the question type: a string for text and single-choice, a list for
// multiple-choice.
type Answers map[string]any

// Response is written once per accepted submission and never modified.
type Response struct {
	ID          string             `json:"id"`
	SurveyID    string             `json:"survey_id"`
	Respondent  RespondentSnapshot `json:"respondent"`
	Answers     Answers            `json:"answers"`
	CompletedAt time.Time          `json:"completed_at"`
}
