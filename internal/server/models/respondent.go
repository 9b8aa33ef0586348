package models

import "time"

// Respondent is identified by email; one record per address.
type Respondent struct {
	ID               string            `json:"id"`
	Email            string            `json:"email"`
	Name             string            `json:"name"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	SurveysCompleted int               `json:"surveys_completed"`
	LastResponseAt   *time.Time        `json:"last_response_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// RespondentInput is the identity payload of an upsert or a submission.
type RespondentInput struct {
	Email    string            `json:"email"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// MergeMetadata returns base overlaid with patch; keys in patch win.
// Neither argument is modified.
func MergeMetadata(base, patch map[string]string) map[string]string {
	if len(base) == 0 && len(patch) == 0 {
		return base
	}
	out := make(map[string]string, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}
