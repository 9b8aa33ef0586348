package api

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
)

type userData struct {
	User models.User `json:"user"`
}

type surveyData struct {
	Survey models.Survey `json:"survey"`
}

type respondentData struct {
	Respondent models.Respondent `json:"respondent"`
}

// Submission is the body of an anonymous response.
type Submission struct {
	Respondent models.RespondentInput `json:"respondent"`
	Answers    models.Answers         `json:"answers"`
}

// SurveyUpdate carries only the fields to change.
type SurveyUpdate struct {
	Title       *string              `json:"title,omitempty"`
	Description *string              `json:"description,omitempty"`
	Questions   *[]models.Question   `json:"questions,omitempty"`
	Status      *models.SurveyStatus `json:"status,omitempty"`
}

// Export is either a presigned link (URL set) or the CSV itself.
type Export struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Filename string `json:"-"`
	CSV      []byte `json:"-"`
}

func (c *Client) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	var out userData
	body := map[string]string{"email": email, "password": password, "name": name}
	if _, err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Login returns the account and its session token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var out userData
	body := map[string]string{"email": email, "password": password}
	env, err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out)
	if err != nil {
		return nil, "", err
	}
	return &out.User, env.Token, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out userData
	if _, err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListSurveys(ctx context.Context, status models.SurveyStatus, search string, page models.PageRequest) (*models.SurveyList, error) {
	q := pageQuery(page)
	if status != "" {
		q.Set("status", string(status))
	}
	if search != "" {
		q.Set("search", search)
	}

	var out models.SurveyList
	if _, err := c.do(ctx, http.MethodGet, "/surveys", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSurvey(ctx context.Context, id string) (*models.Survey, error) {
	return c.survey(ctx, http.MethodGet, "/surveys/"+url.PathEscape(id), nil)
}

func (c *Client) GetPublicSurvey(ctx context.Context, id string) (*models.Survey, error) {
	return c.survey(ctx, http.MethodGet, "/surveys/"+url.PathEscape(id)+"/public", nil)
}

func (c *Client) CreateSurvey(ctx context.Context, in models.SurveyInput) (*models.Survey, error) {
	return c.survey(ctx, http.MethodPost, "/surveys", in)
}

func (c *Client) UpdateSurvey(ctx context.Context, id string, upd SurveyUpdate) (*models.Survey, error) {
	return c.survey(ctx, http.MethodPut, "/surveys/"+url.PathEscape(id), upd)
}

func (c *Client) PublishSurvey(ctx context.Context, id string) (*models.Survey, error) {
	return c.survey(ctx, http.MethodPost, "/surveys/"+url.PathEscape(id)+"/publish", nil)
}

func (c *Client) DeleteSurvey(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/surveys/"+url.PathEscape(id), nil, nil, nil)
	return err
}

func (c *Client) survey(ctx context.Context, method, path string, body any) (*models.Survey, error) {
	var out surveyData
	if _, err := c.do(ctx, method, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out.Survey, nil
}

// SubmitResponse returns the id of the stored response.
func (c *Client) SubmitResponse(ctx context.Context, surveyID string, sub Submission) (string, error) {
	var out struct {
		ResponseID string `json:"response_id"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/surveys/"+url.PathEscape(surveyID)+"/responses", nil, sub, &out); err != nil {
		return "", err
	}
	return out.ResponseID, nil
}

func (c *Client) ListResponses(ctx context.Context, surveyID string, page models.PageRequest) (*models.ResponseList, error) {
	var out models.ResponseList
	if _, err := c.do(ctx, http.MethodGet, "/surveys/"+url.PathEscape(surveyID)+"/responses", pageQuery(page), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListRespondents(ctx context.Context, search string, page models.PageRequest) (*models.RespondentList, error) {
	q := pageQuery(page)
	if search != "" {
		q.Set("search", search)
	}

	var out models.RespondentList
	if _, err := c.do(ctx, http.MethodGet, "/respondents", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRespondent(ctx context.Context, id string) (*models.Respondent, error) {
	var out respondentData
	if _, err := c.do(ctx, http.MethodGet, "/respondents/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Respondent, nil
}

func (c *Client) UpsertRespondent(ctx context.Context, in models.RespondentInput) (*models.Respondent, error) {
	var out respondentData
	if _, err := c.do(ctx, http.MethodPost, "/respondents", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Respondent, nil
}

// ExportResponses fetches a survey's responses as CSV. The server answers
// with JSON when it uploaded the file and with the CSV body otherwise.
func (c *Client) ExportResponses(ctx context.Context, surveyID string) (*Export, error) {
	path := "/surveys/" + url.PathEscape(surveyID) + "/responses/export"

	mediaType := ""
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, _ = mime.ParseMediaType(ct)
	}

	if resp.StatusCode == http.StatusOK && mediaType == "text/csv" {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read export: %w", err)
		}
		exp := &Export{CSV: data}
		if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
			exp.Filename = params["filename"]
		}
		return exp, nil
	}

	var out Export
	if _, err := c.decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
