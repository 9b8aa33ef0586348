package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

type ResponseService interface {
	Submit(ctx context.Context, surveyID string, sub services.Submission) (*models.Response, error)
	ListForSurvey(ctx context.Context, surveyID, ownerID string, page models.PageRequest) (*models.ResponseList, error)
}

type ExportService interface {
	ExportResponses(ctx context.Context, surveyID, ownerID string) (*services.Export, error)
}

type ResponseHandler struct {
	responses ResponseService
	exports   ExportService
}

func NewResponseHandler(responses ResponseService, exports ExportService) *ResponseHandler {
	return &ResponseHandler{responses: responses, exports: exports}
}

type submitRequest struct {
	Respondent models.RespondentInput `json:"respondent"`
	Answers    models.Answers         `json:"answers"`
}

type submitData struct {
	ResponseID string `json:"response_id"`
}

type exportData struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Submit is public: respondents do not hold accounts.
func (h *ResponseHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	resp, err := h.responses.Submit(c.Request.Context(), c.Param("id"), services.Submission{
		Respondent: req.Respondent,
		Answers:    req.Answers,
	})
	if err != nil {
		respondError(c, err, "Failed to submit response")
		return
	}
	respondOK(c, http.StatusCreated, "Response submitted successfully", submitData{ResponseID: resp.ID})
}

func (h *ResponseHandler) List(c *gin.Context) {
	list, err := h.responses.ListForSurvey(c.Request.Context(), c.Param("id"), currentUserID(c), pageFromQuery(c))
	if err != nil {
		respondError(c, err, "Failed to fetch responses")
		return
	}
	respondOK(c, http.StatusOK, "", list)
}

// Export returns a presigned link when the file went to object storage and
// the CSV itself otherwise.
func (h *ResponseHandler) Export(c *gin.Context) {
	exp, err := h.exports.ExportResponses(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, err, "Failed to export responses")
		return
	}

	if exp.URL != "" {
		respondOK(c, http.StatusOK, "", exportData{URL: exp.URL, Key: exp.Key})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", exp.CSV)
}
