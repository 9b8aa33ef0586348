package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

type RespondentService interface {
	Upsert(ctx context.Context, in models.RespondentInput) (*models.Respondent, error)
	Get(ctx context.Context, id string) (*models.Respondent, error)
	List(ctx context.Context, search string, page models.PageRequest) (*models.RespondentList, error)
}

type RespondentHandler struct {
	respondents RespondentService
}

func NewRespondentHandler(respondents RespondentService) *RespondentHandler {
	return &RespondentHandler{respondents: respondents}
}

type respondentData struct {
	Respondent *models.Respondent `json:"respondent"`
}

func (h *RespondentHandler) List(c *gin.Context) {
	list, err := h.respondents.List(c.Request.Context(), c.Query("search"), pageFromQuery(c))
	if err != nil {
		respondError(c, err, "Failed to fetch respondents")
		return
	}
	respondOK(c, http.StatusOK, "", list)
}

func (h *RespondentHandler) Get(c *gin.Context) {
	r, err := h.respondents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch respondent")
		return
	}
	respondOK(c, http.StatusOK, "", respondentData{Respondent: r})
}

func (h *RespondentHandler) Upsert(c *gin.Context) {
	var in models.RespondentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidBody(c)
		return
	}

	r, err := h.respondents.Upsert(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "Failed to save respondent")
		return
	}
	respondOK(c, http.StatusCreated, "Respondent created/updated successfully", respondentData{Respondent: r})
}
