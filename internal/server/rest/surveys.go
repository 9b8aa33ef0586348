package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

type SurveyService interface {
	Create(ctx context.Context, ownerID string, in models.SurveyInput) (*models.Survey, error)
	Get(ctx context.Context, id, ownerID string) (*models.Survey, error)
	GetPublic(ctx context.Context, id string) (*models.Survey, error)
	List(ctx context.Context, filter models.SurveyFilter, page models.PageRequest) (*models.SurveyList, error)
	Update(ctx context.Context, id, ownerID string, patch models.SurveyPatch) (*models.Survey, error)
	Delete(ctx context.Context, id, ownerID string) error
	Publish(ctx context.Context, id, ownerID string) (*models.Survey, error)
}

type SurveyHandler struct {
	surveys SurveyService
}

func NewSurveyHandler(surveys SurveyService) *SurveyHandler {
	return &SurveyHandler{surveys: surveys}
}

type surveyData struct {
	Survey *models.Survey `json:"survey"`
}

type createSurveyRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Questions   []models.Question   `json:"questions"`
	Status      models.SurveyStatus `json:"status"`
}

// updateSurveyRequest keeps absent fields nil so only supplied ones change.
type updateSurveyRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Questions   *[]models.Question   `json:"questions"`
	Status      *models.SurveyStatus `json:"status"`
}

func invalidBody(c *gin.Context) {
	respondError(c, common.NewValidationError("Invalid request body"), "")
}

func (h *SurveyHandler) List(c *gin.Context) {
	filter := models.SurveyFilter{
		OwnerID: currentUserID(c),
		Status:  models.SurveyStatus(c.Query("status")),
		Search:  c.Query("search"),
	}

	list, err := h.surveys.List(c.Request.Context(), filter, pageFromQuery(c))
	if err != nil {
		respondError(c, err, "Failed to fetch surveys")
		return
	}
	respondOK(c, http.StatusOK, "", list)
}

func (h *SurveyHandler) Create(c *gin.Context) {
	var req createSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	survey, err := h.surveys.Create(c.Request.Context(), currentUserID(c), models.SurveyInput{
		Title:       req.Title,
		Description: req.Description,
		Questions:   req.Questions,
		Status:      req.Status,
	})
	if err != nil {
		respondError(c, err, "Failed to create survey")
		return
	}
	respondOK(c, http.StatusCreated, "Survey created successfully", surveyData{Survey: survey})
}

func (h *SurveyHandler) Get(c *gin.Context) {
	survey, err := h.surveys.Get(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, err, "Failed to fetch survey")
		return
	}
	respondOK(c, http.StatusOK, "", surveyData{Survey: survey})
}

func (h *SurveyHandler) Update(c *gin.Context) {
	var req updateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	patch := models.SurveyPatch{
		Title:       req.Title,
		Description: req.Description,
		Questions:   req.Questions,
		Status:      req.Status,
	}
	survey, err := h.surveys.Update(c.Request.Context(), c.Param("id"), currentUserID(c), patch)
	if err != nil {
		respondError(c, err, "Failed to update survey")
		return
	}
	respondOK(c, http.StatusOK, "Survey updated successfully", surveyData{Survey: survey})
}

func (h *SurveyHandler) Delete(c *gin.Context) {
	if err := h.surveys.Delete(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondError(c, err, "Failed to delete survey")
		return
	}
	respondOK(c, http.StatusOK, "Survey deleted successfully", nil)
}

func (h *SurveyHandler) Publish(c *gin.Context) {
	survey, err := h.surveys.Publish(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, err, "Failed to publish survey")
		return
	}
	respondOK(c, http.StatusOK, "Survey published successfully", surveyData{Survey: survey})
}

// Public serves an active survey to respondents without authentication.
func (h *SurveyHandler) Public(c *gin.Context) {
	survey, err := h.surveys.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch survey")
		return
	}
	respondOK(c, http.StatusOK, "", surveyData{Survey: survey})
}
