package rest

import (
	"net/http"

	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	AuthHandler       *AuthHandler
	SurveyHandler     *SurveyHandler
	ResponseHandler   *ResponseHandler
	RespondentHandler *RespondentHandler
	Verifier          TokenVerifier
	Logger            logging.Logger
	CORSOrigins       []string
}

// NewRouter mounts the API under /api; /healthcheck stays at the root.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(cfg.Logger))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		cfg.Logger.Error(c.Request.Context(), "panic recovered", "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{Message: "Something went wrong!"})
	}))
	router.Use(CORS(cfg.CORSOrigins))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Envelope{Message: "Route not found"})
	})

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
		api.GET("/surveys/:id/public", cfg.SurveyHandler.Public)
		api.POST("/surveys/:id/responses", cfg.ResponseHandler.Submit)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(RequireAuth(cfg.Verifier))
	// Auth
	protected.GET("/auth/me", cfg.AuthHandler.Me)
	// Surveys
	protected.GET("/surveys", cfg.SurveyHandler.List)
	protected.POST("/surveys", cfg.SurveyHandler.Create)
	protected.GET("/surveys/:id", cfg.SurveyHandler.Get)
	protected.PUT("/surveys/:id", cfg.SurveyHandler.Update)
	protected.DELETE("/surveys/:id", cfg.SurveyHandler.Delete)
	protected.POST("/surveys/:id/publish", cfg.SurveyHandler.Publish)
	// Responses
	protected.GET("/surveys/:id/responses", cfg.ResponseHandler.List)
	protected.GET("/surveys/:id/responses/export", cfg.ResponseHandler.Export)
	// Respondents
	protected.GET("/respondents", cfg.RespondentHandler.List)
	protected.GET("/respondents/:id", cfg.RespondentHandler.Get)
	protected.POST("/respondents", cfg.RespondentHandler.Upsert)

	return router
}
