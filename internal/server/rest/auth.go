package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/server/auth"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

// UserService is the account surface the auth endpoints need.
type UserService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	Authenticate(token string) (*auth.Claims, error)
}

type AuthHandler struct {
	users UserService
}

func NewAuthHandler(users UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userData struct {
	User *models.User `json:"user"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.NewValidationError("Please enter all fields"), "")
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondError(c, err, "Server error")
		return
	}
	respondOK(c, http.StatusOK, "User created", userData{User: user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.NewValidationError("Please enter all fields"), "")
		return
	}

	user, token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: "Login successful",
		Data:    userData{User: user},
		Token:   token,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.Me(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err, "Server error")
		return
	}
	respondOK(c, http.StatusOK, "", userData{User: user})
}
