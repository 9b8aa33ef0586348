package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	"github.com/dmitrijs2005/surveykeeper/internal/server/auth"
	"github.com/dmitrijs2005/surveykeeper/internal/server/config"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid credentials"

// UserService registers accounts, verifies credentials and issues session
// tokens.
type UserService struct {
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	bcryptCost  int
	log         logging.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		repomanager: m,
		issuer:      auth.NewIssuer(cfg.SecretKey, cfg.TokenValidityDuration),
		bcryptCost:  cfg.BcryptCost,
		log:         log.With("module", "users"),
	}
}

// Register creates an account. The password is stored only as a bcrypt hash.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, common.NewValidationError("Please enter all fields")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, common.NewValidationError("Password is too long")
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	repo := s.repomanager.Users(s.repomanager.Conn())
	user, err := repo.Create(ctx, &models.User{Email: email, Name: name, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.NewConflictError("User already exists")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Verify checks credentials. An unknown email and a wrong password fail with
// the same error, and both pay for a bcrypt comparison.
func (s *UserService) Verify(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, common.NewValidationError("Please enter all fields")
	}

	repo := s.repomanager.Users(s.repomanager.Conn())
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.getDummyHash(), []byte(password))
			return nil, common.NewAuthError(invalidCredentials)
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.NewAuthError(invalidCredentials)
	}
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.Verify(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Me returns the account behind an authenticated session.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	repo := s.repomanager.Users(s.repomanager.Conn())
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewAuthError("User not authenticated")
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// Authenticate resolves a bearer token to its claims.
func (s *UserService) Authenticate(token string) (*auth.Claims, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, common.NewAuthError("Token expired")
		}
		return nil, common.NewAuthError("Invalid token")
	}
	return claims, nil
}

func (s *UserService) getDummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), s.bcryptCost)
	})
	return s.dummyHash
}
