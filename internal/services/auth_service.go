package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vriksh/internal/apperrors"
	"vriksh/internal/identity"
	"vriksh/internal/metrics"
	"vriksh/internal/models"
	"vriksh/internal/repositories"

	"github.com/rs/zerolog"
)

// DefaultDisplayName is used when a login succeeds but the profile row is missing.
const DefaultDisplayName = "User"

// ErrUserNotFound is returned by Verify when the token is valid but the
// profile no longer exists.
var ErrUserNotFound = apperrors.NotFound("User not found")

// SignupInput is the body of a signup request.
type SignupInput struct {
	Email    string `json:"email" validate:"required,contains=@"`
	Password string `json:"password" validate:"min=6"`
	Name     string `json:"name" validate:"required"`
}

// LoginInput is the body of a login request.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

var signupMessages = fieldMessages{
	"Email":    "Valid email is required",
	"Password": "Password must be at least 6 characters",
	"Name":     "Name is required",
}

var loginMessages = fieldMessages{
	"Email":    "Email and password are required",
	"Password": "Email and password are required",
}

// AuthService handles signup, login, token refresh and verification.
type AuthService struct {
	identity identity.Provider
	users    repositories.UserRepository
	tokens   *TokenService
	log      zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(provider identity.Provider, users repositories.UserRepository, tokens *TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{
		identity: provider,
		users:    users,
		tokens:   tokens,
		log:      log.With().Str("component", "auth").Logger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates an account and returns a token for it.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in, signupMessages, "Invalid signup request"); err != nil {
		return nil, err
	}

	userID, err := s.identity.SignUp(ctx, in.Email, in.Password, in.Name)
	if err != nil {
		metrics.RecordAuthAttempt("signup", false)
		if errors.Is(err, identity.ErrIdentityExists) {
			s.log.Info().Str("email", in.Email).Msg("signup rejected: email already registered")
			return nil, err
		}
		s.log.Error().Err(err).Str("email", in.Email).Msg("signup failed")
		return nil, fmt.Errorf("signup: %w", err)
	}

	token, err := s.tokens.Issue(userID, in.Email)
	if err != nil {
		metrics.RecordAuthAttempt("signup", false)
		return nil, err
	}

	metrics.RecordAuthAttempt("signup", true)
	s.log.Info().Str("email", in.Email).Str("user_id", userID).Msg("user signed up")
	return &AuthResult{
		Token: token,
		User:  models.UserSummary{ID: userID, Email: in.Email, Name: in.Name},
	}, nil
}

// Login checks credentials and returns a token. Every provider failure is
// reported as invalid credentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in, loginMessages, "Email and password are required"); err != nil {
		return nil, err
	}

	userID, err := s.identity.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		metrics.RecordAuthAttempt("login", false)
		s.log.Info().Err(err).Str("email", in.Email).Msg("login rejected")
		return nil, identity.ErrInvalidCredentials
	}

	summary := models.UserSummary{ID: userID, Email: in.Email, Name: DefaultDisplayName}
	user, err := s.users.GetByID(ctx, userID)
	switch {
	case err == nil:
		summary.Name = user.Name
	case errors.Is(err, repositories.ErrNotFound):
		s.log.Warn().Str("user_id", userID).Msg("profile missing at login")
	default:
		metrics.RecordAuthAttempt("login", false)
		return nil, err
	}

	token, err := s.tokens.Issue(userID, in.Email)
	if err != nil {
		metrics.RecordAuthAttempt("login", false)
		return nil, err
	}

	metrics.RecordAuthAttempt("login", true)
	s.log.Info().Str("email", in.Email).Str("user_id", userID).Msg("user logged in")
	return &AuthResult{Token: token, User: summary}, nil
}

// Refresh issues a new token for the subject of a still-valid one.
func (s *AuthService) Refresh(header string) (string, error) {
	id, err := s.tokens.Verify(header)
	if err != nil {
		metrics.RecordAuthAttempt("refresh", false)
		return "", err
	}
	token, err := s.tokens.Issue(id.UserID, id.Email)
	if err != nil {
		metrics.RecordAuthAttempt("refresh", false)
		return "", err
	}
	metrics.RecordAuthAttempt("refresh", true)
	return token, nil
}

// Verify checks the token and returns the caller's profile.
func (s *AuthService) Verify(ctx context.Context, header string) (*models.UserSummary, error) {
	id, err := s.tokens.Verify(header)
	if err != nil {
		metrics.RecordAuthAttempt("verify", false)
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		metrics.RecordAuthAttempt("verify", false)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	metrics.RecordAuthAttempt("verify", true)
	summary := user.Summary()
	return &summary, nil
}
