package services

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"vriksh/internal/apperrors"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 7 * 24 * time.Hour

var (
	ErrMissingAuthHeader   = apperrors.New(apperrors.KindAuth, "Missing Authorization header")
	ErrMalformedAuthHeader = apperrors.New(apperrors.KindAuth, "Invalid Authorization header format. Use: Bearer <token>")
	ErrTokenExpired        = apperrors.New(apperrors.KindAuth, "Token has expired. Please login again.")
	ErrInvalidToken        = apperrors.New(apperrors.KindAuth, "Invalid token. Please login again.")
)

// Claims is the token payload.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.StandardClaims
}

// Identity is the caller established from a verified token.
type Identity struct {
	UserID string
	Email  string
}

// TokenService issues and verifies HS256 tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now. Used by tests to move past expiry.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService creates a TokenService. An empty secret is a
// configuration error.
func NewTokenService(secret string, log zerolog.Logger, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, apperrors.Configuration("JWT secret is not configured")
	}
	s := &TokenService{
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
		log:    log.With().Str("component", "tokens").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for the given subject.
func (s *TokenService) Issue(userID, email string) (string, error) {
	if userID == "" || email == "" {
		return "", apperrors.Validation("user id and email are required to issue a token")
	}

	now := s.now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.log.Info().Str("user_id", userID).Msg("token issued")
	return signed, nil
}

// Verify extracts the bearer token from an Authorization header value and
// verifies it.
func (s *TokenService) Verify(header string) (*Identity, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		s.log.Debug().Str("reason", "missing_header").Msg("token rejected")
		return nil, ErrMissingAuthHeader
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		s.log.Debug().Str("reason", "malformed_header").Msg("token rejected")
		return nil, ErrMalformedAuthHeader
	}
	return s.VerifyToken(parts[1])
}

// VerifyToken checks the signature, algorithm and expiry of a raw token.
func (s *TokenService) VerifyToken(raw string) (*Identity, error) {
	if !canonicalSignature(raw) {
		s.log.Info().Str("reason", "invalid").Msg("token rejected")
		return nil, ErrInvalidToken
	}

	parser := jwt.Parser{
		ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		SkipClaimsValidation: true,
	}

	var claims Claims
	_, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		s.log.Info().Str("reason", "invalid").Msg("token rejected")
		return nil, ErrInvalidToken
	}

	if claims.UserID == "" || claims.Email == "" || claims.ExpiresAt == 0 {
		s.log.Info().Str("reason", "incomplete_claims").Msg("token rejected")
		return nil, ErrInvalidToken
	}
	if s.now().Unix() >= claims.ExpiresAt {
		s.log.Info().Str("reason", "expired").Str("user_id", claims.UserID).Msg("token rejected")
		return nil, ErrTokenExpired
	}

	s.log.Debug().Str("user_id", claims.UserID).Msg("token verified")
	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// canonicalSignature reports whether the signature segment is strict,
// unpadded base64url. jwt-go ignores the unused trailing bits, so without
// this check several encodings of one signature would all verify.
func canonicalSignature(raw string) bool {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 || parts[2] == "" {
		return false
	}
	sig, err := base64.RawURLEncoding.Strict().DecodeString(parts[2])
	if err != nil {
		return false
	}
	return base64.RawURLEncoding.EncodeToString(sig) == parts[2]
}
