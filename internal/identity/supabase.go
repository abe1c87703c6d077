package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vriksh/internal/apperrors"

	"github.com/tidwall/gjson"
)

// SupabaseConfig holds the GoTrue endpoint and API key.
type SupabaseConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// SupabaseProvider talks to the Supabase auth REST API. Profile rows are
// created by a database trigger that reads the name from user metadata.
type SupabaseProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewSupabaseProvider creates a SupabaseProvider.
func NewSupabaseProvider(cfg SupabaseConfig) *SupabaseProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SupabaseProvider{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type signUpRequest struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Data     map[string]string `json:"data,omitempty"`
}

// SignUp registers the email with GoTrue, passing the name as metadata.
func (p *SupabaseProvider) SignUp(ctx context.Context, email, password, name string) (string, error) {
	body := signUpRequest{
		Email:    email,
		Password: password,
		Data:     map[string]string{"name": name},
	}
	status, resp, err := p.post(ctx, "/auth/v1/signup", body)
	if err != nil {
		return "", err
	}
	if status >= 400 {
		if isDuplicate(resp) {
			return "", ErrIdentityExists
		}
		return "", apperrors.Wrap(apperrors.KindUpstream, "signup rejected",
			fmt.Errorf("status %d: %s", status, errorMessage(resp)))
	}

	id := userID(resp)
	if id == "" {
		return "", apperrors.Wrap(apperrors.KindUpstream, "signup response missing user id", nil)
	}
	return id, nil
}

// SignIn exchanges email and password for a session and returns its user id.
func (p *SupabaseProvider) SignIn(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	status, resp, err := p.post(ctx, "/auth/v1/token?grant_type=password", body)
	if err != nil {
		return "", err
	}
	if status >= 400 {
		return "", ErrInvalidCredentials
	}
	id := userID(resp)
	if id == "" {
		return "", ErrInvalidCredentials
	}
	return id, nil
}

func (p *SupabaseProvider) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.apiKey)
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, apperrors.Wrap(apperrors.KindUpstream, "auth server unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, apperrors.Wrap(apperrors.KindUpstream, "read auth response", err)
	}
	return resp.StatusCode, body, nil
}

// userID handles both the bare user object and the session shape.
func userID(body []byte) string {
	if id := gjson.GetBytes(body, "user.id").String(); id != "" {
		return id
	}
	return gjson.GetBytes(body, "id").String()
}

func errorMessage(body []byte) string {
	for _, path := range []string{"msg", "error_description", "message", "error"} {
		if m := gjson.GetBytes(body, path).String(); m != "" {
			return m
		}
	}
	return strings.TrimSpace(string(body))
}

func isDuplicate(body []byte) bool {
	if gjson.GetBytes(body, "error_code").String() == "user_already_exists" {
		return true
	}
	msg := strings.ToLower(errorMessage(body))
	return strings.Contains(msg, "already registered") || strings.Contains(msg, "already exists")
}
