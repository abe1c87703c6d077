// Package identity creates and authenticates accounts. Two providers exist:
// LocalProvider keeps bcrypt credentials next to the profile table, and
// SupabaseProvider delegates to a Supabase (GoTrue) auth server.
package identity

import (
	"context"

	"vriksh/internal/apperrors"
)

var (
	// ErrIdentityExists is returned by SignUp when the email is taken.
	ErrIdentityExists = apperrors.Conflict("Email already registered. Please login instead.")
	// ErrInvalidCredentials is returned by SignIn for any unknown email or wrong password.
	ErrInvalidCredentials = apperrors.New(apperrors.KindAuth, "Invalid email or password")
)

// Provider creates identities and checks passwords. Implementations must
// make sure a profile row exists for every identity they create.
type Provider interface {
	SignUp(ctx context.Context, email, password, name string) (userID string, err error)
	SignIn(ctx context.Context, email, password string) (userID string, err error)
}
