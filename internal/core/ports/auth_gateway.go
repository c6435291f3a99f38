package ports

import (
	"context"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
)

// SignUpInput carries the account fields sent to the gateway on registration.
// FullName and Phone travel as user metadata.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// SignUpResult is what the gateway returns for a new account. Session is nil
// when the gateway requires email confirmation before issuing tokens.
type SignUpResult struct {
	Identity *domain.Identity
	Session  *domain.Session
}

// AuthGateway is the managed backend's authentication API.
type AuthGateway interface {
	SignUp(ctx context.Context, in SignUpInput) (*SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	// User resolves the identity that owns accessToken.
	User(ctx context.Context, accessToken string) (*domain.Identity, error)
	// DeleteUser removes an identity through the admin API. It needs the
	// service-role key and is used only to compensate a failed registration.
	DeleteUser(ctx context.Context, id string) error
}
