package ports

import (
	"context"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
)

// AuthEventKind names an auth-state change.
type AuthEventKind string

const (
	SignedIn       AuthEventKind = "signed_in"
	SignedOut      AuthEventKind = "signed_out"
	TokenRefreshed AuthEventKind = "token_refreshed"
)

// AuthEvent reports a change of auth state for one browser session.
// Session is nil for SignedOut.
type AuthEvent struct {
	Kind    AuthEventKind
	SID     string
	Session *domain.Session
}

// AuthEventHandler consumes auth events. A returned error is reported back to
// the publisher.
type AuthEventHandler func(ctx context.Context, event AuthEvent) error

// Subscription is returned by Subscribe and ends delivery on Unsubscribe.
type Subscription interface {
	Unsubscribe()
}

// AuthEvents is the auth-state-change stream.
type AuthEvents interface {
	Publish(ctx context.Context, event AuthEvent) error
	Subscribe(handler AuthEventHandler) Subscription
}
