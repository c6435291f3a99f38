package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
)

// refreshSkew is how long before expiry an access token is refreshed.
const refreshSkew = 30 * time.Second

// SessionStore holds the identity and role of each browser session. It is
// changed only by observing auth events; nothing writes to it directly.
type SessionStore struct {
	auth     ports.AuthGateway
	roles    ports.RoleRepository
	sessions ports.SessionRepository
	events   ports.AuthEvents
	sub      ports.Subscription
	now      func() time.Time
	log      zerolog.Logger
}

// NewSessionStore builds a store. Call Start before serving requests.
func NewSessionStore(
	auth ports.AuthGateway,
	roles ports.RoleRepository,
	sessions ports.SessionRepository,
	events ports.AuthEvents,
	log zerolog.Logger,
) *SessionStore {
	return &SessionStore{
		auth:     auth,
		roles:    roles,
		sessions: sessions,
		events:   events,
		now:      time.Now,
		log:      log,
	}
}

// Start subscribes the store to the auth event stream.
func (s *SessionStore) Start() *SessionStore {
	if s.sub == nil {
		s.sub = s.events.Subscribe(s.handle)
	}
	return s
}

// Close ends the subscription. Events published afterwards are not observed.
func (s *SessionStore) Close() {
	if s.sub != nil {
		s.sub.Unsubscribe()
		s.sub = nil
	}
}

// Subscribe lets other components observe the same auth events.
func (s *SessionStore) Subscribe(handler ports.AuthEventHandler) ports.Subscription {
	return s.events.Subscribe(handler)
}

// Current returns the state for sid. An unknown sid is the anonymous state.
// An access token at or near expiry is refreshed first.
func (s *SessionStore) Current(ctx context.Context, sid string) (ports.SessionState, error) {
	if sid == "" {
		return ports.SessionState{}, nil
	}

	rec, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return ports.SessionState{}, fmt.Errorf("session store: load: %w", err)
	}
	if rec == nil {
		return ports.SessionState{}, nil
	}

	if rec.Session.Expired(s.now(), refreshSkew) {
		rec, err = s.refresh(ctx, sid, rec)
		if err != nil {
			return ports.SessionState{}, err
		}
		if rec == nil {
			return ports.SessionState{}, nil
		}
	}

	return ports.SessionState{Session: &rec.Session, Role: rec.Role}, nil
}

// Forget deletes the record for sid. It is used when a browser is moved to a
// new sid after signing in.
func (s *SessionStore) Forget(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sid); err != nil {
		return fmt.Errorf("session store: forget: %w", err)
	}
	return nil
}

func (s *SessionStore) refresh(ctx context.Context, sid string, rec *ports.SessionRecord) (*ports.SessionRecord, error) {
	if rec.Session.RefreshToken == "" {
		return nil, s.events.Publish(ctx, ports.AuthEvent{Kind: ports.SignedOut, SID: sid})
	}

	fresh, err := s.auth.Refresh(ctx, rec.Session.RefreshToken)
	if err != nil {
		s.log.Warn().Err(err).Str("identity_id", rec.Session.Identity.ID).Msg("token refresh failed, signing out")
		return nil, s.events.Publish(ctx, ports.AuthEvent{Kind: ports.SignedOut, SID: sid})
	}

	if err := s.events.Publish(ctx, ports.AuthEvent{Kind: ports.TokenRefreshed, SID: sid, Session: fresh}); err != nil {
		return nil, fmt.Errorf("session store: refresh: %w", err)
	}

	rec, err = s.sessions.Get(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("session store: reload: %w", err)
	}
	return rec, nil
}

func (s *SessionStore) handle(ctx context.Context, event ports.AuthEvent) error {
	if event.SID == "" {
		return nil
	}
	switch event.Kind {
	case ports.SignedIn, ports.TokenRefreshed:
		return s.resolve(ctx, event.SID, event.Session)
	case ports.SignedOut:
		if err := s.sessions.Delete(ctx, event.SID); err != nil {
			return fmt.Errorf("session store: delete: %w", err)
		}
	}
	return nil
}

// resolve re-reads the identity behind the session's token and derives its
// role, then persists the result.
func (s *SessionStore) resolve(ctx context.Context, sid string, session *domain.Session) error {
	if session == nil {
		return fmt.Errorf("session store: %w", domain.ErrUnauthenticated)
	}

	identity, err := s.auth.User(ctx, session.AccessToken)
	if err != nil {
		return fmt.Errorf("session store: resolve identity: %w", err)
	}

	role, err := s.roles.Lookup(ctx, session.AccessToken, identity.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("identity_id", identity.ID).Msg("role lookup failed")
		role = domain.RoleUnknown
	}
	if !role.Known() {
		s.log.Warn().Str("identity_id", identity.ID).Msg("identity has no role")
	}

	resolved := *session
	resolved.Identity = mergeIdentity(session.Identity, *identity)

	rec := &ports.SessionRecord{Session: resolved, Role: role, ResolvedAt: s.now().UTC()}
	if err := s.sessions.Save(ctx, sid, rec); err != nil {
		return fmt.Errorf("session store: save: %w", err)
	}

	s.log.Debug().Str("identity_id", identity.ID).Str("role", string(role)).Msg("session resolved")
	return nil
}

// mergeIdentity prefers the freshly resolved identity but keeps profile
// fields the gateway did not repeat.
func mergeIdentity(prev, next domain.Identity) domain.Identity {
	if next.FullName == "" {
		next.FullName = prev.FullName
	}
	if next.Phone == "" {
		next.Phone = prev.Phone
	}
	return next
}
