package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
)

func TestSessionStore_UnknownSIDIsAnonymous(t *testing.T) {
	store := NewSessionStore(&stubAuthGateway{}, newStubRoleRepo(), newMemSessionRepo(), NewAuthEventBus(), zerolog.Nop()).Start()
	defer store.Close()

	for _, sid := range []string{"", "missing"} {
		state, err := store.Current(context.Background(), sid)
		if err != nil {
			t.Fatalf("Current(%q): %v", sid, err)
		}
		if state.Identity() != nil {
			t.Fatalf("expected anonymous state for %q", sid)
		}
	}
}

func TestSessionStore_MissingRoleIsExplicitlyUnknown(t *testing.T) {
	gw := &stubAuthGateway{users: map[string]*domain.Identity{"at": {ID: "u1", Email: "x@example.com"}}}
	bus := NewAuthEventBus()
	store := NewSessionStore(gw, newStubRoleRepo(), newMemSessionRepo(), bus, zerolog.Nop()).Start()
	defer store.Close()

	err := bus.Publish(context.Background(), ports.AuthEvent{Kind: ports.SignedIn, SID: "s", Session: &domain.Session{AccessToken: "at"}})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	state, _ := store.Current(context.Background(), "s")
	if state.Identity() == nil || state.Role != domain.RoleUnknown {
		t.Fatalf("expected identity with unknown role, got %+v", state)
	}
	if state.Role.Label() != "مستخدم" {
		t.Fatalf("unexpected label %q", state.Role.Label())
	}
}

func TestSessionStore_RoleLookupErrorDegradesToUnknown(t *testing.T) {
	gw := &stubAuthGateway{users: map[string]*domain.Identity{"at": {ID: "u1"}}}
	roles := newStubRoleRepo()
	roles.lookupErr = errors.New("timeout")
	bus := NewAuthEventBus()
	store := NewSessionStore(gw, roles, newMemSessionRepo(), bus, zerolog.Nop()).Start()
	defer store.Close()

	if err := bus.Publish(context.Background(), ports.AuthEvent{Kind: ports.SignedIn, SID: "s", Session: &domain.Session{AccessToken: "at"}}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	state, _ := store.Current(context.Background(), "s")
	if state.Session == nil || state.Role != domain.RoleUnknown {
		t.Fatalf("expected session with unknown role, got %+v", state)
	}
}

func TestSessionStore_RefreshesExpiredToken(t *testing.T) {
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	gw := &stubAuthGateway{
		users: map[string]*domain.Identity{"fresh": {ID: "u1", Email: "doc@example.com"}},
		refreshFn: func(rt string) (*domain.Session, error) {
			if rt != "rt-old" {
				t.Fatalf("unexpected refresh token %q", rt)
			}
			return &domain.Session{AccessToken: "fresh", RefreshToken: "rt-new", ExpiresAt: now.Add(time.Hour)}, nil
		},
	}
	roles := newStubRoleRepo()
	roles.roles["u1"] = domain.RoleSecretary
	sessions := newMemSessionRepo()
	_ = sessions.Save(context.Background(), "s", &ports.SessionRecord{
		Session: domain.Session{AccessToken: "stale", RefreshToken: "rt-old", ExpiresAt: now.Add(-time.Minute)},
	})

	store := NewSessionStore(gw, roles, sessions, NewAuthEventBus(), zerolog.Nop()).Start()
	store.now = func() time.Time { return now }
	defer store.Close()

	state, err := store.Current(context.Background(), "s")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if state.Token() != "fresh" || state.Role != domain.RoleSecretary {
		t.Fatalf("expected refreshed session, got %+v", state)
	}
}

func TestSessionStore_FailedRefreshSignsOut(t *testing.T) {
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	gw := &stubAuthGateway{refreshFn: func(string) (*domain.Session, error) {
		return nil, &remoteErr{status: 400, msg: "Invalid Refresh Token"}
	}}
	sessions := newMemSessionRepo()
	_ = sessions.Save(context.Background(), "s", &ports.SessionRecord{
		Session: domain.Session{AccessToken: "stale", RefreshToken: "rt", ExpiresAt: now.Add(-time.Hour)},
	})

	store := NewSessionStore(gw, newStubRoleRepo(), sessions, NewAuthEventBus(), zerolog.Nop()).Start()
	store.now = func() time.Time { return now }
	defer store.Close()

	state, err := store.Current(context.Background(), "s")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if state.Session != nil {
		t.Fatalf("expected anonymous state")
	}
	if rec, _ := sessions.Get(context.Background(), "s"); rec != nil {
		t.Fatalf("record should be deleted after a failed refresh")
	}
}

func TestSessionStore_CloseStopsObserving(t *testing.T) {
	gw := &stubAuthGateway{users: map[string]*domain.Identity{"at": {ID: "u1"}}}
	bus := NewAuthEventBus()
	sessions := newMemSessionRepo()
	store := NewSessionStore(gw, newStubRoleRepo(), sessions, bus, zerolog.Nop()).Start()
	store.Close()

	_ = bus.Publish(context.Background(), ports.AuthEvent{Kind: ports.SignedIn, SID: "s", Session: &domain.Session{AccessToken: "at"}})
	if rec, _ := sessions.Get(context.Background(), "s"); rec != nil {
		t.Fatalf("closed store must not react to events")
	}
}

func TestAuthEventBus_SubscribeAndUnsubscribe(t *testing.T) {
	bus := NewAuthEventBus()
	var seen []ports.AuthEventKind

	sub := bus.Subscribe(func(_ context.Context, e ports.AuthEvent) error {
		seen = append(seen, e.Kind)
		return nil
	})
	bus.Subscribe(func(context.Context, ports.AuthEvent) error { return errors.New("boom") })

	if err := bus.Publish(context.Background(), ports.AuthEvent{Kind: ports.SignedIn}); err == nil {
		t.Fatalf("expected joined handler error")
	}
	sub.Unsubscribe()
	sub.Unsubscribe()
	_ = bus.Publish(context.Background(), ports.AuthEvent{Kind: ports.SignedOut})

	if len(seen) != 1 || seen[0] != ports.SignedIn {
		t.Fatalf("unexpected deliveries %v", seen)
	}
}

func TestSessionStore_ForgetDeletesRecord(t *testing.T) {
	sessions := newMemSessionRepo()
	_ = sessions.Save(context.Background(), "old", &ports.SessionRecord{
		Session: domain.Session{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour)},
		Role:    domain.RoleDoctor,
	})
	store := NewSessionStore(&stubAuthGateway{}, newStubRoleRepo(), sessions, NewAuthEventBus(), zerolog.Nop()).Start()
	defer store.Close()

	if err := store.Forget(context.Background(), "old"); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	state, err := store.Current(context.Background(), "old")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if state.Identity() != nil {
		t.Fatal("expected the forgotten sid to be anonymous")
	}
	if err := store.Forget(context.Background(), ""); err != nil {
		t.Fatalf("Forget(\"\"): %v", err)
	}
}
