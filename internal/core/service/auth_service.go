package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
)

// Raw gateway messages with their own localized text.
const (
	gatewayInvalidCredentials = "Invalid login credentials"
	gatewayUserExists         = "User already registered"
)

// AuthService implements registration, login and logout against the gateway
// and announces the resulting auth-state changes.
type AuthService struct {
	gateway ports.AuthGateway
	roles   ports.RoleRepository
	events  ports.AuthEvents
	audit   ports.AuditRepository
	now     func() time.Time
	log     zerolog.Logger
}

func NewAuthService(
	gateway ports.AuthGateway,
	roles ports.RoleRepository,
	events ports.AuthEvents,
	audit ports.AuditRepository,
	log zerolog.Logger,
) *AuthService {
	if audit == nil {
		audit = nopAudit{}
	}
	return &AuthService{gateway: gateway, roles: roles, events: events, audit: audit, now: time.Now, log: log}
}

// Register creates the identity and assigns its role as one unit. When the
// role insert fails the identity is deleted again and ErrRoleAssignment is
// returned.
func (s *AuthService) Register(ctx context.Context, sid string, in ports.RegisterInput) error {
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateInput(in, registerMessages); err != nil {
		return err
	}

	res, err := s.gateway.SignUp(ctx, ports.SignUpInput{
		Email:    in.Email,
		Password: in.Password,
		FullName: in.FullName,
		Phone:    in.Phone,
	})
	if err != nil {
		return matchRemote(err, gatewayUserExists, domain.ErrUserExists)
	}
	if res == nil || res.Identity == nil || res.Identity.ID == "" {
		return domain.ErrAccountCreation
	}

	token := ""
	if res.Session != nil {
		token = res.Session.AccessToken
	}
	if err := s.roles.Assign(ctx, token, res.Identity.ID, domain.Role(in.Role)); err != nil {
		s.log.Error().Err(err).Str("identity_id", res.Identity.ID).Msg("role assignment failed")
		s.compensate(ctx, res.Identity)
		return fmt.Errorf("%w: %v", domain.ErrRoleAssignment, err)
	}

	s.record(ctx, domain.AuditRegistrationCompleted, res.Identity.ID, res.Identity.Email, in.Role)
	s.log.Info().Str("identity_id", res.Identity.ID).Str("role", in.Role).Msg("account registered")

	if res.Session == nil || sid == "" {
		return nil
	}
	// The account is complete at this point; a failed session save only
	// means the user has to sign in by hand.
	if err := s.events.Publish(ctx, ports.AuthEvent{Kind: ports.SignedIn, SID: sid, Session: res.Session}); err != nil {
		s.log.Warn().Err(err).Str("identity_id", res.Identity.ID).Msg("could not start session after registration")
	}
	return nil
}

// compensate removes an identity left without a role. It runs detached from
// the request so a disconnecting client cannot interrupt it.
func (s *AuthService) compensate(ctx context.Context, identity *domain.Identity) {
	ctx = context.WithoutCancel(ctx)
	if err := s.gateway.DeleteUser(ctx, identity.ID); err != nil {
		s.log.Error().Err(err).Str("identity_id", identity.ID).Msg("compensation failed, identity left without role")
		s.record(ctx, domain.AuditRegistrationOrphaned, identity.ID, identity.Email, err.Error())
		return
	}
	s.log.Info().Str("identity_id", identity.ID).Msg("identity removed after role assignment failure")
	s.record(ctx, domain.AuditRegistrationCompensated, identity.ID, identity.Email, "")
}

// Login signs in with email and password and starts the browser session.
func (s *AuthService) Login(ctx context.Context, sid string, in ports.LoginInput) error {
	in.Email = strings.TrimSpace(in.Email)
	if err := validateInput(in, loginMessages); err != nil {
		return err
	}

	session, err := s.gateway.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		return matchRemote(err, gatewayInvalidCredentials, domain.ErrInvalidCredentials)
	}

	if err := s.events.Publish(ctx, ports.AuthEvent{Kind: ports.SignedIn, SID: sid, Session: session}); err != nil {
		return fmt.Errorf("login: start session: %w", err)
	}

	s.log.Info().Str("identity_id", session.Identity.ID).Msg("signed in")
	return nil
}

// Logout revokes the session at the gateway, then ends the browser session.
func (s *AuthService) Logout(ctx context.Context, sid string, session *domain.Session) error {
	if session == nil {
		return domain.ErrUnauthenticated
	}
	if err := s.gateway.SignOut(ctx, session.AccessToken); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if err := s.events.Publish(ctx, ports.AuthEvent{Kind: ports.SignedOut, SID: sid}); err != nil {
		return fmt.Errorf("logout: end session: %w", err)
	}

	s.log.Info().Str("identity_id", session.Identity.ID).Msg("signed out")
	return nil
}

func (s *AuthService) record(ctx context.Context, action, actor, subject, detail string) {
	err := s.audit.Record(ctx, domain.AuditEvent{
		Action:  action,
		ActorID: actor,
		Subject: subject,
		Detail:  detail,
		At:      s.now().UTC(),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("failed to write audit event")
	}
}

// matchRemote turns a gateway error whose raw message equals raw into
// sentinel, keeping the original error in the chain.
func matchRemote(err error, raw string, sentinel error) error {
	var re domain.RemoteError
	if errors.As(err, &re) && re.RemoteMessage() == raw {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}

type nopAudit struct{}

func (nopAudit) Record(context.Context, domain.AuditEvent) error { return nil }
