package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
)

// ErrNoServiceRole is returned by admin calls when no service-role key is
// configured.
var ErrNoServiceRole = errors.New("gateway: service role key not configured")

// AuthClient implements ports.AuthGateway against GoTrue.
type AuthClient struct {
	c   *Client
	now func() time.Time
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c, now: time.Now}
}

var _ ports.AuthGateway = (*AuthClient)(nil)

type userMetadata struct {
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type userBody struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	UserMetadata userMetadata `json:"user_metadata"`
}

type sessionBody struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at"`
	User         *userBody `json:"user"`
}

// signUpBody is either a session (autoconfirm on) or a bare user.
type signUpBody struct {
	sessionBody
	userBody
}

type signUpRequest struct {
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Data     userMetadata `json:"data"`
}

func (a *AuthClient) SignUp(ctx context.Context, in ports.SignUpInput) (*ports.SignUpResult, error) {
	var body signUpBody
	req := a.c.request(ctx, "auth.sign_up", "").
		SetBody(signUpRequest{
			Email:    in.Email,
			Password: in.Password,
			Data:     userMetadata{FullName: in.FullName, Phone: in.Phone},
		}).
		SetResult(&body)
	if _, err := a.c.send(req, http.MethodPost, "/auth/v1/signup"); err != nil {
		return nil, err
	}

	res := &ports.SignUpResult{}
	switch {
	case body.AccessToken != "":
		res.Session = a.toSession(&body.sessionBody)
		res.Identity = &res.Session.Identity
	case body.userBody.ID != "":
		identity := toIdentity(&body.userBody)
		res.Identity = &identity
	}
	return res, nil
}

func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	var body sessionBody
	req := a.c.request(ctx, "auth.sign_in", "").
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&body)
	if _, err := a.c.send(req, http.MethodPost, "/auth/v1/token"); err != nil {
		return nil, err
	}
	return a.toSession(&body), nil
}

func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	var body sessionBody
	req := a.c.request(ctx, "auth.refresh", "").
		SetQueryParam("grant_type", "refresh_token").
		SetBody(map[string]string{"refresh_token": refreshToken}).
		SetResult(&body)
	if _, err := a.c.send(req, http.MethodPost, "/auth/v1/token"); err != nil {
		return nil, err
	}
	return a.toSession(&body), nil
}

func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	_, err := a.c.send(a.c.request(ctx, "auth.sign_out", accessToken), http.MethodPost, "/auth/v1/logout")
	return err
}

// User resolves the identity behind accessToken. With a JWT secret configured
// the token is verified locally; otherwise GoTrue is asked.
func (a *AuthClient) User(ctx context.Context, accessToken string) (*domain.Identity, error) {
	if a.c.cfg.JWTSecret != "" {
		return a.verify(accessToken)
	}

	var body userBody
	req := a.c.request(ctx, "auth.user", accessToken).SetResult(&body)
	if _, err := a.c.send(req, http.MethodGet, "/auth/v1/user"); err != nil {
		return nil, err
	}
	identity := toIdentity(&body)
	return &identity, nil
}

func (a *AuthClient) DeleteUser(ctx context.Context, id string) error {
	key := a.c.cfg.ServiceRoleKey
	if key == "" {
		return ErrNoServiceRole
	}
	req := a.c.request(ctx, "auth.admin_delete_user", key).
		SetHeader("apikey", key).
		SetPathParam("id", id)
	_, err := a.c.send(req, http.MethodDelete, "/auth/v1/admin/users/{id}")
	return err
}

// Ping checks that GoTrue is answering.
func (a *AuthClient) Ping(ctx context.Context) error {
	_, err := a.c.send(a.c.request(ctx, "auth.health", ""), http.MethodGet, "/auth/v1/health")
	return err
}

// ── tokens ────────────────────────────────────────────────────────────────────

type accessClaims struct {
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	UserMetadata userMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

func (a *AuthClient) verify(token string) (*domain.Identity, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(a.c.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, &Error{Status: http.StatusUnauthorized, Code: "bad_jwt", Message: fmt.Sprintf("invalid JWT: %v", err)}
	}
	if claims.Subject == "" {
		return nil, &Error{Status: http.StatusUnauthorized, Code: "bad_jwt", Message: "invalid JWT: missing sub claim"}
	}
	return &domain.Identity{
		ID:       claims.Subject,
		Email:    claims.Email,
		FullName: claims.UserMetadata.FullName,
		Phone:    firstNonEmpty(claims.UserMetadata.Phone, claims.Phone),
	}, nil
}

// expiry reads the exp claim without verifying the signature. The token is
// only inspected to schedule a refresh; the gateway still validates it.
func expiry(token string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func (a *AuthClient) toSession(b *sessionBody) *domain.Session {
	s := &domain.Session{AccessToken: b.AccessToken, RefreshToken: b.RefreshToken}
	switch exp, ok := expiry(b.AccessToken); {
	case ok:
		s.ExpiresAt = exp
	case b.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(b.ExpiresAt, 0)
	case b.ExpiresIn > 0:
		s.ExpiresAt = a.now().Add(time.Duration(b.ExpiresIn) * time.Second)
	}
	if b.User != nil {
		s.Identity = toIdentity(b.User)
	}
	return s
}

func toIdentity(u *userBody) domain.Identity {
	return domain.Identity{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.UserMetadata.FullName,
		Phone:    firstNonEmpty(u.UserMetadata.Phone, u.Phone),
	}
}
