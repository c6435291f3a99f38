// Package gateway talks to the managed backend: GoTrue for authentication
// and PostgREST for table access.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings for reaching the gateway.
type Config struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	// JWTSecret enables local verification of access tokens. When empty,
	// identities are resolved with a round trip to /auth/v1/user.
	JWTSecret string
	Timeout   time.Duration
	// Observe receives one sample per call. Status is 0 for transport failures.
	Observe Observer
}

// Observer records the outcome of a gateway call.
type Observer func(operation string, status int, d time.Duration)

// Client is the shared HTTP transport for the auth and data APIs.
type Client struct {
	http *resty.Client
	cfg  Config
	log  zerolog.Logger
}

type operationKey struct{}

// New builds a client. Every request carries the apikey header; the bearer
// defaults to the anon key.
func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	observe := cfg.Observe
	if observe == nil {
		observe = func(string, int, time.Duration) {}
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetTimeout(timeout).
		SetHeader("apikey", cfg.AnonKey).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	rc.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		observe(operation(resp.Request), resp.StatusCode(), resp.Time())
		return nil
	})
	rc.OnError(func(req *resty.Request, err error) {
		// A response that reached OnAfterResponse is already counted.
		var re *resty.ResponseError
		if errors.As(err, &re) && re.Response != nil && re.Response.RawResponse != nil {
			return
		}
		observe(operation(req), 0, 0)
	})

	return &Client{http: rc, cfg: cfg, log: log}
}

// request starts a call on behalf of token. An empty token sends the anon key.
func (c *Client) request(ctx context.Context, op, token string) *resty.Request {
	if token == "" {
		token = c.cfg.AnonKey
	}
	return c.http.R().
		SetContext(context.WithValue(ctx, operationKey{}, op)).
		SetAuthToken(token)
}

// send executes req and converts non-2xx answers into *Error.
func (c *Client) send(req *resty.Request, method, path string) (*resty.Response, error) {
	op := operation(req)
	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Error().Err(err).Str("operation", op).Msg("gateway call failed")
		return nil, fmt.Errorf("gateway %s: %w", op, err)
	}
	if resp.IsError() {
		gerr := decodeError(resp)
		c.log.Warn().
			Str("operation", op).
			Int("status", gerr.Status).
			Str("code", gerr.Code).
			Str("message", gerr.Message).
			Msg("gateway returned error")
		return resp, gerr
	}
	return resp, nil
}

func operation(req *resty.Request) string {
	if req == nil {
		return "unknown"
	}
	if op, ok := req.Context().Value(operationKey{}).(string); ok {
		return op
	}
	return "unknown"
}

// Error is a non-2xx gateway answer.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("gateway: %d: %s", e.Status, e.Message)
}

// RemoteMessage returns the gateway's own message text.
func (e *Error) RemoteMessage() string { return e.Message }

// errorBody covers both GoTrue and PostgREST error shapes.
type errorBody struct {
	Msg              string          `json:"msg"`
	ErrorDescription string          `json:"error_description"`
	Message          string          `json:"message"`
	Error            string          `json:"error"`
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
}

func decodeError(resp *resty.Response) *Error {
	gerr := &Error{Status: resp.StatusCode()}

	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		gerr.Message = http.StatusText(resp.StatusCode())
		return gerr
	}

	gerr.Message = firstNonEmpty(body.Msg, body.ErrorDescription, body.Message, body.Error, http.StatusText(resp.StatusCode()))
	gerr.Code = body.ErrorCode
	if gerr.Code == "" && len(body.Code) > 0 {
		gerr.Code = strings.Trim(string(body.Code), `"`)
	}
	return gerr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
