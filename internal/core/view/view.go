// Package view runs the fetch lifecycle shared by every data page.
//
// A page load moves idle → loading → ready or failed. The request context is
// the cancellation token for the page: a fetch that completes after it has
// been cancelled is discarded and the result is cancelled.
package view

import (
	"context"
	"errors"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
)

type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Notice is a toast shown to the user.
type Notice struct {
	Title       string
	Description string
	Destructive bool
}

// Result is the outcome of one page load.
type Result[T any] struct {
	View   string
	State  State
	Data   T
	Notice *Notice
	Err    error
}

// Loaded reports whether Data holds fetched content.
func (r Result[T]) Loaded() bool { return r.State == StateReady }

// Failure returns a destructive notice for a failed fetch.
func Failure(message string) *Notice {
	return &Notice{Title: "خطأ", Description: message, Destructive: true}
}

// Load runs fetch for a signed-in identity. With no identity the view stays
// idle and fetch is never called. failText is the page's localized failure
// message.
func Load[T any](ctx context.Context, name string, identity *domain.Identity, failText string, fetch func(context.Context) (T, error)) Result[T] {
	res := Result[T]{View: name, State: StateIdle}
	if identity == nil {
		return res
	}

	res.State = StateLoading
	data, err := fetch(ctx)

	if ctx.Err() != nil {
		res.State = StateCancelled
		res.Err = ctx.Err()
		return res
	}
	if err != nil {
		res.State = StateFailed
		res.Err = err
		res.Notice = Failure(failText)
		if errors.Is(err, domain.ErrPatientNotFound) {
			res.Notice = Failure(domain.Message(err, failText))
		}
		return res
	}

	res.State = StateReady
	res.Data = data
	return res
}
