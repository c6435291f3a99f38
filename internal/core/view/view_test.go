package view

import (
	"context"
	"errors"
	"testing"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
)

var doctor = &domain.Identity{ID: "doc-1", Email: "doc@clinic.test"}

func TestLoad_NoIdentityStaysIdle(t *testing.T) {
	called := false
	res := Load(context.Background(), "patients", nil, "فشل تحميل المرضى", func(context.Context) ([]string, error) {
		called = true
		return nil, nil
	})

	if called {
		t.Fatalf("fetch must not run without an identity")
	}
	if res.State != StateIdle || res.Notice != nil {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestLoad_Ready(t *testing.T) {
	res := Load(context.Background(), "patients", doctor, "فشل تحميل المرضى", func(context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})

	if !res.Loaded() || len(res.Data) != 2 || res.Notice != nil {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestLoad_FailedCarriesNotice(t *testing.T) {
	res := Load(context.Background(), "visits", doctor, "فشل تحميل الزيارات", func(context.Context) (int, error) {
		return 0, errors.New("connection refused")
	})

	if res.State != StateFailed {
		t.Fatalf("expected failed, got %s", res.State)
	}
	if res.Notice == nil || !res.Notice.Destructive || res.Notice.Description != "فشل تحميل الزيارات" {
		t.Fatalf("unexpected notice %+v", res.Notice)
	}
}

func TestLoad_CancelledDiscardsResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	res := Load(ctx, "appointments", doctor, "فشل تحميل المواعيد", func(context.Context) ([]string, error) {
		cancel()
		return []string{"late"}, nil
	})

	if res.State != StateCancelled {
		t.Fatalf("expected cancelled, got %s", res.State)
	}
	if res.Data != nil || res.Notice != nil {
		t.Fatalf("a cancelled load must not apply data or a notice: %+v", res)
	}
}

func TestLoad_NotFoundUsesDomainMessage(t *testing.T) {
	res := Load(context.Background(), "patient", doctor, "فشل تحميل بيانات المريض", func(context.Context) (int, error) {
		return 0, domain.ErrPatientNotFound
	})
	if res.Notice == nil || res.Notice.Description != "لم يتم العثور على المريض" {
		t.Fatalf("unexpected notice %+v", res.Notice)
	}
}
