package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestChecker_Liveness(t *testing.T) {
	c := New(0)

	status := c.Liveness(context.Background())
	if status.Status != "ok" {
		t.Errorf("expected ok, got %q", status.Status)
	}
}

func TestChecker_ReadinessAllHealthy(t *testing.T) {
	c := New(time.Second)
	c.Register("storage", func(ctx context.Context) error { return nil })
	c.Register("catalog", func(ctx context.Context) error { return nil })

	status := c.Readiness(context.Background())
	if status.Status != "ready" {
		t.Errorf("expected ready, got %q", status.Status)
	}
	if len(status.Checks) != 2 {
		t.Errorf("expected 2 checks, got %d", len(status.Checks))
	}
}

func TestChecker_ReadinessDegraded(t *testing.T) {
	c := New(time.Second)
	c.Register("storage", func(ctx context.Context) error { return errors.New("disk gone") })
	c.Register("catalog", func(ctx context.Context) error { return nil })

	status := c.Readiness(context.Background())
	if status.Status != "degraded" {
		t.Errorf("expected degraded, got %q", status.Status)
	}
	if status.Checks["storage"].Message != "disk gone" {
		t.Errorf("expected failure detail, got %+v", status.Checks["storage"])
	}
	if status.Checks["catalog"].Status != "ok" {
		t.Errorf("healthy component must stay ok, got %+v", status.Checks["catalog"])
	}
}

func TestChecker_ReadinessTimeout(t *testing.T) {
	c := New(20 * time.Millisecond)
	c.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	status := c.Readiness(context.Background())
	if status.Status != "degraded" {
		t.Errorf("expected degraded on timeout, got %q", status.Status)
	}
}

func TestReadinessHandler_StatusCodes(t *testing.T) {
	c := New(time.Second)
	handler := c.ReadinessHandler()

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 when ready, got %d", rec.Code)
	}

	c.Register("storage", func(ctx context.Context) error { return errors.New("down") })
	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when degraded, got %d", rec.Code)
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler("1.2.3", "abc123")(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("expected JSON body: %v", err)
	}
	if info.Version != "1.2.3" || info.Commit != "abc123" {
		t.Errorf("unexpected version info: %+v", info)
	}
}

func TestHandlers_RejectNonGet(t *testing.T) {
	c := New(time.Second)

	rec := httptest.NewRecorder()
	c.LivenessHandler()(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
