package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		redisErr   error
		wantStatus int
		wantBody   string
	}{
		{"all healthy", nil, http.StatusOK, `"status":"ok"`},
		{"redis down", errors.New("dial tcp: refused"), http.StatusServiceUnavailable, `"status":"degraded"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(map[string]func(context.Context) error{
				"mongo": func(context.Context) error { return nil },
				"redis": func(context.Context) error { return tc.redisErr },
			})
			c, rec := newContext(http.MethodGet, "/health/ready", nil, nil)
			if err := h.Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantStatus {
				t.Errorf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tc.wantBody) {
				t.Errorf("body %s missing %s", rec.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler(nil)
	c, rec := newContext(http.MethodGet, "/health", nil, nil)
	if err := h.Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
