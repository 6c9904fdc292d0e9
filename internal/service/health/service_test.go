package health

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

func TestReady(t *testing.T) {
	tests := []struct {
		name      string
		running   bool
		breaker   gobreaker.State
		wantReady bool
		want      Status
	}{
		{"all healthy", true, gobreaker.StateClosed, true, StatusHealthy},
		{"breaker open degrades", true, gobreaker.StateOpen, true, StatusDegraded},
		{"simulation stopped", false, gobreaker.StateClosed, false, StatusUnhealthy},
		{"stopped wins over degraded", false, gobreaker.StateHalfOpen, false, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			s := NewService("test", zap.NewNop())
			s.RegisterChecker("simulation", RunningChecker(func() bool { return tt.running }))
			s.RegisterChecker("mirror", BreakerChecker(func() gobreaker.State { return tt.breaker }))

			// Act
			resp := s.Ready(context.Background())

			// Assert
			if resp.Ready != tt.wantReady || resp.Status != tt.want {
				t.Errorf("expected ready=%v status=%s, got ready=%v status=%s", tt.wantReady, tt.want, resp.Ready, resp.Status)
			}
			if len(resp.Checks) != 2 || resp.Checks["simulation"].Name != "simulation" {
				t.Errorf("unexpected checks %+v", resp.Checks)
			}
		})
	}
}

func TestReady_NoCheckers(t *testing.T) {
	resp := NewService("test", zap.NewNop()).Ready(context.Background())

	if !resp.Ready || resp.Status != StatusHealthy {
		t.Errorf("expected ready with no checkers, got %+v", resp)
	}
}

func TestFiberHandler(t *testing.T) {
	// Arrange
	var running atomic.Bool
	s := NewService("1.2.3", zap.NewNop())
	s.RegisterChecker("simulation", RunningChecker(running.Load))
	app := fiber.New()
	NewFiberHandler(s).RegisterRoutes(app)

	get := func(path string) (int, map[string]any) {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		var out map[string]any
		json.Unmarshal(body, &out)
		return resp.StatusCode, out
	}

	// Act / Assert
	if code, body := get("/health/live"); code != fiber.StatusOK || body["version"] != "1.2.3" {
		t.Errorf("expected live 200 with version, got %d %v", code, body)
	}
	if code, _ := get("/health/ready"); code != fiber.StatusServiceUnavailable {
		t.Errorf("expected 503 while stopped, got %d", code)
	}

	running.Store(true)
	if code, body := get("/readyz"); code != fiber.StatusOK || body["ready"] != true {
		t.Errorf("expected 200 once running, got %d %v", code, body)
	}
}
