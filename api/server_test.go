package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wricardo/wandrian/game/config"
	"github.com/wricardo/wandrian/game/engine"
	"github.com/wricardo/wandrian/game/service"
	"github.com/wricardo/wandrian/game/session"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	StatusFunc      func(ctx context.Context) session.Status
	CellFunc        func(ctx context.Context, x, y int) (*engine.Cell, error)
	SteerFunc       func(ctx context.Context, direction string) (engine.Direction, error)
	TogglePauseFunc func(ctx context.Context) (session.State, error)
	StepFunc        func(ctx context.Context) (*service.StepResult, error)
	EndGameFunc     func(ctx context.Context, reason string) session.Status
	ListConfigsFunc func(ctx context.Context) ([]*config.Info, error)
	LoadConfigFunc  func(ctx context.Context, name string) (*config.GameData, error)
}

func (m *MockGameService) Status(ctx context.Context) session.Status {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx)
	}
	return session.Status{RunID: "run-1", State: session.Running, Tick: 4}
}

func (m *MockGameService) World(ctx context.Context) engine.Frame {
	return engine.Frame{Tick: 4, Width: 1, Height: 1, Cells: []engine.Cell{{Kind: "floor", Glyph: "."}}}
}

func (m *MockGameService) ASCII(ctx context.Context) string {
	return ".\n"
}

func (m *MockGameService) Cell(ctx context.Context, x, y int) (*engine.Cell, error) {
	if m.CellFunc != nil {
		return m.CellFunc(ctx, x, y)
	}
	return &engine.Cell{Position: engine.Position{X: x, Y: y}, Kind: "floor"}, nil
}

func (m *MockGameService) Steer(ctx context.Context, direction string) (engine.Direction, error) {
	if m.SteerFunc != nil {
		return m.SteerFunc(ctx, direction)
	}
	return engine.ParseDirection(direction)
}

func (m *MockGameService) TogglePause(ctx context.Context) (session.State, error) {
	if m.TogglePauseFunc != nil {
		return m.TogglePauseFunc(ctx)
	}
	return session.Paused, nil
}

func (m *MockGameService) Step(ctx context.Context) (*service.StepResult, error) {
	if m.StepFunc != nil {
		return m.StepFunc(ctx)
	}
	return &service.StepResult{Report: engine.TickReport{Tick: 5, Converged: true}}, nil
}

func (m *MockGameService) EndGame(ctx context.Context, reason string) session.Status {
	if m.EndGameFunc != nil {
		return m.EndGameFunc(ctx, reason)
	}
	return session.Status{State: session.Over, Reason: reason}
}

func (m *MockGameService) ListConfigs(ctx context.Context) ([]*config.Info, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*config.Info{{ID: "default", Name: "meadow"}}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, name string) (*config.GameData, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, name)
	}
	if name != "default" {
		return nil, config.ErrConfigNotFound
	}
	return config.Minimal(), nil
}

func setupTestServer() (*Server, *MockGameService) {
	mockService := &MockGameService{}
	return NewServer(Options{Service: mockService}), mockService
}

func doRequest(t *testing.T, s http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHandleStatus(t *testing.T) {
	server, _ := setupTestServer()

	rec := doRequest(t, server, "GET", "/api/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var st map[string]interface{}
	decode(t, rec, &st)
	if st["run_id"] != "run-1" || st["state"] != "running" || st["tick"] != float64(4) {
		t.Errorf("Unexpected status %v", st)
	}
}

func TestHandleWorld(t *testing.T) {
	server, _ := setupTestServer()

	rec := doRequest(t, server, "GET", "/api/world", "")
	var frame engine.Frame
	decode(t, rec, &frame)
	if frame.Width != 1 || len(frame.Cells) != 1 {
		t.Errorf("Unexpected frame %+v", frame)
	}

	rec = doRequest(t, server, "GET", "/api/world?format=text", "")
	if rec.Body.String() != ".\n" || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("Unexpected text response %q (%s)", rec.Body.String(), rec.Header().Get("Content-Type"))
	}
}

func TestHandleCell(t *testing.T) {
	server, mockService := setupTestServer()

	rec := doRequest(t, server, "GET", "/api/world/2/3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var cell engine.Cell
	decode(t, rec, &cell)
	if cell.Position != (engine.Position{X: 2, Y: 3}) {
		t.Errorf("Unexpected cell %+v", cell)
	}

	mockService.CellFunc = func(ctx context.Context, x, y int) (*engine.Cell, error) {
		return nil, engine.ErrOutOfBounds
	}
	rec = doRequest(t, server, "GET", "/api/world/-1/0", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	rec = doRequest(t, server, "GET", "/api/world/a/b", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected non-numeric coordinates not to route, got %d", rec.Code)
	}
}

func TestHandleSteer(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		steerErr       error
		expectedStatus int
	}{
		{"valid", `{"direction": "up"}`, nil, http.StatusOK},
		{"bad body", `{direction}`, nil, http.StatusBadRequest},
		{"bad direction", `{"direction": "north-east"}`, nil, http.StatusBadRequest},
		{"no player", `{"direction": "up"}`, service.ErrNoPlayer, http.StatusNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server, mockService := setupTestServer()
			if test.steerErr != nil {
				mockService.SteerFunc = func(ctx context.Context, direction string) (engine.Direction, error) {
					return engine.None, test.steerErr
				}
			}

			rec := doRequest(t, server, "POST", "/api/steer", test.body)
			if rec.Code != test.expectedStatus {
				t.Errorf("Expected status %d, got %d (%s)", test.expectedStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleTogglePauseAndStep(t *testing.T) {
	server, mockService := setupTestServer()

	rec := doRequest(t, server, "POST", "/api/pause", "")
	var resp map[string]string
	decode(t, rec, &resp)
	if resp["state"] != "paused" {
		t.Errorf("Expected paused, got %v", resp)
	}

	rec = doRequest(t, server, "POST", "/api/step", "")
	var result service.StepResult
	decode(t, rec, &result)
	if result.Report.Tick != 5 {
		t.Errorf("Expected tick 5, got %+v", result)
	}

	mockService.StepFunc = func(ctx context.Context) (*service.StepResult, error) {
		return nil, session.ErrNotPaused
	}
	rec = doRequest(t, server, "POST", "/api/step", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}

	mockService.TogglePauseFunc = func(ctx context.Context) (session.State, error) {
		return session.Over, session.ErrGameOver
	}
	rec = doRequest(t, server, "POST", "/api/pause", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestHandleEndGame(t *testing.T) {
	server, _ := setupTestServer()

	rec := doRequest(t, server, "POST", "/api/end", `{"reason": "bedtime"}`)
	var st map[string]interface{}
	decode(t, rec, &st)
	if st["state"] != "over" || st["reason"] != "bedtime" {
		t.Errorf("Unexpected status %v", st)
	}
}

func TestHandleConfigs(t *testing.T) {
	server, mockService := setupTestServer()

	rec := doRequest(t, server, "GET", "/api/configs", "")
	var list struct {
		Count   int            `json:"count"`
		Configs []*config.Info `json:"configs"`
	}
	decode(t, rec, &list)
	if list.Count != 1 || list.Configs[0].ID != "default" {
		t.Errorf("Unexpected list %+v", list)
	}

	rec = doRequest(t, server, "GET", "/api/configs/default", "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	rec = doRequest(t, server, "GET", "/api/configs/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}

	mockService.ListConfigsFunc = func(ctx context.Context) ([]*config.Info, error) {
		return nil, service.ErrNoConfigs
	}
	rec = doRequest(t, server, "GET", "/api/configs", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	server, _ := setupTestServer()

	rec := doRequest(t, server, "GET", "/api/step", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rec.Code)
	}
}

func TestMountedHandlers(t *testing.T) {
	ws := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	mcp := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusAccepted) })
	server := NewServer(Options{Service: &MockGameService{}, WebSocket: ws, MCP: mcp})

	if rec := doRequest(t, server, "GET", "/ws", ""); rec.Code != http.StatusTeapot {
		t.Errorf("Expected /ws to reach the hub, got %d", rec.Code)
	}
	if rec := doRequest(t, server, "POST", "/mcp", "{}"); rec.Code != http.StatusAccepted {
		t.Errorf("Expected /mcp to reach the MCP handler, got %d", rec.Code)
	}

	bare, _ := setupTestServer()
	if rec := doRequest(t, bare, "GET", "/ws", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 without a hub, got %d", rec.Code)
	}
}
