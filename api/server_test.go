package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/gobblet/game/engine"
	"github.com/wricardo/mcp-training/gobblet/game/service"
	"github.com/wricardo/mcp-training/gobblet/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Game Operations
	MoveFunc     func(ctx context.Context, sessionID string, move engine.MoveRequest, reset bool) (*service.MoveResult, error)
	BulkMoveFunc func(ctx context.Context, sessionID string, moves []engine.MoveRequest, reset bool) (*service.BulkMoveResult, error)
	ResetFunc    func(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameStateFunc   func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.GameConfig) error
}

func (m *MockGameService) CreateSession(ctx context.Context, configName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName)
	}
	return &service.SessionInfo{
		ID:         "test-session",
		ConfigName: configName,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "classic",
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockGameService) Move(ctx context.Context, sessionID string, move engine.MoveRequest, reset bool) (*service.MoveResult, error) {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, sessionID, move, reset)
	}
	return &service.MoveResult{
		Success:   true,
		GameState: &engine.GameState{},
	}, nil
}

func (m *MockGameService) BulkMove(ctx context.Context, sessionID string, moves []engine.MoveRequest, reset bool) (*service.BulkMoveResult, error) {
	if m.BulkMoveFunc != nil {
		return m.BulkMoveFunc(ctx, sessionID, moves, reset)
	}
	return &service.BulkMoveResult{
		Success:   true,
		GameState: &engine.GameState{},
	}, nil
}

func (m *MockGameService) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetMoveHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetMoveHistoryFunc != nil {
		return m.GetMoveHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Moves:      []engine.MoveHistoryEntry{},
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	config := engine.DefaultGameConfig()
	config.Name = configName
	return config, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

// Test helpers
func setupTestServer(mockService *MockGameService) *Server {
	return NewServer(mockService, websocket.NewHub(nil), nil)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	switch b := body.(type) {
	case nil:
	case string:
		bodyBytes = []byte(b)
	default:
		bodyBytes, _ = json.Marshal(b)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func serve(server *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func notFound(ctx context.Context, sessionID string) (*engine.GameState, error) {
	return nil, fmt.Errorf("%w: %s", service.ErrSessionNotFound, sessionID)
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default config",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "" {
						t.Errorf("Expected empty config name, got %s", configName)
					}
					return &service.SessionInfo{ID: "sess-123", ConfigName: "classic"}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "sess-123" {
					t.Errorf("Expected session ID sess-123, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with config_id",
			requestBody: map[string]string{"config_id": "tiered"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return &service.SessionInfo{ID: "sess-456", ConfigName: configName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ConfigName != "tiered" {
					t.Errorf("Expected config name 'tiered', got %s", resp.ConfigName)
				}
			},
		},
		{
			name:        "Create session with deprecated config_name",
			requestBody: map[string]string{"config_name": "mirrored"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return &service.SessionInfo{ID: "sess-789", ConfigName: configName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ConfigName != "mirrored" {
					t.Errorf("Expected config name 'mirrored', got %s", resp.ConfigName)
				}
			},
		},
		{
			name:        "Unknown config",
			requestBody: map[string]string{"config_id": "nope"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: '%s'", service.ErrConfigNotFound, configName)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "Handle service error",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("Expected error message 'service error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			w := serve(setupTestServer(mockService), makeRequest("POST", "/api/sessions", tt.requestBody))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	mockService := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now.Add(-time.Hour)},
				{ID: "new", CreatedAt: now.Add(-time.Hour), LastAccessedAt: now.Add(-2 * time.Hour)},
				{ID: "mid", CreatedAt: now.Add(-90 * time.Minute), LastAccessedAt: now},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	tests := []struct {
		name      string
		query     string
		wantOrder []string
		wantSort  string
		wantOrd   string
	}{
		{"default sorts by access desc", "", []string{"mid", "old", "new"}, "accessed", "desc"},
		{"created asc", "?sort=created&order=asc", []string{"old", "mid", "new"}, "created", "asc"},
		{"limit", "?sort=created&limit=1", []string{"new"}, "created", "desc"},
		{"bad values fall back", "?sort=bogus&order=sideways&limit=x", []string{"mid", "old", "new"}, "accessed", "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(server, makeRequest("GET", "/api/sessions"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
				Sort     string                 `json:"sort"`
				Order    string                 `json:"order"`
			}
			parseResponse(t, w, &resp)

			if resp.Total != 3 {
				t.Errorf("Expected total 3, got %d", resp.Total)
			}
			if resp.Count != len(tt.wantOrder) {
				t.Errorf("Expected count %d, got %d", len(tt.wantOrder), resp.Count)
			}
			for i, id := range tt.wantOrder {
				if i >= len(resp.Sessions) || resp.Sessions[i].ID != id {
					t.Errorf("Expected session %d to be %s, got %+v", i, id, resp.Sessions)
					break
				}
			}
			if resp.Sort != tt.wantSort || resp.Order != tt.wantOrd {
				t.Errorf("Expected sort=%s order=%s, got sort=%s order=%s", tt.wantSort, tt.wantOrd, resp.Sort, resp.Order)
			}
		})
	}

	t.Run("service error", func(t *testing.T) {
		failing := &MockGameService{
			ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
				return nil, fmt.Errorf("database error")
			},
		}
		w := serve(setupTestServer(failing), makeRequest("GET", "/api/sessions", nil))
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected status 500, got %d", w.Code)
		}
	})
}

func TestGetAndDeleteSession(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID != "sess-1" {
				return nil, fmt.Errorf("%w: %s", service.ErrSessionNotFound, sessionID)
			}
			return &service.SessionInfo{ID: sessionID, ConfigName: "classic"}, nil
		},
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID != "sess-1" {
				return service.ErrSessionNotFound
			}
			return nil
		},
	}
	server := setupTestServer(mockService)

	if w := serve(server, makeRequest("GET", "/api/sessions/sess-1", nil)); w.Code != http.StatusOK {
		t.Errorf("GET existing session: expected 200, got %d", w.Code)
	}
	if w := serve(server, makeRequest("GET", "/api/sessions/missing", nil)); w.Code != http.StatusNotFound {
		t.Errorf("GET missing session: expected 404, got %d", w.Code)
	}

	w := serve(server, makeRequest("DELETE", "/api/sessions/sess-1", nil))
	if w.Code != http.StatusOK {
		t.Errorf("DELETE existing session: expected 200, got %d", w.Code)
	}
	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["message"] != "Session sess-1 deleted" {
		t.Errorf("Unexpected delete message: %s", resp["message"])
	}

	if w := serve(server, makeRequest("DELETE", "/api/sessions/missing", nil)); w.Code != http.StatusNotFound {
		t.Errorf("DELETE missing session: expected 404, got %d", w.Code)
	}
}

// Game Operation Tests

func TestMove(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "Reserve move",
			body: `{"reserve": 2, "to": {"x": 1, "y": 1}}`,
			setupMock: func(m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID string, move engine.MoveRequest, reset bool) (*service.MoveResult, error) {
					if move.Reserve == nil || *move.Reserve != 2 || move.From != nil {
						t.Errorf("Expected reserve 2 source, got %+v", move)
					}
					if move.To != (engine.Point{X: 1, Y: 1}) {
						t.Errorf("Expected target (1,1), got %s", move.To)
					}
					if reset {
						t.Error("Expected reset false")
					}
					return &service.MoveResult{
						Success:   true,
						GameState: &engine.GameState{HexSnapshot: "0x40000000", Turn: engine.White},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.MoveResult
				parseResponse(t, w, &resp)
				if !resp.Success || resp.GameState.HexSnapshot != "0x40000000" {
					t.Errorf("Unexpected move result: %+v", resp)
				}
			},
		},
		{
			name: "Grid move with reset",
			body: `{"from": {"x": 1, "y": 1}, "to": {"x": 2, "y": 2}, "reset": true}`,
			setupMock: func(m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID string, move engine.MoveRequest, reset bool) (*service.MoveResult, error) {
					if move.From == nil || *move.From != (engine.Point{X: 1, Y: 1}) {
						t.Errorf("Expected grid source (1,1), got %+v", move)
					}
					if !reset {
						t.Error("Expected reset true")
					}
					return &service.MoveResult{Success: true, GameState: &engine.GameState{}}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Rejected move is still 200",
			body: `{"reserve": 3, "to": {"x": 1, "y": 1}}`,
			setupMock: func(m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID string, move engine.MoveRequest, reset bool) (*service.MoveResult, error) {
					return &service.MoveResult{
						Success:       false,
						RejectionCode: service.RejectNotYourTurn,
						GameState:     &engine.GameState{},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.MoveResult
				parseResponse(t, w, &resp)
				if resp.Success || resp.RejectionCode != service.RejectNotYourTurn {
					t.Errorf("Expected not_your_turn rejection, got %+v", resp)
				}
			},
		},
		{
			name:           "Missing source",
			body:           `{"to": {"x": 1, "y": 1}}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Both sources",
			body:           `{"from": {"x": 1, "y": 1}, "reserve": 0, "to": {"x": 1, "y": 2}}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid JSON",
			body:           `{"reserve":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Session not found",
			body: `{"reserve": 0, "to": {"x": 1, "y": 1}}`,
			setupMock: func(m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID string, move engine.MoveRequest, reset bool) (*service.MoveResult, error) {
					return nil, service.ErrSessionNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			w := serve(setupTestServer(mockService), makeRequest("POST", "/api/sessions/sess-1/move", tt.body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestBulkMove(t *testing.T) {
	t.Run("passes moves through", func(t *testing.T) {
		winner := engine.Black
		mockService := &MockGameService{
			BulkMoveFunc: func(ctx context.Context, sessionID string, moves []engine.MoveRequest, reset bool) (*service.BulkMoveResult, error) {
				if len(moves) != 2 {
					t.Fatalf("Expected 2 moves, got %d", len(moves))
				}
				if moves[0].Reserve == nil || moves[1].From == nil {
					t.Errorf("Unexpected moves: %+v", moves)
				}
				return &service.BulkMoveResult{
					MovesExecuted:  2,
					RequestedMoves: 2,
					Success:        true,
					GameState:      &engine.GameState{GameOver: true, Winner: &winner},
					GameOver:       true,
					Winner:         &winner,
					StopReasonCode: "victory",
				}, nil
			},
		}

		body := `{"moves": [{"reserve": 2, "to": {"x": 1, "y": 1}}, {"from": {"x": 1, "y": 1}, "to": {"x": 2, "y": 1}}]}`
		w := serve(setupTestServer(mockService), makeRequest("POST", "/api/sessions/sess-1/bulk-move", body))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var resp service.BulkMoveResult
		parseResponse(t, w, &resp)
		if resp.MovesExecuted != 2 || resp.StopReasonCode != "victory" {
			t.Errorf("Unexpected bulk result: %+v", resp)
		}
		if resp.Winner == nil || *resp.Winner != engine.Black {
			t.Errorf("Expected BLACK winner, got %v", resp.Winner)
		}
	})

	t.Run("empty moves", func(t *testing.T) {
		w := serve(setupTestServer(&MockGameService{}), makeRequest("POST", "/api/sessions/sess-1/bulk-move", `{"moves": []}`))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		w := serve(setupTestServer(&MockGameService{}), makeRequest("POST", "/api/sessions/sess-1/bulk-move", `not json`))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestResetAndState(t *testing.T) {
	mockService := &MockGameService{
		ResetFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			if sessionID != "sess-1" {
				return nil, service.ErrSessionNotFound
			}
			return engine.NewEngineWithDefaults().GetState(), nil
		},
		GetGameStateFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			if sessionID != "sess-1" {
				return notFound(ctx, sessionID)
			}
			game := engine.NewEngineWithDefaults()
			game.Apply(engine.ReserveMove(2, engine.Point{X: 1, Y: 1}))
			return game.GetState(), nil
		},
	}
	server := setupTestServer(mockService)

	w := serve(server, makeRequest("POST", "/api/sessions/sess-1/reset", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Reset: expected 200, got %d", w.Code)
	}
	var resetResp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	parseResponse(t, w, &resetResp)
	if resetResp.State == nil || resetResp.State.HexSnapshot != "0x00000000" {
		t.Errorf("Expected empty board after reset, got %+v", resetResp.State)
	}

	if w := serve(server, makeRequest("POST", "/api/sessions/missing/reset", nil)); w.Code != http.StatusNotFound {
		t.Errorf("Reset missing: expected 404, got %d", w.Code)
	}

	w = serve(server, makeRequest("GET", "/api/sessions/sess-1/state", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("State: expected 200, got %d", w.Code)
	}
	var state engine.GameState
	parseResponse(t, w, &state)
	if state.HexSnapshot != "0x40000000" || state.Turn != engine.White {
		t.Errorf("Unexpected state: %s turn %s", state.HexSnapshot, state.Turn)
	}

	w = serve(server, makeRequest("GET", "/api/sessions/sess-1/board", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Board: expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "B12") {
		t.Errorf("Expected B12 on rendered board, got:\n%s", w.Body.String())
	}

	if w := serve(server, makeRequest("GET", "/api/sessions/missing/state", nil)); w.Code != http.StatusNotFound {
		t.Errorf("State missing: expected 404, got %d", w.Code)
	}
}

func TestGetHistory(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantOpts service.HistoryOptions
	}{
		{"defaults", "", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
		{"explicit", "?page=2&limit=5&order=asc", service.HistoryOptions{Page: 2, Limit: 5, Order: "asc"}},
		{"invalid values ignored", "?page=-1&limit=abc&order=random", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got service.HistoryOptions
			mockService := &MockGameService{
				GetMoveHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
					got = opts
					return &service.HistoryResponse{Moves: []engine.MoveHistoryEntry{}, Page: opts.Page, PageSize: opts.Limit}, nil
				},
			}

			w := serve(setupTestServer(mockService), makeRequest("GET", "/api/sessions/sess-1/history"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			if got != tt.wantOpts {
				t.Errorf("Expected options %+v, got %+v", tt.wantOpts, got)
			}
		})
	}
}

// Configuration Tests

func TestConfigs(t *testing.T) {
	var saved *engine.GameConfig
	var savedName string
	mockService := &MockGameService{
		ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			return []*service.ConfigInfo{
				{Filename: "classic.json", ConfigID: "classic", Name: "classic", FirstTurn: engine.Black},
				{Filename: "mirrored.json", ConfigID: "mirrored", Name: "mirrored", FirstTurn: engine.White},
			}, nil
		},
		LoadConfigFunc: func(ctx context.Context, configName string) (*engine.GameConfig, error) {
			if configName != "classic" {
				return nil, service.ErrConfigNotFound
			}
			return engine.DefaultGameConfig(), nil
		},
		SaveConfigFunc: func(ctx context.Context, configName string, config *engine.GameConfig) error {
			savedName = configName
			saved = config
			return nil
		},
	}
	server := setupTestServer(mockService)

	t.Run("list", func(t *testing.T) {
		w := serve(server, makeRequest("GET", "/api/configs", nil))
		var configs []service.ConfigInfo
		parseResponse(t, w, &configs)
		if len(configs) != 2 || configs[1].FirstTurn != engine.White {
			t.Errorf("Unexpected configs: %+v", configs)
		}
	})

	t.Run("get", func(t *testing.T) {
		w := serve(server, makeRequest("GET", "/api/configs/classic", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		var config engine.GameConfig
		parseResponse(t, w, &config)
		if len(config.Reserves.Black) != engine.ReserveStacksPerColor {
			t.Errorf("Expected 3 black reserve stacks, got %d", len(config.Reserves.Black))
		}

		if w := serve(server, makeRequest("GET", "/api/configs/missing", nil)); w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})

	t.Run("create", func(t *testing.T) {
		config := engine.DefaultGameConfig()
		config.Name = "Custom Game"
		body := map[string]interface{}{
			"config_id":   "custom",
			"name":        config.Name,
			"description": config.Description,
			"first_turn":  "white",
			"reserves":    config.Reserves,
			"messages":    config.Messages,
		}

		w := serve(server, makeRequest("POST", "/api/configs", body))
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
		}
		if savedName != "custom" || saved == nil || saved.FirstTurn != engine.White {
			t.Errorf("Unexpected saved config %s: %+v", savedName, saved)
		}
	})

	t.Run("create invalid", func(t *testing.T) {
		config := engine.DefaultGameConfig()
		config.Reserves.Black[0] = []int{1, 2, 3}
		w := serve(server, makeRequest("POST", "/api/configs", config))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}

		w = serve(server, makeRequest("POST", "/api/configs", map[string]string{"description": "no name"}))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for missing name, got %d", w.Code)
		}
	})
}

func TestUnifiedSessions(t *testing.T) {
	black, white := engine.Black, engine.White
	mockService := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "a", ConfigName: "classic", GameState: &engine.GameState{Winner: &black, GameOver: true}},
				{ID: "b", ConfigName: "classic", GameState: &engine.GameState{}},
				{ID: "c", ConfigName: "tiered", GameState: &engine.GameState{Winner: &white, GameOver: true}},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	var resp struct {
		Count    int            `json:"count"`
		Finished int            `json:"finished"`
		Wins     map[string]int `json:"wins"`
	}

	w := serve(server, makeRequest("GET", "/api/sessions/unified", nil))
	parseResponse(t, w, &resp)
	if resp.Count != 3 || resp.Finished != 2 || resp.Wins["BLACK"] != 1 || resp.Wins["WHITE"] != 1 {
		t.Errorf("Unexpected unified summary: %+v", resp)
	}

	w = serve(server, makeRequest("GET", "/api/sessions/unified?configName=classic", nil))
	parseResponse(t, w, &resp)
	if resp.Count != 2 || resp.Finished != 1 {
		t.Errorf("Unexpected filtered summary: %+v", resp)
	}

	w = serve(server, makeRequest("GET", "/api/sessions/unified?sessionIds=x,,y", nil))
	parseResponse(t, w, &resp)
	if resp.Count != 2 {
		t.Errorf("Expected 2 sessions by id, got %d", resp.Count)
	}
}

func TestHealthAndWebSocketGuards(t *testing.T) {
	server := setupTestServer(&MockGameService{GetGameStateFunc: notFound})

	w := serve(server, makeRequest("GET", "/api/health", nil))
	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy, got %v", resp)
	}

	if w := serve(server, makeRequest("GET", "/ws", nil)); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without session, got %d", w.Code)
	}
	if w := serve(server, makeRequest("GET", "/ws?session=missing", nil)); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", w.Code)
	}

	noHub := NewServer(&MockGameService{}, nil, nil)
	if w := serve(noHub, makeRequest("GET", "/ws?session=a", nil)); w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without hub, got %d", w.Code)
	}
}
