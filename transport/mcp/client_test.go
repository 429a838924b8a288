package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/mcp-training/robotgrid/api"
	"github.com/wricardo/mcp-training/robotgrid/game/config"
	"github.com/wricardo/mcp-training/robotgrid/game/engine"
	"github.com/wricardo/mcp-training/robotgrid/game/service"
	"github.com/wricardo/mcp-training/robotgrid/game/session"
)

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

// newAPIServer runs the real REST API over the builtin presets
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	configs, err := config.NewManager("")
	if err != nil {
		t.Fatalf("config manager: %v", err)
	}
	svc := service.NewSimulationService(session.NewManager(), configs)
	server := httptest.NewServer(api.NewServer(svc, nil))
	t.Cleanup(server.Close)
	return server
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL + "/")

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "test-session"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), "GET", "/api/sessions/x", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["id"] != "test-session" {
		t.Errorf("Expected id test-session, got %v", response["id"])
	}
}

func TestClient_apiCall_Text(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("grid\n"))
	}))
	defer server.Close()

	var grid string
	if err := NewClient(server.URL).apiCall(context.Background(), "GET", "/grid", nil, &grid); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if grid != "grid\n" {
		t.Errorf("Expected raw body, got %q", grid)
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 500 response")
	}
	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_apiCall_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
	}))
	defer server.Close()

	err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
	if err == nil || err.Error() != "session not found" {
		t.Errorf("Expected API error message, got %v", err)
	}
}

func TestClient_createSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["config_id"] != "demo" {
			t.Errorf("Expected config_id demo, got %q", body["config_id"])
		}

		state := engine.NewDefaultRobot().State()
		resp := service.SessionInfo{
			ID:         "test-session-123",
			ConfigName: "demo",
			State:      &state,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(),
		toolRequest("create_session", map[string]interface{}{"config_id": "demo"}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "test-session-123") {
		t.Errorf("Expected session ID in result, got: %s", text)
	}
	if !strings.Contains(text, "Battery: 100%") {
		t.Errorf("Expected battery in result, got: %s", text)
	}
}

func TestClient_Integration(t *testing.T) {
	client := NewClient(newAPIServer(t).URL)
	ctx := context.Background()

	result, err := client.handleCreateSession(ctx, toolRequest("create_session", nil))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, result)
	sessionID := strings.TrimSpace(strings.SplitN(strings.TrimPrefix(text, "Session: "), "\n", 2)[0])
	if sessionID == "" {
		t.Fatalf("Could not find session ID in %q", text)
	}

	result, _ = client.handleRobotCommand(ctx, toolRequest("robot_command", map[string]interface{}{
		"session_id": sessionID,
		"command":    "forward",
		"intent":     "leave the origin",
	}))
	if text := resultText(t, result); !strings.Contains(text, "✓ forward") || !strings.Contains(text, "Position: (0, 1)") {
		t.Errorf("Unexpected forward result: %s", text)
	}

	result, _ = client.handleRobotCommand(ctx, toolRequest("robot_command", map[string]interface{}{
		"session_id": sessionID,
		"command":    "diagonal",
		"args":       []interface{}{"SW"},
	}))
	if text := resultText(t, result); !strings.Contains(text, "failed [boundary]") {
		t.Errorf("Expected boundary failure, got: %s", text)
	}

	result, _ = client.handleRobotCommand(ctx, toolRequest("robot_command", map[string]interface{}{
		"session_id": sessionID,
		"command":    "add_obstacle",
		"args":       []interface{}{float64(0), float64(2)},
	}))
	if text := resultText(t, result); !strings.Contains(text, "Obstacle added at (0, 2)") {
		t.Errorf("Expected obstacle added, got: %s", text)
	}

	result, _ = client.handleDescribeCell(ctx, toolRequest("describe_cell", map[string]interface{}{
		"session_id": sessionID,
		"x":          float64(0),
		"y":          float64(2),
	}))
	if text := resultText(t, result); !strings.Contains(text, "obstacle") {
		t.Errorf("Expected obstacle description, got: %s", text)
	}

	result, _ = client.handleDisplayGrid(ctx, toolRequest("display_grid", map[string]interface{}{"session_id": sessionID}))
	if text := resultText(t, result); !strings.Contains(text, "Battery: 95%") {
		t.Errorf("Expected rendered grid with battery, got: %s", text)
	}

	result, _ = client.handleCommandHistory(ctx, toolRequest("command_history", map[string]interface{}{
		"session_id": sessionID,
		"limit":      float64(10),
	}))
	text = resultText(t, result)
	if !strings.Contains(text, "Total: 3") || !strings.Contains(text, "1. forward ✓") {
		t.Errorf("Unexpected history: %s", text)
	}

	result, _ = client.handleReset(ctx, toolRequest("reset_robot", map[string]interface{}{"session_id": sessionID}))
	if text := resultText(t, result); !strings.Contains(text, "Position: (0, 0)") {
		t.Errorf("Expected reset to origin, got: %s", text)
	}

	result, _ = client.handleRobotState(ctx, toolRequest("robot_state", map[string]interface{}{"session_id": "nope"}))
	if !result.IsError {
		t.Error("Expected error result for unknown session")
	}
}

func TestClient_listConfigs(t *testing.T) {
	client := NewClient(newAPIServer(t).URL)

	result, err := client.handleListConfigs(context.Background(), toolRequest("list_configs", nil))
	if err != nil {
		t.Fatal(err)
	}

	text := resultText(t, result)
	for _, want := range []string{"• default", "• demo", "Obstacles: 4"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in configs, got: %s", want, text)
		}
	}
}

func TestFormatState(t *testing.T) {
	state := &engine.Snapshot{
		Position: engine.Position{X: 3, Y: 4},
		Heading:  engine.West,
		Battery:  72.5,
		GridSize: 5,
	}

	result := formatState(state)

	for _, field := range []string{"Position: (3, 4)", "Facing: WEST", "Battery: 72.5%", "Grid: 5x5"} {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}

	if formatState(nil) != "No robot state available" {
		t.Error("Expected placeholder for nil state")
	}
}

func TestFormatCommandResult_Failed(t *testing.T) {
	result := formatCommandResult(&service.CommandResult{
		Command:   "forward",
		Success:   false,
		Message:   engine.ErrBattery.Error(),
		ErrorCode: engine.CodeBattery,
		State:     &engine.Snapshot{GridSize: 5, Battery: 3},
	})

	if !strings.Contains(result, "✗ forward failed [battery]") {
		t.Errorf("Expected failure header, got: %s", result)
	}
	if !strings.Contains(result, "insufficient battery") {
		t.Errorf("Expected failure message, got: %s", result)
	}
}

func TestDescribeCell(t *testing.T) {
	state := &engine.Snapshot{
		Position:  engine.Position{X: 1, Y: 1},
		Heading:   engine.North,
		GridSize:  3,
		Obstacles: []engine.Position{{X: 2, Y: 2}},
	}

	tests := []struct {
		pos  engine.Position
		want string
	}{
		{engine.Position{X: 1, Y: 1}, "robot, facing NORTH"},
		{engine.Position{X: 2, Y: 2}, "obstacle"},
		{engine.Position{X: 0, Y: 2}, "empty"},
		{engine.Position{X: 3, Y: 0}, "outside the grid"},
		{engine.Position{X: 0, Y: -1}, "outside the grid"},
	}

	for _, tt := range tests {
		if got := describeCell(state, tt.pos); !strings.Contains(got, tt.want) {
			t.Errorf("describeCell(%s) = %q, want it to contain %q", tt.pos, got, tt.want)
		}
	}
}

func TestClient_handleInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleInstructions(context.Background(), toolRequest("simulator_instructions", nil))
	if err != nil {
		t.Fatalf("handleInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, content := range []string{"GRID:", "COMMANDS AND COSTS", "RULES:", "ERROR CODES:", "occupied_by_robot"} {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}
