package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/robotgrid/game/engine"
	"github.com/wricardo/mcp-training/robotgrid/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Robot Grid Simulator",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Robot Grid Simulator - MCP Interface

This is a thin client that proxies all requests to the REST API server.

A robot sits on a square grid. It can move forward, turn, and move diagonally.
Every action costs battery; moves that would leave the grid, enter an
obstacle or overdraw the battery are rejected and leave the robot unchanged.

AVAILABLE TOOLS:
- create_session: Start a new robot from a preset
- list_sessions / get_session: Inspect sessions
- robot_state: Position, heading, battery and grid
- robot_command: Run one command (forward, left, right, diagonal, add_obstacle, remove_obstacle, expand, report, display)
- display_grid: Text rendering of the grid
- reset_robot: Restore the preset's starting state
- command_history: Past commands with battery before and after
- list_configs: Available presets
- describe_cell: What occupies one grid cell
- simulator_instructions: Full rules`),
	)

	c.registerTools()
}

func sessionSchema(extra map[string]interface{}) mcp.ToolInputSchema {
	props := map[string]interface{}{
		"session_id": map[string]interface{}{
			"type":        "string",
			"description": "Session ID",
		},
	}
	for name, schema := range extra {
		props[name] = schema
	}
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   []string{"session_id"},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	actions := make([]string, 0, len(service.Actions))
	for _, a := range service.Actions {
		actions = append(actions, string(a))
	}

	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new robot session from a preset (defaults to the 5x5 default preset)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset ID from list_configs (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active robot sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionSchema(nil),
	}, c.handleGetSession)

	// Robot operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "robot_state",
		Description: "Get the robot's position, heading, battery and grid",
		InputSchema: sessionSchema(nil),
	}, c.handleRobotState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "robot_command",
		Description: "Execute one command. diagonal takes NE/NW/SE/SW, add_obstacle and remove_obstacle take x and y, expand takes the new grid size",
		InputSchema: sessionSchema(map[string]interface{}{
			"command": map[string]interface{}{
				"type":        "string",
				"enum":        actions,
				"description": "Command to execute",
			},
			"args": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Command arguments, e.g. [\"NE\"] or [\"2\", \"3\"]",
			},
			"intent": map[string]interface{}{
				"type":        "string",
				"description": "Brief explanation of why you are issuing this command",
			},
		}),
	}, c.handleRobotCommand)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "display_grid",
		Description: "Render the grid as text: an arrow marks the robot and its heading, X marks an obstacle; row 0 is at the bottom",
		InputSchema: sessionSchema(nil),
	}, c.handleDisplayGrid)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_robot",
		Description: "Reset the robot to its preset's starting state",
		InputSchema: sessionSchema(nil),
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "command_history",
		Description: "Get command history for a session, most recent first",
		InputSchema: sessionSchema(map[string]interface{}{
			"page": map[string]interface{}{
				"type":        "integer",
				"description": "Page number",
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Items per page",
			},
		}),
	}, c.handleCommandHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available robot presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "simulator_instructions",
		Description: "Get the full rules of the simulator",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe one grid cell: whether it is inside the grid, holds an obstacle, or holds the robot",
		InputSchema: sessionSchema(map[string]interface{}{
			"x": map[string]interface{}{
				"type":        "integer",
				"description": "X coordinate (column, 0 is the left edge)",
			},
			"y": map[string]interface{}{
				"type":        "integer",
				"description": "Y coordinate (row, 0 is the bottom edge)",
			},
		}),
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result == nil {
		return nil
	}
	if s, ok := result.(*string); ok {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		*s = string(data)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// intArg reads a JSON number argument; MCP clients send numbers as float64
func intArg(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s (Config: %s, Commands: %d, Created: %s)\n",
			s.ID, s.ConfigName, s.CommandCount, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleRobotState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.Snapshot
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatState(&state)), nil
}

func (c *Client) handleRobotCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	command, _ := args["command"].(string)

	// intent is for the caller's own reasoning and is not forwarded

	var cmdArgs []string
	if raw, ok := args["args"].([]interface{}); ok {
		for _, a := range raw {
			switch v := a.(type) {
			case string:
				cmdArgs = append(cmdArgs, v)
			case float64:
				cmdArgs = append(cmdArgs, fmt.Sprintf("%d", int(v)))
			}
		}
	}

	body := map[string]interface{}{
		"command": command,
		"args":    cmdArgs,
	}

	var result service.CommandResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/command"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandResult(&result)), nil
}

func (c *Client) handleDisplayGrid(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var grid string
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/grid"), nil, &grid); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(grid), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string           `json:"message"`
		State   *engine.Snapshot `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatState(response.State))), nil
}

func (c *Client) handleCommandHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		query.Set("page", fmt.Sprintf("%d", page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprintf("%d", limit))
	}
	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Presets:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s\n  %s\n  Grid: %dx%d, Battery: %s%%, Obstacles: %d\n\n",
			config.ConfigID, config.Description, config.GridSize, config.GridSize,
			engine.FormatBattery(config.Battery), config.Obstacles)
	}

	return mcp.NewToolResultText(b.String()), nil
}

const instructions = `Robot Grid Simulator - Rules

GRID:
• The grid is square, 5x5 by default. (0, 0) is the bottom-left cell.
• NORTH increases y, EAST increases x.
• display_grid draws row 0 at the bottom. The robot is an arrow showing
  its heading and X is an obstacle.

COMMANDS AND COSTS (default preset):
• forward - one cell in the facing direction, 5% battery
• left / right - turn 90 degrees in place, 2% battery
• diagonal NE|NW|SE|SW - one cell diagonally, 7.5% battery
• add_obstacle x y / remove_obstacle x y - free
• expand n - grow the grid to n x n (n must be larger), free
• report / display - free, read only

RULES:
• A move is checked for the grid boundary first, then obstacles, then battery.
• A rejected command leaves the robot exactly as it was and costs nothing.
• Obstacles cannot be placed on the robot or outside the grid.
• Presets may change the grid size, starting battery, start cell and costs.

ERROR CODES:
boundary, obstacle, battery, invalid_direction, out_of_bounds,
occupied_by_robot, not_found, invalid_size`

func (c *Client) handleInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}

	var state engine.Snapshot
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describeCell(&state, engine.Position{X: x, Y: y})), nil
}

func describeCell(state *engine.Snapshot, p engine.Position) string {
	last := state.GridSize - 1
	switch {
	case p.X < 0 || p.Y < 0 || p.X > last || p.Y > last:
		return fmt.Sprintf("Cell %s is outside the grid. Grid size is %dx%d (0-%d for both x and y)",
			p, state.GridSize, state.GridSize, last)
	case p == state.Position:
		return fmt.Sprintf("Cell %s: robot, facing %s", p, state.Heading)
	case state.HasObstacle(p):
		return fmt.Sprintf("Cell %s: obstacle (impassable)", p)
	}
	return fmt.Sprintf("Cell %s: empty (passable)", p)
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatState(session.State))
}

func formatState(state *engine.Snapshot) string {
	if state == nil {
		return "No robot state available"
	}
	return fmt.Sprintf("Position: %s | Facing: %s | Battery: %s%% | Grid: %dx%d\n\n%s",
		state.Position, state.Heading, engine.FormatBattery(state.Battery),
		state.GridSize, state.GridSize, engine.RenderGrid(*state))
}

func formatCommandResult(result *service.CommandResult) string {
	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "✓ %s\n", result.Command)
	} else {
		fmt.Fprintf(&b, "✗ %s failed [%s]\n", result.Command, result.ErrorCode)
	}
	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}
	if result.Grid != "" {
		b.WriteString("\n" + result.Grid)
		return b.String()
	}
	b.WriteString("\n" + formatState(result.State))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Command History (Page %d/%d), Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalCommands)

	for _, entry := range history.Commands {
		status := "✓"
		if !entry.Success {
			status = "✗ " + entry.ErrorCode
		}
		fmt.Fprintf(&b, "%d. %s %s %s→%s [Battery: %s→%s]\n",
			entry.Index, entry.Command, status, entry.From, entry.To,
			engine.FormatBattery(entry.BatteryBefore), engine.FormatBattery(entry.BatteryAfter))
	}

	return b.String()
}
