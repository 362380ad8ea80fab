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

	"github.com/wricardo/mcp-training/gobblet/game/engine"
	"github.com/wricardo/mcp-training/gobblet/game/service"
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
		"Gobblet",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Gobblet - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Line up four of your pieces (row, column or diagonal) on the 4x4 board.
Larger pieces cover smaller ones; only the top piece of a stack counts.

AVAILABLE TOOLS:
- create_session / get_session / list_sessions: session management
- game_state: board, reserves, whose turn, hex snapshot
- move: one move, from a reserve stack (0-5) or a board cell
- bulk_move: several moves in sequence, alternating colors
- reset_game: start over on the same config
- move_history: accepted and rejected moves
- list_configs: available configurations
- game_instructions: full rules
- describe_cell: the whole stack on one cell

Coordinates are 1-based: x is the column, y is the row, both 1..4.
NOTE: The 'intent' parameter on move/bulk_move serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

var (
	sessionIDProperty = map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
	coordinateSchema = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "integer", "minimum": 1, "maximum": engine.GridSide},
			"y": map[string]interface{}{"type": "integer", "minimum": 1, "maximum": engine.GridSide},
		},
		"required": []string{"x", "y"},
	}
	reserveProperty = map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"maximum":     engine.ReserveStackCount - 1,
		"description": "Reserve stack to take from: 0-2 are BLACK, 3-5 are WHITE",
	}
	moveSchema = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"reserve": reserveProperty,
			"from":    coordinateSchema,
			"to":      coordinateSchema,
		},
		"required": []string{"to"},
	}
)

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the config to use, see list_configs (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, reserves and turn",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the top piece of a reserve stack or board cell onto a board cell. Give either reserve or from.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty,
				"reserve":    reserveProperty,
				"from":       coordinateSchema,
				"to":         coordinateSchema,
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "to"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Execute up to %d moves in sequence; stops at the first rejected move or when the game is won", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty,
				"moves": map[string]interface{}{
					"type":        "array",
					"items":       moveSchema,
					"description": "Moves to play in order, colors alternating",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to initial state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty,
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "List every piece stacked on one board cell, top first. Only the top piece counts for lines, but lifting it uncovers the next one.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty,
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column, 1-4",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row, 1-4",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
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

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// parsePoint reads a {"x":..,"y":..} argument; JSON numbers arrive as float64
func parsePoint(v interface{}) (engine.Point, bool) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return engine.Point{}, false
	}
	x, okX := m["x"].(float64)
	y, okY := m["y"].(float64)
	if !okX || !okY {
		return engine.Point{}, false
	}
	return engine.Point{X: int(x), Y: int(y)}, true
}

// parseMove converts tool arguments into a move request
func parseMove(args map[string]interface{}) (engine.MoveRequest, error) {
	to, ok := parsePoint(args["to"])
	if !ok {
		return engine.MoveRequest{}, fmt.Errorf("'to' must be an object with integer x and y")
	}

	req := engine.MoveRequest{To: to}
	if raw, present := args["from"]; present && raw != nil {
		from, ok := parsePoint(raw)
		if !ok {
			return engine.MoveRequest{}, fmt.Errorf("'from' must be an object with integer x and y")
		}
		req.From = &from
	}
	if raw, present := args["reserve"]; present && raw != nil {
		f, ok := raw.(float64)
		if !ok {
			return engine.MoveRequest{}, fmt.Errorf("'reserve' must be an integer 0-%d", engine.ReserveStackCount-1)
		}
		ref := int(f)
		req.Reserve = &ref
	}

	if _, err := req.Source(); err != nil {
		return engine.MoveRequest{}, err
	}
	return req, nil
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

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
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
		status := "in progress"
		if s.GameState != nil {
			if s.GameState.Winner != nil {
				status = s.GameState.Winner.String() + " won"
			} else {
				status = s.GameState.Turn.String() + " to move"
			}
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Created: %s, %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"), status)
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

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	reset, _ := args["reset"].(bool)

	move, err := parseMove(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := struct {
		engine.MoveRequest
		Reset bool `json:"reset,omitempty"`
	}{move, reset}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]interface{})
	reset, _ := args["reset"].(bool)

	if len(movesRaw) == 0 {
		return mcp.NewToolResultError("moves must contain at least one move"), nil
	}

	moves := make([]engine.MoveRequest, 0, len(movesRaw))
	for i, raw := range movesRaw {
		m, _ := raw.(map[string]interface{})
		move, err := parseMove(m)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("move %d: %v", i+1, err)), nil
		}
		moves = append(moves, move)
	}

	body := map[string]interface{}{
		"moves": moves,
		"reset": reset,
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)

	// current segment comes from the live state
	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err == nil {
		result += "\n" + formatCurrentSegment(&state)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  First turn: %s\n\n",
			config.Name, config.ConfigID, config.Description, config.FirstTurn)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Gobblet - Complete Instructions

GAME OBJECTIVE:
Be the first to show four of your own pieces in a line: any row, column or
one of the two diagonals of the 4x4 board.

PIECES AND RESERVES:
• Each color owns twelve pieces, sizes 1 to 12.
• They start off the board in three reserve stacks per color.
  Reserves 0, 1, 2 belong to BLACK; reserves 3, 4, 5 belong to WHITE.
• Only the top piece of a reserve stack can be played.

MOVES:
• Take the top piece of one of your reserve stacks and place it on a cell, or
• Lift the top piece of a board cell you own and place it on another cell.
• A piece may land on an empty cell or cover a strictly smaller piece of
  either color. Equal sizes never stack.
• Pieces never return to the reserves.
• BLACK and WHITE alternate; the configuration decides who starts.

VICTORY:
• After each move the board is checked for four tops of one color in a line.
• If a move uncovers an opponent's piece and completes their line, they win.
• Once a game is won, further moves are rejected until reset.

REJECTED MOVES (rejection_code):
• not_your_turn - the piece belongs to the color not on move
• opponent_piece - you tried to lift the other color's piece
• does_not_fit - the target's top piece is the same size or larger
• no_piece - the source stack is empty
• out_of_range - a coordinate is outside 1..4
• unknown_stack - reserve index outside 0..5
• game_over - the game is already won
A rejected move changes nothing; it is recorded in the history.

COORDINATES:
• x is the column, y is the row, both 1-based. (1,1) is the top-left cell.

HEX SNAPSHOT:
Each state carries a 32-bit snapshot, two bits per cell in row-major order
from the top-left cell down to the bottom-right: 00 empty, 01 BLACK top,
10 WHITE top. 0x40000000 means only (1,1) is occupied, by BLACK.

STRATEGY TIPS:
• Keep your large pieces available to cover threats.
• Moving a piece off the board uncovers what was beneath it; check that you
  are not handing your opponent a line.
• Use describe_cell to see what is buried on a cell before lifting its top.

API USAGE:
• bulk_move plays moves for both colors in order; it stops at the first
  rejection and reports stop_reason_code.
• Pass reset=true to start a fresh game before the first move.`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	x, okX := args["x"].(float64)
	y, okY := args["y"].(float64)
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}
	p := engine.Point{X: int(x), Y: int(y)}

	idx, err := p.Index()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates %s are out of range. Both x and y must be 1-%d", p, engine.GridSide)), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if idx >= len(state.Board.Grid) {
		return mcp.NewToolResultError("game state has no board"), nil
	}

	return mcp.NewToolResultText(describeCell(p, state.Board.Grid[idx], state.Turn)), nil
}

func describeCell(p engine.Point, pieces []engine.Piece, turn engine.Color) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cell %s\n", p)
	fmt.Fprintf(&b, "Stack (top first): %s\n", engine.DescribeStack(pieces))

	if len(pieces) == 0 {
		b.WriteString("Any piece can be placed here.\n")
		return b.String()
	}

	top := pieces[len(pieces)-1]
	fmt.Fprintf(&b, "Top: %s %d\n", top.Color, top.Size)
	if top.Size < engine.MaxPieceSize {
		fmt.Fprintf(&b, "Can be covered by pieces of size %d or larger.\n", top.Size+1)
	} else {
		b.WriteString("Cannot be covered.\n")
	}
	if top.Color == turn {
		fmt.Fprintf(&b, "%s (to move) may lift this piece.", turn)
		if len(pieces) > 1 {
			under := pieces[len(pieces)-2]
			fmt.Fprintf(&b, " Lifting it uncovers %s %d.", under.Color, under.Size)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	fmt.Fprintf(&result, "Turn: %s | Snapshot: %s | Moves: %d\n\n",
		state.Turn, state.HexSnapshot, state.TotalMoves)

	result.WriteString(engine.RenderBoard(state))

	if len(state.Board.Reserves) > 0 {
		result.WriteString("\nReserves (top first):\n")
		for i, pieces := range state.Board.Reserves {
			owner := engine.Black
			if i >= engine.ReserveStacksPerColor {
				owner = engine.White
			}
			fmt.Fprintf(&result, "  %d %s: %s\n", i, owner, engine.DescribeStack(pieces))
		}
	}

	if state.GameOver && state.Winner != nil {
		fmt.Fprintf(&result, "\n🎉 %s WINS!", state.Winner)
	}

	if state.Message != "" {
		fmt.Fprintf(&result, "\nMessage: %s", state.Message)
	}

	return result.String()
}

func formatStep(s *service.StepInfo) string {
	src := "?"
	switch {
	case s.Reserve != nil:
		src = fmt.Sprintf("reserve %d", *s.Reserve)
	case s.From != nil:
		src = s.From.String()
	}
	piece := ""
	if s.Piece != nil {
		piece = fmt.Sprintf(" %s%d", s.Piece.Color.String()[:1], s.Piece.Size)
	}
	line := fmt.Sprintf("%d. %s%s %s→%s %s", s.Idx, s.Color, piece, src, s.To, s.HexSnapshot)
	if s.Victory {
		line += " victory"
	}
	return line + "\n"
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move successful\n")
	} else {
		fmt.Fprintf(&b, "✗ Move rejected (%s)\n", result.RejectionCode)
		if result.Error != "" {
			fmt.Fprintf(&b, "Reason: %s\n", result.Error)
		}
	}

	if result.Step != nil {
		b.WriteString("Step: ")
		b.WriteString(formatStep(result.Step))
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	configName := ""
	if result.GameState != nil {
		configName = result.GameState.ConfigName
	}
	fmt.Fprintf(&b, "Session: %s • Config: %s\n", sessionID, configName)

	fmt.Fprintf(&b, "Executed %d/%d moves\n", result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to the first %d moves\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped: %s [%s] at move %d\n", result.StoppedReason, result.StopReasonCode, result.StoppedOnMove)
	}
	fmt.Fprintf(&b, "Snapshot: %s → %s\n", result.StartSnapshot, result.EndSnapshot)

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps (this call):\n")
		for i := range result.Steps {
			b.WriteString(formatStep(&result.Steps[i]))
		}
	}

	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistoryEntry(num int, move engine.MoveHistoryEntry) string {
	status := "✓"
	if !move.Success {
		status = "✗ " + move.Error
	}
	src := "?"
	switch {
	case move.Reserve != nil:
		src = fmt.Sprintf("reserve %d", *move.Reserve)
	case move.From != nil:
		src = move.From.String()
	}
	return fmt.Sprintf("%d. %s %s→%s %s\n", num, move.Color, src, move.To, status)
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d) - Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		b.WriteString(formatHistoryEntry(move.MoveNumber, move))
	}

	return b.String()
}

func formatCurrentSegment(state *engine.GameState) string {
	if state == nil {
		return "Current Segment: unavailable"
	}
	header := fmt.Sprintf("Current Game - Moves: %d\n\n", state.CurrentMovesCount)
	if len(state.CurrentMoves) == 0 {
		return header + "(no moves since the last reset)"
	}
	var b strings.Builder
	b.WriteString(header)
	for i, move := range state.CurrentMoves {
		b.WriteString(formatHistoryEntry(i+1, move))
	}
	return b.String()
}
