package service

import (
	"time"

	"github.com/wricardo/mcp-training/gobblet/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation. A rejected move is not
// an error: Success is false and RejectionCode says why.
type MoveResult struct {
	Success       bool              `json:"success"`
	GameState     *engine.GameState `json:"game_state"`
	Message       string            `json:"message"`
	RejectionCode string            `json:"rejection_code,omitempty"`
	Error         string            `json:"error,omitempty"`
	Events        []GameEvent       `json:"events,omitempty"`
	Step          *StepInfo         `json:"step,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`   // Human-readable reason
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // A rejection code, or victory|game_over
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartSnapshot string `json:"start_snapshot"`
	EndSnapshot   string `json:"end_snapshot"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status
	GameOver bool          `json:"game_over"`
	Winner   *engine.Color `json:"winner,omitempty"`
	Message  string        `json:"message,omitempty"`
}

// StepInfo is a compact record of one executed move
type StepInfo struct {
	Idx         int           `json:"idx"`
	Color       engine.Color  `json:"color"`
	From        *engine.Point `json:"from,omitempty"`
	Reserve     *int          `json:"reserve,omitempty"`
	To          engine.Point  `json:"to"`
	Piece       *engine.Piece `json:"piece,omitempty"`
	HexSnapshot string        `json:"hex_snapshot"`
	Victory     bool          `json:"victory,omitempty"`
}

// Event types
const (
	EventMove     = "move"
	EventRejected = "rejected"
	EventVictory  = "victory"
	EventReset    = "reset"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string        `json:"type"` // "move", "rejected", "victory", "reset"
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Color     *engine.Color `json:"color,omitempty"`
	Position  *engine.Point `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string       `json:"filename"`
	ConfigID    string       `json:"config_id"` // The identifier to use for session creation
	Name        string       `json:"name"`      // Display name
	Description string       `json:"description"`
	FirstTurn   engine.Color `json:"first_turn"`
}
