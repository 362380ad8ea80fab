package engine

import "fmt"

const (
	// Validation constants
	MaxBulkMoves        = 16
	WebSocketBufferSize = 256
)

// ReserveLayout lists, per color, the piece sizes of each of its three reserve
// stacks, bottom to top.
type ReserveLayout struct {
	Black [][]int `json:"black" yaml:"black"`
	White [][]int `json:"white" yaml:"white"`
}

// GameMessages are the texts shown to players. Turn, Victory and Rejected are
// format strings taking the color or error text as their only %s verb.
type GameMessages struct {
	Welcome  string `json:"welcome" yaml:"welcome"`
	Turn     string `json:"turn" yaml:"turn"`
	Victory  string `json:"victory" yaml:"victory"`
	Rejected string `json:"rejected" yaml:"rejected"`
}

// GameConfig represents the game configuration loaded from JSON or YAML
type GameConfig struct {
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	FirstTurn   Color         `json:"first_turn" yaml:"first_turn"`
	Reserves    ReserveLayout `json:"reserves" yaml:"reserves"`
	Messages    GameMessages  `json:"messages" yaml:"messages"`
}

// MoveRequest is the wire form of a move intent. Exactly one of From and
// Reserve names the source.
type MoveRequest struct {
	From    *Point `json:"from,omitempty"`
	Reserve *int   `json:"reserve,omitempty"`
	To      Point  `json:"to"`
}

// GridMove builds a request moving the top piece of from onto to
func GridMove(from, to Point) MoveRequest {
	return MoveRequest{From: &from, To: to}
}

// ReserveMove builds a request moving the top piece of reserve stack ref onto to
func ReserveMove(ref int, to Point) MoveRequest {
	return MoveRequest{Reserve: &ref, To: to}
}

// Source resolves the request to a MoveSource
func (r MoveRequest) Source() (MoveSource, error) {
	switch {
	case r.From != nil && r.Reserve != nil:
		return nil, fmt.Errorf("%w: both from and reserve given", ErrInvalidMoveRequest)
	case r.From != nil:
		return *r.From, nil
	case r.Reserve != nil:
		return ReserveRef(*r.Reserve), nil
	default:
		return nil, fmt.Errorf("%w: source is required", ErrInvalidMoveRequest)
	}
}

func (r MoveRequest) String() string {
	src, err := r.Source()
	if err != nil {
		return fmt.Sprintf("? -> %s", r.To)
	}
	return fmt.Sprintf("%s -> %s", src, r.To)
}

// GameState represents the complete game state as seen by clients and
// persisted between runs.
type GameState struct {
	GameID      string             `json:"game_id"`
	ConfigName  string             `json:"config_name"`
	Board       BoardState         `json:"board"`
	Top         []*Piece           `json:"top"`
	HexSnapshot string             `json:"hex_snapshot"`
	Turn        Color              `json:"turn"`
	Winner      *Color             `json:"winner,omitempty"`
	GameOver    bool               `json:"game_over"`
	Message     string             `json:"message"`
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. MoveHistory
	// stays cumulative across resets.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`
}

// MoveHistoryEntry represents a single attempted move
type MoveHistoryEntry struct {
	MoveNumber int    `json:"move_number"`
	Color      Color  `json:"color"`
	From       *Point `json:"from,omitempty"`
	Reserve    *int   `json:"reserve,omitempty"`
	To         Point  `json:"to"`
	Piece      *Piece `json:"piece,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

// Request returns the move request recorded by the entry
func (m MoveHistoryEntry) Request() MoveRequest {
	return MoveRequest{From: m.From, Reserve: m.Reserve, To: m.To}
}
