package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsGameOver() bool
	Winner() (Color, bool)
	Turn() Color
	Board() *Board

	// Movement operations
	Move(from MoveSource, to Point) error
	Apply(req MoveRequest) error
	CanMove(from MoveSource, to Point) bool

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface on top of a Board
type GameEngine struct {
	board  *Board
	config *GameConfig
	gameID string

	message      string
	history      []MoveHistoryEntry
	currentMoves []MoveHistoryEntry
	now          func() time.Time
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	board, err := newBoardFromConfig(config)
	if err != nil {
		return nil, err
	}

	return &GameEngine{
		board:        board,
		config:       config,
		gameID:       uuid.NewString(),
		message:      config.Messages.Welcome,
		history:      []MoveHistoryEntry{},
		currentMoves: []MoveHistoryEntry{},
		now:          time.Now,
	}, nil
}

// NewEngineWithDefaults creates a new game engine with the classic configuration
func NewEngineWithDefaults() *GameEngine {
	engine, err := NewEngine(DefaultGameConfig())
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return engine
}

func newBoardFromConfig(config *GameConfig) (*Board, error) {
	reserves, err := config.Reserves.Build()
	if err != nil {
		return nil, err
	}
	return NewBoard(BoardData{TurnTo: config.FirstTurn, Reserves: reserves})
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() *GameState {
	snap := e.board.HexSnapshot()
	state := &GameState{
		GameID:            e.gameID,
		ConfigName:        e.config.Name,
		Board:             e.board.Archive(),
		Top:               e.board.Snapshot(),
		HexSnapshot:       FormatSnapshot(snap),
		Turn:              e.board.Turn(),
		Message:           e.message,
		MoveHistory:       append([]MoveHistoryEntry{}, e.history...),
		TotalMoves:        len(e.history),
		CurrentMoves:      append([]MoveHistoryEntry{}, e.currentMoves...),
		CurrentMovesCount: len(e.currentMoves),
	}
	if winner, ok := WinnerOf(snap); ok {
		state.Winner = &winner
		state.GameOver = true
	}
	return state
}

// SetState restores a persisted game state
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}

	board, err := RestoreBoard(state.Board)
	if err != nil {
		return fmt.Errorf("failed to restore board: %w", err)
	}

	e.board = board
	if state.GameID != "" {
		e.gameID = state.GameID
	}
	e.message = state.Message
	e.history = append([]MoveHistoryEntry{}, state.MoveHistory...)
	e.currentMoves = append([]MoveHistoryEntry{}, state.CurrentMoves...)
	return nil
}

// Reset starts a new game on the same configuration. Move history stays
// cumulative; only the current segment is cleared.
func (e *GameEngine) Reset() *GameState {
	board, err := newBoardFromConfig(e.config)
	if err != nil {
		// config was validated when it was set
		panic(fmt.Sprintf("reset with invalid config: %v", err))
	}

	e.board = board
	e.gameID = uuid.NewString()
	e.message = e.config.Messages.Welcome
	e.currentMoves = []MoveHistoryEntry{}
	return e.GetState()
}

// IsGameOver reports whether a color has completed a line
func (e *GameEngine) IsGameOver() bool {
	_, ok := e.board.CheckForWinner()
	return ok
}

// Winner returns the winning color, if any
func (e *GameEngine) Winner() (Color, bool) {
	return e.board.CheckForWinner()
}

// Turn returns the color to move
func (e *GameEngine) Turn() Color {
	return e.board.Turn()
}

// Board returns the live board
func (e *GameEngine) Board() *Board {
	return e.board
}

// GameID returns the id of the current game
func (e *GameEngine) GameID() string {
	return e.gameID
}

// Move plays a move and records it in the history. A rejected move leaves
// the board untouched and returns a *MoveRejectedError.
func (e *GameEngine) Move(from MoveSource, to Point) error {
	color := e.board.Turn()
	piece := e.pieceAt(from)

	var err error
	if e.IsGameOver() {
		err = &MoveRejectedError{From: from, To: to, Err: ErrGameOver}
	} else {
		_, err = e.board.Move(from, to)
	}

	e.addMoveToHistory(color, from, to, piece, err)

	switch {
	case err != nil:
		e.message = e.format(e.config.Messages.Rejected, rejectionText(err))
	case e.IsGameOver():
		winner, _ := e.Winner()
		e.message = e.format(e.config.Messages.Victory, winner.String())
	default:
		e.message = e.format(e.config.Messages.Turn, e.board.Turn().String())
	}
	return err
}

// Apply plays a move given in its wire form
func (e *GameEngine) Apply(req MoveRequest) error {
	from, err := req.Source()
	if err != nil {
		return &MoveRejectedError{From: ReserveRef(-1), To: req.To, Err: err}
	}
	return e.Move(from, req.To)
}

// CanMove reports whether the move would be accepted
func (e *GameEngine) CanMove(from MoveSource, to Point) bool {
	if e.IsGameOver() {
		return false
	}
	return e.board.CheckMove(from, to) == nil
}

// BulkMove plays moves in order, stopping at the first rejection or when the
// game is won. It returns the number of moves played and the stopping error.
func (e *GameEngine) BulkMove(moves []MoveRequest) (int, error) {
	played := 0
	for _, req := range moves {
		if e.IsGameOver() {
			break
		}
		if err := e.Apply(req); err != nil {
			return played, err
		}
		played++
	}
	return played, nil
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and starts a new game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}
	board, err := newBoardFromConfig(config)
	if err != nil {
		return err
	}

	e.config = config
	e.board = board
	e.gameID = uuid.NewString()
	e.message = config.Messages.Welcome
	e.currentMoves = []MoveHistoryEntry{}
	return nil
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.history
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

func (e *GameEngine) pieceAt(from MoveSource) *Piece {
	var s *Stack
	switch src := from.(type) {
	case Point:
		s, _ = e.board.StackAt(src)
	case ReserveRef:
		s, _ = e.board.Reserve(src)
	}
	if s == nil {
		return nil
	}
	if top, ok := s.Current(); ok {
		return &top
	}
	return nil
}

func (e *GameEngine) addMoveToHistory(color Color, from MoveSource, to Point, piece *Piece, err error) {
	entry := MoveHistoryEntry{
		MoveNumber: len(e.history) + 1,
		Color:      color,
		To:         to,
		Piece:      piece,
		Success:    err == nil,
		Timestamp:  e.now().Unix(),
	}
	switch src := from.(type) {
	case Point:
		entry.From = &src
	case ReserveRef:
		ref := int(src)
		entry.Reserve = &ref
	}
	if err != nil {
		entry.Error = rejectionText(err)
	}

	e.history = append(e.history, entry)
	e.currentMoves = append(e.currentMoves, entry)
}

func (e *GameEngine) format(template, arg string) string {
	if template == "" {
		return ""
	}
	return fmt.Sprintf(template, arg)
}

// rejectionText returns the cause of a rejected move without the wrapper prefix
func rejectionText(err error) string {
	var rejected *MoveRejectedError
	if errors.As(err, &rejected) {
		return rejected.Err.Error()
	}
	return err.Error()
}
