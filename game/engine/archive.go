package engine

import "fmt"

// BoardState is a detached copy of a board, suitable for JSON and for
// resuming a game later with RestoreBoard.
type BoardState struct {
	Grid     [][]Piece `json:"grid"`
	Turn     Color     `json:"turn"`
	Reserves [][]Piece `json:"reserves"`
}

// Archive copies the board into a BoardState
func (b *Board) Archive() BoardState {
	st := BoardState{
		Grid:     make([][]Piece, GridSize),
		Turn:     b.turn,
		Reserves: make([][]Piece, ReserveStackCount),
	}
	for i, s := range b.grid {
		st.Grid[i] = s.All()
	}
	for i, s := range b.reserves {
		st.Reserves[i] = s.All()
	}
	return st
}

// RestoreBoard rebuilds a board from an archive. Every stack is refilled
// through MoveIn, so a corrupt archive is rejected.
func RestoreBoard(st BoardState) (*Board, error) {
	if len(st.Grid) != GridSize {
		return nil, fmt.Errorf("%w: want %d stacks, got %d", ErrInvalidGrid, GridSize, len(st.Grid))
	}

	grid := make([]*Stack, GridSize)
	for i, pieces := range st.Grid {
		s, err := refill(pieces)
		if err != nil {
			return nil, fmt.Errorf("grid %s: %w", PointAt(i), err)
		}
		grid[i] = s
	}

	reserves := make([]*Stack, len(st.Reserves))
	for i, pieces := range st.Reserves {
		s, err := refill(pieces)
		if err != nil {
			return nil, fmt.Errorf("reserve %d: %w", i, err)
		}
		reserves[i] = s
	}

	return NewBoard(BoardData{
		ArchivedGrid: grid,
		TurnTo:       st.Turn,
		Reserves:     reserves,
	})
}

// Clone returns an independent copy of the board
func (b *Board) Clone() *Board {
	c := &Board{turn: b.turn}
	for i, s := range b.grid {
		c.grid[i] = s.clone()
	}
	for i, s := range b.reserves {
		c.reserves[i] = s.clone()
	}
	return c
}

func refill(pieces []Piece) (*Stack, error) {
	s := NewStack()
	for _, p := range pieces {
		if _, err := s.MoveIn(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}
