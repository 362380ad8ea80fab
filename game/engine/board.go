package engine

import (
	"fmt"
)

// BoardData is the construction input of a Board. A nil ArchivedGrid starts a
// new game; Reserves is mandatory and must hold six stacks.
type BoardData struct {
	ArchivedGrid []*Stack
	TurnTo       Color
	Reserves     []*Stack
}

// Board owns the 16 grid stacks, the six reserve stacks and the turn.
// It is not safe for concurrent use.
type Board struct {
	grid     [GridSize]*Stack
	turn     Color
	reserves [ReserveStackCount]*Stack
}

// NewBoard builds a board from fresh or archived state. Reserves are checked
// for integrity before they are accepted.
func NewBoard(data BoardData) (*Board, error) {
	if !data.TurnTo.Valid() {
		return nil, fmt.Errorf("invalid turn color %d", int(data.TurnTo))
	}
	if len(data.Reserves) != ReserveStackCount {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrReserveStackCount, ReserveStackCount, len(data.Reserves))
	}

	b := &Board{turn: data.TurnTo}

	if data.ArchivedGrid != nil {
		if len(data.ArchivedGrid) != GridSize {
			return nil, fmt.Errorf("%w: want %d stacks, got %d", ErrInvalidGrid, GridSize, len(data.ArchivedGrid))
		}
		for i, s := range data.ArchivedGrid {
			if s == nil {
				return nil, fmt.Errorf("%w: stack %d is nil", ErrInvalidGrid, i)
			}
			b.grid[i] = s
		}
	} else {
		for i := range b.grid {
			b.grid[i] = NewStack()
		}
	}

	for i, s := range data.Reserves {
		if s == nil {
			return nil, fmt.Errorf("%w: reserve stack %d is nil", ErrReserveStackCount, i)
		}
		b.reserves[i] = s
	}

	if err := b.checkExternalStacks(data.ArchivedGrid != nil); err != nil {
		return nil, err
	}

	return b, nil
}

// DefaultReserves returns the reserve stacks of the classic layout
func DefaultReserves() []*Stack {
	reserves, err := DefaultReserveLayout().Build()
	if err != nil {
		panic(fmt.Sprintf("default reserve layout is invalid: %v", err))
	}
	return reserves
}

// NewDefaultBoard starts a new game with the classic reserves
func NewDefaultBoard() *Board {
	b, err := NewBoard(BoardData{Reserves: DefaultReserves()})
	if err != nil {
		panic(fmt.Sprintf("default board is invalid: %v", err))
	}
	return b
}

// checkExternalStacks verifies each color's reserve group holds every size
// from 1 to 12 exactly once. When countGrid is set, pieces already on the grid
// count toward their color.
func (b *Board) checkExternalStacks(countGrid bool) error {
	for _, color := range []Color{Black, White} {
		group := b.reserveGroup(color)

		var pieces []Piece
		for _, s := range group {
			pieces = append(pieces, s.pieces...)
		}
		if countGrid {
			for _, s := range b.grid {
				for _, p := range s.pieces {
					if p.Color == color {
						pieces = append(pieces, p)
					}
				}
			}
		}

		seen := make(map[int]bool, PiecesPerColor)
		var duplicate *Piece
		for i, p := range pieces {
			if !p.ValidSize() {
				return fmt.Errorf("%w: found %s in external stacks of %s", ErrIllegalPiece, p, color)
			}
			if p.Color != color {
				return fmt.Errorf("%w: found %s in external stacks of %s", ErrIllegalPiece, p, color)
			}
			if seen[p.Size] && duplicate == nil {
				duplicate = &pieces[i]
			}
			seen[p.Size] = true
		}

		switch n := len(pieces); {
		case n < PiecesPerColor:
			return fmt.Errorf("%w: missing %d piece(s) in external stacks of %s", ErrMissingPieces, PiecesPerColor-n, color)
		case n > PiecesPerColor:
			return fmt.Errorf("%w: found %d extra piece(s) in external stacks of %s", ErrExtraPieces, n-PiecesPerColor, color)
		}
		if duplicate != nil {
			return fmt.Errorf("%w: found %s twice in external stacks of %s", ErrDuplicatePiece, *duplicate, color)
		}
	}
	return nil
}

func (b *Board) reserveGroup(color Color) []*Stack {
	start := 0
	if color == White {
		start = ReserveStacksPerColor
	}
	return b.reserves[start : start+ReserveStacksPerColor]
}

// Grid returns the 16 grid stacks in row-major order
func (b *Board) Grid() []*Stack {
	out := make([]*Stack, GridSize)
	copy(out, b.grid[:])
	return out
}

// Turn returns the color to move
func (b *Board) Turn() Color {
	return b.turn
}

// Reserves returns all six reserve stacks; 0-2 are Black, 3-5 White
func (b *Board) Reserves() []*Stack {
	out := make([]*Stack, ReserveStackCount)
	copy(out, b.reserves[:])
	return out
}

// BlackReserves returns reserve stacks 0-2
func (b *Board) BlackReserves() []*Stack {
	return append([]*Stack(nil), b.reserveGroup(Black)...)
}

// WhiteReserves returns reserve stacks 3-5
func (b *Board) WhiteReserves() []*Stack {
	return append([]*Stack(nil), b.reserveGroup(White)...)
}

// Reserve returns the reserve stack named by ref
func (b *Board) Reserve(ref ReserveRef) (*Stack, error) {
	if !ref.Valid() {
		return nil, fmt.Errorf("%w: cannot find %s", ErrUnknownStack, ref)
	}
	return b.reserves[ref], nil
}

// FindReserve returns the ReserveRef of one of this board's reserve stacks
func (b *Board) FindReserve(s *Stack) (ReserveRef, error) {
	for i, r := range b.reserves {
		if r == s {
			return ReserveRef(i), nil
		}
	}
	return -1, fmt.Errorf("%w: stack does not belong to this board", ErrUnknownStack)
}

// StackAt returns the grid stack at p
func (b *Board) StackAt(p Point) (*Stack, error) {
	i, err := p.Index()
	if err != nil {
		return nil, err
	}
	return b.grid[i], nil
}

// Snapshot returns the top piece of every grid position in row-major order;
// empty positions are nil.
func (b *Board) Snapshot() []*Piece {
	out := make([]*Piece, GridSize)
	for i, s := range b.grid {
		if top, ok := s.Current(); ok {
			out[i] = &top
		}
	}
	return out
}
