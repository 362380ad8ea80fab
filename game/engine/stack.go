package engine

import "fmt"

// Stack is an ordered pile of pieces, bottom to top. Only the top piece is
// visible and movable, and every piece is strictly larger than the one below it.
type Stack struct {
	pieces []Piece
}

// NewStack creates an empty stack
func NewStack() *Stack {
	return &Stack{}
}

// NewExternalStack creates a reserve stack holding one piece of color per size,
// pushed in order. Sizes must be ascending.
func NewExternalStack(sizes []int, color Color) (*Stack, error) {
	s := NewStack()
	for _, size := range sizes {
		if _, err := s.MoveIn(Piece{Size: size, Color: color}); err != nil {
			return nil, fmt.Errorf("external stack %v: %w", sizes, err)
		}
	}
	return s, nil
}

// Current returns the top piece, or false if the stack is empty
func (s *Stack) Current() (Piece, bool) {
	if len(s.pieces) == 0 {
		return Piece{}, false
	}
	return s.pieces[len(s.pieces)-1], true
}

// All returns a copy of the pieces, bottom to top
func (s *Stack) All() []Piece {
	out := make([]Piece, len(s.pieces))
	copy(out, s.pieces)
	return out
}

// Len returns the number of pieces in the stack
func (s *Stack) Len() int {
	return len(s.pieces)
}

// Fits reports whether piece may be placed on top of the stack
func (s *Stack) Fits(piece Piece) bool {
	top, ok := s.Current()
	return !ok || top.Size < piece.Size
}

// MoveIn pushes piece onto the stack. The stack is unchanged on error.
func (s *Stack) MoveIn(piece Piece) (*Stack, error) {
	if !s.Fits(piece) {
		top, _ := s.Current()
		return nil, fmt.Errorf("%w: %s cannot cover %s", ErrPieceDoesNotFit, piece, top)
	}
	s.pieces = append(s.pieces, piece)
	return s, nil
}

// MoveOut pops the top piece. An empty stack yields false.
func (s *Stack) MoveOut() (Piece, bool) {
	top, ok := s.Current()
	if !ok {
		return Piece{}, false
	}
	s.pieces = s.pieces[:len(s.pieces)-1]
	return top, true
}

func (s *Stack) clone() *Stack {
	return &Stack{pieces: s.All()}
}
