package engine

import "fmt"

// transfer is a validated move: popping src and pushing onto dst cannot fail.
type transfer struct {
	src   *Stack
	dst   *Stack
	piece Piece
}

// Move moves a piece from a grid point or reserve stack onto the grid point to.
// On failure the board is unchanged and the error is a *MoveRejectedError.
// On success the turn passes to the other color.
func (b *Board) Move(from MoveSource, to Point) (*Board, error) {
	t, err := b.plan(from, to)
	if err != nil {
		return nil, &MoveRejectedError{From: from, To: to, Err: err}
	}

	t.src.MoveOut()
	if _, err := t.dst.MoveIn(t.piece); err != nil {
		panic(fmt.Sprintf("validated move failed: %v", err))
	}
	b.turn = b.turn.Opponent()
	return b, nil
}

// CheckMove reports why a move would be rejected, without changing the board.
func (b *Board) CheckMove(from MoveSource, to Point) error {
	if _, err := b.plan(from, to); err != nil {
		return &MoveRejectedError{From: from, To: to, Err: err}
	}
	return nil
}

func (b *Board) plan(from MoveSource, to Point) (transfer, error) {
	switch src := from.(type) {
	case Point:
		return b.planOnGrid(src, to)
	case ReserveRef:
		return b.planFromExternalStack(src, to)
	default:
		return transfer{}, fmt.Errorf("%w: unsupported source %v", ErrUnknownStack, from)
	}
}

// planOnGrid validates moving the top piece of one grid stack onto another
func (b *Board) planOnGrid(from, to Point) (transfer, error) {
	target, err := b.StackAt(to)
	if err != nil {
		return transfer{}, fmt.Errorf("target grid: %w", err)
	}

	grid, err := b.StackAt(from)
	if err != nil {
		return transfer{}, fmt.Errorf("source grid: %w", err)
	}

	piece, ok := grid.Current()
	if !ok {
		return transfer{}, fmt.Errorf("%w: there's no piece at the grid %s", ErrNoPieceAtSource, from)
	}
	if piece.Color != b.turn {
		return transfer{}, fmt.Errorf("%w: %s is %s, %s to move", ErrOpponentPiece, piece, piece.Color, b.turn)
	}
	if !target.Fits(piece) {
		top, _ := target.Current()
		return transfer{}, fmt.Errorf("%w: %s cannot cover %s at %s", ErrPieceDoesNotFit, piece, top, to)
	}

	return transfer{src: grid, dst: target, piece: piece}, nil
}

// planFromExternalStack validates moving the top piece of a reserve stack onto the grid
func (b *Board) planFromExternalStack(from ReserveRef, to Point) (transfer, error) {
	reserve, err := b.Reserve(from)
	if err != nil {
		return transfer{}, err
	}

	target, err := b.StackAt(to)
	if err != nil {
		return transfer{}, fmt.Errorf("target grid: %w", err)
	}

	piece, ok := reserve.Current()
	if !ok {
		return transfer{}, fmt.Errorf("%w: %s is empty", ErrNoPieceAtSource, from)
	}
	if piece.Color != b.turn {
		return transfer{}, fmt.Errorf("%w: it's not %s's turn yet", ErrNotColorsTurn, piece.Color)
	}
	if !target.Fits(piece) {
		top, _ := target.Current()
		return transfer{}, fmt.Errorf("%w: %s cannot cover %s at %s", ErrPieceDoesNotFit, piece, top, to)
	}

	return transfer{src: reserve, dst: target, piece: piece}, nil
}
