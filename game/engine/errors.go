package engine

import (
	"errors"
	"fmt"
)

// Construction errors
var (
	ErrIllegalPiece      = errors.New("illegal piece")
	ErrMissingPieces     = errors.New("missing pieces")
	ErrExtraPieces       = errors.New("extra pieces")
	ErrDuplicatePiece    = errors.New("duplicate piece")
	ErrReserveStackCount = errors.New("wrong number of reserve stacks")
	ErrInvalidGrid       = errors.New("invalid grid")
)

// Move errors
var (
	ErrPointOutOfRange = errors.New("point out of range")
	ErrOpponentPiece   = errors.New("cannot move opponent's piece")
	ErrNotColorsTurn   = errors.New("not this color's turn")
	ErrPieceDoesNotFit = errors.New("piece does not fit")
	ErrUnknownStack    = errors.New("unknown stack")
	ErrNoPieceAtSource = errors.New("no piece at source")
	ErrMoveRejected    = errors.New("move rejected")

	ErrGameOver           = errors.New("game is over")
	ErrInvalidMoveRequest = errors.New("invalid move request")
)

// MoveRejectedError is returned by every failed move. It matches ErrMoveRejected
// and unwraps to the specific cause.
type MoveRejectedError struct {
	From MoveSource
	To   Point
	Err  error
}

func (e *MoveRejectedError) Error() string {
	return fmt.Sprintf("move rejected: %s -> %s: %v", e.From, e.To, e.Err)
}

func (e *MoveRejectedError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrMoveRejected) hold for any rejection
func (e *MoveRejectedError) Is(target error) bool {
	return target == ErrMoveRejected
}
