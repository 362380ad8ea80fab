package service

import (
	"errors"

	"github.com/wricardo/mcp-training/gobblet/game/engine"
)

// Rejection codes reported for moves the engine refused
const (
	RejectOutOfRange     = "out_of_range"
	RejectOpponentPiece  = "opponent_piece"
	RejectNotYourTurn    = "not_your_turn"
	RejectDoesNotFit     = "does_not_fit"
	RejectUnknownStack   = "unknown_stack"
	RejectNoPiece        = "no_piece"
	RejectGameOver       = "game_over"
	RejectInvalidRequest = "invalid_request"
)

var rejectionCodes = []struct {
	err  error
	code string
}{
	{engine.ErrPointOutOfRange, RejectOutOfRange},
	{engine.ErrOpponentPiece, RejectOpponentPiece},
	{engine.ErrNotColorsTurn, RejectNotYourTurn},
	{engine.ErrPieceDoesNotFit, RejectDoesNotFit},
	{engine.ErrUnknownStack, RejectUnknownStack},
	{engine.ErrNoPieceAtSource, RejectNoPiece},
	{engine.ErrGameOver, RejectGameOver},
	{engine.ErrInvalidMoveRequest, RejectInvalidRequest},
}

// RejectionCode maps a move error to its stable code, or "" if err is not a
// move rejection.
func RejectionCode(err error) string {
	if err == nil {
		return ""
	}
	for _, rc := range rejectionCodes {
		if errors.Is(err, rc.err) {
			return rc.code
		}
	}
	return ""
}
