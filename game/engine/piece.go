package engine

import (
	"fmt"
	"strings"
)

// Color identifies the owner of a piece. Black is the zero value and moves first.
type Color int

const (
	Black Color = iota
	White
)

// Board geometry and piece set
const (
	GridSide              = 4
	GridSize              = GridSide * GridSide
	MinPieceSize          = 1
	MaxPieceSize          = 12
	PiecesPerColor        = MaxPieceSize - MinPieceSize + 1
	ReserveStacksPerColor = 3
	ReserveStackCount     = ReserveStacksPerColor * 2
)

// String returns the upper-case color name used in messages
func (c Color) String() string {
	switch c {
	case Black:
		return "BLACK"
	case White:
		return "WHITE"
	default:
		return fmt.Sprintf("Color(%d)", int(c))
	}
}

// Opponent returns the other color
func (c Color) Opponent() Color {
	if c == Black {
		return White
	}
	return Black
}

// Valid reports whether c is Black or White
func (c Color) Valid() bool {
	return c == Black || c == White
}

// MarshalText encodes the color as "black" or "white"
func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", int(c))
	}
	return []byte(strings.ToLower(c.String())), nil
}

// UnmarshalText accepts "black" or "white" in any case
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor parses a color name
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b":
		return Black, nil
	case "white", "w":
		return White, nil
	default:
		return Black, fmt.Errorf("unknown color %q", s)
	}
}

// Piece is a single game piece. Larger sizes cover smaller ones.
type Piece struct {
	Size  int   `json:"size" yaml:"size"`
	Color Color `json:"color" yaml:"color"`
}

// ValidSize reports whether the piece size is within MinPieceSize..MaxPieceSize
func (p Piece) ValidSize() bool {
	return p.Size >= MinPieceSize && p.Size <= MaxPieceSize
}

func (p Piece) String() string {
	return fmt.Sprintf("{size:%d color:%s}", p.Size, p.Color)
}
