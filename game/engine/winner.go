package engine

import "fmt"

// winMasks select the Black bits (01) of the four positions in each line of
// the hex snapshot: 4 rows, 4 columns, then the two diagonals. Shifting a mask
// left by one selects the White bits (10) of the same line.
var winMasks = [10]uint32{
	0x55000000, 0x00550000, 0x00005500, 0x00000055,
	0x40404040, 0x10101010, 0x04040404, 0x01010101,
	0x01041040, 0x40100401,
}

// HexSnapshot encodes the top of every grid position in two bits, row-major
// and most significant first: 00 empty, 01 Black, 10 White.
func (b *Board) HexSnapshot() uint32 {
	var snap uint32
	for _, s := range b.grid {
		snap <<= 2
		if top, ok := s.Current(); ok {
			snap += uint32(top.Color) + 1
		}
	}
	return snap
}

// CheckForWinner returns the color owning a complete line. Lines are checked
// in a fixed order, Black before White within each line.
func (b *Board) CheckForWinner() (Color, bool) {
	return WinnerOf(b.HexSnapshot())
}

// WinnerOf evaluates a hex snapshot for a winning line
func WinnerOf(snap uint32) (Color, bool) {
	for _, w := range winMasks {
		if w&snap == w {
			return Black, true
		}
		if (w<<1)&snap == w<<1 {
			return White, true
		}
	}
	return Black, false
}

// FormatSnapshot renders a hex snapshot as 0x%08X
func FormatSnapshot(snap uint32) string {
	return fmt.Sprintf("0x%08X", snap)
}
