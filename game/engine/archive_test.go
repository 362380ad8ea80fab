package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveRestore(t *testing.T) {
	b := NewDefaultBoard()
	for _, m := range columnGame[:4] {
		mustMove(t, b, m.from, m.to)
	}

	t.Run("restored board matches original", func(t *testing.T) {
		restored, err := RestoreBoard(b.Archive())
		require.NoError(t, err)
		assert.Equal(t, b.HexSnapshot(), restored.HexSnapshot())
		assert.Equal(t, b.Turn(), restored.Turn())
		assert.Equal(t, b.Archive(), restored.Archive())
	})

	t.Run("archive survives json", func(t *testing.T) {
		data, err := json.Marshal(b.Archive())
		require.NoError(t, err)

		var st BoardState
		require.NoError(t, json.Unmarshal(data, &st))
		restored, err := RestoreBoard(st)
		require.NoError(t, err)
		assert.Equal(t, b.Archive(), restored.Archive())
	})

	t.Run("restored board keeps playing", func(t *testing.T) {
		restored, err := RestoreBoard(b.Archive())
		require.NoError(t, err)
		for _, m := range columnGame[4:] {
			mustMove(t, restored, m.from, m.to)
		}
		winner, ok := restored.CheckForWinner()
		require.True(t, ok)
		assert.Equal(t, Black, winner)
		assert.Equal(t, uint32(0x40480002), b.HexSnapshot(), "original board is independent")
	})

	t.Run("corrupt stack order is rejected", func(t *testing.T) {
		st := b.Archive()
		st.Grid[5] = []Piece{{Size: 9, Color: White}, {Size: 2, Color: White}}
		_, err := RestoreBoard(st)
		assert.ErrorIs(t, err, ErrPieceDoesNotFit)
	})

	t.Run("lost piece is rejected", func(t *testing.T) {
		st := b.Archive()
		st.Grid[0] = []Piece{}
		_, err := RestoreBoard(st)
		assert.ErrorIs(t, err, ErrMissingPieces)
	})

	t.Run("short grid is rejected", func(t *testing.T) {
		st := b.Archive()
		st.Grid = st.Grid[:15]
		_, err := RestoreBoard(st)
		assert.ErrorIs(t, err, ErrInvalidGrid)
	})
}

func TestClone(t *testing.T) {
	b := NewDefaultBoard()
	c := b.Clone()
	mustMove(t, c, ReserveRef(2), Point{X: 1, Y: 1})

	assert.Equal(t, uint32(0), b.HexSnapshot())
	assert.Equal(t, Black, b.Turn())
	assert.Equal(t, 4, b.Reserves()[2].Len())
}
