package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildReserves(t *testing.T, layout ReserveLayout) []*Stack {
	t.Helper()
	reserves, err := layout.Build()
	require.NoError(t, err)
	return reserves
}

func TestNewBoard(t *testing.T) {
	t.Run("default board", func(t *testing.T) {
		b := NewDefaultBoard()
		assert.Equal(t, Black, b.Turn())
		assert.Len(t, b.Grid(), GridSize)
		for _, s := range b.Grid() {
			assert.Zero(t, s.Len())
		}
		assert.Len(t, b.BlackReserves(), ReserveStacksPerColor)
		assert.Len(t, b.WhiteReserves(), ReserveStacksPerColor)
		assert.Equal(t, uint32(0), b.HexSnapshot())

		top, ok := b.BlackReserves()[2].Current()
		require.True(t, ok)
		assert.Equal(t, Piece{Size: 12, Color: Black}, top)
	})

	t.Run("turn can start with white", func(t *testing.T) {
		b, err := NewBoard(BoardData{TurnTo: White, Reserves: DefaultReserves()})
		require.NoError(t, err)
		assert.Equal(t, White, b.Turn())
	})

	tests := []struct {
		name   string
		layout ReserveLayout
		want   error
		text   string
	}{
		{
			name: "missing piece",
			layout: ReserveLayout{
				Black: [][]int{{1, 2, 3}, {5, 6, 7, 8}, {9, 10, 11, 12}},
				White: DefaultReserveLayout().White,
			},
			want: ErrMissingPieces,
			text: "missing 1 piece(s) in external stacks of BLACK",
		},
		{
			name: "extra piece",
			layout: ReserveLayout{
				Black: DefaultReserveLayout().Black,
				White: [][]int{{3, 6, 9, 12}, {1, 4, 7, 10}, {2, 5, 8, 11, 12}},
			},
			want: ErrExtraPieces,
			text: "found 1 extra piece(s) in external stacks of WHITE",
		},
		{
			name: "duplicate piece",
			layout: ReserveLayout{
				Black: [][]int{{1, 2, 3, 4}, {4, 6, 7, 8}, {9, 10, 11, 12}},
				White: DefaultReserveLayout().White,
			},
			want: ErrDuplicatePiece,
		},
		{
			name: "piece too large",
			layout: ReserveLayout{
				Black: [][]int{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 13}},
				White: DefaultReserveLayout().White,
			},
			want: ErrIllegalPiece,
		},
		{
			name: "piece too small",
			layout: ReserveLayout{
				Black: DefaultReserveLayout().Black,
				White: [][]int{{0, 6, 9, 12}, {1, 4, 7, 10}, {2, 5, 8, 11}},
			},
			want: ErrIllegalPiece,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBoard(BoardData{Reserves: buildReserves(t, tt.layout)})
			require.ErrorIs(t, err, tt.want)
			if tt.text != "" {
				assert.Contains(t, err.Error(), tt.text)
			}
		})
	}

	t.Run("wrong color in reserve group", func(t *testing.T) {
		reserves := DefaultReserves()
		swapped, err := NewExternalStack([]int{1, 2, 3, 4}, White)
		require.NoError(t, err)
		reserves[0] = swapped

		_, err = NewBoard(BoardData{Reserves: reserves})
		assert.ErrorIs(t, err, ErrIllegalPiece)
	})

	t.Run("wrong number of reserve stacks", func(t *testing.T) {
		_, err := NewBoard(BoardData{Reserves: DefaultReserves()[:5]})
		assert.ErrorIs(t, err, ErrReserveStackCount)
	})

	t.Run("archived grid must have sixteen stacks", func(t *testing.T) {
		_, err := NewBoard(BoardData{
			ArchivedGrid: []*Stack{NewStack()},
			Reserves:     DefaultReserves(),
		})
		assert.ErrorIs(t, err, ErrInvalidGrid)
	})
}

func TestBoardLookups(t *testing.T) {
	b := NewDefaultBoard()

	t.Run("stack at", func(t *testing.T) {
		s, err := b.StackAt(Point{X: 4, Y: 4})
		require.NoError(t, err)
		assert.Same(t, b.Grid()[15], s)

		_, err = b.StackAt(Point{X: 0, Y: 1})
		assert.ErrorIs(t, err, ErrPointOutOfRange)
		_, err = b.StackAt(Point{X: 1, Y: 5})
		assert.ErrorIs(t, err, ErrPointOutOfRange)
	})

	t.Run("find reserve", func(t *testing.T) {
		for i, s := range b.Reserves() {
			ref, err := b.FindReserve(s)
			require.NoError(t, err)
			assert.Equal(t, ReserveRef(i), ref)
		}

		_, err := b.FindReserve(NewStack())
		assert.ErrorIs(t, err, ErrUnknownStack)
	})

	t.Run("reserve ref owner", func(t *testing.T) {
		assert.Equal(t, Black, ReserveRef(2).Owner())
		assert.Equal(t, White, ReserveRef(3).Owner())
		assert.False(t, ReserveRef(6).Valid())
		assert.False(t, ReserveRef(-1).Valid())
	})

	t.Run("point index round trip", func(t *testing.T) {
		for i := 0; i < GridSize; i++ {
			idx, err := PointAt(i).Index()
			require.NoError(t, err)
			assert.Equal(t, i, idx)
		}
		assert.Equal(t, Point{X: 3, Y: 2}, PointAt(6))
	})
}
