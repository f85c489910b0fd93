package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionLabel(t *testing.T) {
	assert.Equal(t, "1A", Position{0, 0}.Label())
	assert.Equal(t, "12I", Position{8, 11}.Label())

	p, err := ParsePosition("6C")
	require.NoError(t, err)
	assert.Equal(t, Position{X: 2, Y: 5}, p)

	for _, bad := range []string{"", "A", "13A", "1J", "xA"} {
		_, err := ParsePosition(bad)
		assert.Error(t, err, bad)
	}
}

func TestNeighborsStayOnBoard(t *testing.T) {
	assert.Len(t, Position{0, 0}.Neighbors(), 2)
	assert.Len(t, Position{8, 11}.Neighbors(), 2)
	assert.Len(t, Position{0, 5}.Neighbors(), 3)
	assert.Len(t, Position{4, 5}.Neighbors(), 4)
}

func TestGroupIgnoresInsertionOrder(t *testing.T) {
	tiles := []Position{{2, 2}, {2, 3}, {3, 3}, {4, 4}, {3, 2}}
	orders := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
	}
	want := []Position{{2, 2}, {2, 3}, {3, 2}, {3, 3}}

	for _, order := range orders {
		b := NewBoard()
		for _, i := range order {
			b.Consolidate(tiles[i])
		}
		assert.Equal(t, want, positionsOf(b.Group(Position{2, 2})), "order %v", order)
		// 对角线不算相邻
		assert.Equal(t, []Position{{4, 4}}, positionsOf(b.Group(Position{4, 4})))
	}
}

func TestConsolidate(t *testing.T) {
	b := NewBoard()
	group := b.Consolidate(Position{0, 0})
	require.Len(t, group, 1)
	assert.True(t, group[0].IsPlaced)
	assert.Equal(t, IncorporatedOwner, group[0].Owner)

	group = b.Consolidate(Position{0, 1})
	assert.Len(t, group, 2)
	assert.Len(t, b.PlacedTiles(), 2)
	assert.Nil(t, b.Group(Position{5, 5}))
}

func TestRelabelAndNeighborBrands(t *testing.T) {
	b := NewBoard()
	for _, p := range []Position{{1, 1}, {1, 2}, {3, 1}} {
		b.Consolidate(p)
	}
	b.SetOwner([]Position{{1, 1}, {1, 2}}, BrandOwner(Zeta))
	b.SetOwner([]Position{{3, 1}}, BrandOwner(Hydra))

	assert.Equal(t, []Brand{Hydra, Zeta}, b.NeighborBrands(Position{2, 1}))
	assert.Equal(t, 2, b.CountOf(BrandOwner(Zeta)))

	assert.Equal(t, 2, b.Relabel(BrandOwner(Zeta), BrandOwner(Hydra)))
	assert.Equal(t, 3, b.CountOf(BrandOwner(Hydra)))
	assert.Zero(t, b.CountOf(BrandOwner(Zeta)))
}

func TestOwnerText(t *testing.T) {
	for _, o := range []Owner{NoOwner, IncorporatedOwner, BrandOwner(Phoenix)} {
		text, err := o.MarshalText()
		require.NoError(t, err)
		var got Owner
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, o, got)
	}
	var o Owner
	assert.Error(t, o.UnmarshalText([]byte("tower")))
}
