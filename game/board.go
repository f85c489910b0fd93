package game

import "slices"

type Tile struct {
	Position Position `json:"position"`
	IsPlaced bool     `json:"isPlaced"`
	Owner    Owner    `json:"belongsTo"`
	Exchange bool     `json:"exchange,omitempty"`
}

func newTile(p Position) *Tile {
	return &Tile{Position: p}
}

// Board 记录已放置的 tile 和归属
type Board struct {
	cells  [boardSize]Tile
	placed []Position
}

func NewBoard() *Board {
	b := &Board{}
	for _, p := range allPositions() {
		b.cells[p.index()] = Tile{Position: p}
	}
	return b
}

func (b *Board) Tile(p Position) Tile {
	return b.cells[p.index()]
}

func (b *Board) IsPlaced(p Position) bool {
	return p.Valid() && b.cells[p.index()].IsPlaced
}

// Consolidate 放置 tile 并返回它所在的连通块
func (b *Board) Consolidate(p Position) []Tile {
	cell := &b.cells[p.index()]
	if !cell.IsPlaced {
		cell.IsPlaced = true
		cell.Owner = IncorporatedOwner
		b.placed = append(b.placed, p)
	}
	return b.Group(p)
}

// Group 从 start 出发用栈做洪泛，只走已放置的上下左右邻居
func (b *Board) Group(start Position) []Tile {
	if !b.IsPlaced(start) {
		return nil
	}
	var visited [boardSize]bool
	visited[start.index()] = true
	stack := []Position{start}
	var group []Tile

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		group = append(group, b.cells[p.index()])

		for _, n := range p.Neighbors() {
			if visited[n.index()] || !b.cells[n.index()].IsPlaced {
				continue
			}
			visited[n.index()] = true
			stack = append(stack, n)
		}
	}

	slices.SortFunc(group, func(a, c Tile) int {
		return a.Position.index() - c.Position.index()
	})
	return group
}

func (b *Board) SetOwner(positions []Position, owner Owner) {
	for _, p := range positions {
		b.cells[p.index()].Owner = owner
	}
}

// Relabel 把 from 的全部 tile 改归属为 to，返回改动数量
func (b *Board) Relabel(from, to Owner) int {
	n := 0
	for _, p := range b.placed {
		cell := &b.cells[p.index()]
		if cell.Owner == from {
			cell.Owner = to
			n++
		}
	}
	return n
}

// CountOf 统计某个归属的 tile 数量
func (b *Board) CountOf(owner Owner) int {
	n := 0
	for _, p := range b.placed {
		if b.cells[p.index()].Owner == owner {
			n++
		}
	}
	return n
}

// NeighborBrands 邻接的已放置 tile 中出现的公司（去重，按 Brands 顺序）
func (b *Board) NeighborBrands(p Position) []Brand {
	seen := make(map[Brand]bool)
	for _, n := range p.Neighbors() {
		cell := b.cells[n.index()]
		if cell.IsPlaced && cell.Owner.IsBrand() {
			seen[cell.Owner.Brand] = true
		}
	}
	var brands []Brand
	for _, brand := range Brands {
		if seen[brand] {
			brands = append(brands, brand)
		}
	}
	return brands
}

// PlacedTiles 按放置顺序返回
func (b *Board) PlacedTiles() []Tile {
	tiles := make([]Tile, 0, len(b.placed))
	for _, p := range b.placed {
		tiles = append(tiles, b.cells[p.index()])
	}
	return tiles
}

func (b *Board) restore(tiles []Tile) {
	for _, t := range tiles {
		if !t.Position.Valid() {
			continue
		}
		cell := &b.cells[t.Position.index()]
		if !cell.IsPlaced {
			b.placed = append(b.placed, t.Position)
		}
		cell.IsPlaced = true
		cell.Owner = t.Owner
		if cell.Owner == NoOwner {
			cell.Owner = IncorporatedOwner
		}
	}
}

func positionsOf(tiles []Tile) []Position {
	positions := make([]Position, len(tiles))
	for i, t := range tiles {
		positions[i] = t.Position
	}
	return positions
}
