package game

import (
	"fmt"
	"strconv"
)

const (
	BoardRows = 9  // x: A..I
	BoardCols = 12 // y: 1..12

	boardSize = BoardRows * BoardCols
)

// Position 棋盘格坐标，x 为行（A..I），y 为列（1..12）
type Position struct {
	X int `json:"x" mapstructure:"x"`
	Y int `json:"y" mapstructure:"y"`
}

func (p Position) Valid() bool {
	return p.X >= 0 && p.X < BoardRows && p.Y >= 0 && p.Y < BoardCols
}

// Label 返回 "1A" 形式的编号
func (p Position) Label() string {
	return fmt.Sprintf("%d%c", p.Y+1, 'A'+p.X)
}

func (p Position) String() string {
	return p.Label()
}

func (p Position) index() int {
	return p.X*BoardCols + p.Y
}

// Neighbors 上下左右邻接的格子，不含对角线
func (p Position) Neighbors() []Position {
	adjacent := make([]Position, 0, 4)
	if p.X > 0 {
		adjacent = append(adjacent, Position{p.X - 1, p.Y})
	}
	if p.X < BoardRows-1 {
		adjacent = append(adjacent, Position{p.X + 1, p.Y})
	}
	if p.Y > 0 {
		adjacent = append(adjacent, Position{p.X, p.Y - 1})
	}
	if p.Y < BoardCols-1 {
		adjacent = append(adjacent, Position{p.X, p.Y + 1})
	}
	return adjacent
}

// closerToOrigin 离 1A 更近：先比列号，再比行号
func closerToOrigin(a, b Position) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// ParsePosition 解析 "6A" 形式的编号
func ParsePosition(label string) (Position, error) {
	if len(label) < 2 {
		return Position{}, fmt.Errorf("无效的 tile 编号: %q", label)
	}
	col, err := strconv.Atoi(label[:len(label)-1])
	if err != nil {
		return Position{}, fmt.Errorf("无效的 tile 编号: %q", label)
	}
	p := Position{X: int(label[len(label)-1] - 'A'), Y: col - 1}
	if !p.Valid() {
		return Position{}, fmt.Errorf("tile 编号越界: %q", label)
	}
	return p, nil
}

func allPositions() []Position {
	positions := make([]Position, 0, boardSize)
	for x := 0; x < BoardRows; x++ {
		for y := 0; y < BoardCols; y++ {
			positions = append(positions, Position{x, y})
		}
	}
	return positions
}
