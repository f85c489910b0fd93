package game

import (
	"encoding/json"
	"fmt"
)

type PlayerSnapshot struct {
	Username string        `json:"username"`
	Balance  int           `json:"balance"`
	Tiles    []*Tile       `json:"tiles"`
	NewTile  *Tile         `json:"newTile,omitempty"`
	Stocks   map[Brand]int `json:"stocks"`
}

// Snapshot 可序列化的整局数据。恢复后从第一位玩家的放置阶段重新开始，
// 未完成的并购和回合内进度不保留。
type Snapshot struct {
	ID           string                 `json:"id"`
	Tiles        []Position             `json:"tiles"`
	Players      []PlayerSnapshot       `json:"players"`
	Corporations map[Brand]*Corporation `json:"corporations"`
	SetupTiles   []SetupTile            `json:"setupTiles"`
	PlacedTiles  []Tile                 `json:"placedTiles"`
}

func (g *Game) Snapshot() Snapshot {
	players := make([]PlayerSnapshot, len(g.players))
	for i, p := range g.players {
		portfolio := p.Portfolio()
		players[i] = PlayerSnapshot{
			Username: p.username,
			Balance:  portfolio.Balance,
			Tiles:    portfolio.Tiles,
			NewTile:  portfolio.NewTile,
			Stocks:   portfolio.Stocks,
		}
	}
	corporations := make(map[Brand]*Corporation, len(g.corporations))
	for brand, corp := range g.corporations {
		c := *corp
		corporations[brand] = &c
	}
	return Snapshot{
		ID:           g.id,
		Tiles:        append([]Position(nil), g.stack...),
		Players:      players,
		Corporations: corporations,
		SetupTiles:   append([]SetupTile(nil), g.setupTiles...),
		PlacedTiles:  g.board.PlacedTiles(),
	}
}

func (g *Game) ToJSON() ([]byte, error) {
	return json.Marshal(g.Snapshot())
}

// FromSnapshot 按快照重建游戏，座位顺序沿用快照中的玩家顺序
func FromSnapshot(s Snapshot, opts ...Option) (*Game, error) {
	usernames := make([]string, len(s.Players))
	for i, p := range s.Players {
		usernames[i] = p.Username
	}
	g, err := New(s.ID, usernames, opts...)
	if err != nil {
		return nil, fmt.Errorf("恢复游戏 %s 失败: %w", s.ID, err)
	}

	for _, pos := range s.Tiles {
		if !pos.Valid() {
			return nil, fmt.Errorf("恢复游戏 %s 失败: %w: 牌堆中有无效 tile %v", s.ID, ErrInvalidSnapshot, pos)
		}
	}
	g.stack = append([]Position(nil), s.Tiles...)
	seen := make(map[Position]bool, len(s.PlacedTiles))
	for _, t := range s.PlacedTiles {
		if !t.Position.Valid() || seen[t.Position] {
			return nil, fmt.Errorf("恢复游戏 %s 失败: %w: 已放置 tile %v 无效或重复", s.ID, ErrInvalidSnapshot, t.Position)
		}
		seen[t.Position] = true
	}
	g.board.restore(s.PlacedTiles)
	g.setupTiles = append([]SetupTile(nil), s.SetupTiles...)

	for brand, corp := range s.Corporations {
		if !brand.Valid() || corp == nil {
			return nil, fmt.Errorf("恢复游戏 %s 失败: %w: 未知公司 %q", s.ID, ErrInvalidSnapshot, brand)
		}
		c := *corp
		c.name = brand
		g.corporations[brand] = &c
	}

	for i, ps := range s.Players {
		p := g.players[i]
		p.balance = ps.Balance
		for _, t := range ps.Tiles {
			if t != nil {
				c := *t
				t = &c
			}
			p.tiles = append(p.tiles, t)
		}
		p.newTile = restoreNewTile(p.tiles, ps.NewTile)
		for brand, n := range ps.Stocks {
			if !brand.Valid() {
				return nil, fmt.Errorf("恢复游戏 %s 失败: %w: 未知公司 %q", s.ID, ErrInvalidSnapshot, brand)
			}
			p.stocks[brand] = n
		}
	}

	if err := g.validate(); err != nil {
		return nil, fmt.Errorf("恢复游戏 %s 失败: %w", s.ID, err)
	}

	g.turn = 0
	g.round = 0
	g.currentPlayer().StartTurn()
	g.markUnplayableTiles()
	g.setState(StatePlaceTile, StateInfo{})
	return g, nil
}

// restoreNewTile 新摸的牌指向手牌中的同一张
func restoreNewTile(hand []*Tile, saved *Tile) *Tile {
	if saved == nil {
		return nil
	}
	for _, t := range hand {
		if t != nil && t.Position == saved.Position {
			return t
		}
	}
	c := *saved
	return &c
}

// validate 股票总数守恒、余额非负、公司规模与棋盘归属一致
func (g *Game) validate() error {
	for _, p := range g.players {
		if p.balance < 0 {
			return fmt.Errorf("%w: 玩家 %s 余额为负", ErrInvalidSnapshot, p.username)
		}
	}
	for _, brand := range Brands {
		corp := g.corporations[brand]
		total := corp.stocks
		if corp.stocks < 0 {
			return fmt.Errorf("%w: %s 银行股票为负", ErrInvalidSnapshot, brand)
		}
		for _, p := range g.players {
			if p.stocks[brand] < 0 {
				return fmt.Errorf("%w: 玩家 %s 持有 %s 股票为负", ErrInvalidSnapshot, p.username, brand)
			}
			total += p.stocks[brand]
		}
		if total != MaxStocks {
			return fmt.Errorf("%w: %s 股票总数 %d", ErrInvalidSnapshot, brand, total)
		}
		if n := g.board.CountOf(BrandOwner(brand)); n != corp.size || corp.isActive != (corp.size > 0) {
			return fmt.Errorf("%w: %s 规模 %d 与棋盘 %d 不一致", ErrInvalidSnapshot, brand, corp.size, n)
		}
	}
	return nil
}

func FromJSON(data []byte, opts ...Option) (*Game, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: 解析失败: %v", ErrInvalidSnapshot, err)
	}
	return FromSnapshot(s, opts...)
}
