package game

const (
	HandSize      = 6
	InitialAmount = 6000
)

type Portfolio struct {
	Tiles   []*Tile       `json:"tiles"`
	Stocks  map[Brand]int `json:"stocks"`
	Balance int           `json:"balance"`
	NewTile *Tile         `json:"newTile"`
}

type Player struct {
	username     string
	balance      int
	tiles        []*Tile
	newTile      *Tile
	stocks       map[Brand]int
	isTakingTurn bool
}

func NewPlayer(username string) *Player {
	stocks := make(map[Brand]int, len(Brands))
	for _, brand := range Brands {
		stocks[brand] = 0
	}
	return &Player{username: username, stocks: stocks}
}

func (p *Player) Username() string   { return p.username }
func (p *Player) Balance() int       { return p.balance }
func (p *Player) IsTakingTurn() bool { return p.isTakingTurn }

func (p *Player) AddIncome(amount int) {
	p.balance += amount
}

// AddExpense 不检查余额，调用方负责
func (p *Player) AddExpense(amount int) {
	p.balance -= amount
}

func (p *Player) AddTile(t *Tile) {
	p.tiles = append(p.tiles, t)
}

// heldTile 返回手里尚未放置的那张 tile
func (p *Player) heldTile(pos Position) *Tile {
	for _, t := range p.tiles {
		if t != nil && !t.IsPlaced && t.Position == pos {
			return t
		}
	}
	return nil
}

// PlaceTile 只做标记，槽位留到补牌时替换
func (p *Player) PlaceTile(pos Position) bool {
	t := p.heldTile(pos)
	if t == nil {
		return false
	}
	t.IsPlaced = true
	return true
}

// RefillTile 优先替换已放置的槽位，其次是空槽；牌堆空时 t 为 nil
func (p *Player) RefillTile(t *Tile) {
	p.newTile = t
	for i, slot := range p.tiles {
		if slot != nil && slot.IsPlaced {
			p.tiles[i] = t
			return
		}
	}
	for i, slot := range p.tiles {
		if slot == nil {
			p.tiles[i] = t
			return
		}
	}
	if len(p.tiles) < HandSize {
		p.tiles = append(p.tiles, t)
	}
}

// placedSlots 需要补牌的槽位数
func (p *Player) placedSlots() int {
	n := 0
	for _, t := range p.tiles {
		if t != nil && t.IsPlaced {
			n++
		}
	}
	return n
}

func (p *Player) exchangeCount() int {
	n := 0
	for _, t := range p.tiles {
		if t != nil && !t.IsPlaced && t.Exchange {
			n++
		}
	}
	return n
}

// ExchangeTiles 依次替换所有被标记为需要交换的 tile
func (p *Player) ExchangeTiles(newTiles []*Tile) {
	next := 0
	for i, t := range p.tiles {
		if t == nil || t.IsPlaced || !t.Exchange {
			continue
		}
		var replacement *Tile
		if next < len(newTiles) {
			replacement = newTiles[next]
			next++
		}
		p.tiles[i] = replacement
	}
}

// Tiles 手里可用的 tile（不含已放置和空槽）
func (p *Player) Tiles() []Tile {
	var tiles []Tile
	for _, t := range p.tiles {
		if t != nil && !t.IsPlaced {
			tiles = append(tiles, *t)
		}
	}
	return tiles
}

func (p *Player) AddStocks(name Brand, n int) {
	p.stocks[name] += n
}

// SellStocks 数量不足时直接报错，不做截断
func (p *Player) SellStocks(name Brand, n int) error {
	if n < 0 || n > p.stocks[name] {
		return &InsufficientSharesError{Corporation: name, Requested: n, Available: p.stocks[name]}
	}
	p.stocks[name] -= n
	return nil
}

func (p *Player) Stocks(name Brand) int {
	return p.stocks[name]
}

func (p *Player) StartTurn() {
	p.isTakingTurn = true
}

func (p *Player) EndTurn() {
	p.isTakingTurn = false
}

func (p *Player) Portfolio() Portfolio {
	tiles := make([]*Tile, len(p.tiles))
	for i, t := range p.tiles {
		if t != nil {
			c := *t
			tiles[i] = &c
		}
	}
	stocks := make(map[Brand]int, len(p.stocks))
	for brand, n := range p.stocks {
		stocks[brand] = n
	}
	var newTile *Tile
	if p.newTile != nil {
		c := *p.newTile
		newTile = &c
	}
	return Portfolio{
		Tiles:   tiles,
		Stocks:  stocks,
		Balance: p.balance,
		NewTile: newTile,
	}
}
