package game

import (
	"sort"

	"go.uber.org/zap"
)

type PlayerStatus struct {
	Username     string `json:"username"`
	IsTakingTurn bool   `json:"isTakingTurn"`
	You          bool   `json:"you"`
}

type Status struct {
	ID           string                     `json:"id"`
	State        State                      `json:"state"`
	StateInfo    StateInfo                  `json:"stateInfo"`
	Players      []PlayerStatus             `json:"players"`
	Portfolio    Portfolio                  `json:"portfolio"`
	Corporations map[Brand]CorporationStats `json:"corporations"`
	PlacedTiles  []Tile                     `json:"placedTiles"`
	SetupTiles   []SetupTile                `json:"setupTiles"`
	Turns        Turns                      `json:"turns"`
	Round        int                        `json:"round"`
}

type PlayerResult struct {
	Rank     int           `json:"rank"`
	Username string        `json:"username"`
	Balance  int           `json:"balance"`
	Stocks   map[Brand]int `json:"stocks"`
}

// Result 游戏结束时冻结的结算结果
type Result struct {
	Players      []PlayerResult             `json:"players"`
	Corporations map[Brand]CorporationStats `json:"corporations"`
	Bonuses      map[Brand]map[string]int   `json:"bonuses"`
}

func (g *Game) corporationStats() map[Brand]CorporationStats {
	stats := make(map[Brand]CorporationStats, len(g.corporations))
	for brand, corp := range g.corporations {
		stats[brand] = corp.Stats()
	}
	return stats
}

// Status 某个玩家视角的只读快照
func (g *Game) Status(viewer string) (Status, error) {
	self, err := g.player(viewer)
	if err != nil {
		return Status{}, err
	}

	players := make([]PlayerStatus, len(g.players))
	for i, p := range g.players {
		players[i] = PlayerStatus{
			Username:     p.username,
			IsTakingTurn: p.isTakingTurn,
			You:          p == self,
		}
	}

	return Status{
		ID:           g.id,
		State:        g.state,
		StateInfo:    g.stateInfo,
		Players:      players,
		Portfolio:    self.Portfolio(),
		Corporations: g.corporationStats(),
		PlacedTiles:  g.board.PlacedTiles(),
		SetupTiles:   append([]SetupTile(nil), g.setupTiles...),
		Turns:        g.log.Turns(),
		Round:        g.round,
	}, nil
}

// Result 只有游戏结束后才有值
func (g *Game) Result() (Result, bool) {
	if g.result == nil {
		return Result{}, false
	}
	return *g.result, true
}

// settle 发放所有公司的红利，再按现价强制卖出全部股票
func (g *Game) settle() {
	bonuses := make(map[Brand]map[string]int)
	for _, brand := range Brands {
		corp := g.corporations[brand]
		if corp.IsActive() {
			bonuses[brand] = DistributeBonuses(corp, g.players)
		}
	}

	finalStocks := make(map[string]map[Brand]int, len(g.players))
	for _, p := range g.players {
		finalStocks[p.username] = p.Portfolio().Stocks
		for _, brand := range Brands {
			n := p.Stocks(brand)
			if n == 0 {
				continue
			}
			corp := g.corporations[brand]
			p.AddIncome(n * corp.Price())
			_ = p.SellStocks(brand, n)
			corp.IncrementStocks(n)
		}
		p.EndTurn()
	}

	results := make([]PlayerResult, len(g.players))
	for i, p := range g.players {
		results[i] = PlayerResult{Username: p.username, Balance: p.balance, Stocks: finalStocks[p.username]}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Balance > results[j].Balance
	})
	for i := range results {
		results[i].Rank = i + 1
		if i > 0 && results[i].Balance == results[i-1].Balance {
			results[i].Rank = results[i-1].Rank
		}
	}

	g.result = &Result{
		Players:      results,
		Corporations: g.corporationStats(),
		Bonuses:      bonuses,
	}
	g.log.Add(Activity{Kind: ActivityGameEnded, Username: g.currentPlayer().username})
	g.logger.Info("游戏结束", zap.String("gameID", g.id), zap.Any("result", results))
	g.state = StateGameEnd
	g.stateInfo = StateInfo{}
}
