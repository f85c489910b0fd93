package game

import (
	"fmt"
	"sort"
	"time"

	"go-acquire/utils"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

type State string

const (
	StateSetup                State = "setup"
	StatePlaceTile            State = "place-tile"
	StateTilePlaced           State = "tile-placed"
	StateEstablishCorporation State = "establish-corporation"
	StateBuyStocks            State = "buy-stocks"
	StateMerge                State = "merge"
	StateMergeConflict        State = "merge-conflict"
	StateAcquirerSelection    State = "acquirer-selection"
	StateDefunctSelection     State = "defunct-selection"
	StateGameEnd              State = "game-end"
)

const (
	MaxPlayers       = 6
	MaxStocksPerTurn = 3
)

// ShuffleFunc 与 rand.Shuffle 签名一致，测试时可替换成确定顺序
type ShuffleFunc func(n int, swap func(i, j int))

// NewShuffle 用 seed 初始化独立的随机源，可并发调用
func NewShuffle(seed uint64) ShuffleFunc {
	src := &rand.LockedSource{}
	src.Seed(seed)
	return rand.New(src).Shuffle
}

type StockOrder struct {
	Name Brand `json:"name" mapstructure:"name"`
}

// StateInfo 当前状态的上下文（候选公司、并购双方等）
type StateInfo struct {
	Candidates []Brand        `json:"candidates,omitempty"`
	Acquirer   Brand          `json:"acquirer,omitempty"`
	Defunct    Brand          `json:"defunct,omitempty"`
	Pending    []Brand        `json:"pending,omitempty"`
	Multiple   bool           `json:"multiple,omitempty"`
	Disposer   string         `json:"disposer,omitempty"`
	MergeEnded bool           `json:"mergeEnded,omitempty"`
	Bonuses    map[string]int `json:"bonuses,omitempty"`
}

type SetupTile struct {
	Username string `json:"username"`
	Tile     Tile   `json:"tile"`
}

type Option func(*Game)

func WithLogger(logger *zap.Logger) Option {
	return func(g *Game) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithShuffle(shuffle ShuffleFunc) Option {
	return func(g *Game) {
		if shuffle != nil {
			g.shuffle = shuffle
		}
	}
}

// Game 一局游戏的状态机，所有方法都假定由调用方串行调用
type Game struct {
	id           string
	board        *Board
	stack        []Position
	setupTiles   []SetupTile
	corporations map[Brand]*Corporation
	players      []*Player

	turn      int
	round     int
	purchased int

	state      State
	stateInfo  StateInfo
	lastPlaced Position
	merger     *Merger
	bonuses    map[string]int

	log    *TurnLog
	result *Result

	shuffle ShuffleFunc
	logger  *zap.Logger
}

func New(id string, usernames []string, opts ...Option) (*Game, error) {
	if len(usernames) == 0 || len(usernames) > MaxPlayers {
		return nil, fmt.Errorf("%w: 玩家数量 %d", ErrInvalidPlayers, len(usernames))
	}
	seen := make(map[string]bool, len(usernames))
	players := make([]*Player, 0, len(usernames))
	for _, name := range usernames {
		if name == "" || seen[name] {
			return nil, fmt.Errorf("%w: 重复或为空的玩家 %q", ErrInvalidPlayers, name)
		}
		seen[name] = true
		players = append(players, NewPlayer(name))
	}

	g := &Game{
		id:           id,
		board:        NewBoard(),
		corporations: createCorporations(),
		players:      players,
		state:        StateSetup,
		log:          &TurnLog{},
		shuffle:      NewShuffle(uint64(time.Now().UnixNano())),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Game) ID() string           { return g.id }
func (g *Game) State() State         { return g.state }
func (g *Game) StateInfo() StateInfo { return g.stateInfo }
func (g *Game) Round() int           { return g.round }

func (g *Game) Usernames() []string {
	names := make([]string, len(g.players))
	for i, p := range g.players {
		names[i] = p.username
	}
	return names
}

func (g *Game) CurrentPlayerName() string {
	return g.currentPlayer().username
}

// ActingPlayerName 并购处理股票阶段返回当前处理股票的股东，其余时候等同 CurrentPlayerName
func (g *Game) ActingPlayerName() string {
	if g.state == StateMerge && g.stateInfo.Disposer != "" {
		return g.stateInfo.Disposer
	}
	return g.CurrentPlayerName()
}

func (g *Game) currentPlayer() *Player {
	return g.players[g.turn]
}

func (g *Game) player(username string) (*Player, error) {
	for _, p := range g.players {
		if p.username == username {
			return p, nil
		}
	}
	return nil, &NotFoundError{Kind: "player", Name: username}
}

func (g *Game) corporation(name Brand) (*Corporation, error) {
	corp, ok := g.corporations[name]
	if !ok {
		return nil, &NotFoundError{Kind: "corporation", Name: string(name)}
	}
	return corp, nil
}

func (g *Game) invalid(op string) error {
	return &InvalidStateError{Op: op, State: g.state}
}

func (g *Game) setState(state State, info StateInfo) {
	g.state = state
	g.stateInfo = info
	g.logger.Debug("状态切换",
		zap.String("gameID", g.id),
		zap.String("state", string(state)),
		zap.String("player", g.currentPlayer().username),
	)
}

func (g *Game) draw() *Tile {
	if len(g.stack) == 0 {
		return nil
	}
	p := g.stack[0]
	g.stack = g.stack[1:]
	return newTile(p)
}

func (g *Game) drawTiles(n int) []*Tile {
	positions := utils.SafeSlice(g.stack, n)
	g.stack = g.stack[len(positions):]
	tiles := make([]*Tile, len(positions))
	for i, p := range positions {
		tiles[i] = newTile(p)
	}
	return tiles
}

// Start 洗牌、抽定位 tile 决定座次、发初始资金和手牌
func (g *Game) Start() error {
	if g.state != StateSetup {
		return g.invalid("start")
	}
	g.stack = allPositions()
	g.shuffle(len(g.stack), func(i, j int) {
		g.stack[i], g.stack[j] = g.stack[j], g.stack[i]
	})

	g.decideOrder()
	for _, p := range g.players {
		p.AddIncome(InitialAmount)
		for _, t := range g.drawTiles(HandSize) {
			p.AddTile(t)
		}
	}

	g.turn = 0
	g.currentPlayer().StartTurn()
	g.markUnplayableTiles()
	g.setState(StatePlaceTile, StateInfo{})
	g.logger.Info("游戏开始", zap.String("gameID", g.id), zap.Strings("order", g.Usernames()))
	return nil
}

// decideOrder 每人抽一张放到棋盘上，离 1A 最近的先手；之后座次不再变化
func (g *Game) decideOrder() {
	setup := make([]SetupTile, len(g.players))
	for i, p := range g.players {
		t := g.draw()
		g.board.Consolidate(t.Position)
		setup[i] = SetupTile{Username: p.username, Tile: g.board.Tile(t.Position)}
	}

	order := make([]int, len(g.players))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return closerToOrigin(setup[order[i]].Tile.Position, setup[order[j]].Tile.Position)
	})

	players := make([]*Player, len(order))
	g.setupTiles = make([]SetupTile, len(order))
	for i, idx := range order {
		players[i] = g.players[idx]
		g.setupTiles[i] = setup[idx]
	}
	g.players = players
}

func (g *Game) PlaceTile(username string, pos Position) error {
	if g.state != StatePlaceTile {
		return g.invalid("placeTile")
	}
	player, err := g.player(username)
	if err != nil {
		return err
	}
	if player != g.currentPlayer() {
		return ErrNotYourTurn
	}
	held := player.heldTile(pos)
	if held == nil {
		return fmt.Errorf("%w: %s", ErrTileNotHeld, pos)
	}
	if held.Exchange || g.mergesSafeCorporations(pos) {
		return fmt.Errorf("%w: %s", ErrUnplayableTile, pos)
	}

	player.PlaceTile(pos)
	group := g.board.Consolidate(pos)
	g.lastPlaced = pos
	g.log.Add(Activity{Kind: ActivityTilePlaced, Username: username, Data: map[string]any{"tile": pos.Label()}})

	placement := classify(group, g.corporations, len(g.inactiveBrands()) > 0)
	g.logger.Info("放置 tile",
		zap.String("gameID", g.id),
		zap.String("player", username),
		zap.String("tile", pos.Label()),
		zap.Stringer("placement", placement.Kind),
		zap.Int("group", len(group)),
	)
	g.dispatch(placement)
	return nil
}

func (g *Game) dispatch(placement Placement) {
	switch placement.Kind {
	case LoneTile:
		g.setState(StateTilePlaced, StateInfo{})
	case FoundCorporation:
		g.setState(StateEstablishCorporation, StateInfo{Candidates: g.inactiveBrands()})
	case GrowCorporation:
		g.grow(placement.Brands[0], placement.Group)
		g.setState(StateBuyStocks, StateInfo{})
	case TwoWayMerge:
		first, second := placement.Brands[0], placement.Brands[1]
		if g.corporations[first].Size() == g.corporations[second].Size() {
			g.setState(StateMergeConflict, StateInfo{Candidates: placement.Brands})
			return
		}
		g.beginMerge(first, []Brand{second}, false)
	case MultiWayMerge:
		top := largest(placement.Brands, g.corporations)
		if len(top) > 1 {
			g.merger = newMerger(g.board, g.corporations, g.lastPlaced)
			g.merger.pending = placement.Brands
			g.merger.multiple = true
			g.setState(StateAcquirerSelection, StateInfo{Candidates: top, Pending: placement.Brands, Multiple: true})
			return
		}
		g.beginMerge(top[0], removeBrand(placement.Brands, top[0]), true)
	}
}

// grow 连通块中未归属的 tile 并入已有公司
func (g *Game) grow(brand Brand, group []Tile) {
	var absorbed []Position
	for _, t := range group {
		if t.Owner == IncorporatedOwner {
			absorbed = append(absorbed, t.Position)
		}
	}
	g.board.SetOwner(absorbed, BrandOwner(brand))
	g.corporations[brand].IncreaseSize(len(absorbed))
	g.markUnplayableTiles()
}

func (g *Game) inactiveBrands() []Brand {
	var brands []Brand
	for _, brand := range Brands {
		if !g.corporations[brand].IsActive() {
			brands = append(brands, brand)
		}
	}
	return brands
}

func (g *Game) EstablishCorporation(name Brand) error {
	if g.state != StateEstablishCorporation {
		return g.invalid("establishCorporation")
	}
	corp, err := g.corporation(name)
	if err != nil {
		return err
	}
	if corp.IsActive() {
		return fmt.Errorf("%w: %s", ErrCorporationActive, name)
	}

	group := g.board.Group(g.lastPlaced)
	g.board.SetOwner(positionsOf(group), BrandOwner(name))
	corp.Establish()
	corp.IncreaseSize(len(group))

	// 创始人奖励 1 股
	founder := g.currentPlayer()
	if corp.Stocks() > 0 {
		corp.DecrementStocks(1)
		founder.AddStocks(name, 1)
	}

	g.log.Add(Activity{Kind: ActivityEstablished, Username: founder.username, Data: map[string]any{"corporation": name}})
	g.logger.Info("成立公司", zap.String("gameID", g.id), zap.String("corporation", string(name)), zap.Int("size", corp.Size()))
	g.markUnplayableTiles()
	g.setState(StateBuyStocks, StateInfo{})
	return nil
}

// BuyStocks 每个条目尝试买 1 股，余额不足或无股可买时跳过；每回合最多 3 股
func (g *Game) BuyStocks(orders []StockOrder) error {
	if g.state != StateTilePlaced && g.state != StateBuyStocks {
		return g.invalid("buyStocks")
	}
	for _, order := range orders {
		if _, err := g.corporation(order.Name); err != nil {
			return err
		}
	}

	player := g.currentPlayer()
	var bought []Brand
	for _, order := range orders {
		if g.purchased >= MaxStocksPerTurn {
			break
		}
		corp := g.corporations[order.Name]
		price := corp.Price()
		if !corp.IsActive() || corp.Stocks() < 1 || player.Balance() < price {
			continue
		}
		corp.DecrementStocks(1)
		player.AddStocks(order.Name, 1)
		player.AddExpense(price)
		g.purchased++
		bought = append(bought, order.Name)
	}

	if len(bought) > 0 {
		g.log.Add(Activity{Kind: ActivityStocksBought, Username: player.username, Data: map[string]any{"stocks": bought}})
	}
	g.logger.Info("购买股票", zap.String("gameID", g.id), zap.String("player", player.username), zap.Int("bought", len(bought)))
	g.setState(StateBuyStocks, StateInfo{})
	return nil
}

func (g *Game) beginMerge(acquirer Brand, defuncts []Brand, multiple bool) {
	if g.merger == nil {
		g.merger = newMerger(g.board, g.corporations, g.lastPlaced)
	}
	g.merger.acquirer = acquirer
	g.merger.pending = defuncts
	g.merger.multiple = multiple
	g.nextDefunct()
}

// nextDefunct 剩余公司中规模最大的先被并购，并列时由玩家确认
func (g *Game) nextDefunct() {
	top := largest(g.merger.pending, g.corporations)
	if len(top) > 1 {
		g.setState(StateDefunctSelection, StateInfo{
			Acquirer:   g.merger.acquirer,
			Candidates: top,
			Pending:    g.merger.Pending(),
			Multiple:   g.merger.multiple,
		})
		return
	}
	g.startMerge(top[0])
}

func (g *Game) startMerge(defunct Brand) {
	g.bonuses = DistributeBonuses(g.corporations[defunct], g.players)
	g.merger.Start(g.merger.acquirer, defunct, disposalQueue(g.players, g.turn, defunct))

	g.log.Add(Activity{
		Kind:     ActivityMergeStarted,
		Username: g.currentPlayer().username,
		Data:     map[string]any{"acquirer": g.merger.acquirer, "defunct": defunct, "bonuses": g.bonuses},
	})
	g.logger.Info("开始并购",
		zap.String("gameID", g.id),
		zap.String("acquirer", string(g.merger.acquirer)),
		zap.String("defunct", string(defunct)),
		zap.Any("bonuses", g.bonuses),
	)
	g.setState(StateMerge, g.mergeInfo())
}

func (g *Game) mergeInfo() StateInfo {
	m := g.merger
	info := StateInfo{
		Acquirer:   m.acquirer,
		Defunct:    m.defunct,
		Pending:    m.Pending(),
		Multiple:   m.multiple,
		Bonuses:    g.bonuses,
		MergeEnded: m.HasEnd(),
	}
	if name, ok := m.CurrentPlayer(); ok {
		info.Disposer = name
	}
	return info
}

// MergeTwoCorporation 两家同规模公司合并时由玩家指定主公司
func (g *Game) MergeTwoCorporation(acquirer, defunct Brand) error {
	if g.state != StateMergeConflict {
		return g.invalid("mergeTwoCorporation")
	}
	candidates := g.stateInfo.Candidates
	if acquirer == defunct || !containsBrand(candidates, acquirer) || !containsBrand(candidates, defunct) {
		return ErrInvalidChoice
	}
	g.log.Add(Activity{Kind: ActivityAcquirerChosen, Username: g.currentPlayer().username, Data: map[string]any{"acquirer": acquirer}})
	g.beginMerge(acquirer, []Brand{defunct}, false)
	return nil
}

func (g *Game) SelectAcquirer(name Brand) error {
	if g.state != StateAcquirerSelection {
		return g.invalid("selectAcquirer")
	}
	if !containsBrand(g.stateInfo.Candidates, name) {
		return ErrInvalidChoice
	}
	g.log.Add(Activity{Kind: ActivityAcquirerChosen, Username: g.currentPlayer().username, Data: map[string]any{"acquirer": name}})
	g.beginMerge(name, removeBrand(g.merger.pending, name), true)
	return nil
}

func (g *Game) ConfirmDefunct(name Brand) error {
	if g.state != StateDefunctSelection {
		return g.invalid("confirmDefunct")
	}
	if !containsBrand(g.stateInfo.Candidates, name) {
		return ErrInvalidChoice
	}
	g.log.Add(Activity{Kind: ActivityDefunctChosen, Username: g.currentPlayer().username, Data: map[string]any{"defunct": name}})
	g.startMerge(name)
	return nil
}

// DealDefunctStocks 由当前轮到的股东处理被并购公司的股票
func (g *Game) DealDefunctStocks(sell, trade int) error {
	if g.state != StateMerge {
		return g.invalid("dealDefunctStocks")
	}
	name, ok := g.merger.CurrentPlayer()
	if !ok {
		return ErrNoDisposer
	}
	player, err := g.player(name)
	if err != nil {
		return err
	}
	if err := g.merger.Deal(player, sell, trade); err != nil {
		return err
	}

	g.log.Add(Activity{Kind: ActivityStocksDealt, Username: name, Data: map[string]any{"sell": sell, "trade": trade}})
	g.logger.Info("处理被并购股票", zap.String("gameID", g.id), zap.String("player", name), zap.Int("sell", sell), zap.Int("trade", trade))
	g.stateInfo = g.mergeInfo()
	return nil
}

func (g *Game) EndMergerTurn() error {
	if g.state != StateMerge {
		return g.invalid("endMergerTurn")
	}
	if g.merger.HasEnd() {
		return ErrNoDisposer
	}
	g.merger.EndTurn()
	g.stateInfo = g.mergeInfo()
	return nil
}

// EndMerge 所有股东处理完后并入 tile；多家合并时继续下一家
func (g *Game) EndMerge() error {
	if g.state != StateMerge {
		return g.invalid("endMerge")
	}
	if !g.merger.HasEnd() {
		return ErrMergerPending
	}

	m := g.merger
	absorbed := m.End()
	g.log.Add(Activity{
		Kind:     ActivityMergeEnded,
		Username: g.currentPlayer().username,
		Data:     map[string]any{"acquirer": m.acquirer, "defunct": m.defunct, "tiles": absorbed},
	})
	g.logger.Info("并购完成", zap.String("gameID", g.id), zap.String("acquirer", string(m.acquirer)), zap.String("defunct", string(m.defunct)))

	if len(m.pending) > 0 {
		g.nextDefunct()
		return nil
	}

	g.grow(m.acquirer, g.board.Group(m.origin))
	g.merger = nil
	g.bonuses = nil
	g.setState(StateBuyStocks, StateInfo{})
	return nil
}

// CanEnd 有公司达到 41 块，或所有已成立公司都已安全
func (g *Game) CanEnd() bool {
	active := 0
	allSafe := true
	for _, corp := range g.corporations {
		if !corp.IsActive() {
			continue
		}
		active++
		if corp.Size() >= EndSize {
			return true
		}
		if !corp.IsSafe() {
			allSafe = false
		}
	}
	return active > 0 && allSafe
}

// ChangeTurn 补牌、交换死牌并轮到下一位玩家；满足结束条件时结算
func (g *Game) ChangeTurn() error {
	switch g.state {
	case StateTilePlaced, StateBuyStocks:
	case StatePlaceTile:
		if g.hasPlayableTile(g.currentPlayer()) {
			return g.invalid("changeTurn")
		}
	default:
		return g.invalid("changeTurn")
	}

	player := g.currentPlayer()
	g.log.Add(Activity{Kind: ActivityTurnEnded, Username: player.username})
	if g.CanEnd() {
		g.settle()
		return nil
	}

	for i, n := 0, player.placedSlots(); i < n; i++ {
		player.RefillTile(g.draw())
	}
	if n := player.exchangeCount(); n > 0 {
		player.ExchangeTiles(g.drawTiles(n))
	}
	g.markUnplayableTiles()

	player.EndTurn()
	g.turn = (g.turn + 1) % len(g.players)
	g.round++
	g.purchased = 0
	g.currentPlayer().StartTurn()
	g.log.Next()
	g.setState(StatePlaceTile, StateInfo{})
	return nil
}

func (g *Game) hasPlayableTile(p *Player) bool {
	for _, t := range p.Tiles() {
		if !t.Exchange && !g.mergesSafeCorporations(t.Position) {
			return true
		}
	}
	return false
}

// mergesSafeCorporations 放在 pos 会连接两家及以上安全公司
func (g *Game) mergesSafeCorporations(pos Position) bool {
	safe := 0
	for _, brand := range g.board.NeighborBrands(pos) {
		if g.corporations[brand].IsSafe() {
			safe++
		}
	}
	return safe >= 2
}

// markUnplayableTiles 标记所有玩家手里需要交换的 tile
func (g *Game) markUnplayableTiles() {
	for _, p := range g.players {
		for _, t := range p.tiles {
			if t == nil || t.IsPlaced {
				continue
			}
			t.Exchange = g.mergesSafeCorporations(t.Position)
		}
	}
}
