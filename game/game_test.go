package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keepOrder(int, func(i, j int)) {}

// 不洗牌时：alice 定位 1A，bob 定位 2A；alice 手牌 3A..8A，bob 手牌 9A..12A、1B、2B
func newStartedGame(t *testing.T, names ...string) *Game {
	t.Helper()
	g, err := New("g1", names, WithShuffle(keepOrder))
	require.NoError(t, err)
	require.NoError(t, g.Start())
	return g
}

func buildCorporation(g *Game, brand Brand, positions ...Position) {
	for _, p := range positions {
		g.board.Consolidate(p)
	}
	g.board.SetOwner(positions, BrandOwner(brand))
	corp := g.corporations[brand]
	corp.Establish()
	corp.IncreaseSize(len(positions))
}

func row(x, from, to int) []Position {
	var positions []Position
	for y := from; y <= to; y++ {
		positions = append(positions, Position{x, y})
	}
	return positions
}

func giveTile(t *testing.T, g *Game, username string, p Position) {
	t.Helper()
	player, err := g.player(username)
	require.NoError(t, err)
	player.AddTile(newTile(p))
}

func grant(t *testing.T, g *Game, username string, brand Brand, n int) {
	t.Helper()
	player, err := g.player(username)
	require.NoError(t, err)
	g.corporations[brand].DecrementStocks(n)
	player.AddStocks(brand, n)
}

func assertStocksConserved(t *testing.T, g *Game) {
	t.Helper()
	for _, brand := range Brands {
		total := g.corporations[brand].Stocks()
		for _, p := range g.players {
			total += p.Stocks(brand)
		}
		assert.Equal(t, MaxStocks, total, brand)
	}
}

func assertOneTakingTurn(t *testing.T, g *Game) {
	t.Helper()
	n := 0
	for _, p := range g.players {
		if p.IsTakingTurn() {
			n++
		}
	}
	assert.Equal(t, 1, n, "state %s", g.State())
}

func assertInvalidState(t *testing.T, err error) {
	t.Helper()
	var invalid *InvalidStateError
	assert.True(t, errors.As(err, &invalid), "got %v", err)
}

func TestNewValidatesPlayers(t *testing.T) {
	_, err := New("g", nil)
	assert.ErrorIs(t, err, ErrInvalidPlayers)
	_, err = New("g", []string{"a", "a"})
	assert.ErrorIs(t, err, ErrInvalidPlayers)
	_, err = New("g", []string{"a", "b", "c", "d", "e", "f", "g"})
	assert.ErrorIs(t, err, ErrInvalidPlayers)
}

func TestStartDealsTilesAndOrdersPlayers(t *testing.T) {
	g, err := New("g1", []string{"alice", "bob"}, WithShuffle(func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}))
	require.NoError(t, err)
	assertInvalidState(t, g.PlaceTile("alice", Position{}))
	require.NoError(t, g.Start())
	assertInvalidState(t, g.Start())

	// 倒序后 alice 抽到 12I，bob 抽到 11I，bob 离 1A 更近
	assert.Equal(t, []string{"bob", "alice"}, g.Usernames())
	assert.Equal(t, "bob", g.CurrentPlayerName())
	assert.Equal(t, StatePlaceTile, g.State())
	assert.Len(t, g.setupTiles, 2)
	assert.Len(t, g.board.PlacedTiles(), 2)

	for _, p := range g.players {
		assert.Equal(t, InitialAmount, p.Balance())
		assert.Len(t, p.Tiles(), HandSize)
	}
	assert.Len(t, g.stack, boardSize-2-2*HandSize)
	assertOneTakingTurn(t, g)
}

func TestFoundingCorporation(t *testing.T) {
	g := newStartedGame(t, "alice", "bob")

	assert.ErrorIs(t, g.PlaceTile("bob", Position{0, 8}), ErrNotYourTurn)
	assert.ErrorIs(t, g.PlaceTile("alice", Position{5, 5}), ErrTileNotHeld)
	var notFound *NotFoundError
	assert.True(t, errors.As(g.PlaceTile("carol", Position{0, 4}), &notFound))
	assertInvalidState(t, g.ChangeTurn())

	require.NoError(t, g.PlaceTile("alice", Position{0, 4}))
	assert.Equal(t, StateTilePlaced, g.State())
	assertInvalidState(t, g.EstablishCorporation(Phoenix))
	require.NoError(t, g.ChangeTurn())
	assertOneTakingTurn(t, g)

	require.NoError(t, g.PlaceTile("bob", Position{0, 10}))
	assert.Equal(t, StateTilePlaced, g.State())
	require.NoError(t, g.ChangeTurn())
	assert.Equal(t, 2, g.Round())

	require.NoError(t, g.PlaceTile("alice", Position{0, 3}))
	assert.Equal(t, StateEstablishCorporation, g.State())
	assert.Equal(t, Brands, g.StateInfo().Candidates)

	require.NoError(t, g.EstablishCorporation(Phoenix))
	assert.Equal(t, StateBuyStocks, g.State())
	phoenix := g.corporations[Phoenix]
	assert.Equal(t, 2, phoenix.Size())
	assert.Equal(t, MaxStocks-1, phoenix.Stocks())
	assert.Equal(t, BrandOwner(Phoenix), g.board.Tile(Position{0, 3}).Owner)
	assert.Equal(t, BrandOwner(Phoenix), g.board.Tile(Position{0, 4}).Owner)

	alice := g.players[0]
	assert.Equal(t, 1, alice.Stocks(Phoenix))
	assertStocksConserved(t, g)

	assert.True(t, errors.As(g.BuyStocks([]StockOrder{{Name: "tower"}}), &notFound))
	assert.Equal(t, InitialAmount, alice.Balance())

	// 未成立的公司跳过，每回合最多 3 股
	orders := []StockOrder{{Zeta}, {Phoenix}, {Phoenix}, {Phoenix}, {Phoenix}}
	require.NoError(t, g.BuyStocks(orders))
	assert.Equal(t, 4, alice.Stocks(Phoenix))
	assert.Equal(t, InitialAmount-3*400, alice.Balance())
	require.NoError(t, g.BuyStocks([]StockOrder{{Phoenix}}))
	assert.Equal(t, 4, alice.Stocks(Phoenix))
	assertStocksConserved(t, g)

	require.NoError(t, g.ChangeTurn())
	assert.Equal(t, "bob", g.CurrentPlayerName())
	assert.Len(t, alice.Tiles(), HandSize)
	assert.Equal(t, ActivityTurnEnded, g.log.Previous()[len(g.log.Previous())-1].Kind)
}

func TestGrowCorporation(t *testing.T) {
	g := newStartedGame(t, "alice", "bob")
	buildCorporation(g, Zeta, Position{4, 4}, Position{4, 5})
	g.board.Consolidate(Position{5, 7})
	giveTile(t, g, "alice", Position{4, 6})
	giveTile(t, g, "alice", Position{4, 7})

	require.NoError(t, g.PlaceTile("alice", Position{4, 6}))
	assert.Equal(t, StateBuyStocks, g.State())
	assert.Equal(t, 3, g.corporations[Zeta].Size())

	// 放置后连带的散 tile 一起并入
	require.NoError(t, g.ChangeTurn())
	require.NoError(t, g.PlaceTile("bob", Position{0, 8}))
	require.NoError(t, g.ChangeTurn())
	require.NoError(t, g.PlaceTile("alice", Position{4, 7}))
	assert.Equal(t, 5, g.corporations[Zeta].Size())
	assert.Equal(t, BrandOwner(Zeta), g.board.Tile(Position{5, 7}).Owner)
}

func TestTwoWayMerge(t *testing.T) {
	g := newStartedGame(t, "alice", "bob")
	buildCorporation(g, Phoenix, row(4, 2, 4)...)
	buildCorporation(g, Zeta, row(4, 6, 7)...)
	grant(t, g, "alice", Zeta, 2)
	grant(t, g, "bob", Zeta, 4)
	giveTile(t, g, "alice", Position{4, 5})

	require.NoError(t, g.PlaceTile("alice", Position{4, 5}))
	require.Equal(t, StateMerge, g.State())
	info := g.StateInfo()
	assert.Equal(t, Phoenix, info.Acquirer)
	assert.Equal(t, Zeta, info.Defunct)
	assert.Equal(t, "alice", info.Disposer)
	assert.Equal(t, map[string]int{"bob": 2000, "alice": 1000}, info.Bonuses)

	alice, bob := g.players[0], g.players[1]
	assert.Equal(t, InitialAmount+1000, alice.Balance())
	assert.Equal(t, InitialAmount+2000, bob.Balance())

	assert.ErrorIs(t, g.DealDefunctStocks(1, 1), ErrOddTrade)
	var insufficient *InsufficientSharesError
	assert.True(t, errors.As(g.DealDefunctStocks(3, 0), &insufficient))
	assert.Equal(t, 2, alice.Stocks(Zeta))

	require.NoError(t, g.DealDefunctStocks(0, 2))
	assert.Equal(t, 1, alice.Stocks(Phoenix))
	assert.Zero(t, alice.Stocks(Zeta))
	assert.ErrorIs(t, g.EndMerge(), ErrMergerPending)

	require.NoError(t, g.EndMergerTurn())
	assert.Equal(t, "bob", g.StateInfo().Disposer)
	require.NoError(t, g.DealDefunctStocks(2, 2))
	assert.Equal(t, InitialAmount+2000+2*200, bob.Balance())
	assert.Equal(t, 1, bob.Stocks(Phoenix))
	require.NoError(t, g.EndMergerTurn())
	assert.True(t, g.StateInfo().MergeEnded)
	assert.ErrorIs(t, g.EndMergerTurn(), ErrNoDisposer)
	assertStocksConserved(t, g)

	require.NoError(t, g.EndMerge())
	assert.Equal(t, StateBuyStocks, g.State())
	assert.Equal(t, 6, g.corporations[Phoenix].Size())
	assert.Zero(t, g.corporations[Zeta].Size())
	assert.False(t, g.corporations[Zeta].IsActive())
	assert.Equal(t, MaxStocks, g.corporations[Zeta].Stocks())
	assert.Equal(t, 6, g.board.CountOf(BrandOwner(Phoenix)))
	assertOneTakingTurn(t, g)
}

func TestTwoWayMergeConflict(t *testing.T) {
	g := newStartedGame(t, "alice", "bob")
	buildCorporation(g, Hydra, row(4, 2, 3)...)
	buildCorporation(g, Fusion, row(4, 5, 6)...)
	giveTile(t, g, "alice", Position{4, 4})

	require.NoError(t, g.PlaceTile("alice", Position{4, 4}))
	require.Equal(t, StateMergeConflict, g.State())
	assert.ElementsMatch(t, []Brand{Hydra, Fusion}, g.StateInfo().Candidates)

	assert.ErrorIs(t, g.MergeTwoCorporation(Hydra, Hydra), ErrInvalidChoice)
	assert.ErrorIs(t, g.MergeTwoCorporation(Hydra, Zeta), ErrInvalidChoice)
	require.NoError(t, g.MergeTwoCorporation(Fusion, Hydra))

	// 没有人持有 hydra，直接可以结束
	assert.Equal(t, StateMerge, g.State())
	assert.True(t, g.StateInfo().MergeEnded)
	require.NoError(t, g.EndMerge())
	assert.Equal(t, 5, g.corporations[Fusion].Size())
}

func TestMultiWayMergeTies(t *testing.T) {
	g := newStartedGame(t, "alice", "bob")
	buildCorporation(g, Phoenix, Position{4, 5}, Position{3, 5})
	buildCorporation(g, Hydra, Position{5, 4}, Position{5, 3})
	buildCorporation(g, Sackson, Position{5, 6}, Position{5, 7})
	grant(t, g, "bob", Sackson, 1)
	giveTile(t, g, "alice", Position{5, 5})

	require.NoError(t, g.PlaceTile("alice", Position{5, 5}))
	require.Equal(t, StateAcquirerSelection, g.State())
	assert.ElementsMatch(t, []Brand{Phoenix, Hydra, Sackson}, g.StateInfo().Candidates)
	assert.True(t, g.StateInfo().Multiple)

	assertInvalidState(t, g.ConfirmDefunct(Phoenix))
	assert.ErrorIs(t, g.SelectAcquirer(Zeta), ErrInvalidChoice)
	require.NoError(t, g.SelectAcquirer(Hydra))

	require.Equal(t, StateDefunctSelection, g.State())
	assert.Equal(t, Hydra, g.StateInfo().Acquirer)
	assert.ElementsMatch(t, []Brand{Phoenix, Sackson}, g.StateInfo().Candidates)
	assert.ErrorIs(t, g.ConfirmDefunct(Hydra), ErrInvalidChoice)
	require.NoError(t, g.ConfirmDefunct(Sackson))

	require.Equal(t, StateMerge, g.State())
	assert.Equal(t, "bob", g.StateInfo().Disposer)
	assert.Equal(t, []Brand{Phoenix}, g.StateInfo().Pending)
	require.NoError(t, g.DealDefunctStocks(0, 0))
	assert.Equal(t, InitialAmount+3000, g.players[1].Balance())
	require.NoError(t, g.EndMergerTurn())
	require.NoError(t, g.EndMerge())

	// 剩下的 phoenix 只有一家，直接进入并购
	require.Equal(t, StateMerge, g.State())
	assert.Equal(t, Phoenix, g.StateInfo().Defunct)
	assert.Equal(t, 4, g.corporations[Hydra].Size())
	require.NoError(t, g.EndMerge())

	assert.Equal(t, StateBuyStocks, g.State())
	assert.Equal(t, 7, g.corporations[Hydra].Size())
	assert.Equal(t, BrandOwner(Hydra), g.board.Tile(Position{5, 5}).Owner)
	assert.False(t, g.corporations[Phoenix].IsActive())
	assert.False(t, g.corporations[Sackson].IsActive())
	assert.Equal(t, 1, g.players[1].Stocks(Sackson))
	assertStocksConserved(t, g)
}

func TestUnplayableTile(t *testing.T) {
	g := newStartedGame(t, "alice", "bob")
	buildCorporation(g, Phoenix, row(4, 0, 10)...)
	buildCorporation(g, Zeta, row(6, 0, 10)...)
	giveTile(t, g, "alice", Position{5, 0})
	g.markUnplayableTiles()

	assert.ErrorIs(t, g.PlaceTile("alice", Position{5, 0}), ErrUnplayableTile)
	status, err := g.Status("alice")
	require.NoError(t, err)
	exchange := status.Portfolio.Tiles[len(status.Portfolio.Tiles)-1]
	assert.True(t, exchange.Exchange)
	assert.False(t, g.board.IsPlaced(Position{5, 0}))
}

func TestChangeTurnWithoutPlayableTile(t *testing.T) {
	g := newStartedGame(t, "alice", "bob")
	buildCorporation(g, Phoenix, row(4, 0, 10)...)
	buildCorporation(g, Zeta, row(6, 0, 10)...)
	buildCorporation(g, Hydra, Position{2, 8}, Position{2, 9})
	alice := g.players[0]
	alice.tiles = []*Tile{newTile(Position{5, 0})}
	g.markUnplayableTiles()

	require.False(t, g.hasPlayableTile(alice))
	require.NoError(t, g.ChangeTurn())
	assert.Equal(t, "bob", g.CurrentPlayerName())
	assert.NotEqual(t, Position{5, 0}, alice.tiles[0].Position)
}

func TestGameEndsAtFortyOne(t *testing.T) {
	g := newStartedGame(t, "alice", "bob")
	positions := append(append(append(row(4, 0, 11), row(5, 0, 11)...), row(6, 0, 11)...), row(7, 0, 4)...)
	require.Len(t, positions, EndSize)
	buildCorporation(g, Phoenix, positions...)
	buildCorporation(g, Zeta, Position{2, 8}, Position{2, 9})
	grant(t, g, "alice", Phoenix, 2)
	grant(t, g, "bob", Phoenix, 1)

	require.False(t, g.corporations[Zeta].IsSafe())
	require.True(t, g.CanEnd())
	_, ok := g.Result()
	assert.False(t, ok)

	require.NoError(t, g.PlaceTile("alice", Position{0, 4}))
	require.NoError(t, g.ChangeTurn())
	assert.Equal(t, StateGameEnd, g.State())
	assertInvalidState(t, g.ChangeTurn())
	assertInvalidState(t, g.PlaceTile("alice", Position{0, 5}))

	result, ok := g.Result()
	require.True(t, ok)
	require.Len(t, result.Players, 2)
	assert.Equal(t, PlayerResult{Rank: 1, Username: "alice", Balance: 6000 + 12000 + 2*1200, Stocks: result.Players[0].Stocks}, result.Players[0])
	assert.Equal(t, 2, result.Players[0].Stocks[Phoenix])
	assert.Equal(t, "bob", result.Players[1].Username)
	assert.Equal(t, 6000+6000+1200, result.Players[1].Balance)
	assert.Equal(t, MaxStocks, result.Corporations[Phoenix].Stocks)
	assert.Equal(t, map[string]int{"alice": 12000, "bob": 6000}, result.Bonuses[Phoenix])
	assertStocksConserved(t, g)
	for _, p := range g.players {
		assert.False(t, p.IsTakingTurn())
	}
}

func TestCanEndWhenAllSafe(t *testing.T) {
	g := newStartedGame(t, "alice", "bob")
	assert.False(t, g.CanEnd())

	buildCorporation(g, Phoenix, row(4, 0, 10)...)
	assert.True(t, g.CanEnd())

	buildCorporation(g, Zeta, row(6, 0, 1)...)
	assert.False(t, g.CanEnd())

	buildCorporation(g, Zeta, row(6, 2, 10)...)
	assert.True(t, g.CanEnd())
}

func TestOperationsCheckState(t *testing.T) {
	g := newStartedGame(t, "alice", "bob")
	assertInvalidState(t, g.EstablishCorporation(Phoenix))
	assertInvalidState(t, g.BuyStocks(nil))
	assertInvalidState(t, g.MergeTwoCorporation(Phoenix, Zeta))
	assertInvalidState(t, g.SelectAcquirer(Phoenix))
	assertInvalidState(t, g.ConfirmDefunct(Phoenix))
	assertInvalidState(t, g.DealDefunctStocks(0, 0))
	assertInvalidState(t, g.EndMergerTurn())
	assertInvalidState(t, g.EndMerge())
	assert.Equal(t, StatePlaceTile, g.State())
}

func TestStatusPerViewer(t *testing.T) {
	g := newStartedGame(t, "alice", "bob")
	status, err := g.Status("bob")
	require.NoError(t, err)

	assert.Equal(t, "g1", status.ID)
	assert.Equal(t, []PlayerStatus{
		{Username: "alice", IsTakingTurn: true},
		{Username: "bob", You: true},
	}, status.Players)
	assert.Len(t, status.Corporations, len(Brands))
	assert.Equal(t, Position{0, 8}, status.Portfolio.Tiles[0].Position)
	assert.Len(t, status.SetupTiles, 2)

	_, err = g.Status("mallory")
	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestActingPlayerDuringMerge(t *testing.T) {
	g := newStartedGame(t, "alice", "bob")
	buildCorporation(g, Phoenix, row(4, 2, 4)...)
	buildCorporation(g, Zeta, row(4, 6, 7)...)
	grant(t, g, "bob", Zeta, 1)
	giveTile(t, g, "alice", Position{4, 5})
	assert.Equal(t, "alice", g.ActingPlayerName())

	require.NoError(t, g.PlaceTile("alice", Position{4, 5}))
	assert.Equal(t, "alice", g.CurrentPlayerName())
	assert.Equal(t, "bob", g.ActingPlayerName())

	require.NoError(t, g.EndMergerTurn())
	assert.Equal(t, "alice", g.ActingPlayerName())
}

func shuffled(shuffle ShuffleFunc) []int {
	xs := make([]int, 20)
	for i := range xs {
		xs[i] = i
	}
	shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
	return xs
}

func TestNewShuffleDependsOnSeed(t *testing.T) {
	assert.Equal(t, shuffled(NewShuffle(7)), shuffled(NewShuffle(7)))
	assert.NotEqual(t, shuffled(NewShuffle(7)), shuffled(NewShuffle(8)))
}

func TestDefaultShuffleIsNotFixed(t *testing.T) {
	a, err := New("a", []string{"alice"})
	require.NoError(t, err)
	// 默认随机源按时间取种子，不会与固定种子的序列一致
	assert.NotEqual(t, shuffled(NewShuffle(1)), shuffled(a.shuffle))
}
