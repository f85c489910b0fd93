package repository

import (
	"context"
	"testing"

	"go-acquire/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArchive(t *testing.T) *ResultArchive {
	t.Helper()
	archive, err := OpenResultArchive(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })
	return archive
}

func sampleResult() game.Result {
	return game.Result{
		Players: []game.PlayerResult{
			{Rank: 1, Username: "alice", Balance: 20400},
			{Rank: 2, Username: "bob", Balance: 13200},
		},
		Corporations: map[game.Brand]game.CorporationStats{
			game.Phoenix: {Stocks: 25, Size: 41, IsActive: true, IsSafe: true, Price: 1200},
		},
	}
}

func TestResultArchiveSaveAndRanking(t *testing.T) {
	archive := newTestArchive(t)
	ctx := context.Background()

	require.NoError(t, archive.Save(ctx, "g1", sampleResult()))
	// 重复保存覆盖
	require.NoError(t, archive.Save(ctx, "g1", sampleResult()))

	ranking, err := archive.Ranking(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, ranking, 2)
	assert.Equal(t, "alice", ranking[0].Username)
	assert.Equal(t, 20400, ranking[0].Balance)
	assert.Equal(t, 2, ranking[1].Rank)
	assert.False(t, ranking[0].FinishedAt.IsZero())

	empty, err := archive.Ranking(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestResultArchiveWins(t *testing.T) {
	archive := newTestArchive(t)
	ctx := context.Background()
	require.NoError(t, archive.Save(ctx, "g1", sampleResult()))
	require.NoError(t, archive.Save(ctx, "g2", sampleResult()))

	wins, err := archive.Wins(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, wins)

	wins, err = archive.Wins(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, wins)
}

func TestOpenResultArchiveUnknownDriver(t *testing.T) {
	_, err := OpenResultArchive(context.Background(), "postgres", "")
	assert.Error(t, err)
}
