package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go-acquire/entities"
	"go-acquire/game"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/multierr"
	_ "modernc.org/sqlite"
)

const resultSchema = `
CREATE TABLE IF NOT EXISTS game_results (
	game_id      VARCHAR(64) NOT NULL,
	player_rank  INTEGER NOT NULL,
	username     VARCHAR(64) NOT NULL,
	balance      INTEGER NOT NULL,
	corporations TEXT NOT NULL,
	finished_at  BIGINT NOT NULL,
	PRIMARY KEY (game_id, username)
)`

// ResultArchive 已结束对局的排名归档
type ResultArchive struct {
	db *sql.DB
}

// OpenResultArchive driver 为 sqlite（modernc）或 mysql
func OpenResultArchive(ctx context.Context, driver, dsn string) (*ResultArchive, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("打开归档库失败: %w", err)
	}
	if driver == "sqlite" {
		// :memory: 库每个连接各自独立，写入也只能串行
		db.SetMaxOpenConns(1)
	}
	archive, err := NewResultArchive(ctx, db)
	if err != nil {
		return nil, multierr.Append(err, db.Close())
	}
	return archive, nil
}

// NewResultArchive 建表后返回
func NewResultArchive(ctx context.Context, db *sql.DB) (*ResultArchive, error) {
	if _, err := db.ExecContext(ctx, resultSchema); err != nil {
		return nil, fmt.Errorf("创建 game_results 表失败: %w", err)
	}
	return &ResultArchive{db: db}, nil
}

// Save 同一局重复保存时覆盖旧记录
func (a *ResultArchive) Save(ctx context.Context, gameID string, result game.Result) (err error) {
	corporations, err := json.Marshal(result.Corporations)
	if err != nil {
		return fmt.Errorf("序列化公司数据失败: %w", err)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, tx.Rollback())
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM game_results WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("清理旧结果[%s]失败: %w", gameID, err)
	}
	finishedAt := time.Now().Unix()
	for _, p := range result.Players {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO game_results (game_id, player_rank, username, balance, corporations, finished_at) VALUES (?, ?, ?, ?, ?, ?)",
			gameID, p.Rank, p.Username, p.Balance, string(corporations), finishedAt,
		)
		if err != nil {
			return fmt.Errorf("写入结果[%s/%s]失败: %w", gameID, p.Username, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("提交结果[%s]失败: %w", gameID, err)
	}
	return nil
}

// Ranking 按名次返回某一局的结果
func (a *ResultArchive) Ranking(ctx context.Context, gameID string) ([]entities.ArchivedPlayer, error) {
	rows, err := a.db.QueryContext(ctx,
		"SELECT player_rank, username, balance, finished_at FROM game_results WHERE game_id = ? ORDER BY player_rank, username",
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("查询结果[%s]失败: %w", gameID, err)
	}
	defer rows.Close()

	var players []entities.ArchivedPlayer
	for rows.Next() {
		var (
			p        entities.ArchivedPlayer
			finished int64
		)
		if err := rows.Scan(&p.Rank, &p.Username, &p.Balance, &finished); err != nil {
			return nil, fmt.Errorf("读取结果[%s]失败: %w", gameID, err)
		}
		p.FinishedAt = time.Unix(finished, 0)
		players = append(players, p)
	}
	return players, rows.Err()
}

// Wins 某个玩家拿到第一名的局数
func (a *ResultArchive) Wins(ctx context.Context, username string) (int, error) {
	var n int
	err := a.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM game_results WHERE username = ? AND player_rank = 1", username,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("统计[%s]胜场失败: %w", username, err)
	}
	return n, nil
}

func (a *ResultArchive) Close() error {
	return a.db.Close()
}
