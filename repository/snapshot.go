package repository

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"
)

var (
	ErrSnapshotNotFound = errors.New("快照不存在")
	ErrSnapshotCorrupt  = errors.New("快照校验失败")
)

// SnapshotStore 把对局快照以 lz4 压缩后存进 Redis hash，并附带 blake3 校验
type SnapshotStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSnapshotStore(rdb *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{rdb: rdb, ttl: ttl}
}

func snapshotKey(gameID string) string {
	return fmt.Sprintf("room:%s:snapshot", gameID)
}

func compressLZ4(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressLZ4(src []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(src)))
}

func hashBLAKE3(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (s *SnapshotStore) Save(ctx context.Context, gameID string, data []byte) error {
	compressed, err := compressLZ4(data)
	if err != nil {
		return fmt.Errorf("压缩快照[%s]失败: %w", gameID, err)
	}
	key := snapshotKey(gameID)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"data":     compressed,
		"checksum": hashBLAKE3(data),
		"savedAt":  time.Now().Unix(),
	})
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("写入快照[%s]失败: %w", gameID, err)
	}
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context, gameID string) ([]byte, error) {
	fields, err := s.rdb.HGetAll(ctx, snapshotKey(gameID)).Result()
	if err != nil {
		return nil, fmt.Errorf("读取快照[%s]失败: %w", gameID, err)
	}
	compressed, ok := fields["data"]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, gameID)
	}
	data, err := decompressLZ4([]byte(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %s 解压失败: %v", ErrSnapshotCorrupt, gameID, err)
	}
	if hashBLAKE3(data) != fields["checksum"] {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotCorrupt, gameID)
	}
	return data, nil
}

func (s *SnapshotStore) Delete(ctx context.Context, gameID string) error {
	if err := s.rdb.Del(ctx, snapshotKey(gameID)).Err(); err != nil {
		return fmt.Errorf("删除快照[%s]失败: %w", gameID, err)
	}
	return nil
}

// IDs 用 SCAN 找出所有保存了快照的对局
func (s *SnapshotStore) IDs(ctx context.Context) ([]string, error) {
	var (
		cursor uint64
		ids    []string
	)
	for {
		keys, cur, err := s.rdb.Scan(ctx, cursor, "room:*:snapshot", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("扫描快照 key 失败: %w", err)
		}
		for _, key := range keys {
			id := strings.TrimSuffix(strings.TrimPrefix(key, "room:"), ":snapshot")
			ids = append(ids, id)
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return ids, nil
}
