package service

import (
	"strings"
	"time"

	"go-acquire/game"

	"github.com/google/uuid"
)

// newRoomID 8 位房间号
func newRoomID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// defaultShuffle 洗 tile 牌堆，进程启动时按时间取种子
var defaultShuffle = game.NewShuffle(uint64(time.Now().UnixNano()))
