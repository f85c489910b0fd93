package ws

import (
	"net/http"
	"sync"
	"time"

	"go-acquire/dto"
	"go-acquire/game"
	"go-acquire/service"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// PlayerConn 一个玩家的连接；同一连接的写操作需要串行
type PlayerConn struct {
	Username string
	conn     *websocket.Conn
	mu       sync.Mutex
}

func (pc *PlayerConn) send(msg dto.Message) error {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return pc.conn.WriteJSON(msg)
}

// Hub 按对局维护连接，对局状态变化后给每个玩家推送各自视角的 status
type Hub struct {
	mu      sync.Mutex
	rooms   map[string][]*PlayerConn
	manager *service.Manager
	logger  *zap.Logger
}

func NewHub(manager *service.Manager, logger *zap.Logger) *Hub {
	return &Hub{
		rooms:   make(map[string][]*PlayerConn),
		manager: manager,
		logger:  logger,
	}
}

func (h *Hub) join(gameID string, pc *PlayerConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rooms[gameID] = append(h.rooms[gameID], pc)
	h.logger.Info("玩家连接", zap.String("gameID", gameID), zap.String("player", pc.Username), zap.Int("online", len(h.rooms[gameID])))
}

// leave 玩家断开连接后，从房间中移除该连接
func (h *Hub) leave(gameID string, pc *PlayerConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	kept := h.rooms[gameID][:0]
	for _, c := range h.rooms[gameID] {
		if c != pc {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		delete(h.rooms, gameID)
	} else {
		h.rooms[gameID] = kept
	}
	h.logger.Info("玩家离开", zap.String("gameID", gameID), zap.String("player", pc.Username))
}

func (h *Hub) Online(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[gameID])
}

func (h *Hub) statusMessage(gameID, username string) (dto.Message, error) {
	var status game.Status
	err := h.manager.View(gameID, func(g *game.Game) error {
		var err error
		status, err = g.Status(username)
		return err
	})
	if err != nil {
		return dto.Message{}, err
	}
	return dto.Message{Type: "status", Data: status}, nil
}

// GameUpdated 推送失败的连接会被关闭并移除
func (h *Hub) GameUpdated(gameID string) {
	h.mu.Lock()
	conns := append([]*PlayerConn(nil), h.rooms[gameID]...)
	h.mu.Unlock()

	for _, pc := range conns {
		msg, err := h.statusMessage(gameID, pc.Username)
		if err != nil {
			h.logger.Warn("获取状态失败", zap.String("gameID", gameID), zap.String("player", pc.Username), zap.Error(err))
			continue
		}
		if err := pc.send(msg); err != nil {
			h.logger.Warn("广播失败，移除连接", zap.String("gameID", gameID), zap.String("player", pc.Username), zap.Error(err))
			pc.conn.Close()
			h.leave(gameID, pc)
		}
	}
}
