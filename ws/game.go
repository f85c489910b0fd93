package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"go-acquire/dto"
	"go-acquire/game"
	"go-acquire/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

var errUnknownMessage = errors.New("未知的消息类型")

type messageHandler func(g *game.Game, username string, payload map[string]interface{}) error

var messageHandlers = map[string]messageHandler{
	"place_tile":       handlePlaceTileMessage,
	"establish":        handleEstablishMessage,
	"buy_stocks":       handleBuyStocksMessage,
	"resolve_conflict": handleResolveConflictMessage,
	"select_acquirer":  handleSelectAcquirerMessage,
	"confirm_defunct":  handleConfirmDefunctMessage,
	"deal":             handleDealMessage,
	"end_merger_turn":  func(g *game.Game, _ string, _ map[string]interface{}) error { return g.EndMergerTurn() },
	"end_merge":        func(g *game.Game, _ string, _ map[string]interface{}) error { return g.EndMerge() },
	"end_turn":         func(g *game.Game, _ string, _ map[string]interface{}) error { return g.ChangeTurn() },
}

// 自定义 HookFunc，把字符串转换成 int
func stringToIntHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
		if from == reflect.String && to == reflect.Int {
			return strconv.Atoi(data.(string))
		}
		return data, nil
	}
}

func decodePayload(payload map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: stringToIntHookFunc(),
		Result:     out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(payload)
}

func handlePlaceTileMessage(g *game.Game, username string, payload map[string]interface{}) error {
	var req dto.PlaceTileRequest
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	pos, err := req.Position()
	if err != nil {
		return err
	}
	return g.PlaceTile(username, pos)
}

func handleEstablishMessage(g *game.Game, _ string, payload map[string]interface{}) error {
	var req dto.EstablishRequest
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	return g.EstablishCorporation(req.Name)
}

func handleBuyStocksMessage(g *game.Game, _ string, payload map[string]interface{}) error {
	var req dto.BuyStocksPayload
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	return g.BuyStocks(req.Stocks)
}

func handleResolveConflictMessage(g *game.Game, _ string, payload map[string]interface{}) error {
	var req dto.ResolveConflictRequest
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	return g.MergeTwoCorporation(req.Acquirer, req.Defunct)
}

func handleSelectAcquirerMessage(g *game.Game, _ string, payload map[string]interface{}) error {
	var req dto.SelectAcquirerRequest
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	return g.SelectAcquirer(req.Acquirer)
}

func handleConfirmDefunctMessage(g *game.Game, _ string, payload map[string]interface{}) error {
	var req dto.ConfirmDefunctRequest
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	return g.ConfirmDefunct(req.Defunct)
}

func handleDealMessage(g *game.Game, _ string, payload map[string]interface{}) error {
	var req dto.DealRequest
	if err := decodePayload(payload, &req); err != nil {
		return err
	}
	return g.DealDefunctStocks(req.Sell, req.Trade)
}

// listen 持续读取客户端消息并执行对应操作；状态推送由 GameUpdated 完成
func (h *Hub) listen(c *gin.Context, gameID string, pc *PlayerConn) {
	for {
		_, raw, err := pc.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("读取消息失败", zap.String("gameID", gameID), zap.Error(err))
			}
			return
		}

		var msg dto.Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			pc.send(dto.Message{Type: "error", Error: "消息解析失败"})
			continue
		}
		handler, ok := messageHandlers[msg.Type]
		if !ok {
			pc.send(dto.Message{Type: "error", Error: errUnknownMessage.Error() + ": " + msg.Type})
			continue
		}

		err = h.manager.Play(c.Request.Context(), gameID, pc.Username, func(g *game.Game) error {
			return handler(g, pc.Username, msg.Payload)
		})
		if err != nil {
			h.logger.Debug("操作失败", zap.String("gameID", gameID), zap.String("type", msg.Type), zap.Error(err))
			pc.send(dto.Message{Type: "error", Error: err.Error()})
		}
	}
}

// HandleWebSocket 需要挂在 Auth 之后，?gameID= 指定对局
func (h *Hub) HandleWebSocket(c *gin.Context) {
	gameID := c.Query("gameID")
	username := middleware.Username(c)
	if gameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 gameID"})
		return
	}
	if !h.manager.IsPlaying(gameID, username) {
		c.JSON(http.StatusForbidden, gin.H{"error": "不是该对局的玩家"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket 升级失败", zap.Error(err))
		return
	}
	defer conn.Close()

	pc := &PlayerConn{Username: username, conn: conn}
	h.join(gameID, pc)
	defer h.leave(gameID, pc)

	msg, err := h.statusMessage(gameID, username)
	if err != nil {
		pc.send(dto.Message{Type: "error", Error: err.Error()})
		return
	}
	if err := pc.send(msg); err != nil {
		return
	}
	h.listen(c, gameID, pc)
}
