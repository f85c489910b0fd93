package controller

import (
	"errors"
	"net/http"

	"go-acquire/game"
	"go-acquire/service"
	"go-acquire/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	manager *service.Manager
	issuer  *utils.TokenIssuer
	logger  *zap.Logger
}

func NewHandler(manager *service.Manager, issuer *utils.TokenIssuer, logger *zap.Logger) *Handler {
	return &Handler{manager: manager, issuer: issuer, logger: logger}
}

// statusCode 业务错误一律 400，不存在 404，非本局玩家 403，其余按服务端错误处理
func statusCode(err error) int {
	var (
		invalid      *game.InvalidStateError
		insufficient *game.InsufficientSharesError
	)
	switch {
	case service.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotGamePlayer):
		return http.StatusForbidden
	case errors.As(err, &invalid), errors.As(err, &insufficient):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrTileNotHeld),
		errors.Is(err, game.ErrUnplayableTile),
		errors.Is(err, game.ErrCorporationActive),
		errors.Is(err, game.ErrOddTrade),
		errors.Is(err, game.ErrInvalidChoice),
		errors.Is(err, game.ErrMergerPending),
		errors.Is(err, game.ErrNoDisposer),
		errors.Is(err, game.ErrInvalidPlayers),
		errors.Is(err, game.ErrInvalidSnapshot),
		errors.Is(err, service.ErrLobbyFull),
		errors.Is(err, service.ErrLobbyExpired),
		errors.Is(err, service.ErrNotHost),
		errors.Is(err, service.ErrNotEnoughPlayers),
		errors.Is(err, service.ErrNotLobbyMember):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrArchiveNotEnabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	code := statusCode(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error("请求处理失败", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "缺少必要字段"})
}
