package dto

import (
	"go-acquire/entities"
	"go-acquire/game"
)

// 以下请求同时用于 HTTP（json）和 websocket（mapstructure）

type PlaceTileRequest struct {
	X     int    `json:"x" mapstructure:"x"`
	Y     int    `json:"y" mapstructure:"y"`
	Label string `json:"label,omitempty" mapstructure:"label"`
}

// Position label 优先，例如 "6A"
func (r PlaceTileRequest) Position() (game.Position, error) {
	if r.Label != "" {
		return game.ParsePosition(r.Label)
	}
	return game.Position{X: r.X, Y: r.Y}, nil
}

type EstablishRequest struct {
	Name game.Brand `json:"name" mapstructure:"name" binding:"required"`
}

type BuyStocksRequest []game.StockOrder

type ResolveConflictRequest struct {
	Acquirer game.Brand `json:"acquirer" mapstructure:"acquirer" binding:"required"`
	Defunct  game.Brand `json:"defunct" mapstructure:"defunct" binding:"required"`
}

type SelectAcquirerRequest struct {
	Acquirer game.Brand `json:"acquirer" mapstructure:"acquirer" binding:"required"`
}

type ConfirmDefunctRequest struct {
	Defunct game.Brand `json:"defunct" mapstructure:"defunct" binding:"required"`
}

type DealRequest struct {
	Sell  int `json:"sell" mapstructure:"sell" binding:"min=0"`
	Trade int `json:"trade" mapstructure:"trade" binding:"min=0"`
}

// ArchivedResultResponse 服务重启后已结束对局只剩归档排名
type ArchivedResultResponse struct {
	GameID   string                    `json:"gameID"`
	Archived bool                      `json:"archived"`
	Players  []entities.ArchivedPlayer `json:"players"`
}

type WinsResponse struct {
	Username string `json:"username"`
	Wins     int    `json:"wins"`
}

type BuyStocksPayload struct {
	Stocks []game.StockOrder `json:"stocks" mapstructure:"stocks"`
}
