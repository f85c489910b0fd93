package controller

import (
	"errors"
	"io"
	"net/http"

	"go-acquire/dto"
	"go-acquire/game"
	"go-acquire/middleware"
	"go-acquire/service"

	"github.com/gin-gonic/gin"
)

// play 以当前登录用户的身份执行一次对局操作
func (h *Handler) play(c *gin.Context, fn func(g *game.Game) error) {
	err := h.manager.Play(c.Request.Context(), c.Param("id"), middleware.Username(c), fn)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handler) GetGameStatus(c *gin.Context) {
	var status game.Status
	err := h.manager.View(c.Param("id"), func(g *game.Game) error {
		var err error
		status, err = g.Status(middleware.Username(c))
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handler) PlaceTile(c *gin.Context) {
	var req dto.PlaceTileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	pos, err := req.Position()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.play(c, func(g *game.Game) error {
		return g.PlaceTile(middleware.Username(c), pos)
	})
}

func (h *Handler) Establish(c *gin.Context) {
	var req dto.EstablishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	h.play(c, func(g *game.Game) error {
		return g.EstablishCorporation(req.Name)
	})
}

func (h *Handler) BuyStocks(c *gin.Context) {
	var req dto.BuyStocksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	h.play(c, func(g *game.Game) error {
		return g.BuyStocks(req)
	})
}

func (h *Handler) ResolveConflict(c *gin.Context) {
	var req dto.ResolveConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	h.play(c, func(g *game.Game) error {
		return g.MergeTwoCorporation(req.Acquirer, req.Defunct)
	})
}

func (h *Handler) SelectAcquirer(c *gin.Context) {
	var req dto.SelectAcquirerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	h.play(c, func(g *game.Game) error {
		return g.SelectAcquirer(req.Acquirer)
	})
}

func (h *Handler) ConfirmDefunct(c *gin.Context) {
	var req dto.ConfirmDefunctRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	h.play(c, func(g *game.Game) error {
		return g.ConfirmDefunct(req.Defunct)
	})
}

func (h *Handler) DealDefunctStocks(c *gin.Context) {
	var req dto.DealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	h.play(c, func(g *game.Game) error {
		return g.DealDefunctStocks(req.Sell, req.Trade)
	})
}

func (h *Handler) EndMergerTurn(c *gin.Context) {
	h.play(c, (*game.Game).EndMergerTurn)
}

func (h *Handler) EndMerge(c *gin.Context) {
	h.play(c, (*game.Game).EndMerge)
}

func (h *Handler) EndTurn(c *gin.Context) {
	h.play(c, (*game.Game).ChangeTurn)
}

func (h *Handler) GetEndResult(c *gin.Context) {
	var (
		result game.Result
		ok     bool
	)
	id := c.Param("id")
	err := h.manager.View(id, func(g *game.Game) error {
		result, ok = g.Result()
		return nil
	})
	if errors.Is(err, service.ErrGameNotFound) {
		h.archivedResult(c, id, err)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "游戏尚未结束"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// archivedResult 内存中没有这局时查归档库，归档也没有则返回原错误
func (h *Handler) archivedResult(c *gin.Context, id string, notFound error) {
	players, err := h.manager.ArchivedRanking(c.Request.Context(), id)
	if err != nil {
		h.fail(c, notFound)
		return
	}
	c.JSON(http.StatusOK, dto.ArchivedResultResponse{GameID: id, Archived: true, Players: players})
}

// LoadGame 用请求体中的快照替换当前对局，只有本局玩家可以操作
func (h *Handler) LoadGame(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil || len(data) == 0 {
		badRequest(c)
		return
	}
	if err := h.manager.Load(c.Request.Context(), c.Param("id"), middleware.Username(c), data); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusCreated)
}
