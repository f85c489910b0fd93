package controller

import (
	"net/http"
	"strings"

	"go-acquire/dto"
	"go-acquire/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Username) == "" {
		badRequest(c)
		return
	}
	username := strings.TrimSpace(req.Username)
	token, err := h.issuer.Issue(username)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, Username: username})
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	roomID, err := h.manager.CreateLobby(middleware.Username(c), req.Name, req.MaxPlayers)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status_code": http.StatusOK,
		"msg":         "房间创建成功",
		"data":        dto.CreateRoomResponse{RoomID: roomID, Name: req.Name},
	})
}

func (h *Handler) GetRoomList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status_code": http.StatusOK,
		"data":        h.manager.AvailableLobbies(middleware.Username(c)),
	})
}

func (h *Handler) GetRoomStatus(c *gin.Context) {
	lobby, err := h.manager.Lobby(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lobby.Status(middleware.Username(c)))
}

func (h *Handler) JoinRoom(c *gin.Context) {
	id := c.Param("id")
	if err := h.manager.JoinLobby(id, middleware.Username(c)); err != nil {
		h.fail(c, err)
		return
	}
	lobby, err := h.manager.Lobby(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lobby.Status(middleware.Username(c)))
}

func (h *Handler) StartGame(c *gin.Context) {
	if err := h.manager.StartGame(c.Request.Context(), c.Param("id"), middleware.Username(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handler) GetWins(c *gin.Context) {
	username := c.Param("username")
	wins, err := h.manager.Wins(c.Request.Context(), username)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.WinsResponse{Username: username, Wins: wins})
}
