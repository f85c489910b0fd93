package router

import (
	"time"

	"go-acquire/config"
	"go-acquire/controller"
	"go-acquire/middleware"
	"go-acquire/utils"
	"go-acquire/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func New(cfg config.Config, h *controller.Handler, hub *ws.Hub, issuer *utils.TokenIssuer) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.Server.AllowOrigins) == 0 || cfg.Server.AllowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Server.AllowOrigins
	}
	r.Use(cors.New(corsConfig))
	if cfg.RateLimit.RPS > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	r.POST("/auth/login", h.Login)
	r.GET("/player/:username/wins", h.GetWins)

	auth := middleware.Auth(issuer)

	room := r.Group("/room", auth)
	{
		room.POST("/create", h.CreateRoom)
		room.GET("/list", h.GetRoomList)
		room.GET("/:id", h.GetRoomStatus)
		room.POST("/:id/join", h.JoinRoom)
		room.POST("/:id/start", h.StartGame)
	}

	g := r.Group("/game/:id", auth)
	{
		g.GET("/status", h.GetGameStatus)
		g.POST("/tile", h.PlaceTile)
		g.POST("/establish", h.Establish)
		g.POST("/buy-stocks", h.BuyStocks)
		g.POST("/merger/resolve-conflict", h.ResolveConflict)
		g.POST("/merger/resolve-acquirer", h.SelectAcquirer)
		g.POST("/merger/confirm-defunct", h.ConfirmDefunct)
		g.POST("/merger/deal", h.DealDefunctStocks)
		g.POST("/merger/end-turn", h.EndMergerTurn)
		g.POST("/end-merge", h.EndMerge)
		g.POST("/end-turn", h.EndTurn)
		g.GET("/end-result", h.GetEndResult)
		g.POST("/load", h.LoadGame)
	}

	// WebSocket 路由
	r.GET("/ws", auth, hub.HandleWebSocket)
	return r
}
