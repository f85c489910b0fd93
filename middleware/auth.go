package middleware

import (
	"net/http"
	"strings"

	"go-acquire/utils"

	"github.com/gin-gonic/gin"
)

const usernameKey = "username"

// Auth 校验 Authorization: Bearer <token>；websocket 握手时也接受 ?token=
func Auth(issuer *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "未授权"})
			return
		}
		claims, err := issuer.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token 无效"})
			return
		}
		c.Set(usernameKey, claims.Username)
		c.Next()
	}
}

// Username 由 Auth 写入的当前用户
func Username(c *gin.Context) string {
	return c.GetString(usernameKey)
}
