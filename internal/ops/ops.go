// Package ops exposes a small HTTP API for operators: liveness, live counters
// and the leaderboard. It is meant to be bound to a private address.
package ops

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"triviarena/server/internal/config"
	"triviarena/server/internal/game"
	"triviarena/server/internal/room"
	"triviarena/server/internal/storage"
	"triviarena/server/pkg/token"
)

// ConnectionCounter reports the number of live client connections.
type ConnectionCounter interface {
	ClientCount() int
}

// API holds the handles the endpoints read from.
type API struct {
	store storage.Store
	rooms *room.Registry
	games *game.Registry
	conns ConnectionCounter
}

// New builds the ops API over the live registries.
func New(store storage.Store, rooms *room.Registry, games *game.Registry, conns ConnectionCounter) *API {
	return &API{store: store, rooms: rooms, games: games, conns: conns}
}

// Router builds the gin engine. /ping is open; everything else requires a
// bearer token signed with the configured secret.
func (a *API) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	authed := r.Group("/", AuthMiddleware())
	authed.GET("/status", a.getStatus)
	authed.GET("/leaderboard", a.getLeaderboard)

	return r
}

// AuthMiddleware creates a gin middleware verifying the operator bearer token.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		subject, err := token.Verify(config.AppConfig.TokenSecret, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("operator", subject)
		c.Next()
	}
}

func (a *API) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"connections": a.conns.ClientCount(),
		"rooms":       a.rooms.Count(),
		"games":       a.games.Count(),
	})
}

func (a *API) getLeaderboard(c *gin.Context) {
	players, err := a.store.GetTopPlayers(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}

	out := make([]gin.H, len(players))
	for i, p := range players {
		out[i] = gin.H{"username": p.Username, "score": p.Score}
	}
	c.JSON(http.StatusOK, gin.H{"players": out})
}
