package api

import (
	"net/http"

	"verm_airdrop/internal/api/response"

	"github.com/gin-gonic/gin"
)

const DefaultPingMessage = "pong"

type pingRoutes struct {
	message string
}

func NewPingRoutes(handler *gin.RouterGroup, message string) {
	if message == "" {
		message = DefaultPingMessage
	}
	r := &pingRoutes{message: message}
	handler.GET("/ping", r.Ping)
}

func (r *pingRoutes) Ping(c *gin.Context) {
	response.OK(c, http.StatusOK, gin.H{
		"message":   r.message,
		"timestamp": response.Timestamp(),
		"status":    "ok",
	})
}
