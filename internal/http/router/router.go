package router

import (
	"net/http"

	"code2pitch.app/relay/internal/http/handler"
	"code2pitch.app/relay/internal/service"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	Version string
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	pitchHandler := handler.NewPitchHandler(services.Pitches(), cfg.Version)
	PitchRouter(router, pitchHandler)
}
