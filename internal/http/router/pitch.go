package router

import (
	"code2pitch.app/relay/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func PitchRouter(router gin.IRoutes, handler *handler.PitchHandler) {
	router.GET("/", handler.Root)
	router.GET("/ping", handler.Ping)
	router.POST("/generate", handler.Generate)
	router.POST("/generate-pitch", handler.GeneratePitch)
}
