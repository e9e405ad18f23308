package httpframework

import (
	"sync"

	"github.com/Brownie44l1/waste-classifier-api/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	router *gin.Engine
	once   sync.Once
)

// Init builds the gin engine once. The given middlewares run first, followed
// by request id, access logging and recovery.
func Init(env string, middlewares ...gin.HandlerFunc) {
	once.Do(func() {
		if env == "prod" || env == "production" {
			gin.SetMode(gin.ReleaseMode)
		}
		router = gin.New()
		middlewares = append(middlewares, middleware.RequestID(), middleware.HTTPLogger(), middleware.HTTPRecovery())
		router.Use(middlewares...)
	})
}

// Instance returns the engine built by Init
func Instance() *gin.Engine {
	if router == nil {
		log.Fatal().Msg("Router not initialized")
	}
	return router
}
