package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tazhibayda/hop-service/docs"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Metrics())

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/register", h.Register)
	r.GET("/register-result", h.RegisterResult)
	r.GET("/api/exchange_token", RateLimit(h.Redis, h.Cfg.RateLimitPerMin), h.ExchangeToken)

	r.GET("/results", h.Results)
	r.GET("/activities", h.Activities)
	r.GET("/users", h.Users)
	r.DELETE("/api/users", h.DeleteUsers)

	return r
}
