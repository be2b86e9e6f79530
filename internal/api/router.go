package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/trabajostecnicos73/app-control-smartparking/config"
	"github.com/trabajostecnicos73/app-control-smartparking/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheStore := cache.New(cfg.CacheTTL, 10*time.Minute)
	caching := mw.Cache(cacheStore, cfg.CacheTTL)

	// Ingest routes, hit by gate terminals.
	sync := r.Group("/sync")
	sync.Use(rateLimiter)
	{
		sync.POST("/movement", h.SubmitMovement)
		sync.POST("/live-state", h.PushLiveState)
		sync.POST("/cashout", h.SubmitCashout)
		sync.POST("/alert", h.SubmitAlert)
	}

	// Read routes, hit by dashboards.
	r.GET("/summary", caching, h.GetSummary)
	r.GET("/history", caching, h.GetHistory)
	r.GET("/cashouts", h.GetCashouts)
	r.GET("/alerts", h.GetAlerts)

	r.GET("/subscriptions", h.GetSubscription)
	r.PUT("/subscriptions", h.PutSubscription)
	r.DELETE("/subscriptions", h.DeleteSubscription)
	r.GET("/vapid_public_key", h.GetVAPIDPublicKey)

	return r
}
