package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/barberdesk/booking-api/internal/cache"
	"github.com/barberdesk/booking-api/internal/config"
	dbpkg "github.com/barberdesk/booking-api/internal/db"
	"github.com/barberdesk/booking-api/internal/logging"
	"github.com/barberdesk/booking-api/internal/media"
	"github.com/barberdesk/booking-api/internal/middleware"
	"github.com/barberdesk/booking-api/internal/notify"
	"github.com/barberdesk/booking-api/internal/payments"
	"github.com/barberdesk/booking-api/internal/routes"
	"github.com/barberdesk/booking-api/internal/timezone"
)

func main() {
	logging.Init()

	cfg := config.Load()
	timezone.SetDefault(cfg.DefaultTimezone)

	db := dbpkg.NewDB(cfg)

	// Response cache: Redis when configured, in-process otherwise.
	var store cache.Store
	if cfg.RedisAddr != "" {
		rs := cache.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rs.Ping(pingCtx); err != nil {
			// Cache misses are the worst case, so degraded is fine.
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable")
		}
		cancel()

		store = rs
	} else {
		store = cache.NewMemoryStore()
	}

	var messenger notify.Messenger = notify.NoopMessenger{}
	if cfg.NotifyWebhookURL != "" {
		messenger = notify.NewWebhookMessenger(cfg.NotifyWebhookURL, cfg.NotifyWebhookToken)
	}

	deps := routes.Deps{
		Cache:     store,
		Hub:       notify.NewHub(),
		Messenger: messenger,
		Gateway:   payments.NewGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret),
		Uploader:  media.NewUploader(media.UploaderConfig{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			BaseURL:   cfg.S3PublicBaseURL,
		}),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(logging.GinLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Cache", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, deps)

	log.Info().Str("addr", cfg.Addr()).Msg("server listening")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
