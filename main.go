package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"parent-portal-go/auth"
	"parent-portal-go/config"
	"parent-portal-go/db"
	"parent-portal-go/handlers"
	"parent-portal-go/metrics"
	"parent-portal-go/models"
	"parent-portal-go/predictor"
	"parent-portal-go/session"
)

func main() {
	envFile := flag.String("env", ".env", "optional dotenv file with PORTAL_* settings")
	flag.Parse()

	conf, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !conf.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Load the model once; it is shared read-only by every request
	model, err := predictor.LoadLinearModel(conf.Model.Path)
	if err != nil {
		log.Fatalf("Failed to load prediction model: %v", err)
	}
	log.Printf("Loaded prediction model from %s (features: %s)", conf.Model.Path, strings.Join(model.Features, ", "))

	// Session store
	store, pinger := initSessionStore(conf)

	// Create Portal Handler (injecting the dependencies)
	portalHandler := handlers.NewPortalHandler(
		store,
		auth.NewStaticCredentials(conf.Credential()),
		model,
		models.DefaultStudent(),
		model.Features,
		metrics.New(),
	)
	portalHandler.Pinger = pinger

	// Initialize Gin router
	router := gin.Default()
	err = handlers.SetupRouter(router, portalHandler, handlers.RouterOptions{
		CookieName:   conf.Session.CookieName,
		SecretKey:    []byte(conf.SecretKey),
		SessionTTL:   conf.Session.TTL,
		AllowOrigins: conf.CORS.AllowOrigins,
	})
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Start the server
	log.Printf("Starting server on %s", conf.Addr)
	if err := router.Run(conf.Addr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

// initSessionStore picks the configured session backend. The Redis backend
// is also returned as the pinger used by /ping.
func initSessionStore(conf *config.Config) (session.Store, handlers.Pinger) {
	switch conf.Session.Backend {
	case config.SessionBackendRedis:
		redisClient, err := db.InitializeRedisClient(context.Background(), db.RedisOptions{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		if err != nil {
			log.Fatalf("Could not connect to Redis: %v", err)
		}
		redisService := db.NewRedisService(redisClient, conf.Session.TTL)
		log.Printf("Using Redis session store (ttl %s)", conf.Session.TTL)
		return redisService, redisService
	default:
		log.Printf("Using in-memory session store (ttl %s)", conf.Session.TTL)
		return session.NewMemoryStore(conf.Session.TTL), nil
	}
}
