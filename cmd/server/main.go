package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dairy-collection/internal/config"
	"github.com/iliyamo/dairy-collection/internal/database"
	"github.com/iliyamo/dairy-collection/internal/handler"
	"github.com/iliyamo/dairy-collection/internal/middleware"
	"github.com/iliyamo/dairy-collection/internal/notify"
	"github.com/iliyamo/dairy-collection/internal/otp"
	"github.com/iliyamo/dairy-collection/internal/queue"
	"github.com/iliyamo/dairy-collection/internal/repository"
	"github.com/iliyamo/dairy-collection/internal/router"
	queue_publisher "github.com/iliyamo/dairy-collection/internal/service"
	"github.com/iliyamo/dairy-collection/internal/sms"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional infrastructure: with a nil client the OTP
	// endpoints answer unavailable and caching and rate limiting
	// switch off, but collections keep working.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, otp/cache/ratelimit degraded")
	}

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)
	profiles := repository.NewProfileRepo(db)
	tokens := repository.NewTokenRepo(db)
	suppliers := repository.NewSupplierRepo(db)
	collections := repository.NewCollectionRepo(db)

	otpStore := otp.NewStore(rdb, cfg.OTPTTL)
	smsClient := sms.NewClient(cfg.SMSAPIURL, cfg.SMSAPIKey)

	// Background workers: SMS delivery, the append-only collection
	// trail and the evening summary batch.
	go queue.StartOutboundSMSConsumer(smsClient)
	go queue.StartCollectionLogConsumer()
	go notify.StartDailyScheduler(cfg.DailySummaryHour, notify.Deps{
		Suppliers:   suppliers,
		Collections: collections,
		Publish:     queue_publisher.PublishOutboundSMS,
	})

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	authH := handler.NewAuthHandler(cfg, db, users, roles, profiles, tokens, suppliers, otpStore)
	supplierH := handler.NewSupplierHandler(cfg, suppliers, profiles)
	collectionH := handler.NewCollectionHandler(cfg, collections, suppliers)
	myH := handler.NewMyHandler(collections, suppliers)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterAdmin(e, supplierH, collectionH, cfg.JWTSecret, cache)
	router.RegisterSupplier(e, myH, cfg.JWTSecret, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, rate_mode=%s)", addr, cfg.Env, cfg.RateMode)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
