package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/billiard-club-pos/internal/config"
	"github.com/iliyamo/billiard-club-pos/internal/database"
	"github.com/iliyamo/billiard-club-pos/internal/handler"
	"github.com/iliyamo/billiard-club-pos/internal/middleware"
	"github.com/iliyamo/billiard-club-pos/internal/pricing"
	"github.com/iliyamo/billiard-club-pos/internal/queue"
	"github.com/iliyamo/billiard-club-pos/internal/repository"
	"github.com/iliyamo/billiard-club-pos/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("database schema: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, cache and rate limiting disabled")
	}

	customerRepo := repository.NewCustomerRepo(db)
	tableRepo := repository.NewTableRepo(db)
	rentalRepo := repository.NewRentalRepo(db)
	accessoryRepo := repository.NewAccessoryRepo(db)
	packageRepo := repository.NewPackageRepo(db)
	pricingRepo := repository.NewPricingRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)
	bankRepo := repository.NewBankInfoRepo(db)

	tariff := pricing.NewTariff(cfg.TariffThresholdHours)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterTables(e, handler.NewTableHandler(tableRepo, rentalRepo, customerRepo, accessoryRepo, invoiceRepo, bankRepo, tariff), cache)
	router.RegisterOrders(e, handler.NewOrderHandler(customerRepo, rentalRepo, packageRepo, accessoryRepo, pricingRepo, invoiceRepo, bankRepo, tariff))
	router.RegisterPricing(e, handler.NewPricingHandler(customerRepo, rentalRepo, packageRepo, accessoryRepo, pricingRepo))
	router.RegisterCatalog(e, handler.NewCatalogHandler(customerRepo, accessoryRepo, packageRepo, pricingRepo, invoiceRepo, bankRepo), cache)

	// Invoice events land in logs/invoice.log; the consumer reconnects on
	// broker failures and never takes the server down.
	go func() {
		if err := queue.StartInvoiceConsumer(); err != nil {
			log.Printf("invoice consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
