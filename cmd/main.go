package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"goodsflow/internal/handlers"
	"goodsflow/internal/jobs"
	"goodsflow/internal/middleware"
	"goodsflow/internal/repositories"
	"goodsflow/internal/services"
	"goodsflow/pkg/config"
	"goodsflow/pkg/database"
	"goodsflow/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = random.String(32)
		log.Warn().Msg("JWT_SECRET not set, using a generated secret")
	}

	if err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()

	uow := repositories.NewUnitOfWork(pool)

	var notifier services.Notifier = services.NopNotifier{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		notifier = services.NewRedisNotifier(redisClient, cfg.RedisChannel, log)
	}

	warehouseSvc := services.NewWarehouseService(uow)
	productSvc := services.NewProductService(uow)
	userSvc := services.NewUserService(uow)
	ledgerSvc := services.NewLedgerService(uow)
	packingSvc := services.NewPackingService(uow)
	supplySvc := services.NewSupplyService(uow, notifier)
	purchaseSvc := services.NewCnPurchaseService(uow)
	inboundSvc := services.NewMskInboundService(uow, notifier)
	auditSvc := services.NewAuditLogService(uow)

	warehouseHandlers := handlers.NewWarehouseHandlers(warehouseSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	userHandlers := handlers.NewUserHandlers(userSvc)
	stockHandlers := handlers.NewStockHandlers(ledgerSvc)
	packingHandlers := handlers.NewPackingHandlers(packingSvc)
	supplyHandlers := handlers.NewSupplyHandlers(supplySvc)
	purchaseHandlers := handlers.NewCnPurchaseHandlers(purchaseSvc)
	inboundHandlers := handlers.NewMskInboundHandlers(inboundSvc)
	auditHandlers := handlers.NewAuditLogHandlers(auditSvc)
	healthHandlers := handlers.NewHealthHandlers(pool)

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", healthHandlers.Health)

	v1 := e.Group("/v1")
	v1.Use(middleware.JWT(cfg.JWTSecret))
	v1.Use(middleware.ActorContext())

	v1.GET("/users", userHandlers.List)
	v1.GET("/users/:id", userHandlers.Get)

	v1.GET("/warehouses", warehouseHandlers.List)
	v1.POST("/warehouses", warehouseHandlers.Create)
	v1.GET("/warehouses/:id", warehouseHandlers.Get)
	v1.PUT("/warehouses/:id", warehouseHandlers.Update)
	v1.DELETE("/warehouses/:id", warehouseHandlers.Deactivate)

	v1.GET("/products", productHandlers.List)
	v1.POST("/products", productHandlers.Create)
	v1.GET("/products/:id", productHandlers.Get)
	v1.PUT("/products/:id", productHandlers.Update)
	v1.DELETE("/products/:id", productHandlers.Deactivate)

	v1.POST("/stocks/receive", stockHandlers.Receive)
	v1.POST("/stocks/adjust", stockHandlers.Adjust)
	v1.GET("/stocks/movements", stockHandlers.Movements)
	v1.GET("/stocks/:warehouse_id/report", stockHandlers.Report)
	v1.GET("/stocks/:warehouse_id/availability/:product_id", stockHandlers.Availability)

	v1.POST("/packing", packingHandlers.Pack)
	v1.GET("/packing", packingHandlers.List)
	v1.GET("/packing/:id", packingHandlers.Get)

	v1.GET("/supplies", supplyHandlers.List)
	v1.POST("/supplies", supplyHandlers.Create)
	v1.GET("/supplies/:id", supplyHandlers.Get)
	v1.PUT("/supplies/:id", supplyHandlers.Update)
	v1.POST("/supplies/:id/items", supplyHandlers.AddItem)
	v1.PUT("/supplies/:id/items/:item_id", supplyHandlers.UpdateItem)
	v1.DELETE("/supplies/:id/items/:item_id", supplyHandlers.RemoveItem)
	v1.POST("/supplies/:id/boxes", supplyHandlers.AddBox)
	v1.POST("/supplies/:id/boxes/:box_id/seal", supplyHandlers.SealBox)
	v1.PUT("/supplies/:id/items/:item_id/box", supplyHandlers.AssignItemToBox)
	v1.POST("/supplies/:id/cancel", supplyHandlers.Cancel())
	v1.POST("/supplies/:id/enqueue", supplyHandlers.Enqueue())
	v1.POST("/supplies/:id/revert", supplyHandlers.Revert())
	v1.POST("/supplies/:id/claim", supplyHandlers.Claim())
	v1.POST("/supplies/:id/release", supplyHandlers.Release())
	v1.POST("/supplies/:id/assembled", supplyHandlers.MarkAssembled())
	v1.POST("/supplies/:id/post", supplyHandlers.Post())
	v1.POST("/supplies/:id/deliver", supplyHandlers.Deliver())
	v1.POST("/supplies/:id/return", supplyHandlers.Return())
	v1.POST("/supplies/:id/unpost", supplyHandlers.Unpost())

	v1.GET("/cn-purchases", purchaseHandlers.List)
	v1.POST("/cn-purchases", purchaseHandlers.Create)
	v1.GET("/cn-purchases/:id", purchaseHandlers.Get)
	v1.POST("/cn-purchases/:id/items", purchaseHandlers.AddItem)
	v1.PUT("/cn-purchases/:id/comment", purchaseHandlers.UpdateComment)
	v1.POST("/cn-purchases/:id/sent-to-cargo", purchaseHandlers.MarkSentToCargo)
	v1.POST("/cn-purchases/:id/sent-to-msk", purchaseHandlers.MarkSentToMsk)

	v1.GET("/msk-inbound", inboundHandlers.List)
	v1.GET("/msk-inbound/:id", inboundHandlers.Get)
	v1.POST("/msk-inbound/:id/warehouse", inboundHandlers.AssignWarehouse)
	v1.POST("/msk-inbound/:id/receive", inboundHandlers.Receive)

	v1.GET("/audit-logs", auditHandlers.List)
	v1.GET("/audit-logs/:table/:pk", auditHandlers.EntityHistory)

	var scheduler gocron.Scheduler
	if cfg.MinioEndpoint != "" {
		store, err := minio.New(cfg.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
			Secure: cfg.MinioUseSSL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("connect to object storage")
		}

		scheduler, err = gocron.NewScheduler()
		if err != nil {
			log.Fatal().Err(err).Msg("create scheduler")
		}
		snapshotJob := jobs.NewSnapshotJob(warehouseSvc, ledgerSvc, store, cfg.SnapshotBucket, log)
		if err := snapshotJob.Register(scheduler); err != nil {
			log.Fatal().Err(err).Msg("register snapshot job")
		}
		scheduler.Start()
	} else {
		log.Info().Msg("MINIO_ENDPOINT not set, stock snapshots disabled")
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("server starting")
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if scheduler != nil {
		if err := scheduler.Shutdown(); err != nil {
			log.Error().Err(err).Msg("stop scheduler")
		}
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown server")
	}
}
