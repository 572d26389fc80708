package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/HSouheill/dispensary_backend/config"
	"github.com/HSouheill/dispensary_backend/controllers"
	"github.com/HSouheill/dispensary_backend/jobs"
	"github.com/HSouheill/dispensary_backend/logger"
	"github.com/HSouheill/dispensary_backend/metrics"
	"github.com/HSouheill/dispensary_backend/middleware"
	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories"
	"github.com/HSouheill/dispensary_backend/routes"
	"github.com/HSouheill/dispensary_backend/services"
	"github.com/HSouheill/dispensary_backend/utils"
	"github.com/HSouheill/dispensary_backend/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()
	logger.Setup(cfg.LogLevel, cfg.IsDevelopment())

	// Connect to Redis
	redisClient := config.ConnectRedis(cfg.Redis)

	// Connect to database
	client, db := config.ConnectDB(cfg.Mongo)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	var publisher services.Publisher = services.LogPublisher{}
	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		publisher = services.NewKafkaPublisher(brokers, cfg.Kafka.Topic)
	} else {
		logger.Info("KAFKA_BROKERS not set, domain events are only logged")
	}
	events := services.NewEventBus(publisher, m)

	// Create WebSocket hub
	wsHub := websocket.NewHub(m)
	go wsHub.Run()

	// Repositories
	users := repositories.NewUserRepository(db)
	stores := repositories.NewStoreRepository(db)
	resellers := repositories.NewResellerRepository(db)
	clients := repositories.NewClientRepository(db)
	commissions := repositories.NewCommissionRepository(db)
	referrals := repositories.NewReferralRepository(db)
	onboarding := repositories.NewOnboardingRepository(db)
	notifications := repositories.NewNotificationRepository(db)
	products := repositories.NewProductRepository(db)
	codes := repositories.NewAuthenticationCodeRepository(db)
	expenses := repositories.NewExpenseRepository(db)
	sales := repositories.NewSaleRepository(db)
	deliveries := repositories.NewDeliveryRepository(db)

	// Services
	tokens := services.NewTokenStore(redisClient)
	notifier := services.NewNotifier(notifications, wsHub, services.NewMailer(cfg.SMTP))
	renderer := services.NewQRRenderer(cfg.PublicBaseURL)

	authService := services.NewAuthService(users, stores, resellers, tokens, m, cfg.JWTSecret, cfg.JWTTTL)
	commissionService := services.NewCommissionService(resellers, clients, commissions, users, notifier, events, m)
	referralService := services.NewReferralService(referrals, resellers, clients, users, notifier, events, m)
	resellerService := services.NewResellerService(resellers, clients, onboarding)
	storeService := services.NewStoreService(stores, expenses, products)
	saleService := services.NewSaleService(sales, products, expenses, stores)
	deliveryService := services.NewDeliveryService(deliveries, sales)
	reportService := services.NewReportService(sales, products, deliveries, stores)
	verificationService := services.NewVerificationService(codes, products, stores, renderer, m)

	// Create a new Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewValidator()

	stop := make(chan struct{})
	rateLimiter := middleware.NewRateLimiter()
	go rateLimiter.Cleanup(5*time.Minute, stop)

	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestLogger(m))
	e.Use(middleware.CORS(cfg.AllowedOrigins(), cfg.IsDevelopment()))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequireJSON())
	e.Use(echoMiddleware.BodyLimit("2M"))
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{http.MethodGet, http.MethodHead}, "/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		status := map[string]string{"status": "ok", "mongo": "ok", "redis": "ok"}
		code := http.StatusOK
		if err := client.Ping(ctx, nil); err != nil {
			status["mongo"] = "down"
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			status["redis"] = "down"
			status["status"] = "degraded"
		}
		return c.JSON(code, status)
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(registry)))

	jwt := middleware.JWTMiddleware(cfg.JWTSecret, tokens)
	routes.SetupRoutes(e, jwt, routes.Controllers{
		Auth:          controllers.NewAuthController(authService),
		Accounting:    controllers.NewAccountingController(storeService, saleService),
		Deliveries:    controllers.NewDeliveryController(deliveryService),
		Inventory:     controllers.NewInventoryController(storeService),
		QR:            controllers.NewQRController(verificationService),
		Reports:       controllers.NewReportController(reportService),
		Settings:      controllers.NewSettingsController(storeService),
		Partners:      controllers.NewResellerController(models.ResellerPartner, resellerService),
		Consultants:   controllers.NewResellerController(models.ResellerConsultant, resellerService),
		PartnerPortal: controllers.NewPortalController(models.ResellerPartner, resellerService, commissionService, referralService, renderer),
		ConsultPortal: controllers.NewPortalController(models.ResellerConsultant, resellerService, commissionService, referralService, renderer),
		Commissions:   controllers.NewCommissionController(commissionService),
		Notifications: controllers.NewNotificationController(notifications, wsHub),
	})

	var scheduler *gocron.Scheduler
	if cfg.Schedule.Enabled {
		s, err := jobs.NewCommissionJob(commissionService, cfg.Schedule.CommissionCron).Start()
		if err != nil {
			logger.Fatalf("failed to schedule commission generation: %v", err)
		}
		scheduler = s
		logger.Infof("Commission generation scheduled with %q (UTC)", cfg.Schedule.CommissionCron)
	}

	// Start server
	go func() {
		logger.Infof("Server listening on :%s", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	if scheduler != nil {
		scheduler.Stop()
	}
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown failed")
	}
	if err := events.Close(); err != nil {
		logger.WithError(err).Warn("event publisher close failed")
	}
	if err := client.Disconnect(ctx); err != nil {
		logger.WithError(err).Warn("MongoDB disconnect failed")
	}
	if err := redisClient.Close(); err != nil {
		logger.WithError(err).Warn("Redis close failed")
	}
	wsHub.Stop()
}
