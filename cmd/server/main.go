package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	feesapp "github.com/charlykso/smart-s-sub004/internal/application/fees"
	identityapp "github.com/charlykso/smart-s-sub004/internal/application/identity"
	paymentsapp "github.com/charlykso/smart-s-sub004/internal/application/payments"
	schoolsapp "github.com/charlykso/smart-s-sub004/internal/application/schools"
	"github.com/charlykso/smart-s-sub004/internal/domain/access"
	"github.com/charlykso/smart-s-sub004/internal/domain/payment"
	"github.com/charlykso/smart-s-sub004/internal/domain/tenancy"
	"github.com/charlykso/smart-s-sub004/internal/infrastructure/auth"
	"github.com/charlykso/smart-s-sub004/internal/infrastructure/config"
	"github.com/charlykso/smart-s-sub004/internal/infrastructure/event"
	"github.com/charlykso/smart-s-sub004/internal/infrastructure/gateway"
	"github.com/charlykso/smart-s-sub004/internal/infrastructure/logger"
	"github.com/charlykso/smart-s-sub004/internal/infrastructure/persistence"
	"github.com/charlykso/smart-s-sub004/internal/interfaces/http/handler"
	"github.com/charlykso/smart-s-sub004/internal/interfaces/http/middleware"
	"github.com/charlykso/smart-s-sub004/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Smart-S Ledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	feeRepo := persistence.NewGormFeeRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	groupSchoolRepo := persistence.NewGormGroupSchoolRepository(db.DB)
	schoolRepo := persistence.NewGormSchoolRepository(db.DB)
	sessionRepo := persistence.NewGormSessionRepository(db.DB)
	termRepo := persistence.NewGormTermRepository(db.DB)

	// Event bus with the audit trail subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Payment gateways from config
	gateways := make([]payment.Gateway, 0, 2)
	if cfg.Gateway.Paystack.Enabled {
		paystack, err := gateway.NewPaystackAdapter(cfg.Gateway.Paystack, log)
		if err != nil {
			log.Fatal("Failed to configure paystack gateway", zap.Error(err))
		}
		gateways = append(gateways, paystack)
		log.Info("Paystack gateway enabled")
	}
	if cfg.Gateway.Flutterwave.Enabled {
		flutterwave, err := gateway.NewFlutterwaveAdapter(cfg.Gateway.Flutterwave, log)
		if err != nil {
			log.Fatal("Failed to configure flutterwave gateway", zap.Error(err))
		}
		gateways = append(gateways, flutterwave)
		log.Info("Flutterwave gateway enabled")
	}

	// Auth infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
	}

	// Domain services
	gate := access.NewGate()
	resolver := tenancy.NewScopeResolver(schoolRepo, sessionRepo, termRepo, log)

	// Application services
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	feeService := feesapp.NewService(feeRepo, resolver, gate, eventBus, log)
	paymentService := paymentsapp.NewService(paymentsapp.ServiceConfig{
		Payments:  paymentRepo,
		Fees:      feeRepo,
		Users:     userRepo,
		Resolver:  resolver,
		Gate:      gate,
		Gateways:  gateways,
		Publisher: eventBus,
		Logger:    log,
	})
	callbackService := paymentsapp.NewCallbackService(paymentsapp.CallbackServiceConfig{
		Gateways:  gateways,
		Payments:  paymentRepo,
		Publisher: eventBus,
		Logger:    log,
	})
	schoolService := schoolsapp.NewService(
		groupSchoolRepo, schoolRepo, sessionRepo, termRepo, resolver, gate, log,
	)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	feeHandler := handler.NewFeeHandler(feeService)
	paymentHandler := handler.NewPaymentHandler(paymentService, callbackService)
	schoolHandler := handler.NewSchoolHandler(schoolService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, "/api/v1/system/ping"))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/api/v1/payments/webhook/",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Auth
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)
	r.Register(authRoutes)

	// Tenancy: group schools, schools, sessions, terms
	tenancyRoutes := router.NewDomainGroup("tenancy", "")
	tenancyRoutes.POST("/group-schools", schoolHandler.CreateGroupSchool)
	tenancyRoutes.POST("/schools", schoolHandler.CreateSchool)
	tenancyRoutes.GET("/schools", schoolHandler.ListSchools)
	tenancyRoutes.GET("/schools/:id/current-term", schoolHandler.CurrentTerm)
	tenancyRoutes.GET("/schools/:id/fees/payable", feeHandler.ListPayable)
	tenancyRoutes.POST("/sessions", schoolHandler.CreateSession)
	tenancyRoutes.POST("/sessions/:id/current", schoolHandler.SetCurrentSession)
	tenancyRoutes.POST("/terms", schoolHandler.CreateTerm)
	tenancyRoutes.POST("/terms/:id/current", schoolHandler.SetCurrentTerm)
	r.Register(tenancyRoutes)

	// Fee lifecycle
	feeRoutes := router.NewDomainGroup("fees", "/fees")
	feeRoutes.POST("", feeHandler.Create)
	feeRoutes.GET("", feeHandler.List)
	feeRoutes.GET("/:id", feeHandler.Get)
	feeRoutes.POST("/:id/approve", feeHandler.Approve)
	feeRoutes.POST("/:id/deactivate", feeHandler.Deactivate)
	feeRoutes.POST("/:id/reactivate", feeHandler.Reactivate)
	feeRoutes.GET("/:id/payments", paymentHandler.ListByFee)
	r.Register(feeRoutes)

	// Payments and the ledger
	paymentRoutes := router.NewDomainGroup("payments", "/payments")
	paymentRoutes.POST("/cash", paymentHandler.RecordCash)
	paymentRoutes.POST("/initiate", paymentHandler.Initiate)
	paymentRoutes.GET("/:id", paymentHandler.Get)
	paymentRoutes.POST("/webhook/:gateway", paymentHandler.Webhook)
	r.Register(paymentRoutes)

	payerRoutes := router.NewDomainGroup("payers", "/payers")
	payerRoutes.GET("/:id/payments", paymentHandler.ListByPayer)
	payerRoutes.GET("/:id/outstanding", paymentHandler.Outstanding)
	r.Register(payerRoutes)

	// System
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness including a database ping
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
