package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"eventportals/config"
	_ "eventportals/docs"
	authadapter "eventportals/internal/adapters/auth"
	"eventportals/internal/adapters/cache"
	"eventportals/internal/adapters/email"
	"eventportals/internal/adapters/ticket"
	httpdelivery "eventportals/internal/delivery/http"
	"eventportals/internal/delivery/http/controllers"
	"eventportals/internal/delivery/http/middleware"
	"eventportals/internal/domain"
	"eventportals/internal/repository/postgres"
	"eventportals/internal/services"
)

// @title Event Portals API
// @version 1.0
// @description Multi-portal event management backend: attendee registrations with capacity-bounded waitlists, organizer event administration, vendor booths and sales, and admin analytics.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	// The stats cache is optional: without Redis configured the analytics
	// service reads straight from Postgres on every request.
	var statsCache domain.Cache
	if cfg.RedisAddr != "" {
		statsCache, err = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("failed to connect to redis, continuing without caching", "err", err)
			statsCache = nil
		}
	}

	mailer, err := email.NewMailer(cfg.Mailer)
	if err != nil {
		logger.Error("failed to configure mailer", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	loginCodeRepo := postgres.NewLoginCodeRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	vendorRepo := postgres.NewVendorRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)

	// Adapters
	hasher := authadapter.NewBcryptHasher(bcrypt.DefaultCost)
	tokenIssuer := authadapter.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := authadapter.NewJWTVerifier(cfg.JWTSecret)
	ticketIssuer := ticket.NewUUIDIssuer()

	// Services
	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer())
	authSvc := services.NewAuthService(userRepo, roleRepo, hasher, tokenIssuer, emailSvc, cfg.JWTExpiry)
	userSvc := services.NewUserService(userRepo, roleRepo, loginCodeRepo, emailSvc, tokenIssuer, cfg.JWTExpiry)
	eventSvc := services.NewEventService(eventRepo, regRepo)
	regSvc := services.NewRegistrationService(eventRepo, regRepo, ticketRepo, ticketIssuer)
	vendorSvc := services.NewVendorService(vendorRepo, eventRepo)
	analyticsSvc := services.NewAnalyticsService(analyticsRepo, eventRepo, statsCache, logger)

	// Controllers
	authController := controllers.NewAuthController(logger, authSvc, userSvc)
	userController := controllers.NewUserController(logger, userSvc)
	eventController := controllers.NewEventController(logger, eventSvc)
	registrationController := controllers.NewRegistrationController(logger, regSvc)
	vendorController := controllers.NewVendorController(logger, vendorSvc)
	adminController := controllers.NewAdminController(logger, analyticsSvc)

	mux := httpdelivery.NewRouter(
		logger,
		tokenVerifier,
		authController,
		userController,
		eventController,
		registrationController,
		vendorController,
		adminController,
	)

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}
	logger.Info("server stopped")
}
