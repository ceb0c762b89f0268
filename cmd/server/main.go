package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lcdsoft/storefront/internal/config"
	"github.com/lcdsoft/storefront/internal/database"
	"github.com/lcdsoft/storefront/internal/handler"
	"github.com/lcdsoft/storefront/internal/jobs"
	"github.com/lcdsoft/storefront/internal/mailer"
	"github.com/lcdsoft/storefront/internal/middleware"
	"github.com/lcdsoft/storefront/internal/redis"
	"github.com/lcdsoft/storefront/internal/repository"
	"github.com/lcdsoft/storefront/internal/service"
	"github.com/lcdsoft/storefront/internal/view"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	if err := db.Migrate(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	viewsDir, err := cfg.ResolveViewsDir()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to locate templates")
	}
	renderer, err := view.New(viewsDir, !cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse templates")
	}

	accountRepo := repository.NewAccountRepository(db.DB)
	sessionRepo := repository.NewSessionRepository(db.DB)
	productRepo := repository.NewProductRepository(db.DB)
	resetRepo := repository.NewPasswordResetRepository(db.DB)

	mail := mailer.NewSMTP(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
	})
	if !cfg.MailConfigured() {
		log.Warn().Msg("SMTP not configured: outbound mail will fail")
	}

	sessionService := service.NewSessionService(
		sessionRepo, accountRepo, cfg.SessionSecret, cfg.SessionTTL(), cfg.SessionSliding,
	)
	authService := service.NewAuthService(
		db, accountRepo, resetRepo, sessionService, mail, cfg.SMTPUser, cfg.BaseURL,
	)
	productService := service.NewProductService(productRepo)
	contactService := service.NewContactService(mail, cfg.SMTPUser, cfg.MailTo())

	// Redis backs the login rate limiter when available; otherwise a
	// per-process in-memory limiter takes over.
	var loginLimiter middleware.AttemptLimiter
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected")
		loginLimiter = middleware.NewRedisLoginRateLimiter(redisClient.Client)
	} else {
		loginLimiter = middleware.NewLoginRateLimiter()
	}

	cookies := middleware.CookieConfig{
		Domain:   cfg.CookieDomain,
		Secure:   cfg.IsProduction(),
		SameSite: cfg.SameSite(),
		MaxAge:   int(cfg.SessionTTL().Seconds()),
	}

	sessionMiddleware := middleware.NewSessionMiddleware(sessionService)
	loginLimitMiddleware := middleware.NewLoginLimitMiddleware(loginLimiter, renderer)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(config.MaxBodySize)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(cfg.IsProduction())
	recoverMiddleware := middleware.NewRecoverMiddleware(renderer)

	authHandler := handler.NewAuthHandler(authService, renderer, cookies, loginLimitMiddleware.Handler)
	productHandler := handler.NewProductHandler(productService, renderer)
	dashboardHandler := handler.NewDashboardHandler(productService, renderer)
	pagesHandler := handler.NewPagesHandler(contactService, renderer)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(recoverMiddleware.Handler)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)
	r.Use(securityHeadersMiddleware.Handler)
	r.Use(sessionMiddleware.Handler)

	r.Get("/health", handler.Health)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if middleware.GetAccount(r.Context()) != nil {
			http.Redirect(w, r, "/products", http.StatusFound)
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	})

	authHandler.Mount(r)
	pagesHandler.Mount(r)
	r.Mount("/products", productHandler.Routes())
	r.Mount("/dashboard", dashboardHandler.Routes())

	r.Handle("/static/*", handler.NewStaticHandler(cfg.StaticDir, int(config.StaticCacheMaxAge.Seconds())))

	r.NotFound(handler.NotFound(renderer))

	cleanupJob := jobs.NewCleanupJob(sessionRepo, resetRepo, cfg.CleanupInterval())
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
