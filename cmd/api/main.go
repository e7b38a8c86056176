package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"justifacil/docs"
	"justifacil/internal/auth"
	"justifacil/internal/config"
	"justifacil/internal/database"
	"justifacil/internal/database/migration"
	handlers "justifacil/internal/http/handler"
	"justifacil/internal/http/middleware"
	"justifacil/internal/mail"
	"justifacil/internal/otel"
	"justifacil/internal/realtime"
	"justifacil/internal/repository/postgres"
	"justifacil/internal/seed"
	"justifacil/internal/service"
	"justifacil/internal/storage"
)

// maxUploadBytes bounds multipart bodies.
const maxUploadBytes = 10 << 20

// @title JustiFácil API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("unknown timezone %q, falling back to UTC", cfg.Timezone)
		loc = time.UTC
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, otel.ConfigFromEnv(), loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	logger := service.NewLogger(os.Stdout)

	userRepo := postgres.NewUserPostgres(db)
	justRepo := postgres.NewJustificationPostgres(db)
	docRepo := postgres.NewDocumentPostgres(db)
	notifRepo := postgres.NewNotificationPostgres(db)

	if _, err := seed.NewSeeder(userRepo, justRepo, logger).EnsureAccounts(ctx, seed.InitialAccounts); err != nil {
		log.Fatalf("failed to create initial accounts: %v", err)
	}

	objStore, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMin)*time.Minute)
	if err != nil {
		log.Fatalf("failed to initialize tokens: %v", err)
	}

	rdb, err := realtime.NewClient(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("failed to initialize redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := service.NewMetrics(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}

	notifier := service.NewNotifier(mail.New(cfg.Mail, logger), notifRepo, realtime.NewPublisher(rdb), metrics, logger)
	justSvc := service.NewJustificationService(service.JustificationDeps{
		Justifications: justRepo,
		Documents:      docRepo,
		Users:          userRepo,
		Store:          objStore,
		Notifier:       notifier,
		Metrics:        metrics,
		Logger:         logger,
		Prefix:         cfg.Storage.Prefix,
		MaxNameLength:  cfg.Storage.MaxNameLength,
	})
	userSvc := service.NewUserService(userRepo, tokens, logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    maxUploadBytes,
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(loc))
	app.Use(httpMetrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:             db,
		Tokens:         tokens,
		Users:          userSvc,
		Justifications: justSvc,
		Session: handlers.SessionOptions{
			TTL:    tokens.TTL(),
			Secure: cfg.Auth.SecureCookies,
		},
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
