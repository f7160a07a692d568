package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"quizhub/internal/auth"
	"quizhub/internal/cache"
	"quizhub/internal/config"
	"quizhub/internal/db"
	"quizhub/internal/handler"
	"quizhub/internal/logging"
	"quizhub/internal/metrics"
	"quizhub/internal/middleware"
	"quizhub/internal/notify"
	"quizhub/internal/repository"
	"quizhub/internal/router"
	"quizhub/internal/service"
)

// @title QuizHub API
// @version 1.0
// @description Question bank API with authors, multiple-choice questions, password reset by e-mail, and JWT authentication.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.WithError(err).Fatal("database init")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB, log); err != nil {
		log.WithError(err).Fatal("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.WithError(err).Warn("redis unreachable, question cache disabled until it recovers")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	transport, err := newTransport(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("mail transport init")
	}

	var verifier service.EmailVerifier
	if cfg.EmailMXCheck {
		verifier, err = service.NewMXVerifier(cfg.MailFrom)
		if err != nil {
			log.WithError(err).Fatal("email verifier init")
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	questionRepo := repository.NewQuestionRepository(gormDB)

	// Initialize auth components
	hasher := auth.NewBcryptHasher()
	tokens := auth.NewTokenService(auth.NewJWTSigner(cfg.JWTSecret, cfg.JWTExpiresIn), log, m)
	dispatcher := notify.NewDispatcher(
		tokens,
		transport,
		notify.Product{Name: cfg.ProductName, Link: cfg.ProductLink},
		cfg.MailFrom,
		log,
		m,
	)

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, tokens, dispatcher, log, m)
	userService := service.NewUserService(userRepo, questionRepo, hasher, verifier, cacheClient, log)
	questionService := service.NewQuestionService(questionRepo, userRepo, cacheClient, cfg.QuestionCacheTTL, log)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, log, reg, middleware.NewGate(authService), router.Handlers{
		Auth:      handler.NewAuthHandler(authService, userService, log),
		Users:     handler.NewUserHandler(userService, authService, log),
		Questions: handler.NewQuestionHandler(questionService, log),
	})

	log.WithField("url", swaggerURL(cfg.SwaggerHost)).Info("swagger documentation available")

	go func() {
		addr := ":" + cfg.ServerPort
		log.WithField("addr", addr).Info("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	log.Info("server stopped")
}

func newTransport(cfg *config.Config, log logrus.FieldLogger) (notify.Transport, error) {
	if cfg.MailTransport == config.MailTransportMailgun {
		log.WithField("domain", cfg.MailgunDomain).Info("sending mail through mailgun")
		return notify.NewMailgunTransport(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunAPIBase), nil
	}
	log.WithField("dir", cfg.MailOutboxDir).Info("writing mail to outbox")
	return notify.NewOutboxTransport(cfg.MailOutboxDir)
}

func swaggerURL(host string) string {
	switch {
	case host == "":
		// docker-compose maps the container port to 5000
		return "http://localhost:5000/swagger/index.html"
	case len(host) >= 7 && host[:7] == "http://", len(host) >= 8 && host[:8] == "https://":
		return host + "/swagger/index.html"
	default:
		return "http://" + host + "/swagger/index.html"
	}
}
