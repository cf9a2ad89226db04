package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/caspianclinic/booking-platform/internal/api/router"
	"github.com/caspianclinic/booking-platform/internal/appointments"
	"github.com/caspianclinic/booking-platform/internal/auth"
	"github.com/caspianclinic/booking-platform/internal/calendar"
	appconfig "github.com/caspianclinic/booking-platform/internal/config"
	"github.com/caspianclinic/booking-platform/internal/notifications"
	"github.com/caspianclinic/booking-platform/internal/notify"
	"github.com/caspianclinic/booking-platform/internal/observability/metrics"
	"github.com/caspianclinic/booking-platform/internal/slots"
	"github.com/caspianclinic/booking-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingMetrics := metrics.NewBookingMetrics(reg)

	// Storage. Without DATABASE_URL everything runs in memory, which keeps
	// local development and demos one command away.
	var (
		apptRepo     appointments.Repository
		slotRepo     slots.Repository
		ruleRepo     slots.RuleRepository
		notifRepo    notifications.Repository
		userRepo     auth.UserRepository
		calendarRepo calendar.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		apptRepo = appointments.NewPostgresRepository(pool)
		slotRepo = slots.NewPostgresRepository(pool)
		ruleRepo = slots.NewPostgresRuleRepository(pool)
		notifRepo = notifications.NewPostgresRepository(pool)
		userRepo = auth.NewPostgresUserRepository(pool)
		calendarRepo = calendar.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		apptRepo = appointments.NewInMemoryRepository()
		slotRepo = slots.NewInMemoryRepository()
		ruleRepo = &slots.StaticRuleRepository{Rules: defaultRules(cfg.SlotDurationMinutes)}
		notifRepo = notifications.NewInMemoryRepository()
		userRepo = auth.NewInMemoryUserRepository()
	}

	// Sessions
	var sessions auth.SessionStore
	if cfg.RedisAddr != "" {
		redisOptions := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(redisOptions)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("redis unreachable", "error", err)
			os.Exit(1)
		}
		defer func() { _ = client.Close() }()
		sessions = auth.NewRedisSessionStore(client)
	} else {
		logger.Warn("REDIS_ADDR not set, using in-memory sessions")
		sessions = auth.NewInMemorySessionStore()
	}

	// Email
	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	} else {
		emailSender = notify.NewStubEmailSender(logger)
	}

	// Services
	notifSvc := notifications.NewService(notifRepo, emailSender, logger)
	apptSvc := appointments.NewService(apptRepo, notifSvc, logger, bookingMetrics)
	authSvc := auth.NewService(userRepo, sessions, cfg.JWTSecret, cfg.SessionTTL, logger)
	calendarSvc := calendar.NewService(calendarRepo, apptRepo, logger)

	tableProvider := slots.NewTableProvider(slotRepo, apptRepo)
	ruleProvider := slots.NewRuleProvider(ruleRepo, apptRepo)
	resolver := slots.NewResolver(
		[]slots.Provider{tableProvider, ruleProvider},
		cfg.BookingLeadTime, logger, slots.WithMetrics(bookingMetrics))
	legacyResolver := slots.NewResolver(
		[]slots.Provider{ruleProvider},
		cfg.BookingLeadTime, logger, slots.WithMetrics(bookingMetrics))
	generator := slots.NewGenerator(ruleRepo, slotRepo, logger)

	r := router.New(&router.Config{
		Logger:               logger,
		AppointmentsHandler:  appointments.NewHandler(apptSvc, logger),
		SlotsHandler:         slots.NewHandler(resolver, legacyResolver, generator, logger),
		CalendarHandler:      calendar.NewHandler(calendarSvc, logger),
		NotificationsHandler: notifications.NewHandler(notifSvc, logger),
		AuthHandler:          auth.NewHandler(authSvc, logger),
		AuthService:          authSvc,
		MetricsHandler:       promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		RateLimitPerSecond:   cfg.RateLimitPerSecond,
		RateLimitBurst:       cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// defaultRules opens Monday through Friday, 09:00 to 17:00.
func defaultRules(slotMinutes int) []slots.AvailabilityRule {
	var rules []slots.AvailabilityRule
	for wd := time.Monday; wd <= time.Friday; wd++ {
		rules = append(rules, slots.AvailabilityRule{
			ID:          "default-" + wd.String(),
			Weekday:     wd,
			StartTime:   "09:00",
			EndTime:     "17:00",
			SlotMinutes: slotMinutes,
			Active:      true,
		})
	}
	return rules
}
