package main

import (
	"database/sql"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"eventstage/config"
	"eventstage/internal/adapters/auth"
	"eventstage/internal/adapters/email"
	"eventstage/internal/adapters/messaging"
	"eventstage/internal/adapters/speakerdir"
	delivery "eventstage/internal/delivery/http"
	"eventstage/internal/delivery/http/controllers"
	"eventstage/internal/delivery/http/middleware"
	"eventstage/internal/domain"
	"eventstage/internal/repository/postgres"
	"eventstage/internal/services"
)

const serviceTimeout = 10 * time.Second

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
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	// Broker channel is opened once and reused. Without a broker the
	// publisher fails every publish, and approvals/cancellations fail with it.
	var publisher domain.LifecyclePublisher
	if cfg.AMQPUrl != "" {
		conn, ch, err := messaging.Connect(cfg.AMQPUrl)
		if err != nil {
			logger.Error("failed to connect to message broker", "err", err)
			os.Exit(1)
		}
		defer conn.Close()
		publisher, err = messaging.NewPublisher(ch, cfg.EventsExchange, cfg.ConsumerQueues, logger)
		if err != nil {
			logger.Error("failed to declare broker topology", "err", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("AMQP_URL not set, lifecycle notifications unavailable")
		publisher = messaging.NewUnavailablePublisher(logger)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	speakerDir := speakerdir.NewHTTPClient(cfg.SpeakerServiceURL, &http.Client{
		Timeout: cfg.SpeakerServiceTimeout,
	})

	eventRepo := postgres.NewEventRepository(db)
	venueRepo := postgres.NewVenueRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	sessionSpeakerRepo := postgres.NewSessionSpeakerRepository(db)

	emailService := services.NewEmailService(mailer)
	eventService := services.NewEventService(eventRepo, venueRepo, publisher, speakerDir, emailService, logger, serviceTimeout)
	scheduleService := services.NewScheduleService(eventRepo, sessionRepo, sessionSpeakerRepo, speakerDir, logger, serviceTimeout)
	speakerService := services.NewSpeakerAssignmentService(eventRepo, sessionRepo, sessionSpeakerRepo, speakerDir, logger, serviceTimeout, cfg.SpeakerServiceTimeout)

	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	eventController := controllers.NewEventController(logger, eventService)
	scheduleController := controllers.NewScheduleController(logger, scheduleService)
	speakerController := controllers.NewSpeakerController(logger, speakerService)

	mux := delivery.NewRouter(eventController, scheduleController, speakerController, verifier, logger)

	allowedOrigins := []string{"http://localhost:3000"}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		allowedOrigins = strings.Split(origins, ",")
	}
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux))

	logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
