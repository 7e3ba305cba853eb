package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironhealth/clinic-api/internal/api"
	"github.com/ironhealth/clinic-api/internal/core/ports"
	"github.com/ironhealth/clinic-api/internal/core/service"
	mongodb "github.com/ironhealth/clinic-api/internal/infrastructure/db/mongo"
	redisdb "github.com/ironhealth/clinic-api/internal/infrastructure/db/redis"
	"github.com/ironhealth/clinic-api/internal/infrastructure/queue"
	"github.com/ironhealth/clinic-api/internal/infrastructure/storage"
	"github.com/ironhealth/clinic-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx)
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, log, loc, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	log.Info().Str("db", cfg.Mongo.Database).Msg("connected to mongo")

	users := mongodb.NewUserRepository(db)
	patients := mongodb.NewPatientRepository(db)
	professionals := mongodb.NewProfessionalRepository(db)
	appointments := mongodb.NewAppointmentRepository(db)
	waitlist := mongodb.NewWaitlistRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, patients, professionals, appointments, waitlist); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()
	locker := redisdb.NewBookingLocker(rdb, cfg.Redis.BookingLockTTL, logger.Component("booking_lock"))

	// --- Email ---
	mailer, err := newMailer(cfg, loc)
	if err != nil {
		return err
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	var outbox ports.Outbox
	if cfg.RabbitMQ.URL != "" {
		conn, err := queue.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.EmailQueue)
		if err != nil {
			return err
		}
		defer conn.Close()
		amqpOutbox, err := queue.NewAMQPOutbox(conn, cfg.RabbitMQ.EmailQueue)
		if err != nil {
			return err
		}
		defer amqpOutbox.Close()
		outbox = amqpOutbox
		log.Info().Str("queue", cfg.RabbitMQ.EmailQueue).Msg("email outbox: rabbitmq")
	} else {
		dispatcher := queue.NewDispatcher(cfg.Email.Workers, mailer, logger.Component("mail_dispatcher"))
		dispatcher.Start(workerCtx)
		defer func() {
			stopWorkers()
			dispatcher.Wait()
		}()
		outbox = dispatcher
		log.Info().Int("workers", cfg.Email.Workers).Msg("email outbox: in-process")
	}

	// --- Uploads ---
	var signer ports.UploadSigner
	if cfg.Storage.Endpoint != "" {
		minioSigner, err := storage.NewMinioSigner(storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return err
		}
		if err := minioSigner.EnsureBucket(ctx); err != nil {
			return err
		}
		signer = minioSigner
	} else {
		log.Warn().Msg("MINIO_ENDPOINT not set; upload signing disabled")
	}

	// --- Services ---
	v := newValidator(loc)
	notifier := service.NewNotificationService(outbox, cfg.PortalURL, logger.Component("notifications"))
	profiles := service.NewProfileResolver(patients, professionals)
	authService := service.NewAuthService(users, profiles, v, cfg.JWTSecret, cfg.JWTExpires, logger.Component("auth"))

	e := api.NewRouter(api.Dependencies{
		Auth:          authService,
		Appointments:  service.NewAppointmentService(appointments, patients, professionals, locker, notifier, v, logger.Component("appointments")),
		Patients:      service.NewPatientService(patients, users, authService, notifier, v, logger.Component("patients")),
		Professionals: service.NewProfessionalService(professionals, users, authService, notifier, v, logger.Component("professionals")),
		Email:         service.NewEmailService(mailer, v),
		Uploads:       service.NewUploadService(signer, cfg.Storage.URLTTL),
		Newsletter:    service.NewNewsletterService(waitlist, v, logger.Component("newsletter")),
		Validator:     v,
		Log:           logger.Component("http"),
		HealthChecks: map[string]func(context.Context) error{
			"mongo": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		CORSOrigins:     cfg.CORSOrigins,
		LoginPerMinute:  cfg.RateLimit.Login,
		EmailPerMinute:  cfg.RateLimit.Email,
		SignupPerMinute: cfg.RateLimit.Signup,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
	return nil
}
