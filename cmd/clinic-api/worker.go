package main

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironhealth/clinic-api/internal/infrastructure/queue"
	"github.com/ironhealth/clinic-api/pkg/logger"
)

func mailWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mail-worker",
		Short: "Deliver queued emails from RabbitMQ",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, log, loc, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			if cfg.RabbitMQ.URL == "" {
				return errors.New("RABBITMQ_URL is required for mail-worker")
			}

			mailer, err := newMailer(cfg, loc)
			if err != nil {
				return err
			}
			conn, err := queue.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.EmailQueue)
			if err != nil {
				return err
			}
			defer conn.Close()

			log.Info().Str("queue", cfg.RabbitMQ.EmailQueue).Msg("mail worker started")
			consumer := queue.NewConsumer(conn, cfg.RabbitMQ.EmailQueue, mailer, logger.Component("mail_worker"))
			if err := consumer.Run(ctx); err != nil {
				return err
			}
			log.Info().Msg("mail worker stopped")
			return nil
		},
	}
}
