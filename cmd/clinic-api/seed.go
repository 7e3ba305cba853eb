package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ironhealth/clinic-api/internal/core/service"
	mongodb "github.com/ironhealth/clinic-api/internal/infrastructure/db/mongo"
	"github.com/ironhealth/clinic-api/pkg/logger"
)

func seedAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin account if it does not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}

			ctx := cmd.Context()
			cfg, log, loc, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
			if err != nil {
				return err
			}
			defer func() { _ = client.Disconnect(ctx) }()

			users := mongodb.NewUserRepository(db)
			if err := users.EnsureIndexes(ctx); err != nil {
				return err
			}
			profiles := service.NewProfileResolver(mongodb.NewPatientRepository(db), mongodb.NewProfessionalRepository(db))
			auth := service.NewAuthService(users, profiles, newValidator(loc), cfg.JWTSecret, cfg.JWTExpires, logger.Component("auth"))

			created, err := auth.SeedAdmin(ctx, email, password)
			if err != nil {
				return err
			}
			log.Info().Str("email", email).Bool("created", created).Msg("admin seed finished")
			return nil
		},
	}
	cmd.Flags().String("email", "", "Admin email")
	cmd.Flags().String("password", "", "Admin password")
	return cmd
}
