package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jashan32/talawa-api/internal/auth"
	"github.com/Jashan32/talawa-api/internal/db/bunx"
	"github.com/Jashan32/talawa-api/internal/graph"
	"github.com/Jashan32/talawa-api/internal/objectstore"
	"github.com/Jashan32/talawa-api/internal/recaptcha"
	"github.com/Jashan32/talawa-api/internal/repository"
	"github.com/Jashan32/talawa-api/internal/server"
	"github.com/Jashan32/talawa-api/internal/services/accounts"
	"github.com/Jashan32/talawa-api/internal/services/orgs"
	"github.com/Jashan32/talawa-api/internal/services/posts"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Talawa API server",
	Long:  `Starts the HTTP server with the GraphQL endpoint and the attachment object endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := bunx.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)
		logger.Info("connected to database")

		store, err := objectstore.NewMinioStore(cfg.Minio)
		if err != nil {
			return fmt.Errorf("failed to create object store client: %w", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to prepare bucket: %w", err)
		}
		logger.Info("object store ready", "endpoint", cfg.Minio.Endpoint, "bucket", cfg.Minio.Bucket)

		users := repository.NewBunUserRepository(db)
		organizations := repository.NewBunOrganizationRepository(db)
		postRows := repository.NewBunPostRepository(db)

		tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)

		accountsSvc := accounts.NewService(users, tokens, logger)
		if cfg.RecaptchaEnabled() {
			accountsSvc = accountsSvc.WithCaptcha(recaptcha.New(cfg.RecaptchaSecretKey))
			logger.Info("captcha verification enabled")
		}
		orgsSvc := orgs.NewService(users, organizations, logger)
		postsSvc := posts.NewService(users, organizations, postRows, store, logger)

		resolver := graph.NewResolver(accountsSvc, orgsSvc, postsSvc, cfg.BaseURL, logger)

		corsOpts := server.DefaultCORSOptions()
		corsOpts.AllowedOrigins = cfg.CORSOrigins

		router := server.NewRouter(server.RouterOptions{
			Schema:      graph.NewSchema(resolver),
			Store:       store,
			Tokens:      tokens,
			Logger:      logger,
			CORSOptions: &corsOpts,
		})

		srv := &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting server", "addr", cfg.ListenAddr, "base_url", cfg.BaseURL)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}

			logger.Info("server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
