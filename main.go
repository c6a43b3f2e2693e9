package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"formdesk/config"
	"formdesk/config/database"
	"formdesk/middleware"
	"formdesk/pkg/identity"
	"formdesk/pkg/logger"
	"formdesk/router"
	"formdesk/socket"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "formdesk",
		Short:        "Role-based form records API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return database.MigrateUp(cfg.DatabaseURL())
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return database.MigrateDown(cfg.DatabaseURL(), steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)
	return cmd
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.LogLevel)
	return cfg, nil
}

func serve(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
			return err
		}
	}

	db, err := database.Connect(cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer db.Close()

	var auth *middleware.Authenticator
	if cfg.JWKSURL != "" {
		auth, err = middleware.NewJWKSAuthenticator(ctx, cfg.JWKSURL, cfg.JWTIssuer)
		if err != nil {
			return err
		}
	} else {
		auth = middleware.NewHMACAuthenticator(cfg.JWTSecret, cfg.JWTIssuer)
	}

	hub := socket.NewHub()
	go hub.Run()
	defer hub.Stop()

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: router.Setup(router.Deps{
			DB:         db,
			Hub:        hub,
			Auth:       auth,
			Metadata:   identity.NewMetadataStore(cfg.RoleCacheSize, cfg.RoleCacheTTL),
			CORSOrigin: cfg.CORSOrigin,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Sugar.Infof("formdesk listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Sugar.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
