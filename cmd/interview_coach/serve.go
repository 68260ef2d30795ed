package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/server"
	"github.com/jonathan/interview-coach/internal/server/ratelimit"
)

var (
	servePort      int
	serveWhitelist string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for creating interview sessions,
answering questions and analyzing resumes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	serveCmd.Flags().StringVar(&serveWhitelist, "whitelist", "", "Comma-separated client IPs exempt from rate limiting")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, log, appOptions{persistent: true, objects: true})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			log.Warn("shutdown cleanup failed", zap.Error(err))
		}
	}()

	srv := server.New(serverConfig(a, serveWhitelist), a.manager, log)
	return srv.Start(ctx)
}

func serverConfig(a *app, whitelist string) server.Config {
	fetch := ingestion.DefaultFetchOptions()
	fetch.BlockPrivate = !a.cfg.Server.AllowPrivateJobURLs

	cfg := server.Config{
		Port:      a.cfg.Server.Port,
		RateLimit: ratelimit.NewConfig(a.cfg.Server.RateLimit, a.cfg.Server.RateBurst, whitelist),
		Fetch:     fetch,
	}
	// a nil *ObjectSource must not become a non-nil interface
	if a.objects != nil {
		cfg.Objects = a.objects
	}
	return cfg
}
