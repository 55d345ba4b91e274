package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codetrek/internal/api"
	"codetrek/internal/app/service"
	"codetrek/internal/common/security"
	"codetrek/internal/platform/cache"
	"codetrek/internal/platform/dataset"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	// 1. Load Configuration
	cfg, log, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()
	ctx := context.Background()

	// 2. Initialize Storage
	repos, db, err := openRepositories(ctx, cfg, log)
	if err != nil {
		log.Error("Database setup failed", "error", err)
		return err
	}
	if db != nil {
		defer db.Close()
	}

	// 3. Initialize Redis
	rdb, err := cache.ConnectRedis(ctx, cfg, log)
	if err != nil {
		log.Error("Redis setup failed", "error", err)
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// 4. Initialize Adapters
	gen, err := newGenerator(ctx, cfg, log)
	if err != nil {
		log.Error("Language model setup failed", "error", err)
		return err
	}
	concepts, err := newConceptStore(cfg, log)
	if err != nil {
		log.Error("Similarity store setup failed", "error", err)
		return err
	}
	problemsData := dataset.Load(cfg.DatasetPath, log)
	log.Info("Dataset loaded", "path", cfg.DatasetPath, "rows", problemsData.Len())
	media, err := newMediaStore(ctx, cfg)
	if err != nil {
		log.Error("Upload storage setup failed", "error", err)
		return err
	}
	defer media.close()

	// 5. Initialize Services
	tokens := security.NewTokenManager(cfg.JWTKey, cfg.JWTExp)
	services := api.Services{
		Auth: service.NewAuthService(
			repos.users, repos.profiles, repos.tokens, repos.tx,
			tokens, cache.NewTokenCache(rdb), log,
		),
		Problem:    service.NewProblemService(repos.problems, problemsData, log),
		Chat:       service.NewChatService(repos.chats, concepts, gen, log),
		Evaluation: service.NewEvaluationService(repos.problems, repos.submissions, gen, log),
		Profile:    service.NewProfileService(repos.profiles, log),
		Upload:     service.NewUploadService(repos.files, media.backend, log),
	}

	// 6. Initialize Router & HTTP Server
	opts := api.Options{
		TokenAuth:      tokens.Auth(),
		RequestTimeout: cfg.RequestTimeout,
		Logger:         log,
	}
	if media.local != nil {
		opts.MediaURL, opts.Media = media.local.BaseURL(), media.local.Handler()
	}

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      api.NewRouter(services, opts),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("Could not listen", "port", cfg.APIPort, "error", err)
			return err
		}
	case <-stop:
	}

	log.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		return err
	}
	log.Info("Server stopped gracefully")
	return nil
}
