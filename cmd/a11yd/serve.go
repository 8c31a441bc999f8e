// ABOUTME: serve command runs the HTTP API
// ABOUTME: Wires translation, extraction and voice handlers and shuts down gracefully on SIGINT/SIGTERM

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"digests-a11y/api"
	"digests-a11y/api/handlers"
	"digests-a11y/api/middleware"
	"digests-a11y/core/notify"
	"digests-a11y/infrastructure/content/reader"
	"digests-a11y/pkg/featureflags"

	"github.com/spf13/cobra"
)

const banner = `
    ____  _                  __            ___ _____
   / __ \(_)___ ____  _____/ /______     /   <  /  /_  __
  / / / / / __ '/ _ \/ ___/ __/ ___/    / /| / / / / / /
 / /_/ / / /_/ /  __(__  ) /_(__  )    / ___ / / / /_/ /
/_____/_/\__, /\___/____/\__/____/    /_/  |_/_/_/\__, /
        /____/                                   /____/
`

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  "Serve translation, speakable content extraction and voice discovery over HTTP. OpenAPI docs are at /docs.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprint(cmd.OutOrStdout(), banner)

	a := newApp(cfg, false)
	defer a.Close()

	a.logger.Info("Starting Digests accessibility API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"cache_type": cfg.Cache.Type,
		"speech":     cfg.Speech.Engine,
		"version":    version,
	})

	// Server-side notifications only reach the log
	queue := notify.NewQueue(notify.WithLogger(a.logger))
	defer queue.Close()

	deps := a.dependencies(ctx, queue)
	translator := a.translation(deps)

	var voices handlers.VoiceLister
	synth, err := a.synthesizer(ctx, deps)
	if err != nil {
		a.logger.Warn("Speech engine unavailable, voices endpoint disabled", map[string]interface{}{
			"engine": cfg.Speech.Engine,
			"error":  err.Error(),
		})
	} else if synth != nil {
		voices = synth
	}

	apiConfig := api.APIConfig{
		Logger:         a.logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	if a.flags.IsEnabled(ctx, featureflags.RateLimitEnabled) && cfg.Server.RequestsPerSecond > 0 {
		limiter := middleware.NewRateLimiter(cfg.Server.RequestsPerSecond, cfg.Server.Burst)
		defer limiter.Stop()
		apiConfig.RateLimiter = limiter
	}
	humaAPI, router := api.NewAPIWithMiddleware(apiConfig)

	handlers.NewHealthHandler(a.flags, version).RegisterRoutes(humaAPI)
	handlers.NewTranslationHandler(translator, a.flags).RegisterRoutes(humaAPI)
	handlers.NewExtractHandler(reader.NewSource(deps), a.flags).RegisterRoutes(humaAPI)
	handlers.NewVoicesHandler(voices, a.flags).RegisterRoutes(humaAPI)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", map[string]interface{}{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.logger.Error("HTTP server error", map[string]interface{}{"error": err.Error()})
			return err
		}
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server forced to shutdown", map[string]interface{}{"error": err.Error()})
		return err
	}

	a.logger.Info("Server stopped", nil)
	return nil
}
