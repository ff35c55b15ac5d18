package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/attunetutor/attune/internal/httpapi"
	"github.com/attunetutor/attune/internal/llm"
	"github.com/attunetutor/attune/internal/logging"
	"github.com/attunetutor/attune/internal/session"
	"github.com/attunetutor/attune/internal/store"
	"github.com/attunetutor/attune/internal/tutor"
	"github.com/attunetutor/attune/internal/vision"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the session API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	visionProvider, err := buildProvider(ctx, "ATTUNE_VISION", st, logger)
	if err != nil {
		return fmt.Errorf("vision provider: %w", err)
	}
	tutorProvider, err := buildProvider(ctx, "ATTUNE_TUTOR", st, logger)
	if err != nil {
		return fmt.Errorf("tutor provider: %w", err)
	}
	// Tutoring turns retry transient failures; classification does not,
	// the next sampler tick is its retry.
	tutorProvider = llm.WithRetry(tutorProvider, llm.DefaultConfig().Retry)

	manager := session.NewManager(
		vision.NewGateway(visionProvider, logger),
		tutor.NewService(tutorProvider, tutor.DefaultConfig()),
		st.EmotionEvents(),
		cfg,
		logger,
	)
	defer manager.Shutdown()

	handler := httpapi.NewHandler(ctx, manager, logger)
	srv := &http.Server{
		Addr:              cfg.APIBind,
		Handler:           httpapi.NewRouter(handler, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server listening", slog.String("addr", cfg.APIBind))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildProvider resolves provider config from prefixed env vars, falling
// back to probing the standard API key variables.
func buildProvider(ctx context.Context, envPrefix string, st *store.Store, logger *slog.Logger) (llm.Provider, error) {
	cfg := llm.ConfigFromEnv(envPrefix)
	if err := cfg.Validate(); err != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return nil, fmt.Errorf("no usable provider: %w", err)
		}
		cfg = discovered
	}
	return llm.NewProvider(ctx, cfg, st.ModelRequests(), logger)
}
