package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-retrieval-engine/api"
	"github.com/gcbaptista/go-retrieval-engine/internal/cache"
	"github.com/gcbaptista/go-retrieval-engine/internal/engine"
	"github.com/gcbaptista/go-retrieval-engine/internal/metrics"
)

var (
	serveCorpus []string
	servePort   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Load the corpus, build the index and serve the HTTP API until interrupted.

Examples:
  search_engine serve --corpus "data/**/*.json"
  search_engine serve --config engine.yaml --port 9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringSliceVar(&serveCorpus, "corpus", nil, "corpus file globs (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	eng := engine.NewEngine(cfg.Engine, engine.WithMetrics(m))
	if err := populate(ctx, eng, corpusPatterns(serveCorpus, cfg), cmd.ErrOrStderr()); err != nil {
		return err
	}

	var store cache.Store
	if cfg.Redis.Addr != "" {
		redisStore, err := cache.NewRedisStore(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, search caching disabled", "error", err)
		} else {
			defer redisStore.Close()
			store = redisStore
			slog.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}
	queryCache := cache.New(store, cfg.Redis.CacheTTL, m)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(eng, cfg.Server,
		api.WithSettings(cfg.Engine),
		api.WithCache(queryCache),
		api.WithMetrics(m),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("retrieval engine listening",
		"addr", server.Addr,
		"documents", eng.DocumentCount(),
		"default_model", cfg.Engine.DefaultModel,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("retrieval engine stopped")
	return nil
}
