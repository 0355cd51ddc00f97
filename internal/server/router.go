// Package server exposes search, resume parsing and promotion over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khrees2412/jobscout/internal/config"
	"github.com/khrees2412/jobscout/internal/database"
	"github.com/khrees2412/jobscout/internal/search"
	"github.com/khrees2412/jobscout/pkg/models"
	"go.uber.org/zap"
)

type Deps struct {
	Search *search.Service
	Store  database.Repository
	Config *config.Config // optional, nil means defaults and no rate limit
	Logger *zap.Logger
}

func (d Deps) filters() models.SearchFilters {
	if d.Config == nil {
		return models.DefaultSearchFilters()
	}
	return d.Config.Filters
}

func NewRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	registerBindingValidators()

	r := gin.New()

	// Global Middlewares
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(deps.Logger))
	r.Use(ErrorHandler(deps.Logger))
	if deps.Config != nil && deps.Config.Server.RateLimit > 0 {
		r.Use(NewRateLimiter(deps.Config.Server.RateLimit, deps.Config.Server.Burst).Middleware())
	}

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		Success(c, http.StatusOK, "System operational", nil)
	})

	NewSearchHandler(v1, deps)
	NewResumeHandler(v1, deps)
	NewJobHandler(v1, deps)

	return r
}

// Run serves handler on addr until ctx is cancelled, then drains in-flight
// requests for up to five seconds.
func Run(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	log.Info("server stopped")
	return nil
}
