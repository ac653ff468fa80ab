// Package server exposes allocations over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/team-builder/internal/allocation"
	"github.com/spigell/team-builder/internal/metrics"
	"github.com/spigell/team-builder/internal/skills"
	"github.com/spigell/team-builder/internal/source"
	"github.com/spigell/team-builder/internal/team"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
	maxBodyBytes      = 1 << 20
)

// Config holds the serving limits.
type Config struct {
	// MaxPerSkill caps the headcount of a single quota. Zero disables the cap.
	MaxPerSkill int
}

// Server answers allocation requests over a fixed dataset. Requests share the
// pool read-only, so no locking is needed.
type Server struct {
	pool       []team.Candidate
	vocabulary []string
	allocator  *allocation.Allocator
	metrics    *metrics.Manager
	logger     *zap.Logger
	cfg        Config
}

func New(dataset *source.Dataset, allocator *allocation.Allocator, m *metrics.Manager, logger *zap.Logger, cfg Config) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewManager()
	}

	var (
		pool  []team.Candidate
		texts []string
	)
	if dataset != nil {
		if dataset.Candidates != nil {
			pool = dataset.Candidates.Items
		}
		if dataset.Projects != nil {
			texts = dataset.Projects.Texts()
		}
	}

	m.SetPoolSize(len(pool))

	return &Server{
		pool:       pool,
		vocabulary: skills.Vocabulary(texts),
		allocator:  allocator,
		metrics:    m,
		logger:     logger,
		cfg:        cfg,
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.MetricsMiddleware(s.handleHealth, "healthz"))
	mux.HandleFunc("/skills", s.MetricsMiddleware(s.handleSkills, "skills"))
	mux.HandleFunc("/allocate", s.MetricsMiddleware(s.handleAllocate, "allocate"))
	mux.Handle("/metrics", s.metrics.Handler())

	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving", zap.String("addr", addr), zap.Int("candidates", len(s.pool)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", zap.String("addr", addr))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
