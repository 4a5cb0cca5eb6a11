// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/ecoscore/internal/adapters/artifact"
	"github.com/okian/ecoscore/internal/domain/classify"
	"github.com/okian/ecoscore/internal/domain/memo"
	"github.com/okian/ecoscore/internal/domain/normalize"
	"github.com/okian/ecoscore/internal/domain/pipeline"
	"github.com/okian/ecoscore/internal/domain/validation"
	"github.com/okian/ecoscore/pkg/logger"
	"github.com/okian/ecoscore/pkg/metrics"
)

// describer is implemented by pipelines that can report what was loaded.
type describer interface {
	Info() artifact.Info
}

// Service scores material records with a loaded pipeline.
type Service struct {
	mu sync.RWMutex

	// Core components
	pipeline pipeline.Pipeline
	adapter  *pipeline.Adapter
	memo     *memo.Memo

	// Configuration
	cacheSize   int
	diagnostics bool

	// State
	started   bool
	stopped   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithPipeline sets the loaded artifact. It is required.
func WithPipeline(p pipeline.Pipeline) Option {
	return func(s *Service) {
		s.pipeline = p
	}
}

// WithCacheSize bounds the score memo. Zero disables it.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.cacheSize = size
		}
	}
}

// WithDiagnostics logs the ordered input and transformed features per request.
func WithDiagnostics(enabled bool) Option {
	return func(s *Service) {
		s.diagnostics = enabled
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cacheSize: 10_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start wires the pipeline adapter and the memo.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.stopped {
		return ErrStopped
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.pipeline == nil {
		return ErrNoPipeline
	}

	s.adapter = pipeline.NewAdapter(s.pipeline,
		pipeline.WithLogger(s.logger.Named("pipeline")),
		pipeline.WithDiagnostics(s.diagnostics),
	)
	s.memo = memo.New(memo.WithMaxSize(s.cacheSize))

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "scoring service started",
		logger.Int("cacheSize", s.cacheSize),
		logger.Bool("diagnostics", s.diagnostics),
	)
	return nil
}

// Stop releases the pipeline. Predict fails with ErrNotStarted afterwards and
// Start fails with ErrStopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping scoring service...")

	if closer, ok := s.pipeline.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			s.logger.Warn(ctx, "failed to close pipeline", logger.Error(err))
		}
	}
	s.memo.Purge()

	s.started = false
	s.stopped = true
	s.logger.Info(ctx, "scoring service stopped")
}

// Predict validates raw, normalizes it, scores it and classifies the score.
// Validation failures are *validation.Error; artifact failures are
// *pipeline.InferenceError.
func (s *Service) Predict(ctx context.Context, raw map[string]any) (classify.Result, error) {
	s.mu.RLock()
	started, adapter, m := s.started, s.adapter, s.memo
	s.mu.RUnlock()
	if !started {
		return classify.Result{}, ErrNotStarted
	}

	rec, err := validation.Validate(raw)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			for _, f := range verr.Fields {
				metrics.RecordValidationFailure(f.Field)
			}
		}
		return classify.Result{}, err
	}

	score, err := m.Get(ctx, normalize.Record(rec), adapter.Score)
	if err != nil {
		return classify.Result{}, err
	}

	res := classify.NewResult(score)
	metrics.RecordPrediction(res.Label.Band(), score)
	logger.FromContext(ctx).Debug(ctx, "prediction",
		logger.Float64("score", res.Score),
		logger.String("label", string(res.Label)),
	)
	return res, nil
}

// ModelLoaded reports whether Predict can serve requests.
func (s *Service) ModelLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started && s.pipeline != nil
}

// Info describes the loaded artifact when the pipeline can report it.
func (s *Service) Info() (artifact.Info, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.pipeline.(describer)
	if !ok {
		return artifact.Info{}, false
	}
	return d.Info(), true
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"cacheSize":   s.cacheSize,
		"diagnostics": s.diagnostics,
	}
	if d, ok := s.pipeline.(describer); ok {
		stats["artifact"] = d.Info()
	}
	if s.started {
		entries := s.memo.Len()
		stats["memoEntries"] = entries
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
		metrics.UpdateMemoEntries(entries)
	}
	return stats
}
