// Package pipeline adapts an externally fitted transform-then-predict artifact
// to the material records produced by validation and normalization.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/okian/ecoscore/internal/domain/catalog"
	"github.com/okian/ecoscore/internal/domain/model"
	"github.com/okian/ecoscore/pkg/logger"
	"github.com/okian/ecoscore/pkg/metrics"
)

// diagnosticWidth is how many transformed features are logged per request.
const diagnosticWidth = 10

// Frame is one row in catalog column order.
type Frame struct {
	Numeric     []float64
	Categorical []string
}

// NewFrame lays rec out in catalog order.
func NewFrame(rec model.NormalizedRecord) Frame {
	f := Frame{
		Numeric:     make([]float64, catalog.NumericCount),
		Categorical: make([]string, catalog.CategoricalCount),
	}
	copy(f.Numeric, rec.Numeric[:])
	copy(f.Categorical, rec.Categorical[:])
	return f
}

// Pipeline is the loaded artifact. Implementations must be safe for
// concurrent use and must not mutate themselves after loading.
type Pipeline interface {
	// Transform returns the numeric feature vector the model consumes.
	Transform(f Frame) ([]float64, error)
	// Predict runs the full pipeline and returns a single score.
	Predict(f Frame) (float64, error)
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the adapter's logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithDiagnostics logs the ordered input and the head of the transformed
// vector at debug level. It costs one extra Transform per request.
func WithDiagnostics(enabled bool) Option {
	return func(a *Adapter) {
		a.diagnostics = enabled
	}
}

// Adapter scores normalized records with a shared, read-only Pipeline.
type Adapter struct {
	pipeline    Pipeline
	logger      logger.Logger
	diagnostics bool
}

// NewAdapter wraps p. It panics if p is nil: a process must not serve
// without a pipeline.
func NewAdapter(p Pipeline, opts ...Option) *Adapter {
	if p == nil {
		panic("pipeline: nil Pipeline")
	}
	a := &Adapter{pipeline: p}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.Named("pipeline")
	}
	return a
}

// Score runs the artifact on rec. Errors, panics and non-finite outputs are
// reported as *InferenceError.
func (a *Adapter) Score(ctx context.Context, rec model.NormalizedRecord) (float64, error) {
	frame := NewFrame(rec)
	start := time.Now()

	if a.diagnostics {
		a.logger.Debug(ctx, "pipeline input", logger.Any("record", rec.Values()))
		vec, err := guard(StageTransform, func() ([]float64, error) { return a.pipeline.Transform(frame) })
		if err != nil {
			return 0, a.fail(ctx, err)
		}
		a.logger.Debug(ctx, "transformed features",
			logger.Int("width", len(vec)),
			logger.Any("head", vec[:min(diagnosticWidth, len(vec))]),
		)
	}

	score, err := guard(StagePredict, func() (float64, error) { return a.pipeline.Predict(frame) })
	if err != nil {
		return 0, a.fail(ctx, err)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, a.fail(ctx, &InferenceError{Stage: StagePredict, Err: fmt.Errorf("non-finite score %v", score)})
	}

	metrics.RecordInferenceLatency(float64(time.Since(start).Microseconds()) / 1000)
	return score, nil
}

// Transform exposes the artifact's feature vector for diagnostics.
func (a *Adapter) Transform(ctx context.Context, rec model.NormalizedRecord) ([]float64, error) {
	frame := NewFrame(rec)
	vec, err := guard(StageTransform, func() ([]float64, error) { return a.pipeline.Transform(frame) })
	if err != nil {
		return nil, a.fail(ctx, err)
	}
	return vec, nil
}

// guard invokes one stage and converts a panic inside the artifact into an error.
func guard[T any](stage string, fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out, err = zero, &InferenceError{Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	out, err = fn()
	if err != nil {
		var zero T
		return zero, &InferenceError{Stage: stage, Err: err}
	}
	return out, nil
}

func (a *Adapter) fail(ctx context.Context, err error) error {
	stage := "unknown"
	var ie *InferenceError
	if errors.As(err, &ie) {
		stage = ie.Stage
	}
	metrics.RecordInferenceError(stage)
	a.logger.Error(ctx, "inference failed", logger.String("stage", stage), logger.Error(err))
	return err
}
