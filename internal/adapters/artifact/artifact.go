// Package artifact loads a fitted preprocessing-plus-regression pipeline from
// a JSON manifest and serves it through pipeline.Pipeline.
package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/ecoscore/internal/adapters/artifact/source"
	"github.com/okian/ecoscore/internal/domain/pipeline"
	"github.com/okian/ecoscore/pkg/logger"
)

// Info describes a loaded artifact.
type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Model   string `json:"model"`
	Width   int    `json:"transformed_features"`
	URI     string `json:"uri"`
}

// Pipeline is an immutable loaded artifact. It implements pipeline.Pipeline.
type Pipeline struct {
	info        Info
	transformer *ColumnTransformer
	regressor   Regressor
}

var _ pipeline.Pipeline = (*Pipeline)(nil)

// Transform implements pipeline.Pipeline.
func (p *Pipeline) Transform(f pipeline.Frame) ([]float64, error) {
	return p.transformer.Transform(f)
}

// Predict implements pipeline.Pipeline.
func (p *Pipeline) Predict(f pipeline.Frame) (float64, error) {
	x, err := p.transformer.Transform(f)
	if err != nil {
		return 0, err
	}
	return p.regressor.Predict(x)
}

// Info returns what was loaded.
func (p *Pipeline) Info() Info { return p.info }

// Width is the transformed feature count.
func (p *Pipeline) Width() int { return p.transformer.Width() }

// Close releases native resources held by the regressor.
func (p *Pipeline) Close() error { return p.regressor.Close() }

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	onnxLibrary string
	onnxThreads int
	logger      logger.Logger
}

// WithONNXLibrary sets the path of the onnxruntime shared library.
func WithONNXLibrary(path string) LoadOption {
	return func(o *loadOptions) { o.onnxLibrary = path }
}

// WithONNXThreads sets the intra-op thread count of ONNX sessions.
func WithONNXThreads(n int) LoadOption {
	return func(o *loadOptions) { o.onnxThreads = n }
}

// WithLoadLogger sets the logger used while loading.
func WithLoadLogger(l logger.Logger) LoadOption {
	return func(o *loadOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Load reads the manifest at uri, checks it against the catalog and builds
// the pipeline. ONNX model paths are resolved relative to the manifest.
func Load(ctx context.Context, r source.Reader, uri string, opts ...LoadOption) (*Pipeline, error) {
	o := loadOptions{onnxThreads: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Named("artifact")
	}

	raw, err := r.Read(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	m, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	reg, err := newRegressor(ctx, r, uri, m, o)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, uri, err)
	}

	p := &Pipeline{
		transformer: newColumnTransformer(m.Preprocess),
		regressor:   reg,
	}
	p.info = Info{
		Name:    m.Name,
		Version: m.Version,
		Model:   m.Model.Type,
		Width:   p.transformer.Width(),
		URI:     uri,
	}
	o.logger.Info(ctx, "artifact loaded",
		logger.String("uri", uri),
		logger.String("name", m.Name),
		logger.String("version", m.Version),
		logger.String("model", m.Model.Type),
		logger.Int("width", p.info.Width),
	)
	return p, nil
}

// Parse decodes and checks a manifest without building a regressor.
func Parse(raw []byte) (*Manifest, error) {
	var m Manifest
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: decode manifest: %w", ErrLoad, err)
	}
	if err := m.check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return &m, nil
}

func newRegressor(ctx context.Context, r source.Reader, uri string, m *Manifest, o loadOptions) (Regressor, error) {
	width := m.Width()
	switch m.Model.Type {
	case ModelLinear:
		return &linearRegressor{coef: m.Model.Coef, intercept: m.Model.Intercept}, nil
	case ModelForest:
		return newForest(m.Model.Trees, width), nil
	case ModelBoosting:
		return newBoosting(m.Model.Trees, m.Model.InitScore, m.Model.LearningRate, width), nil
	case ModelONNX:
		modelURI := source.Resolve(uri, m.Model.Path)
		data, err := r.Read(ctx, modelURI)
		if err != nil {
			return nil, err
		}
		return newONNXRegressor(data, width, o)
	default:
		return nil, fmt.Errorf("unsupported model type %q", m.Model.Type)
	}
}
