package artifact

import (
	"fmt"
	"slices"

	"github.com/okian/ecoscore/internal/domain/catalog"
)

// Model types a manifest may declare.
const (
	ModelLinear   = "linear"
	ModelForest   = "forest"
	ModelBoosting = "boosting"
	ModelONNX     = "onnx"
)

// Unknown-category policies of the one-hot encoder.
const (
	HandleIgnore = "ignore"
	HandleError  = "error"
)

// Manifest is the on-disk description of a fitted pipeline.
type Manifest struct {
	Name       string     `json:"name"`
	Version    string     `json:"version"`
	Features   Features   `json:"features"`
	Preprocess Preprocess `json:"preprocess"`
	Model      ModelSpec  `json:"model"`
}

// Features lists the input columns the pipeline was fitted on.
type Features struct {
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
}

// Preprocess holds the fitted column transformer.
type Preprocess struct {
	Numeric     Scaler `json:"numeric"`
	Categorical OneHot `json:"categorical"`
}

// Scaler is a median imputer followed by a standard scaler.
type Scaler struct {
	Statistics []float64 `json:"statistics"`
	Mean       []float64 `json:"mean"`
	Scale      []float64 `json:"scale"`
}

// OneHot is a one-hot encoder with per-column category lists.
type OneHot struct {
	Categories    [][]string `json:"categories"`
	HandleUnknown string     `json:"handle_unknown"`
}

// ModelSpec describes the regressor. Only the fields of Type are read.
type ModelSpec struct {
	Type         string    `json:"type"`
	Coef         []float64 `json:"coef,omitempty"`
	Intercept    float64   `json:"intercept,omitempty"`
	Trees        []Tree    `json:"trees,omitempty"`
	InitScore    float64   `json:"init_score,omitempty"`
	LearningRate float64   `json:"learning_rate,omitempty"`
	Path         string    `json:"path,omitempty"`
}

// Tree is a flattened binary regression tree. Node 0 is the root. A node with
// Left == -1 is a leaf; otherwise a row goes left when x[Feature] <= Threshold.
type Tree struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Value     []float64 `json:"value"`
}

// Width is the length of the transformed feature vector.
func (m *Manifest) Width() int {
	w := len(m.Preprocess.Numeric.Mean)
	for _, c := range m.Preprocess.Categorical.Categories {
		w += len(c)
	}
	return w
}

// check verifies the manifest against the catalog and itself.
func (m *Manifest) check() error {
	if !slices.Equal(m.Features.Numeric, catalog.NumericNames()) {
		return fmt.Errorf("numeric features %q do not match the catalog", m.Features.Numeric)
	}
	if !slices.Equal(m.Features.Categorical, catalog.CategoricalNames()) {
		return fmt.Errorf("categorical features %q do not match the catalog", m.Features.Categorical)
	}

	s := m.Preprocess.Numeric
	for name, col := range map[string][]float64{"statistics": s.Statistics, "mean": s.Mean, "scale": s.Scale} {
		if len(col) != catalog.NumericCount {
			return fmt.Errorf("scaler %s has %d values, want %d", name, len(col), catalog.NumericCount)
		}
	}

	oh := m.Preprocess.Categorical
	if len(oh.Categories) != catalog.CategoricalCount {
		return fmt.Errorf("encoder has %d columns, want %d", len(oh.Categories), catalog.CategoricalCount)
	}
	switch oh.HandleUnknown {
	case "", HandleIgnore, HandleError:
	default:
		return fmt.Errorf("unsupported handle_unknown %q", oh.HandleUnknown)
	}

	width := m.Width()
	switch m.Model.Type {
	case ModelLinear:
		if len(m.Model.Coef) != width {
			return fmt.Errorf("linear model has %d coefficients, want %d", len(m.Model.Coef), width)
		}
	case ModelForest, ModelBoosting:
		if len(m.Model.Trees) == 0 {
			return fmt.Errorf("%s model has no trees", m.Model.Type)
		}
		if m.Model.Type == ModelBoosting && m.Model.LearningRate <= 0 {
			return fmt.Errorf("boosting learning_rate must be positive, got %v", m.Model.LearningRate)
		}
		for i := range m.Model.Trees {
			if err := m.Model.Trees[i].check(width); err != nil {
				return fmt.Errorf("tree %d: %w", i, err)
			}
		}
	case ModelONNX:
		if m.Model.Path == "" {
			return fmt.Errorf("onnx model has no path")
		}
	default:
		return fmt.Errorf("unsupported model type %q", m.Model.Type)
	}
	return nil
}

// check requires children to follow their parent so every walk terminates.
func (t *Tree) check(width int) error {
	n := len(t.Value)
	if n == 0 {
		return fmt.Errorf("no nodes")
	}
	if len(t.Feature) != n || len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n {
		return fmt.Errorf("node arrays differ in length")
	}
	for i := range n {
		if t.Left[i] == -1 {
			continue
		}
		if t.Feature[i] < 0 || t.Feature[i] >= width {
			return fmt.Errorf("node %d splits on feature %d outside [0,%d)", i, t.Feature[i], width)
		}
		if t.Left[i] <= i || t.Left[i] >= n || t.Right[i] <= i || t.Right[i] >= n {
			return fmt.Errorf("node %d has invalid children %d/%d", i, t.Left[i], t.Right[i])
		}
	}
	return nil
}
