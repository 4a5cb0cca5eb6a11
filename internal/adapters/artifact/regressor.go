package artifact

import "fmt"

// Regressor maps a transformed feature vector to a score.
type Regressor interface {
	Predict(x []float64) (float64, error)
	Close() error
}

type linearRegressor struct {
	coef      []float64
	intercept float64
}

func (r *linearRegressor) Predict(x []float64) (float64, error) {
	if len(x) != len(r.coef) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrWidth, len(x), len(r.coef))
	}
	y := r.intercept
	for i, c := range r.coef {
		y += c * x[i]
	}
	return y, nil
}

func (r *linearRegressor) Close() error { return nil }

// ensemble covers both random forests (mean of trees) and gradient boosting
// (base + rate * sum of trees).
type ensemble struct {
	trees []Tree
	base  float64
	rate  float64
	mean  bool
	width int
}

func newForest(trees []Tree, width int) *ensemble {
	return &ensemble{trees: trees, rate: 1, mean: true, width: width}
}

func newBoosting(trees []Tree, init, rate float64, width int) *ensemble {
	return &ensemble{trees: trees, base: init, rate: rate, width: width}
}

func (e *ensemble) Predict(x []float64) (float64, error) {
	if len(x) != e.width {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrWidth, len(x), e.width)
	}
	var sum float64
	for i := range e.trees {
		sum += e.trees[i].eval(x)
	}
	if e.mean {
		return sum / float64(len(e.trees)), nil
	}
	return e.base + e.rate*sum, nil
}

func (e *ensemble) Close() error { return nil }

// eval walks a checked tree; children always follow their parent.
func (t *Tree) eval(x []float64) float64 {
	n := 0
	for t.Left[n] != -1 {
		if x[t.Feature[n]] <= t.Threshold[n] {
			n = t.Left[n]
		} else {
			n = t.Right[n]
		}
	}
	return t.Value[n]
}
