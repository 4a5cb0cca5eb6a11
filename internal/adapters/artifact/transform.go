package artifact

import (
	"fmt"
	"math"

	"github.com/okian/ecoscore/internal/domain/catalog"
	"github.com/okian/ecoscore/internal/domain/pipeline"
)

// ColumnTransformer turns a Frame into the model's feature vector: scaled
// numeric columns first, then one-hot blocks in catalog order.
type ColumnTransformer struct {
	statistics []float64
	mean       []float64
	scale      []float64

	index  []map[string]int // per categorical column: category -> position in its block
	offset []int            // start of each block in the output vector
	strict bool
	width  int
}

func newColumnTransformer(p Preprocess) *ColumnTransformer {
	ct := &ColumnTransformer{
		statistics: p.Numeric.Statistics,
		mean:       p.Numeric.Mean,
		scale:      make([]float64, len(p.Numeric.Scale)),
		index:      make([]map[string]int, len(p.Categorical.Categories)),
		offset:     make([]int, len(p.Categorical.Categories)),
		strict:     p.Categorical.HandleUnknown == HandleError,
	}
	for i, s := range p.Numeric.Scale {
		// zero variance columns are left unscaled
		if s == 0 {
			s = 1
		}
		ct.scale[i] = s
	}

	pos := len(ct.mean)
	for i, cats := range p.Categorical.Categories {
		ct.offset[i] = pos
		ct.index[i] = make(map[string]int, len(cats))
		for j, c := range cats {
			if _, dup := ct.index[i][c]; !dup {
				ct.index[i][c] = j
			}
		}
		pos += len(cats)
	}
	ct.width = pos
	return ct
}

// Width is the length of every vector Transform returns.
func (ct *ColumnTransformer) Width() int { return ct.width }

// Transform is safe for concurrent use.
func (ct *ColumnTransformer) Transform(f pipeline.Frame) ([]float64, error) {
	if len(f.Numeric) != len(ct.mean) || len(f.Categorical) != len(ct.index) {
		return nil, fmt.Errorf("%w: frame has %d+%d columns, want %d+%d",
			ErrWidth, len(f.Numeric), len(f.Categorical), len(ct.mean), len(ct.index))
	}

	out := make([]float64, ct.width)
	for i, v := range f.Numeric {
		if math.IsNaN(v) {
			v = ct.statistics[i]
		}
		out[i] = (v - ct.mean[i]) / ct.scale[i]
	}
	for i, v := range f.Categorical {
		j, ok := ct.index[i][v]
		if !ok {
			if ct.strict {
				return nil, fmt.Errorf("%w: %q in column %q", ErrUnknownCategory, v, catalog.CategoricalNames()[i])
			}
			continue
		}
		out[ct.offset[i]+j] = 1
	}
	return out, nil
}
