package service_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/ecoscore/internal/adapters/artifact"
	"github.com/okian/ecoscore/internal/adapters/artifact/source"
	service "github.com/okian/ecoscore/internal/app"
	"github.com/okian/ecoscore/internal/domain/catalog"
	"github.com/okian/ecoscore/internal/domain/classify"
	"github.com/okian/ecoscore/internal/smoketest"
	. "github.com/smartystreets/goconvey/convey"
)

// forestManifest is a two-tree forest over the example vocabularies. One tree
// splits on Recycled Content %, the other on the "metal" indicator column.
func forestManifest() artifact.Manifest {
	sustainable, low := smoketest.SustainableMaterial(), smoketest.LowSustainabilityMaterial()
	cats := make([][]string, catalog.CategoricalCount)
	for i, name := range catalog.CategoricalNames() {
		a, b := sustainable[name].(string), low[name].(string)
		cats[i] = []string{a}
		if b != a {
			cats[i] = append(cats[i], b)
		}
	}
	metal := catalog.NumericCount // first block, first category

	return artifact.Manifest{
		Name:    "sustainability-forest",
		Version: "1",
		Features: artifact.Features{
			Numeric:     catalog.NumericNames(),
			Categorical: catalog.CategoricalNames(),
		},
		Preprocess: artifact.Preprocess{
			Numeric: artifact.Scaler{
				Statistics: make([]float64, catalog.NumericCount),
				Mean:       make([]float64, catalog.NumericCount),
				Scale:      []float64{1, 1, 1, 1, 1, 1, 1},
			},
			Categorical: artifact.OneHot{Categories: cats, HandleUnknown: artifact.HandleIgnore},
		},
		Model: artifact.ModelSpec{
			Type: artifact.ModelForest,
			Trees: []artifact.Tree{
				{
					Feature:   []int{0, -2, -2},
					Threshold: []float64{30, 0, 0},
					Left:      []int{1, -1, -1},
					Right:     []int{2, -1, -1},
					Value:     []float64{0, 20, 90},
				},
				{
					Feature:   []int{metal, -2, -2},
					Threshold: []float64{0.5, 0, 0},
					Left:      []int{1, -1, -1},
					Right:     []int{2, -1, -1},
					Value:     []float64{0, 10, 80},
				},
			},
		},
	}
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service backed by a forest artifact on disk", t, func() {
		b, err := json.Marshal(forestManifest())
		So(err, ShouldBeNil)
		path := filepath.Join(t.TempDir(), "best_sustainability_model.json")
		So(os.WriteFile(path, b, 0o600), ShouldBeNil)

		ctx := context.Background()
		p, err := artifact.Load(ctx, source.Router{}, path)
		So(err, ShouldBeNil)
		svc := startedService(p, service.WithDiagnostics(true))
		defer svc.Stop()

		Convey("Then the artifact is described", func() {
			info, ok := svc.Info()
			So(ok, ShouldBeTrue)
			So(info.Name, ShouldEqual, "sustainability-forest")
			So(svc.GetStats()["artifact"], ShouldResemble, info)
		})

		Convey("When scoring the sustainable example", func() {
			res, err := svc.Predict(ctx, smoketest.SustainableMaterial())

			Convey("Then it is excellent", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 85)
				So(res.Label, ShouldEqual, classify.Excellent)
			})
		})

		Convey("When scoring the low-sustainability example", func() {
			res, err := svc.Predict(ctx, smoketest.LowSustainabilityMaterial())

			Convey("Then it is low", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 15)
				So(res.Label, ShouldEqual, classify.Low)
			})
		})

		Convey("When the same record is scored twice", func() {
			a, errA := svc.Predict(ctx, smoketest.SustainableMaterial())
			b, errB := svc.Predict(ctx, smoketest.SustainableMaterial())

			Convey("Then the results are identical", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldResemble, b)
			})
		})
	})
}
