package smoketest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/ecoscore/internal/domain/catalog"
	"github.com/okian/ecoscore/internal/domain/classify"
	"github.com/okian/ecoscore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakeService answers like the real API: metal scores 72.5, everything else 12.
type fakeService struct {
	modelLoaded bool
	predictions atomic.Int64
	wrongLabel  bool
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "Sustainability Score Prediction API", "version": "1.0.0"})
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Health{Status: "healthy", ModelLoaded: f.modelLoaded})
	})
	mux.HandleFunc("POST /predict", func(w http.ResponseWriter, r *http.Request) {
		f.predictions.Add(1)
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		score := 12.0
		if body[catalog.BaseMaterial] == "metal" {
			score = 72.5
		}
		label := classify.Classify(score)
		if f.wrongLabel {
			label = classify.Excellent
		}
		_ = json.NewEncoder(w).Encode(Prediction{Score: score, Message: string(label)})
	})
	return mux
}

func testConfig(url string) *Config {
	return &Config{BaseURL: url, Workers: 4, Timeout: 5 * time.Second}
}

func TestRun(t *testing.T) {
	Convey("Given a healthy service", t, func() {
		fake := &fakeService{modelLoaded: true}
		srv := httptest.NewServer(fake.handler())
		defer srv.Close()

		Convey("When running the walkthrough", func() {
			stats, err := Run(context.Background(), testConfig(srv.URL))

			Convey("Then both reference materials are scored", func() {
				So(err, ShouldBeNil)
				So(stats.Sustainable.Score, ShouldEqual, 72.5)
				So(stats.Sustainable.Message, ShouldEqual, string(classify.Good))
				So(stats.Low.Message, ShouldEqual, string(classify.Low))
				So(fake.predictions.Load(), ShouldEqual, 2)
			})
		})

		Convey("When running with a load phase", func() {
			cfg := testConfig(srv.URL)
			cfg.Requests = 40
			stats, err := Run(context.Background(), cfg)

			Convey("Then every request matches", func() {
				So(err, ShouldBeNil)
				So(stats.Successful, ShouldEqual, 40)
				So(stats.Failed, ShouldEqual, 0)
				So(fake.predictions.Load(), ShouldEqual, 42)
			})
		})
	})

	Convey("Given a service without a model", t, func() {
		srv := httptest.NewServer((&fakeService{}).handler())
		defer srv.Close()

		_, err := Run(context.Background(), testConfig(srv.URL))
		So(errors.Is(err, ErrNotHealthy), ShouldBeTrue)
	})

	Convey("Given a service whose label disagrees with its score", t, func() {
		srv := httptest.NewServer((&fakeService{modelLoaded: true, wrongLabel: true}).handler())
		defer srv.Close()

		_, err := Run(context.Background(), testConfig(srv.URL))
		So(errors.Is(err, ErrInconsistent), ShouldBeTrue)
	})

	Convey("Given a service that is down", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		_, err := Run(context.Background(), testConfig(srv.URL))
		So(err, ShouldNotBeNil)
	})
}

func TestConsistent(t *testing.T) {
	Convey("Given rounded scores near a boundary", t, func() {
		So(consistent(Prediction{Score: 80, Message: string(classify.Good)}), ShouldBeTrue) // 79.996 unrounded
		So(consistent(Prediction{Score: 80, Message: string(classify.Excellent)}), ShouldBeTrue)
		So(consistent(Prediction{Score: 70, Message: string(classify.Excellent)}), ShouldBeFalse)
		So(consistent(Prediction{Score: 70, Message: "Great"}), ShouldBeFalse)
	})
}
