// Package smoketest drives a running ecoscore service through its public
// endpoints: info, health, two reference materials and an optional
// concurrent load phase.
package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	"github.com/okian/ecoscore/internal/domain/classify"
	"github.com/okian/ecoscore/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Run executes the complete smoke test.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	client := newHTTPClient(config.BaseURL, config.Timeout)
	log := logger.Named("smoke")

	log.Info(ctx, "starting ecoscore smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.Requests),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout))

	// Step 1: API info
	if err := checkRoot(ctx, client, config, log); err != nil {
		return stats, fmt.Errorf("root endpoint check failed: %w", err)
	}

	// Step 2: health
	if err := checkHealth(ctx, client, log); err != nil {
		return stats, fmt.Errorf("health check failed: %w", err)
	}

	// Step 3: reference materials
	var err error
	if stats.Sustainable, err = predict(ctx, client, SustainableMaterial()); err != nil {
		return stats, fmt.Errorf("sustainable material: %w", err)
	}
	log.Info(ctx, "sustainable material scored",
		logger.Float64("score", stats.Sustainable.Score),
		logger.String("message", stats.Sustainable.Message))

	if stats.Low, err = predict(ctx, client, LowSustainabilityMaterial()); err != nil {
		return stats, fmt.Errorf("low sustainability material: %w", err)
	}
	log.Info(ctx, "low sustainability material scored",
		logger.Float64("score", stats.Low.Score),
		logger.String("message", stats.Low.Message))

	// Step 4: concurrent load
	if config.Requests > 0 {
		if err := load(ctx, client, config, stats); err != nil {
			return stats, fmt.Errorf("load phase failed: %w", err)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	return stats, nil
}

func checkRoot(ctx context.Context, client *HTTPClient, config *Config, log logger.Logger) error {
	status, body, err := client.Get(ctx, "/")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, status)
	}
	var info map[string]any
	if err := json.Unmarshal(body, &info); err != nil {
		return fmt.Errorf("failed to decode api info: %w", err)
	}
	if config.Verbose {
		log.Info(ctx, "api info", logger.Any("response", info))
	}
	return nil
}

func checkHealth(ctx context.Context, client *HTTPClient, log logger.Logger) error {
	status, body, err := client.Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, status)
	}
	var h Health
	if err := json.Unmarshal(body, &h); err != nil {
		return fmt.Errorf("failed to decode health: %w", err)
	}
	if h.Status != "healthy" || !h.ModelLoaded {
		return fmt.Errorf("%w: status=%q model_loaded=%t", ErrNotHealthy, h.Status, h.ModelLoaded)
	}
	log.Info(ctx, "service is healthy")
	return nil
}

// predict posts one record and checks that the message agrees with the score.
func predict(ctx context.Context, client *HTTPClient, record map[string]any) (Prediction, error) {
	status, body, err := client.Post(ctx, "/predict", record)
	if err != nil {
		return Prediction{}, err
	}
	if status != http.StatusOK {
		return Prediction{}, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, status, body)
	}
	var p Prediction
	if err := json.Unmarshal(body, &p); err != nil {
		return Prediction{}, fmt.Errorf("failed to decode prediction: %w", err)
	}
	if !consistent(p) {
		return p, fmt.Errorf("%w: score %.2f labelled %q", ErrInconsistent, p.Score, p.Message)
	}
	return p, nil
}

// consistent allows for the label being derived from the unrounded score.
func consistent(p Prediction) bool {
	label := classify.Label(p.Message)
	if !slices.Contains(classify.Labels(), label) {
		return false
	}
	const half = 0.005
	return classify.Classify(p.Score) == label ||
		classify.Classify(p.Score-half) == label ||
		classify.Classify(math.Nextafter(p.Score+half, math.Inf(-1))) == label
}

// load repeats the reference materials concurrently and requires every
// response to match the walkthrough.
func load(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	var successful, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(config.Workers, 1))
	for i := range config.Requests {
		record, want := SustainableMaterial(), stats.Sustainable
		if i%2 == 1 {
			record, want = LowSustainabilityMaterial(), stats.Low
		}
		g.Go(func() error {
			got, err := predict(gctx, client, record)
			if err != nil {
				failed.Add(1)
				return err
			}
			if got != want {
				failed.Add(1)
				return fmt.Errorf("%w: got %+v, want %+v", ErrInconsistent, got, want)
			}
			successful.Add(1)
			return nil
		})
	}
	err := g.Wait()

	stats.Requests = config.Requests
	stats.Successful = int(successful.Load())
	stats.Failed = int(failed.Load())
	return err
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Successful) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Float64("sustainableScore", stats.Sustainable.Score),
		logger.Float64("lowScore", stats.Low.Score),
		logger.Int("requests", stats.Requests),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("requestsPerSecond", perSecond))
}
