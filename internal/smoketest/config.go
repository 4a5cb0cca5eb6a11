package smoketest

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Requests int           // Extra concurrent predictions after the walkthrough
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Verbose  bool          // Log every response body
}

// Prediction is the body of a successful POST /predict.
type Prediction struct {
	Score   float64 `json:"sustainability_score"`
	Message string  `json:"message"`
}

// Health is the body of GET /health.
type Health struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// Stats holds run statistics.
type Stats struct {
	Sustainable Prediction
	Low         Prediction
	Requests    int
	Successful  int
	Failed      int
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}
