package api

import "net/http"

// APIVersion is reported by the root endpoint.
const APIVersion = "1.0.0"

type infoResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// InfoHandler serves the API description at the root path.
type InfoHandler struct {
	body infoResponse
}

// NewInfoHandler creates a new info handler.
func NewInfoHandler() *InfoHandler {
	return &InfoHandler{body: infoResponse{
		Message: "Sustainability Score Prediction API",
		Version: APIVersion,
		Endpoints: map[string]string{
			"/predict":      "POST - Predict sustainability score",
			"/health":       "GET - Health check",
			"/stats":        "GET - Service statistics",
			"/metrics":      "GET - Prometheus metrics",
			"/docs":         "GET - API documentation (Swagger UI)",
			"/redoc":        "GET - API documentation (ReDoc)",
			"/openapi.yaml": "GET - OpenAPI document",
		},
	}}
}

// HandleInfo handles GET / requests.
func (h *InfoHandler) HandleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.body)
}
