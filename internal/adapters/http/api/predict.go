package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	service "github.com/okian/ecoscore/internal/app"
	"github.com/okian/ecoscore/internal/domain/validation"
	"github.com/okian/ecoscore/pkg/logger"
)

// maxBodyBytes bounds a /predict body; a full record is well under 2 KiB.
const maxBodyBytes = 1 << 20

var errNotObject = errors.New("request body must be a JSON object")

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps Dependencies
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps Dependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// HandlePredict handles POST /predict requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	ctx := r.Context()
	log := logger.FromContext(ctx)

	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	raw, err := decodeRecord(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", err.Error(), nil)
		case errors.Is(err, errNotObject):
			writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error(), nil)
		default:
			writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body: "+err.Error(), nil)
		}
		log.Debug(ctx, "rejected request body", logger.Error(WrapKind(op, ErrBadRequest, err)))
		return
	}

	res, err := h.deps.Predict(ctx, raw)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusUnprocessableEntity, "validation_error", verr.Error(), verr.Fields)
			log.Debug(ctx, "invalid record", logger.Error(WrapKind(op, ErrUnprocessable, err)))
		case errors.Is(err, service.ErrNotStarted):
			writeError(w, http.StatusServiceUnavailable, "model_not_loaded", ErrUnavailable.Error(), nil)
			log.Warn(ctx, "prediction without a model", logger.Error(NewKind(op, ErrUnavailable)))
		default:
			writeError(w, http.StatusInternalServerError, "prediction_failed", fmt.Sprintf("Prediction failed: %v", err), nil)
			log.Error(ctx, "prediction failed", logger.Error(WrapKind(op, ErrPrediction, err)))
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// decodeRecord reads exactly one JSON object. Numbers are kept as
// json.Number so validation sees the literal the client sent.
func decodeRecord(body io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty body")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return raw, nil
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "", nil)
}
