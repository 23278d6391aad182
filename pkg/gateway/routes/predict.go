package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/careloop-health/readmit/pkg/common/logger"
	"github.com/careloop-health/readmit/pkg/common/models"
	"github.com/careloop-health/readmit/pkg/events"
	"github.com/careloop-health/readmit/pkg/gateway/middleware"
	"github.com/careloop-health/readmit/pkg/gateway/singleflight"
	"github.com/careloop-health/readmit/pkg/observability/metrics"
	"github.com/careloop-health/readmit/pkg/predictor"
)

// PredictHandler relays normalized encounter payloads to the model service.
// It trusts the downstream response shape completely and hands the body back
// verbatim.
type PredictHandler struct {
	client    *predictor.Client
	guard     singleflight.Guard
	publisher *events.Publisher
}

func NewPredictHandler(client *predictor.Client, guard singleflight.Guard, publisher *events.Publisher) *PredictHandler {
	if client == nil {
		panic("predict handler requires a model service client")
	}
	if guard == nil {
		guard = singleflight.NewMemory()
	}
	return &PredictHandler{client: client, guard: guard, publisher: publisher}
}

func (h *PredictHandler) Register(r *mux.Router) {
	r.HandleFunc("/predict", h.handlePredict).Methods(http.MethodPost)
}

func (h *PredictHandler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithError(err).Error("Failed to decode prediction request")
		respondJSON(w, http.StatusBadRequest, models.APIMessage{Message: "Invalid request body"})
		return
	}

	payload, err := json.Marshal(req)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, models.APIError{Error: err.Error()})
		return
	}

	key := singleflight.Key(payload)
	admitted, err := h.guard.Begin(r.Context(), key)
	switch {
	case err != nil:
		// A broken guard backend must not take the prediction path down.
		logger.WithError(err).Warn("single-flight guard unavailable, admitting request")
	case !admitted:
		metrics.PredictionDuplicateReject()
		respondJSON(w, http.StatusConflict, models.APIMessage{Message: "Prediction already in progress"})
		return
	default:
		defer h.guard.End(r.Context(), key)
	}

	requestID := r.Header.Get("X-Request-ID")
	start := time.Now()

	raw, err := h.client.Predict(r.Context(), req, requestID)
	if err != nil {
		h.respondUpstreamFailure(w, requestID, err)
		return
	}

	metrics.PredictionRelayed()
	h.publishCompleted(r, raw, requestID, time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// respondUpstreamFailure maps every downstream failure to a generic server
// error carrying whatever detail the model service provided. The downstream
// status code is never relayed.
func (h *PredictHandler) respondUpstreamFailure(w http.ResponseWriter, requestID string, err error) {
	var upstream *predictor.UpstreamError
	switch {
	case errors.Is(err, predictor.ErrTimeout):
		metrics.PredictionTimedOut()
		logger.WithError(err).WithField("request_id", requestID).Error("Model service deadline exceeded")
		respondJSON(w, http.StatusInternalServerError, models.APIError{Error: err.Error()})
	case errors.As(err, &upstream):
		metrics.PredictionUpstreamFailed()
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"status":     upstream.Status,
		}).Error("Model service rejected request")
		respondJSON(w, http.StatusInternalServerError, models.APIError{Error: upstream.Detail})
	default:
		metrics.PredictionUpstreamFailed()
		logger.WithError(err).WithField("request_id", requestID).Error("Failed to reach model service")
		respondJSON(w, http.StatusInternalServerError, models.APIError{Error: err.Error()})
	}
}

func (h *PredictHandler) publishCompleted(r *http.Request, raw []byte, requestID string, latency time.Duration) {
	if h.publisher == nil {
		return
	}
	var result models.PredictionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// Malformed downstream bodies still relay to the caller; they just
		// produce no event.
		return
	}
	h.publisher.PredictionCompleted(r.Context(), models.PredictionEvent{
		RequestID:  requestID,
		Subject:    middleware.Subject(r.Context()),
		Prediction: result.Prediction,
		Confidence: result.Confidence,
		LatencyMS:  latency.Milliseconds(),
	})
}
