package serving

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/synaptica-ai/premium-estimator/pkg/common/logger"
	"github.com/synaptica-ai/premium-estimator/pkg/common/middleware"
	"github.com/synaptica-ai/premium-estimator/pkg/common/models"
	"github.com/synaptica-ai/premium-estimator/pkg/features"
	"github.com/synaptica-ai/premium-estimator/pkg/form"
)

type HTTPHandler struct {
	service *Service
	catalog form.Catalog
}

func NewHTTPHandler(service *Service, catalog form.Catalog) *HTTPHandler {
	return &HTTPHandler{service: service, catalog: catalog}
}

func (h *HTTPHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/v1/predict", h.handlePredict).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/predict/batch", h.handlePredictBatch).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/predictions", h.handleRecent).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/model", h.handleModel).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/form", h.handleForm).Methods(http.MethodGet)
}

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func (h *HTTPHandler) handlePredict(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err, "invalid prediction request")
		return
	}
	if req.Input == nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "input is required"})
		return
	}
	if req.RequestID == "" {
		req.RequestID = middleware.RequestIDFrom(r.Context())
	}

	resp, err := h.service.Predict(r.Context(), req)
	if err != nil {
		var ve features.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, errorResponse{Error: ve.Error(), Fields: ve.Fields})
			return
		}
		logger.Log.WithError(err).WithField("request_id", req.RequestID).Error("Prediction failed")
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "prediction failed"})
		return
	}

	writeJSON(w, resp)
}

func (h *HTTPHandler) handlePredictBatch(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req models.BatchPredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err, "invalid batch request")
		return
	}
	if len(req.Inputs) == 0 {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "inputs are required"})
		return
	}

	resp, err := h.service.PredictBatch(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrBatchTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
			return
		}
		logger.Log.WithError(err).Error("Batch prediction failed")
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "batch prediction failed"})
		return
	}

	writeJSON(w, resp)
}

func (h *HTTPHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	logs, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		if errors.Is(err, ErrNoStore) {
			writeError(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
			return
		}
		logger.Log.WithError(err).Error("Failed to load prediction logs")
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "failed to load prediction logs"})
		return
	}

	writeJSON(w, map[string]interface{}{
		"predictions": logs,
		"count":       len(logs),
	})
}

func (h *HTTPHandler) handleModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.service.ModelInfo())
}

func (h *HTTPHandler) handleForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.catalog)
}

// writeDecodeError answers 413 for bodies cut off by http.MaxBytesReader
// and 400 for anything else.
func writeDecodeError(w http.ResponseWriter, err error, msg string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, errorResponse{
			Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		})
		return
	}
	writeError(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, payload errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("failed to encode error response")
	}
}
