package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"fraud-screen/internal/errors"
	"fraud-screen/internal/models"
	"fraud-screen/internal/observability"
	"fraud-screen/internal/services"
)

const version = "1.0.0"

type APIHandlers struct {
	screening *services.Screening
	logger    *slog.Logger
}

func NewAPIHandlers(screening *services.Screening, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		screening: screening,
		logger:    logger,
	}
}

// HandleScore scores a JSON-encoded TransactionRecord.
func (h *APIHandlers) HandleScore(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	var rec models.TransactionRecord
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "Request body must be a transaction record"), requestID)
		return
	}

	verdict, err := h.screening.Score(r.Context(), rec)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	errors.WriteSuccessWithHeaders(w, verdict, map[string]string{
		"Cache-Control": "no-store",
	})
}

func (h *APIHandlers) HandleCatalogs(w http.ResponseWriter, r *http.Request) {
	data := h.screening.Catalogs().Snapshot()

	headers := map[string]string{
		"Cache-Control": "public, max-age=300",
	}

	errors.WriteSuccessWithHeaders(w, data, headers)
}

func (h *APIHandlers) HandleSchema(w http.ResponseWriter, r *http.Request) {
	headers := map[string]string{
		"Cache-Control": "public, max-age=300",
	}

	errors.WriteSuccessWithHeaders(w, h.screening.SchemaInfo(), headers)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
		"schema":    h.screening.Schema().Name,
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {

	stats := h.screening.Stats()

	errors.WriteSuccess(w, stats)
}
