package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/de-tools/stat-atlas/pkg/adapters"
	"github.com/de-tools/stat-atlas/pkg/models/api"
	"github.com/de-tools/stat-atlas/pkg/models/domain"
	"github.com/de-tools/stat-atlas/pkg/services/dataset"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	service dataset.Service
}

func NewHandler(service dataset.Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	defs, err := h.service.ListDatasets(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := make([]api.Dataset, 0, len(defs))
	for _, def := range defs {
		response = append(response, adapters.MapDefinitionToApi(def))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "dataset")
	query := r.URL.Query()

	horizon, err := positiveInt(query.Get("horizon"), "horizon")
	if err != nil {
		writeError(w, r, err)
		return
	}
	window, err := positiveInt(query.Get("window"), "window")
	if err != nil {
		writeError(w, r, err)
		return
	}
	price, err := positiveFloat(query.Get("price"), "price")
	if err != nil {
		writeError(w, r, err)
		return
	}

	def, err := h.service.Dataset(ctx, name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := h.service.Forecast(ctx, name, dataset.Request{
		Horizon:      horizon,
		WindowSize:   window,
		InitialPrice: price,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapForecastReportDomainToApi(report, def))
}

func (h *Handler) GetChanges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "dataset")

	report, err := h.service.Changes(ctx, name, r.URL.Query().Get("metric"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapChangeReportDomainToApi(report))
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "dataset")

	report, err := h.service.Summary(ctx, name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapSummaryReportDomainToApi(report))
}

// positiveInt parses an optional query parameter; absent means zero.
func positiveInt(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", domain.ErrInvalidParameter, name, raw)
	}
	return v, nil
}

func positiveFloat(raw, name string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(v > 0) {
		return 0, fmt.Errorf("%w: %s must be a positive number, got %q", domain.ErrInvalidParameter, name, raw)
	}
	return v, nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDatasetNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientHistory), errors.Is(err, domain.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		message = http.StatusText(status)
	}
	writeJSON(w, r, status, api.ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("failed to encode response")
	}
}
