package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gridform/quotecore/internal/finance"
	"github.com/gridform/quotecore/internal/metrics"
	"github.com/gridform/quotecore/internal/power"
	"github.com/gridform/quotecore/internal/quote"
)

// directPathWarning steers collaborators that only need partial results back
// to the orchestrated endpoint.
const directPathWarning = "direct entry points skip quote orchestration; prefer POST /api/quote for consistent equipment/financial pairing"

type server struct {
	svc    *quote.Service
	logger *slog.Logger
}

type errorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

func (s *server) handleGenerateQuote(w http.ResponseWriter, r *http.Request) {
	var in quote.Input
	if !s.decode(w, r, &in) {
		return
	}

	opts := quote.Options{
		SkipCache:      boolQuery(r, "skipCache"),
		SkipValidation: boolQuery(r, "skipValidation"),
	}

	result, err := s.svc.GenerateQuote(r.Context(), in, opts)
	if err != nil {
		var verr *quote.ValidationError
		if errors.As(err, &verr) {
			metrics.ObserveValidationFailure()
			s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:  verr.Error(),
				Errors: verr.Errors,
			})
			return
		}
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	metrics.ObserveQuote(in.UseCase, result.Metadata.CacheHit)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var in quote.Input
	if !s.decode(w, r, &in) {
		return
	}
	s.writeJSON(w, http.StatusOK, quote.Validate(in))
}

func (s *server) handleEquipment(w http.ResponseWriter, r *http.Request) {
	var in quote.Input
	if !s.decode(w, r, &in) {
		return
	}

	breakdown, err := s.svc.PriceEquipment(r.Context(), in)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"equipment": breakdown,
		"warning":   directPathWarning,
	})
}

func (s *server) handleFinancials(w http.ResponseWriter, r *http.Request) {
	var in finance.Input
	if !s.decode(w, r, &in) {
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"financials": s.svc.ComputeFinancials(r.Context(), in),
		"warning":    directPathWarning,
	})
}

func (s *server) handlePower(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UseCase      string             `json:"useCase"`
		FacilityData power.FacilityData `json:"facilityData"`
	}
	if !s.decode(w, r, &in) {
		return
	}

	est, err := s.svc.EstimatePower(in.UseCase, in.FacilityData)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"power":   est,
		"warning": directPathWarning,
	})
}

func (s *server) handleUseCases(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"useCases": s.svc.UseCases()})
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func (s *server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func boolQuery(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	return v == "1" || v == "true"
}
