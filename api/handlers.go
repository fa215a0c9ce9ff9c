/*
handlers.go - HTTP handlers for the calculation facade

PURPOSE:
  Exposes the engine over HTTP: batch calculation, settlement report
  download, and the two weekly-hour settings. The original back office's
  CRUD surfaces (workers, operations, tariffs) live elsewhere; this
  facade only wraps the calculation pipeline.

ERROR MAPPING:
  Malformed JSON or dates on the request envelope -> 400
  Per-group faults inside a batch             -> group skipped (logged),
                                                 batch still returns 200
  Unknown setting name                        -> 404

SEE ALSO:
  - dto.go: Request/response shapes
  - server.go: Routing
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/config"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/groups"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/report"
)

// SettingsStore is the read/write settings capability the handlers need.
// store/sqlite implements it.
type SettingsStore interface {
	Value(ctx context.Context, name string) (string, bool, error)
	SetValue(ctx context.Context, name, value string) error
}

// Handler holds the facade dependencies.
type Handler struct {
	orchestrator *payroll.Orchestrator
	source       *config.Source
	settings     SettingsStore
}

func NewHandler(orchestrator *payroll.Orchestrator, source *config.Source, settings SettingsStore) *Handler {
	return &Handler{orchestrator: orchestrator, source: source, settings: settings}
}

// settingNames is the closed set of settings the API exposes.
var settingNames = map[string]bool{
	config.KeyWeeklyHours:       true,
	config.KeyWeeklyHoursSunday: true,
}

// =============================================================================
// CALCULATION
// =============================================================================

// Calculate runs the batch pipeline for an operation.
// POST /api/operations/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.runBatch(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, toBatchResultDTO(batch))
}

// SettlementReport renders the settlement PDF for an operation.
// POST /api/reports/settlement
func (h *Handler) SettlementReport(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if !decodeCalculateRequest(w, r, &req) {
		return
	}
	batch, ok := h.runDecoded(r.Context(), w, req)
	if !ok {
		return
	}
	pdf, err := report.Settlement(batch, req.Operation)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render report")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="settlement.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func (h *Handler) runBatch(w http.ResponseWriter, r *http.Request) (payroll.BatchResult, bool) {
	var req CalculateRequest
	if !decodeCalculateRequest(w, r, &req) {
		return payroll.BatchResult{}, false
	}
	return h.runDecoded(r.Context(), w, req)
}

func (h *Handler) runDecoded(ctx context.Context, w http.ResponseWriter, req CalculateRequest) (payroll.BatchResult, bool) {
	operationRange, err := parseOperationRange(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return payroll.BatchResult{}, false
	}

	// Per-group conversion faults (unparsable schedule dates) skip the
	// group, matching the orchestrator's partial-failure tolerance.
	raws := make([]groups.RawGroup, 0, len(req.Groups))
	for _, dto := range req.Groups {
		raw, err := toRawGroup(dto)
		if err != nil {
			log.Printf("WARN: skipping group %s: %v", dto.ID, err)
			continue
		}
		raws = append(raws, raw)
	}

	input := payroll.BatchInput{
		Groups:          groups.Summarize(raws),
		Distributions:   toDistributions(req.Distributions),
		AdditionalHours: toDistributions(req.AdditionalHours),
		Range:           operationRange,
	}
	return h.orchestrator.CalculateTotals(ctx, input), true
}

func decodeCalculateRequest(w http.ResponseWriter, r *http.Request, req *CalculateRequest) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if len(req.Groups) == 0 {
		respondError(w, http.StatusBadRequest, "no groups supplied")
		return false
	}
	return true
}

func parseOperationRange(req CalculateRequest) (calendar.Range, error) {
	if req.DateStart == "" && req.DateEnd == "" {
		return calendar.Range{}, nil
	}
	start, err := calendar.ParseDay(req.DateStart)
	if err != nil {
		return calendar.Range{}, fmt.Errorf("dateStart: %w", err)
	}
	end, err := calendar.ParseDay(req.DateEnd)
	if err != nil {
		return calendar.Range{}, fmt.Errorf("dateEnd: %w", err)
	}
	return calendar.NewRange(start, end), nil
}

func toDistributions(raw map[string]map[string]float64) map[string]engine.HourDistribution {
	out := make(map[string]engine.HourDistribution, len(raw))
	for groupID, dist := range raw {
		out[groupID] = engine.HourDistribution(dist)
	}
	return out
}

// =============================================================================
// SETTINGS
// =============================================================================

// GetSetting returns one named configuration value (stored or default).
// GET /api/settings/{name}
func (h *Handler) GetSetting(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !settingNames[name] {
		respondError(w, http.StatusNotFound, "unknown setting")
		return
	}

	value, ok, err := h.settings.Value(r.Context(), name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read setting")
		return
	}
	if !ok {
		value = defaultSetting(name)
	}
	respondJSON(w, http.StatusOK, SettingDTO{Name: name, Value: value})
}

// PutSetting updates one named configuration value. The memoized source is
// invalidated so the next batch re-reads the store.
// PUT /api/settings/{name}
func (h *Handler) PutSetting(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !settingNames[name] {
		respondError(w, http.StatusNotFound, "unknown setting")
		return
	}

	var req SettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if _, err := decimal.NewFromString(req.Value); err != nil {
		respondError(w, http.StatusBadRequest, "value must be numeric")
		return
	}

	if err := h.settings.SetValue(r.Context(), name, req.Value); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to write setting")
		return
	}
	h.source.Invalidate()
	respondJSON(w, http.StatusOK, SettingDTO{Name: name, Value: req.Value})
}

func defaultSetting(name string) string {
	if name == config.KeyWeeklyHoursSunday {
		return config.DefaultWeeklyHoursSunday.String()
	}
	return config.DefaultWeeklyHours.String()
}

// =============================================================================
// HEALTH
// =============================================================================

// Health is the liveness probe.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("WARN: failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
