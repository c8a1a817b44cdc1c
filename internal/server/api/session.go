package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/tryon/internal/app"
	"github.com/ayusman/tryon/internal/calibration"
	"github.com/ayusman/tryon/internal/placement"
)

// SessionHandler exposes calibration progress and the placement strategy.
type SessionHandler struct {
	app *app.App
}

// NewSessionHandler creates a SessionHandler for a.
func NewSessionHandler(a *app.App) *SessionHandler {
	return &SessionHandler{app: a}
}

// Register adds the calibration and strategy routes to mux.
func (h *SessionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/calibration", h.calibration)
	mux.HandleFunc("POST /api/calibration/reset", h.reset)
	mux.HandleFunc("GET /api/strategy", h.strategy)
	mux.HandleFunc("PUT /api/strategy", h.setStrategy)
}

type calibrationResponse struct {
	Phase    app.Phase         `json:"phase"`
	State    calibration.State `json:"calibration"`
	NextZone calibration.Zone  `json:"next_zone"`
	Message  string            `json:"message,omitempty"`
}

type strategyRequest struct {
	Strategy string `json:"strategy"`
}

type strategyResponse struct {
	Strategy  string   `json:"strategy"`
	Available []string `json:"available"`
}

func (h *SessionHandler) calibrationState() calibrationResponse {
	state, next := h.app.Calibration()
	return calibrationResponse{
		Phase:    h.app.Phase(),
		State:    state,
		NextZone: next,
		Message:  next.Message(),
	}
}

// calibration handles GET /api/calibration.
func (h *SessionHandler) calibration(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.calibrationState())
}

// reset handles POST /api/calibration/reset.
func (h *SessionHandler) reset(w http.ResponseWriter, r *http.Request) {
	h.app.Recalibrate()
	writeJSON(w, http.StatusOK, h.calibrationState())
}

func (h *SessionHandler) strategyState() strategyResponse {
	return strategyResponse{
		Strategy:  h.app.Strategy(),
		Available: []string{placement.StrategySlots, placement.StrategySingle},
	}
}

// strategy handles GET /api/strategy.
func (h *SessionHandler) strategy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.strategyState())
}

// setStrategy handles PUT /api/strategy.
func (h *SessionHandler) setStrategy(w http.ResponseWriter, r *http.Request) {
	var req strategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Strategy == "" {
		writeError(w, http.StatusBadRequest, "Strategy is required")
		return
	}

	if err := h.app.SetStrategy(req.Strategy); err != nil {
		if errors.Is(err, placement.ErrUnknownStrategy) {
			writeError(w, http.StatusBadRequest, "Unknown strategy")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save strategy")
		return
	}

	writeJSON(w, http.StatusOK, h.strategyState())
}
