package api

import (
	"net/http"

	"github.com/ayusman/tryon/internal/hook"
)

// HooksHandler lists the discovered event hooks.
type HooksHandler struct {
	manager *hook.Manager
}

// NewHooksHandler creates a HooksHandler over m.
func NewHooksHandler(m *hook.Manager) *HooksHandler {
	return &HooksHandler{manager: m}
}

// Register adds the hook routes to mux.
func (h *HooksHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/hooks", h.list)
	mux.HandleFunc("POST /api/hooks/reload", h.reload)
}

type hookResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Events      []string `json:"events"`
}

type listHooksResponse struct {
	Hooks []hookResponse `json:"hooks"`
}

// list handles GET /api/hooks.
func (h *HooksHandler) list(w http.ResponseWriter, r *http.Request) {
	hooks := h.manager.List()
	resp := listHooksResponse{Hooks: make([]hookResponse, 0, len(hooks))}
	for _, hk := range hooks {
		resp.Hooks = append(resp.Hooks, hookResponse{
			Name:        hk.Manifest.Name,
			Version:     hk.Manifest.Version,
			Description: hk.Manifest.Description,
			Events:      hk.Manifest.Events,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// reload handles POST /api/hooks/reload by rescanning the hook directory.
func (h *HooksHandler) reload(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Discover(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to scan hook directory")
		return
	}
	h.list(w, r)
}
