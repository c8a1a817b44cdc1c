package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"

	"github.com/ayusman/tryon/internal/garment"
)

const (
	defaultThumbnailSize = 128
	maxThumbnailSize     = 512
)

// WardrobeHandler exposes garment browsing and selection.
type WardrobeHandler struct {
	wardrobe *garment.Wardrobe
}

// NewWardrobeHandler creates a WardrobeHandler over w.
func NewWardrobeHandler(w *garment.Wardrobe) *WardrobeHandler {
	return &WardrobeHandler{wardrobe: w}
}

// Register adds the wardrobe routes to mux.
func (h *WardrobeHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/wardrobe", h.list)
	mux.HandleFunc("POST /api/wardrobe/{class}/{action}", h.action)
	mux.HandleFunc("GET /api/wardrobe/items/{id}/thumbnail", h.thumbnail)
}

type boundsResponse struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

type itemResponse struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Class  garment.Class   `json:"class"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Bounds *boundsResponse `json:"bounds,omitempty"`
}

type classResponse struct {
	Class   garment.Class  `json:"class"`
	Visible bool           `json:"visible"`
	Index   int            `json:"index"`
	Current *itemResponse  `json:"current"`
	Items   []itemResponse `json:"items"`
}

type wardrobeResponse struct {
	Classes []classResponse `json:"classes"`
}

func toItem(img *garment.Image) itemResponse {
	item := itemResponse{
		ID:     img.ID,
		Name:   img.Name,
		Class:  img.Class,
		Width:  img.Width(),
		Height: img.Height(),
	}
	if b, ok := img.CachedBounds(); ok {
		item.Bounds = &boundsResponse{Left: b.Left, Top: b.Top, Right: b.Right, Bottom: b.Bottom}
	}
	return item
}

func (h *WardrobeHandler) classState(class garment.Class) classResponse {
	sel := h.wardrobe.Selection()
	items := h.wardrobe.Catalog().List(class)

	resp := classResponse{
		Class:   class,
		Visible: !sel.Hidden[class],
		Index:   sel.Index[class],
		Items:   make([]itemResponse, 0, len(items)),
	}
	for _, img := range items {
		resp.Items = append(resp.Items, toItem(img))
	}
	if cur := h.wardrobe.Current(class); cur != nil {
		item := toItem(cur)
		resp.Current = &item
	}
	return resp
}

// list handles GET /api/wardrobe.
func (h *WardrobeHandler) list(w http.ResponseWriter, r *http.Request) {
	resp := wardrobeResponse{Classes: make([]classResponse, 0, len(garment.Classes))}
	for _, class := range garment.Classes {
		resp.Classes = append(resp.Classes, h.classState(class))
	}
	writeJSON(w, http.StatusOK, resp)
}

// action handles POST /api/wardrobe/{class}/{next|prev|toggle}.
func (h *WardrobeHandler) action(w http.ResponseWriter, r *http.Request) {
	class, err := garment.ParseClass(r.PathValue("class"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown garment class")
		return
	}

	switch r.PathValue("action") {
	case "next":
		if h.wardrobe.Next(class) == nil {
			writeError(w, http.StatusConflict, "No garments of this class")
			return
		}
	case "prev":
		if h.wardrobe.Prev(class) == nil {
			writeError(w, http.StatusConflict, "No garments of this class")
			return
		}
	case "toggle":
		h.wardrobe.Toggle(class)
	default:
		writeError(w, http.StatusNotFound, "Unknown wardrobe action")
		return
	}

	writeJSON(w, http.StatusOK, h.classState(class))
}

// thumbnail handles GET /api/wardrobe/items/{id}/thumbnail?size=N and returns a PNG.
func (h *WardrobeHandler) thumbnail(w http.ResponseWriter, r *http.Request) {
	img, err := h.wardrobe.Catalog().Get(r.PathValue("id"))
	if errors.Is(err, garment.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Garment not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get garment")
		return
	}

	size := defaultThumbnailSize
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > maxThumbnailSize {
			writeError(w, http.StatusBadRequest, "Invalid thumbnail size")
			return
		}
		size = n
	}

	thumb := imaging.Fit(img.Pixels, size, size, imaging.Lanczos)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=3600")
	if err := imaging.Encode(w, thumb, imaging.PNG); err != nil {
		http.Error(w, "Failed to encode thumbnail", http.StatusInternalServerError)
	}
}
