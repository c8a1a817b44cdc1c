package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"go.uber.org/zap/zaptest"

	"github.com/ayusman/tryon/internal/app"
	"github.com/ayusman/tryon/internal/capture"
	"github.com/ayusman/tryon/internal/config"
	"github.com/ayusman/tryon/internal/detector"
	"github.com/ayusman/tryon/internal/garment"
	"github.com/ayusman/tryon/internal/placement"
	"github.com/ayusman/tryon/internal/pose"
)

// newTestApp creates an App over a wardrobe with two tops and one bottom.
func newTestApp(t *testing.T) *app.App {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = dir
	cfg.Wardrobe.Dir = filepath.Join(dir, "wardrobe")
	cfg.Wardrobe.Watch = false
	cfg.Hooks.Dir = filepath.Join(dir, "hooks")

	img := image.NewNRGBA(image.Rect(0, 0, 40, 60))
	for y := 10; y < 50; y++ {
		for x := 5; x < 35; x++ {
			img.SetNRGBA(x, y, color.NRGBA{B: 200, A: 255})
		}
	}
	for _, name := range []string{"Tops/top1.png", "Tops/top2.png", "Bottom/bottom1.png"} {
		path := filepath.Join(cfg.Wardrobe.Dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := imaging.Save(img, path); err != nil {
			t.Fatalf("failed to save %s: %v", path, err)
		}
	}

	a, err := app.New(app.Options{
		Config:   cfg,
		Camera:   capture.NewMockCamera(nil, true),
		Detector: detector.NewMockDetector(),
		Logger:   zaptest.NewLogger(t).Sugar(),
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	if err := a.LoadWardrobe(); err != nil {
		t.Fatalf("LoadWardrobe() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func serve(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, r)
	return rec
}

func TestWardrobeHandler_List(t *testing.T) {
	a := newTestApp(t)
	mux := http.NewServeMux()
	NewWardrobeHandler(a.Wardrobe()).Register(mux)

	rec := serve(mux, http.MethodGet, "/api/wardrobe", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var resp wardrobeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Classes) != len(garment.Classes) {
		t.Fatalf("expected %d classes, got %d", len(garment.Classes), len(resp.Classes))
	}

	counts := make(map[garment.Class]int)
	for _, c := range resp.Classes {
		counts[c.Class] = len(c.Items)
		if c.Class == garment.Top {
			if c.Current == nil || c.Current.Name != "top1" {
				t.Errorf("current top = %+v, want top1", c.Current)
			}
			if !c.Visible {
				t.Error("tops should be visible by default")
			}
		}
		if c.Class == garment.Shoes && c.Current != nil {
			t.Error("shoes should have no current garment")
		}
	}
	if counts[garment.Top] != 2 || counts[garment.Bottom] != 1 || counts[garment.Shoes] != 0 {
		t.Errorf("item counts = %v", counts)
	}
}

func TestWardrobeHandler_Action(t *testing.T) {
	a := newTestApp(t)
	mux := http.NewServeMux()
	NewWardrobeHandler(a.Wardrobe()).Register(mux)

	decode := func(t *testing.T, rec *httptest.ResponseRecorder) classResponse {
		t.Helper()
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}
		var resp classResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return resp
	}

	t.Run("next advances", func(t *testing.T) {
		resp := decode(t, serve(mux, http.MethodPost, "/api/wardrobe/top/next", ""))
		if resp.Index != 1 || resp.Current.Name != "top2" {
			t.Errorf("after next: index %d current %s, want 1 top2", resp.Index, resp.Current.Name)
		}
	})

	t.Run("next wraps", func(t *testing.T) {
		resp := decode(t, serve(mux, http.MethodPost, "/api/wardrobe/tops/next", ""))
		if resp.Index != 0 {
			t.Errorf("after wrap: index %d, want 0", resp.Index)
		}
	})

	t.Run("prev wraps backwards", func(t *testing.T) {
		resp := decode(t, serve(mux, http.MethodPost, "/api/wardrobe/top/prev", ""))
		if resp.Index != 1 {
			t.Errorf("after prev: index %d, want 1", resp.Index)
		}
	})

	t.Run("toggle hides", func(t *testing.T) {
		resp := decode(t, serve(mux, http.MethodPost, "/api/wardrobe/bottom/toggle", ""))
		if resp.Visible {
			t.Error("bottoms should be hidden after toggle")
		}
		if a.Wardrobe().Outfit().Bottom != nil {
			t.Error("outfit should not include hidden bottom")
		}
	})

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"unknown class", "/api/wardrobe/hats/next", http.StatusNotFound},
		{"unknown action", "/api/wardrobe/top/shuffle", http.StatusNotFound},
		{"empty class", "/api/wardrobe/shoes/next", http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := serve(mux, http.MethodPost, tt.target, ""); rec.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestWardrobeHandler_Thumbnail(t *testing.T) {
	a := newTestApp(t)
	mux := http.NewServeMux()
	NewWardrobeHandler(a.Wardrobe()).Register(mux)
	top := a.Wardrobe().Current(garment.Top)

	t.Run("fits requested size", func(t *testing.T) {
		rec := serve(mux, http.MethodGet, "/api/wardrobe/items/"+top.ID+"/thumbnail?size=20", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("expected Content-Type image/png, got %s", ct)
		}
		img, err := imaging.Decode(rec.Body)
		if err != nil {
			t.Fatalf("failed to decode thumbnail: %v", err)
		}
		if b := img.Bounds(); b.Dy() != 20 || b.Dx() > 20 {
			t.Errorf("thumbnail size = %dx%d, want height 20", b.Dx(), b.Dy())
		}
	})

	t.Run("unknown garment", func(t *testing.T) {
		rec := serve(mux, http.MethodGet, "/api/wardrobe/items/missing/thumbnail", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("invalid size", func(t *testing.T) {
		rec := serve(mux, http.MethodGet, "/api/wardrobe/items/"+top.ID+"/thumbnail?size=huge", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})
}

func TestSessionHandler_Calibration(t *testing.T) {
	a := newTestApp(t)
	mux := http.NewServeMux()
	NewSessionHandler(a).Register(mux)

	var resp struct {
		Phase    string `json:"phase"`
		NextZone string `json:"next_zone"`
		Message  string `json:"message"`
	}

	rec := serve(mux, http.MethodGet, "/api/calibration", "")
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Phase != string(app.PhaseCalibrating) || resp.NextZone != "shoulders" {
		t.Errorf("initial calibration = %+v", resp)
	}
	if resp.Message == "" {
		t.Error("expected a guidance message")
	}

	a.ProcessFrame(pose.StandingFrame(), nil)
	rec = serve(mux, http.MethodGet, "/api/calibration", "")
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Phase != string(app.PhaseTryingOn) || resp.NextZone != "none" {
		t.Errorf("calibrated state = %+v", resp)
	}

	rec = serve(mux, http.MethodPost, "/api/calibration/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if a.Phase() != app.PhaseCalibrating {
		t.Errorf("Phase() after reset = %s, want %s", a.Phase(), app.PhaseCalibrating)
	}
}

func TestSessionHandler_Strategy(t *testing.T) {
	a := newTestApp(t)
	mux := http.NewServeMux()
	NewSessionHandler(a).Register(mux)

	rec := serve(mux, http.MethodGet, "/api/strategy", "")
	var resp strategyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Strategy != placement.StrategySlots || len(resp.Available) != 2 {
		t.Errorf("GET /api/strategy = %+v", resp)
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"switch to single", `{"strategy":"single"}`, http.StatusOK},
		{"unknown strategy", `{"strategy":"cloth-sim"}`, http.StatusBadRequest},
		{"missing strategy", `{}`, http.StatusBadRequest},
		{"invalid json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := serve(mux, http.MethodPut, "/api/strategy", tt.body); rec.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}

	if a.Strategy() != placement.StrategySingle {
		t.Errorf("Strategy() = %q, want %q", a.Strategy(), placement.StrategySingle)
	}
}

func TestHooksHandler(t *testing.T) {
	a := newTestApp(t)
	mux := http.NewServeMux()
	NewHooksHandler(a.Hooks()).Register(mux)

	list := func(t *testing.T, method, target string) listHooksResponse {
		t.Helper()
		rec := serve(mux, method, target, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		var resp listHooksResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return resp
	}

	if resp := list(t, http.MethodGet, "/api/hooks"); len(resp.Hooks) != 0 {
		t.Errorf("expected no hooks, got %d", len(resp.Hooks))
	}

	dir := filepath.Join(a.Hooks().Dir(), "notify")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	manifest := []byte(`{"name":"notify","version":"1.0.0","executable":"notify","events":["calibration.complete"]}`)
	if err := os.WriteFile(filepath.Join(dir, "hook.json"), manifest, 0644); err != nil {
		t.Fatal(err)
	}

	resp := list(t, http.MethodPost, "/api/hooks/reload")
	if len(resp.Hooks) != 1 || resp.Hooks[0].Name != "notify" {
		t.Fatalf("hooks after reload = %+v", resp.Hooks)
	}
	if !bytes.Contains(manifest, []byte(resp.Hooks[0].Events[0])) {
		t.Errorf("events = %v", resp.Hooks[0].Events)
	}
}
