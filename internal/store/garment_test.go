package store

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/ayusman/tryon/internal/garment"
)

func testRecord(path string) *garment.Record {
	return &garment.Record{
		ID:      garment.IDForPath(path),
		Name:    "top1",
		Class:   garment.Top,
		Path:    path,
		Size:    1234,
		ModTime: time.Date(2024, 5, 1, 12, 30, 0, 123456789, time.UTC),
		Width:   300,
		Height:  400,
		Bounds:  &garment.Bounds{Left: 10, Top: 20, Right: 290, Bottom: 380},
	}
}

func TestGarmentRepository_SaveAndGet(t *testing.T) {
	repo := newTestStore(t).Garments()
	rec := testRecord("/wardrobe/Tops/top1.png")

	if err := repo.Save(rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	t.Run("by id", func(t *testing.T) {
		got, err := repo.GetByID(rec.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if diff := cmp.Diff(rec, got); diff != "" {
			t.Errorf("record mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("by path", func(t *testing.T) {
		got, err := repo.GetByPath(rec.Path)
		if err != nil {
			t.Fatalf("GetByPath() error = %v", err)
		}
		if got.ID != rec.ID {
			t.Errorf("ID = %q, want %q", got.ID, rec.ID)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := repo.GetByID("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetByID() error = %v, want ErrNotFound", err)
		}
	})
}

func TestGarmentRepository_SaveReplaces(t *testing.T) {
	repo := newTestStore(t).Garments()
	rec := testRecord("/wardrobe/Tops/top1.png")
	if err := repo.Save(rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rec.Bounds = nil
	rec.Size = 99
	if err := repo.Save(rec); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := repo.GetByPath(rec.Path)
	if err != nil {
		t.Fatalf("GetByPath() error = %v", err)
	}
	if got.Bounds != nil {
		t.Errorf("Bounds = %+v, want nil after replace", got.Bounds)
	}
	if got.Size != 99 {
		t.Errorf("Size = %d, want 99", got.Size)
	}
}

func TestGarmentRepository_ListAndDelete(t *testing.T) {
	repo := newTestStore(t).Garments()

	for _, p := range []string{"/w/Tops/b.png", "/w/Tops/a.png"} {
		rec := testRecord(p)
		rec.Name = filepath.Base(p)
		if err := repo.Save(rec); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	shoe := testRecord("/w/Shoes/s.png")
	shoe.Class = garment.Shoes
	if err := repo.Save(shoe); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	tops, err := repo.List(garment.Top)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tops) != 2 || tops[0].Name != "a.png" {
		t.Fatalf("List(top) = %d records, first %q; want 2 ordered by name", len(tops), tops[0].Name)
	}

	if err := repo.Delete(tops[0].ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(tops[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestGarmentIndex_PersistsCatalogBounds(t *testing.T) {
	s := newTestStore(t)
	dir := t.TempDir()
	tops := filepath.Join(dir, "Tops")
	if err := os.MkdirAll(tops, 0o755); err != nil {
		t.Fatal(err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 16; y < 48; y++ {
		for x := 8; x < 40; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	if err := imaging.Save(img, filepath.Join(tops, "top1.png")); err != nil {
		t.Fatal(err)
	}

	first := garment.NewCatalog(dir, s.GarmentIndex(), zap.NewNop().Sugar())
	if err := first.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	g := first.List(garment.Top)[0]
	if _, ok := g.CachedBounds(); ok {
		t.Fatal("bounds should not be cached before first use")
	}
	want := first.Prepare(g)

	second := garment.NewCatalog(dir, s.GarmentIndex(), zap.NewNop().Sugar())
	if err := second.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, ok := second.List(garment.Top)[0].CachedBounds()
	if !ok {
		t.Fatal("bounds should be restored from the index")
	}
	if got != want {
		t.Errorf("restored bounds = %+v, want %+v", got, want)
	}
}

func TestGarmentIndex_Lookup(t *testing.T) {
	idx := newTestStore(t).GarmentIndex()

	if _, ok, err := idx.Lookup("/missing.png"); ok || err != nil {
		t.Errorf("Lookup(missing) = ok %v, err %v; want false, nil", ok, err)
	}

	rec := testRecord("/w/Tops/top1.png")
	if err := idx.Save(rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, ok, err := idx.Lookup(rec.Path)
	if err != nil || !ok {
		t.Fatalf("Lookup() = ok %v, err %v", ok, err)
	}
	if *got.Bounds != *rec.Bounds {
		t.Errorf("Bounds = %+v, want %+v", got.Bounds, rec.Bounds)
	}
}
