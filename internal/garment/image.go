package garment

import (
	"image"
	"sync/atomic"
)

// Image is an immutable garment bitmap with its cached visible-pixel bounds.
type Image struct {
	ID     string
	Name   string
	Class  Class
	Path   string
	Pixels image.Image

	bounds atomic.Pointer[Bounds]
}

// NewImage wraps pixels as a garment of the given class.
func NewImage(id, name string, class Class, pixels image.Image) *Image {
	return &Image{
		ID:     id,
		Name:   name,
		Class:  class,
		Pixels: pixels,
	}
}

// Width returns the pixel width of the image.
func (g *Image) Width() int { return g.Pixels.Bounds().Dx() }

// Height returns the pixel height of the image.
func (g *Image) Height() int { return g.Pixels.Bounds().Dy() }

// Bounds returns the cached bounds, extracting them on first use. Concurrent
// callers may both scan, but exactly one result is published.
func (g *Image) Bounds() Bounds {
	if b := g.bounds.Load(); b != nil {
		return *b
	}
	b := ExtractBounds(g.Pixels)
	if !g.bounds.CompareAndSwap(nil, &b) {
		return *g.bounds.Load()
	}
	return b
}

// CachedBounds returns the bounds only if they were already extracted or seeded.
func (g *Image) CachedBounds() (Bounds, bool) {
	if b := g.bounds.Load(); b != nil {
		return *b, true
	}
	return Bounds{}, false
}

// SetBounds seeds the cache, typically from a persisted index.
func (g *Image) SetBounds(b Bounds) {
	g.bounds.Store(&b)
}

// Outfit is the set of garments to draw for one frame. Nil fields are not drawn.
type Outfit struct {
	Top      *Image
	Bottom   *Image
	Shoes    *Image
	FullBody *Image
}

// Get returns the garment selected for class.
func (o Outfit) Get(class Class) *Image {
	switch class {
	case Top:
		return o.Top
	case Bottom:
		return o.Bottom
	case Shoes:
		return o.Shoes
	case FullBody:
		return o.FullBody
	}
	return nil
}

// Empty reports whether nothing is selected.
func (o Outfit) Empty() bool {
	return o.Top == nil && o.Bottom == nil && o.Shoes == nil && o.FullBody == nil
}
