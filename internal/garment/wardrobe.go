package garment

import "sync"

// Selection is the current garment index and visibility per class. It is owned by
// the orchestrating layer and copied into each frame's Outfit.
type Selection struct {
	Index  [numClasses]int  `json:"index"`
	Hidden [numClasses]bool `json:"hidden"`
}

// Wardrobe navigates the catalog and tracks the user's Selection.
type Wardrobe struct {
	catalog *Catalog

	mu       sync.Mutex
	sel      Selection
	onChange func(class Class, img *Image)
}

// NewWardrobe creates a wardrobe over catalog with the first garment of every class selected.
func NewWardrobe(catalog *Catalog) *Wardrobe {
	return &Wardrobe{catalog: catalog}
}

// Catalog returns the underlying catalog.
func (w *Wardrobe) Catalog() *Catalog {
	return w.catalog
}

// OnChange registers fn to run after the selected garment of a class changes.
func (w *Wardrobe) OnChange(fn func(class Class, img *Image)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Next selects the following garment of class, wrapping to the first.
func (w *Wardrobe) Next(class Class) *Image {
	return w.step(class, 1)
}

// Prev selects the preceding garment of class, wrapping to the last.
func (w *Wardrobe) Prev(class Class) *Image {
	return w.step(class, -1)
}

func (w *Wardrobe) step(class Class, delta int) *Image {
	items := w.catalog.List(class)
	if len(items) == 0 {
		return nil
	}

	w.mu.Lock()
	idx := (w.sel.Index[class] + delta) % len(items)
	if idx < 0 {
		idx += len(items)
	}
	w.sel.Index[class] = idx
	img := items[idx]
	fn := w.onChange
	w.mu.Unlock()

	w.catalog.Prepare(img)
	if fn != nil {
		fn(class, img)
	}
	return img
}

// Toggle flips the visibility of class and returns the new visibility.
func (w *Wardrobe) Toggle(class Class) bool {
	w.mu.Lock()
	w.sel.Hidden[class] = !w.sel.Hidden[class]
	visible := !w.sel.Hidden[class]
	fn := w.onChange
	w.mu.Unlock()

	if fn != nil {
		fn(class, w.Current(class))
	}
	return visible
}

// Current returns the selected garment of class regardless of visibility.
func (w *Wardrobe) Current(class Class) *Image {
	items := w.catalog.List(class)
	if len(items) == 0 {
		return nil
	}

	w.mu.Lock()
	idx := w.sel.Index[class]
	w.mu.Unlock()

	if idx >= len(items) {
		idx = 0
	}
	return items[idx]
}

// Selection returns a copy of the current selection.
func (w *Wardrobe) Selection() Selection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sel
}

// Restore replaces the selection, for example with one loaded from settings.
// Out-of-range indices fall back to the first garment.
func (w *Wardrobe) Restore(sel Selection) {
	for _, class := range Classes {
		if n := len(w.catalog.List(class)); sel.Index[class] < 0 || sel.Index[class] >= n {
			sel.Index[class] = 0
		}
	}

	w.mu.Lock()
	w.sel = sel
	w.mu.Unlock()
}

// Outfit resolves the selection into the garments to draw this frame and makes
// sure their bounds are available.
func (w *Wardrobe) Outfit() Outfit {
	sel := w.Selection()

	var o Outfit
	for _, class := range Classes {
		if sel.Hidden[class] {
			continue
		}
		img := w.Current(class)
		if img == nil {
			continue
		}
		w.catalog.Prepare(img)
		switch class {
		case Top:
			o.Top = img
		case Bottom:
			o.Bottom = img
		case Shoes:
			o.Shoes = img
		case FullBody:
			o.FullBody = img
		}
	}
	return o
}
