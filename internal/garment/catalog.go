package garment

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a garment ID is not in the catalog.
var ErrNotFound = errors.New("garment not found")

// classDirs maps asset folder names to garment classes. The original art ships
// its trousers under "Bottom", so both spellings are accepted.
var classDirs = map[string]Class{
	"Tops":     Top,
	"Top":      Top,
	"Bottom":   Bottom,
	"Bottoms":  Bottom,
	"Shoes":    Shoes,
	"FullBody": FullBody,
	"Outfits":  FullBody,
}

// Record is the persisted description of a garment asset.
type Record struct {
	ID      string
	Name    string
	Class   Class
	Path    string
	Size    int64
	ModTime time.Time
	Width   int
	Height  int
	Bounds  *Bounds
}

// Index persists garment records so bounds survive restarts.
type Index interface {
	// Lookup returns the record stored for path, or ok=false.
	Lookup(path string) (rec *Record, ok bool, err error)
	// Save inserts or replaces the record for rec.Path.
	Save(rec *Record) error
}

// Catalog holds every garment image found under an asset directory.
type Catalog struct {
	root   string
	index  Index
	logger *zap.SugaredLogger

	mu    sync.RWMutex
	items map[Class][]*Image
	byID  map[string]*Image
	stats map[string]os.FileInfo
}

// NewCatalog creates a catalog rooted at dir. index may be nil.
func NewCatalog(dir string, index Index, logger *zap.SugaredLogger) *Catalog {
	return &Catalog{
		root:   dir,
		index:  index,
		logger: logger,
		items:  make(map[Class][]*Image),
		byID:   make(map[string]*Image),
		stats:  make(map[string]os.FileInfo),
	}
}

// Root returns the asset directory.
func (c *Catalog) Root() string {
	return c.root
}

// Load rescans the asset directory and replaces the catalog contents. Files that
// fail to decode are logged and skipped.
func (c *Catalog) Load() error {
	if c.root == "" {
		return nil
	}

	entries, err := os.ReadDir(c.root)
	if os.IsNotExist(err) {
		c.logger.Warnw("wardrobe directory does not exist", "dir", c.root)
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "read wardrobe directory %s", c.root)
	}

	items := make(map[Class][]*Image)
	byID := make(map[string]*Image)
	stats := make(map[string]os.FileInfo)

	for _, entry := range entries {
		class, ok := classDirs[entry.Name()]
		if !entry.IsDir() || !ok {
			continue
		}

		dir := filepath.Join(c.root, entry.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			return errors.Wrapf(err, "read %s", dir)
		}

		for _, f := range files {
			if f.IsDir() || !supportedImage(f.Name()) {
				continue
			}
			path := filepath.Join(dir, f.Name())
			info, err := f.Info()
			if err != nil {
				c.logger.Warnw("failed to stat garment", "path", path, "error", err)
				continue
			}

			img, err := c.loadImage(path, class, info)
			if err != nil {
				c.logger.Warnw("failed to load garment", "path", path, "error", err)
				continue
			}
			items[class] = append(items[class], img)
			byID[img.ID] = img
			stats[img.ID] = info
		}
	}

	for class := range items {
		sort.Slice(items[class], func(i, j int) bool {
			return items[class][i].Name < items[class][j].Name
		})
	}

	c.mu.Lock()
	c.items = items
	c.byID = byID
	c.stats = stats
	c.mu.Unlock()

	c.logger.Infof("Loaded %d tops, %d bottoms, %d shoes, %d full-body garments",
		len(items[Top]), len(items[Bottom]), len(items[Shoes]), len(items[FullBody]))
	return nil
}

func (c *Catalog) loadImage(path string, class Class, info os.FileInfo) (*Image, error) {
	pixels, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "decode")
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	img := NewImage(IDForPath(path), name, class, pixels)
	img.Path = path

	if c.index == nil {
		return img, nil
	}

	rec, ok, err := c.index.Lookup(path)
	if err != nil {
		return nil, errors.Wrap(err, "lookup index")
	}
	if ok && rec.Bounds != nil && rec.Size == info.Size() && rec.ModTime.Equal(info.ModTime()) {
		img.SetBounds(*rec.Bounds)
	}
	return img, nil
}

// Prepare makes sure img has extracted bounds and records them in the index.
// It is called when a garment is selected, never per video frame.
func (c *Catalog) Prepare(img *Image) Bounds {
	if b, ok := img.CachedBounds(); ok {
		return b
	}

	b := img.Bounds()
	if c.index == nil || img.Path == "" {
		return b
	}

	c.mu.RLock()
	info := c.stats[img.ID]
	c.mu.RUnlock()

	rec := &Record{
		ID:     img.ID,
		Name:   img.Name,
		Class:  img.Class,
		Path:   img.Path,
		Width:  img.Width(),
		Height: img.Height(),
		Bounds: &b,
	}
	if info != nil {
		rec.Size = info.Size()
		rec.ModTime = info.ModTime()
	}
	if err := c.index.Save(rec); err != nil {
		c.logger.Warnw("failed to persist garment bounds", "path", img.Path, "error", err)
	}
	return b
}

// Add registers an in-memory garment. Used for assets that do not live on disk.
func (c *Catalog) Add(img *Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[img.Class] = append(c.items[img.Class], img)
	c.byID[img.ID] = img
}

// List returns the garments of class in display order.
func (c *Catalog) List(class Class) []*Image {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Image, len(c.items[class]))
	copy(out, c.items[class])
	return out
}

// Get returns a garment by ID.
func (c *Catalog) Get(id string) (*Image, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return img, nil
}

// IDForPath derives a stable garment ID from its file path.
func IDForPath(path string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(path))).String()
}

func supportedImage(name string) bool {
	_, err := imaging.FormatFromFilename(name)
	return err == nil
}
