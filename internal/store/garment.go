package store

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/ayusman/tryon/internal/garment"
)

// GarmentRepository provides CRUD operations for garment records.
type GarmentRepository struct {
	db *sql.DB
}

// Garments returns the garment repository for this store.
func (s *Store) Garments() *GarmentRepository {
	return &GarmentRepository{db: s.db}
}

const garmentColumns = `id, path, name, class, size, mod_time, width, height,
	bounds_left, bounds_top, bounds_right, bounds_bottom`

// Save inserts the record or replaces the existing row for the same path.
func (r *GarmentRepository) Save(rec *garment.Record) error {
	var left, top, right, bottom sql.NullInt64
	if b := rec.Bounds; b != nil {
		left = sql.NullInt64{Int64: int64(b.Left), Valid: true}
		top = sql.NullInt64{Int64: int64(b.Top), Valid: true}
		right = sql.NullInt64{Int64: int64(b.Right), Valid: true}
		bottom = sql.NullInt64{Int64: int64(b.Bottom), Valid: true}
	}

	_, err := r.db.Exec(
		`INSERT INTO garments (`+garmentColumns+`, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			id = excluded.id, name = excluded.name, class = excluded.class,
			size = excluded.size, mod_time = excluded.mod_time,
			width = excluded.width, height = excluded.height,
			bounds_left = excluded.bounds_left, bounds_top = excluded.bounds_top,
			bounds_right = excluded.bounds_right, bounds_bottom = excluded.bounds_bottom,
			updated_at = excluded.updated_at`,
		rec.ID, rec.Path, rec.Name, rec.Class.String(), rec.Size, rec.ModTime.UTC(),
		rec.Width, rec.Height, left, top, right, bottom, time.Now().UTC(),
	)
	return errors.Wrapf(err, "save garment %s", rec.Path)
}

// GetByID retrieves a garment record by its ID.
func (r *GarmentRepository) GetByID(id string) (*garment.Record, error) {
	row := r.db.QueryRow(`SELECT `+garmentColumns+` FROM garments WHERE id = ?`, id)
	return scanGarment(row)
}

// GetByPath retrieves a garment record by its asset path.
func (r *GarmentRepository) GetByPath(path string) (*garment.Record, error) {
	row := r.db.QueryRow(`SELECT `+garmentColumns+` FROM garments WHERE path = ?`, path)
	return scanGarment(row)
}

// List retrieves all garment records of class, ordered by name.
func (r *GarmentRepository) List(class garment.Class) ([]*garment.Record, error) {
	rows, err := r.db.Query(
		`SELECT `+garmentColumns+` FROM garments WHERE class = ? ORDER BY name`,
		class.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*garment.Record
	for rows.Next() {
		rec, err := scanGarment(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Delete removes a garment record by its ID.
func (r *GarmentRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM garments WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGarment(s scanner) (*garment.Record, error) {
	rec := &garment.Record{}
	var class string
	var modTime sql.NullTime
	var left, top, right, bottom sql.NullInt64

	err := s.Scan(&rec.ID, &rec.Path, &rec.Name, &class, &rec.Size, &modTime,
		&rec.Width, &rec.Height, &left, &top, &right, &bottom)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	c, err := garment.ParseClass(class)
	if err != nil {
		return nil, err
	}
	rec.Class = c
	if modTime.Valid {
		rec.ModTime = modTime.Time
	}
	if left.Valid && top.Valid && right.Valid && bottom.Valid {
		rec.Bounds = &garment.Bounds{
			Left:   int(left.Int64),
			Top:    int(top.Int64),
			Right:  int(right.Int64),
			Bottom: int(bottom.Int64),
		}
	}
	return rec, nil
}

// GarmentIndex adapts the repository to garment.Index so extracted bounds
// survive restarts.
type GarmentIndex struct {
	repo *GarmentRepository
}

// GarmentIndex returns the catalog index backed by this store.
func (s *Store) GarmentIndex() *GarmentIndex {
	return &GarmentIndex{repo: s.Garments()}
}

// Lookup implements garment.Index.
func (i *GarmentIndex) Lookup(path string) (*garment.Record, bool, error) {
	rec, err := i.repo.GetByPath(path)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// Save implements garment.Index.
func (i *GarmentIndex) Save(rec *garment.Record) error {
	return i.repo.Save(rec)
}
