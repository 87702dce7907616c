package hosted

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"youtools-catalog/internal/catalog"
)

// Posters handles hosted-backend operations for the posters table
type Posters struct {
	db *sql.DB
}

// NewPosters creates a hosted poster repository
func NewPosters(db *sql.DB) *Posters {
	return &Posters{db: db}
}

// scanPoster tolerates a NULL title; banners are frequently untitled.
func scanPoster(row interface{ Scan(...any) error }) (catalog.Poster, error) {
	var p catalog.Poster
	var title sql.NullString

	if err := row.Scan(&p.ID, &p.ImageURL, &title, &p.Position, &p.Active); err != nil {
		return catalog.Poster{}, err
	}
	p.Title = title.String
	return p, nil
}

// List retrieves all posters ordered by position, then id
func (r *Posters) List(ctx context.Context) ([]catalog.Poster, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, image_url, title, position, active FROM posters ORDER BY position ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("posters list: %w", err)
	}
	defer rows.Close()

	posters := []catalog.Poster{}
	for rows.Next() {
		p, err := scanPoster(rows)
		if err != nil {
			return nil, fmt.Errorf("posters scan: %w", err)
		}
		posters = append(posters, p)
	}
	return posters, rows.Err()
}

// Get retrieves a single poster by ID
func (r *Posters) Get(ctx context.Context, id string) (catalog.Poster, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	p, err := scanPoster(r.db.QueryRowContext(ctx,
		"SELECT id, image_url, title, position, active FROM posters WHERE id = $1", id))
	if err != nil {
		return catalog.Poster{}, fmt.Errorf("posters get: %w", err)
	}
	return p, nil
}

// Create inserts a new poster
func (r *Posters) Create(ctx context.Context, p catalog.Poster) (catalog.Poster, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	created, err := scanPoster(r.db.QueryRowContext(ctx, `
		INSERT INTO posters (id, image_url, title, position, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, image_url, title, position, active`,
		p.ID, p.ImageURL, p.Title, p.Position, p.Active))
	if err != nil {
		return catalog.Poster{}, fmt.Errorf("posters create: %w", err)
	}
	return created, nil
}

// Update replaces the mutable fields of a poster
func (r *Posters) Update(ctx context.Context, id string, p catalog.Poster) (catalog.Poster, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	updated, err := scanPoster(r.db.QueryRowContext(ctx, `
		UPDATE posters SET image_url = $2, title = $3, position = $4, active = $5
		WHERE id = $1
		RETURNING id, image_url, title, position, active`,
		id, p.ImageURL, p.Title, p.Position, p.Active))
	if err != nil {
		return catalog.Poster{}, fmt.Errorf("posters update: %w", err)
	}
	return updated, nil
}

// Delete removes a poster by ID
func (r *Posters) Delete(ctx context.Context, id string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, "DELETE FROM posters WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("posters delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("posters delete rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("poster not found")
	}
	return nil
}
