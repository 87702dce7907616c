package hosted

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"youtools-catalog/internal/catalog"
)

// Brands handles hosted-backend operations for the brands table
type Brands struct {
	db *sql.DB
}

// NewBrands creates a hosted brand repository
func NewBrands(db *sql.DB) *Brands {
	return &Brands{db: db}
}

// scanBrand tolerates a NULL logo; most brands were imported without one.
func scanBrand(row interface{ Scan(...any) error }) (catalog.Brand, error) {
	var b catalog.Brand
	var logo sql.NullString

	if err := row.Scan(&b.ID, &b.Name, &b.Slug, &logo, &b.Position); err != nil {
		return catalog.Brand{}, err
	}
	b.Logo = logo.String
	return b, nil
}

// List retrieves all brands ordered by position, then id
func (r *Brands) List(ctx context.Context) ([]catalog.Brand, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, slug, logo, position FROM brands ORDER BY position ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("brands list: %w", err)
	}
	defer rows.Close()

	brands := []catalog.Brand{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("brands scan: %w", err)
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

// Get retrieves a single brand by ID
func (r *Brands) Get(ctx context.Context, id string) (catalog.Brand, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	b, err := scanBrand(r.db.QueryRowContext(ctx,
		"SELECT id, name, slug, logo, position FROM brands WHERE id = $1", id))
	if err != nil {
		return catalog.Brand{}, fmt.Errorf("brands get: %w", err)
	}
	return b, nil
}

// Create inserts a new brand
func (r *Brands) Create(ctx context.Context, b catalog.Brand) (catalog.Brand, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if b.ID == "" {
		b.ID = uuid.New().String()
	}

	created, err := scanBrand(r.db.QueryRowContext(ctx, `
		INSERT INTO brands (id, name, slug, logo, position)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, slug, logo, position`,
		b.ID, b.Name, b.Slug, b.Logo, b.Position))
	if err != nil {
		return catalog.Brand{}, fmt.Errorf("brands create: %w", err)
	}
	return created, nil
}

// Update replaces the mutable fields of a brand
func (r *Brands) Update(ctx context.Context, id string, b catalog.Brand) (catalog.Brand, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	updated, err := scanBrand(r.db.QueryRowContext(ctx, `
		UPDATE brands SET name = $2, slug = $3, logo = $4, position = $5
		WHERE id = $1
		RETURNING id, name, slug, logo, position`,
		id, b.Name, b.Slug, b.Logo, b.Position))
	if err != nil {
		return catalog.Brand{}, fmt.Errorf("brands update: %w", err)
	}
	return updated, nil
}

// Delete removes a brand by ID
func (r *Brands) Delete(ctx context.Context, id string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, "DELETE FROM brands WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("brands delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("brands delete rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("brand not found")
	}
	return nil
}
