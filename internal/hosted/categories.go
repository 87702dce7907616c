package hosted

import (
	"context"
	"database/sql"
	"fmt"

	"youtools-catalog/internal/catalog"
)

// Categories handles hosted-backend reads of the categories table. Categories
// are reference data; there is no write path.
type Categories struct {
	db *sql.DB
}

// NewCategories creates a hosted category repository
func NewCategories(db *sql.DB) *Categories {
	return &Categories{db: db}
}

// List retrieves all categories ordered by name
func (r *Categories) List(ctx context.Context) ([]catalog.Category, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, slug, created_at FROM categories ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("categories list: %w", err)
	}
	defer rows.Close()

	categories := []catalog.Category{}
	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("categories scan: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
