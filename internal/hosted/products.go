package hosted

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"youtools-catalog/internal/catalog"
)

// Products handles hosted-backend operations for the products table
type Products struct {
	db *sql.DB
}

// NewProducts creates a hosted product repository
func NewProducts(db *sql.DB) *Products {
	return &Products{db: db}
}

const productColumns = `id, name, brand, category, description, price, original_price,
	       image_url, COALESCE(images, '{}'::text[]) as images,
	       code, badge, position, in_stock, is_special_offer, created_at, updated_at`

// scanProduct tolerates NULL in every optional column; the table predates the
// brand column and several text fields were never backfilled.
func scanProduct(row interface{ Scan(...any) error }) (catalog.Product, error) {
	var p catalog.Product
	var images pq.StringArray
	var originalPrice sql.NullFloat64
	var brand, category, description, imageURL, code, badge sql.NullString

	err := row.Scan(
		&p.ID, &p.Name, &brand, &category, &description, &p.Price, &originalPrice,
		&imageURL, &images, &code, &badge, &p.Position, &p.InStock, &p.IsSpecialOffer,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return catalog.Product{}, err
	}

	p.Brand = brand.String
	p.Category = category.String
	p.Description = description.String
	p.ImageURL = imageURL.String
	p.Code = code.String
	p.Badge = badge.String
	p.Images = []string(images)
	if originalPrice.Valid {
		p.OriginalPrice = &originalPrice.Float64
	}
	return p, nil
}

// List retrieves all products ordered by position, then id
func (r *Products) List(ctx context.Context) ([]catalog.Product, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM products ORDER BY position ASC, id ASC", productColumns)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("products list: %w", err)
	}
	defer rows.Close()

	products := []catalog.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("products scan: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Get retrieves a single product by ID
func (r *Products) Get(ctx context.Context, id string) (catalog.Product, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return catalog.Product{}, fmt.Errorf("products get: %w", err)
	}
	return p, nil
}

// Create inserts a new product
func (r *Products) Create(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := fmt.Sprintf(`
		INSERT INTO products (
			id, name, brand, category, description, price, original_price,
			image_url, images, code, badge, position, in_stock, is_special_offer
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING %s`, productColumns)

	created, err := scanProduct(r.db.QueryRowContext(ctx, query,
		p.ID, p.Name, p.Brand, p.Category, p.Description, p.Price, p.OriginalPrice,
		p.ImageURL, pq.Array(p.Images), p.Code, p.Badge, p.Position, p.InStock, p.IsSpecialOffer,
	))
	if err != nil {
		return catalog.Product{}, fmt.Errorf("products create: %w", err)
	}
	return created, nil
}

// Update replaces the mutable fields of a product
func (r *Products) Update(ctx context.Context, id string, p catalog.Product) (catalog.Product, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		UPDATE products SET
			name = $2, brand = $3, category = $4, description = $5, price = $6,
			original_price = $7, image_url = $8, images = $9, code = $10,
			badge = $11, position = $12, in_stock = $13, is_special_offer = $14,
			updated_at = now()
		WHERE id = $1
		RETURNING %s`, productColumns)

	updated, err := scanProduct(r.db.QueryRowContext(ctx, query,
		id, p.Name, p.Brand, p.Category, p.Description, p.Price, p.OriginalPrice,
		p.ImageURL, pq.Array(p.Images), p.Code, p.Badge, p.Position, p.InStock, p.IsSpecialOffer,
	))
	if err != nil {
		return catalog.Product{}, fmt.Errorf("products update: %w", err)
	}
	return updated, nil
}

// Delete removes a product by ID
func (r *Products) Delete(ctx context.Context, id string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("products delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("products delete rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("product not found")
	}
	return nil
}
