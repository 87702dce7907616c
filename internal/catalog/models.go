package catalog

import "time"

// MaxProductImages caps the per-product image gallery. The first entry is the
// primary image; image_url always mirrors it after normalization.
const MaxProductImages = 5

// Product represents a product in the catalog
type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Brand          string    `json:"brand"` // Brand.Slug reference
	Category       string    `json:"category,omitempty"`
	Description    string    `json:"description,omitempty"`
	Price          float64   `json:"price"`
	OriginalPrice  *float64  `json:"original_price,omitempty"`
	ImageURL       string    `json:"image_url"`
	Images         []string  `json:"images,omitempty"`
	Code           string    `json:"code,omitempty"`
	Badge          string    `json:"badge,omitempty"`
	Position       int       `json:"position"`
	InStock        bool      `json:"in_stock"`
	IsSpecialOffer bool      `json:"is_special_offer"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Brand represents a manufacturer shown on the storefront brand rail
type Brand struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Logo     string `json:"logo,omitempty"`
	Position int    `json:"position"`
}

// Poster is a homepage carousel banner
type Poster struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
	Title    string `json:"title,omitempty"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
}

// Category is reference data used for filtering and admin categorization
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}
