package hosted

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow feeds literal column values into a scanner; nil stands for SQL NULL.
type fakeRow struct {
	vals []any
}

func (r fakeRow) Scan(dest ...any) error {
	if len(dest) != len(r.vals) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(r.vals))
	}
	for i, d := range dest {
		v := r.vals[i]
		switch out := d.(type) {
		case *string:
			if v == nil {
				return fmt.Errorf("scan column %d: converting NULL to string is unsupported", i)
			}
			*out = v.(string)
		case *sql.NullString:
			if v == nil {
				*out = sql.NullString{}
			} else {
				*out = sql.NullString{String: v.(string), Valid: true}
			}
		case *sql.NullFloat64:
			if v == nil {
				*out = sql.NullFloat64{}
			} else {
				*out = sql.NullFloat64{Float64: v.(float64), Valid: true}
			}
		case *float64:
			*out = v.(float64)
		case *int:
			*out = v.(int)
		case *bool:
			*out = v.(bool)
		case *time.Time:
			*out = v.(time.Time)
		case *pq.StringArray:
			if v == nil {
				*out = nil
			} else {
				*out = pq.StringArray(v.([]string))
			}
		default:
			return fmt.Errorf("scan column %d: unsupported destination %T", i, d)
		}
	}
	return nil
}

func TestScanProduct_NullOptionalColumns(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	row := fakeRow{vals: []any{
		"p1", "Hammer",
		nil,        // brand
		nil,        // category
		nil,        // description
		9.5,        // price
		nil,        // original_price
		nil,        // image_url
		[]string{}, // images
		nil,        // code
		nil,        // badge
		1, true, false,
		now, now,
	}}

	p, err := scanProduct(row)
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Hammer", p.Name)
	assert.Empty(t, p.Brand)
	assert.Empty(t, p.Category)
	assert.Empty(t, p.Description)
	assert.Empty(t, p.ImageURL)
	assert.Empty(t, p.Code)
	assert.Empty(t, p.Badge)
	assert.Nil(t, p.OriginalPrice)
}

func TestScanProduct_PopulatedColumns(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	row := fakeRow{vals: []any{
		"p1", "Hammer", "makita", "ferramentas-manuais", "A hammer", 9.5, 12.5,
		"a.jpg", []string{"a.jpg", "b.jpg"}, "HM-1", "Novo", 2, true, true,
		now, now,
	}}

	p, err := scanProduct(row)
	require.NoError(t, err)
	assert.Equal(t, "makita", p.Brand)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.Images)
	require.NotNil(t, p.OriginalPrice)
	assert.Equal(t, 12.5, *p.OriginalPrice)
	assert.True(t, p.IsSpecialOffer)
}

func TestScanBrand_NullLogo(t *testing.T) {
	b, err := scanBrand(fakeRow{vals: []any{"b1", "Makita", "makita", nil, 1}})
	require.NoError(t, err)
	assert.Equal(t, "Makita", b.Name)
	assert.Empty(t, b.Logo)

	b, err = scanBrand(fakeRow{vals: []any{"b1", "Makita", "makita", "data:image/png;base64,AA", 1}})
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AA", b.Logo)
}

func TestScanPoster_NullTitle(t *testing.T) {
	p, err := scanPoster(fakeRow{vals: []any{"po1", "https://cdn/p.jpg", nil, 1, true}})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/p.jpg", p.ImageURL)
	assert.Empty(t, p.Title)
	assert.True(t, p.Active)
}
