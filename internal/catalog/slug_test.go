package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Makita", "makita"},
		{"ampersand", "Black & Decker", "black-decker"},
		{"surrounding whitespace", "  Makita  ", "makita"},
		{"accents", "Máquinas Elétricas", "maquinas-eletricas"},
		{"punctuation runs", "DeWalt -- 20V!!", "dewalt-20v"},
		{"digits kept", "3M", "3m"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}

func TestNormalizeProductImages(t *testing.T) {
	t.Run("images list wins", func(t *testing.T) {
		p := Product{ImageURL: "old.jpg", Images: []string{"a.jpg", "b.jpg"}}
		NormalizeProductImages(&p)
		assert.Equal(t, "a.jpg", p.ImageURL)
		assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.Images)
	})

	t.Run("lone image_url wrapped", func(t *testing.T) {
		p := Product{ImageURL: "a.jpg"}
		NormalizeProductImages(&p)
		assert.Equal(t, []string{"a.jpg"}, p.Images)
		assert.Equal(t, "a.jpg", p.ImageURL)
	})

	t.Run("gallery truncated to cap", func(t *testing.T) {
		p := Product{Images: []string{"1", "2", "3", "4", "5", "6", "7"}}
		NormalizeProductImages(&p)
		assert.Len(t, p.Images, MaxProductImages)
		assert.Equal(t, "1", p.ImageURL)
	})

	t.Run("idempotent", func(t *testing.T) {
		p := Product{ImageURL: "x.jpg", Images: []string{"y.jpg"}}
		NormalizeProductImages(&p)
		once := p
		NormalizeProductImages(&p)
		assert.Equal(t, once, p)
	})

	t.Run("nothing set", func(t *testing.T) {
		p := Product{}
		NormalizeProductImages(&p)
		assert.Empty(t, p.ImageURL)
		assert.Empty(t, p.Images)
	})
}
