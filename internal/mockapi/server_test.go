package mockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtools-catalog/internal/catalog"
	"youtools-catalog/internal/localstore"
)

func newServer(t *testing.T) (*Server, *http.Client) {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "mock.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	s := New(store)
	require.NoError(t, s.Seed(context.Background()))
	return s, s.Client()
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	env := map[string]json.RawMessage{}
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func TestSeed_Categories(t *testing.T) {
	_, client := newServer(t)

	resp, env := doJSON(t, client, http.MethodGet, BaseURL+"/categories", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cats []catalog.Category
	require.NoError(t, json.Unmarshal(env["categories"], &cats))
	require.Len(t, cats, 5)

	slugs := map[string]bool{}
	for _, c := range cats {
		slugs[c.Slug] = true
	}
	assert.True(t, slugs["ferramentas-manuais"])
	assert.True(t, slugs["maquinas-eletricas"])
}

func TestProductLifecycle(t *testing.T) {
	_, client := newServer(t)

	resp, env := doJSON(t, client, http.MethodPost, BaseURL+"/products",
		catalog.Product{Name: "Drill", Price: 199.9, IsSpecialOffer: true})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created catalog.Product
	require.NoError(t, json.Unmarshal(env["product"], &created))
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	resp, env = doJSON(t, client, http.MethodGet, BaseURL+"/products/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got catalog.Product
	require.NoError(t, json.Unmarshal(env["product"], &got))
	assert.Equal(t, "Drill", got.Name)

	resp, env = doJSON(t, client, http.MethodPut, BaseURL+"/products/"+created.ID,
		catalog.Product{Name: "Impact Drill", Price: 249.9})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated catalog.Product
	require.NoError(t, json.Unmarshal(env["product"], &updated))
	assert.Equal(t, "Impact Drill", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	resp, _ = doJSON(t, client, http.MethodDelete, BaseURL+"/products/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodGet, BaseURL+"/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSpecialOffersRoute(t *testing.T) {
	_, client := newServer(t)

	doJSON(t, client, http.MethodPost, BaseURL+"/products", catalog.Product{Name: "Plain"})
	doJSON(t, client, http.MethodPost, BaseURL+"/products", catalog.Product{Name: "Deal", IsSpecialOffer: true})

	resp, env := doJSON(t, client, http.MethodGet, BaseURL+"/products/special-offers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var offers []catalog.Product
	require.NoError(t, json.Unmarshal(env["products"], &offers))
	require.Len(t, offers, 1)
	assert.Equal(t, "Deal", offers[0].Name)
}

func TestGetProduct_NotFound(t *testing.T) {
	_, client := newServer(t)

	req, _ := http.NewRequest(http.MethodGet, BaseURL+"/products/nope", nil)
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBrandAndPosterRoutes(t *testing.T) {
	_, client := newServer(t)

	resp, env := doJSON(t, client, http.MethodPost, BaseURL+"/brands",
		catalog.Brand{Name: "Makita", Slug: "makita"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var brand catalog.Brand
	require.NoError(t, json.Unmarshal(env["brand"], &brand))
	assert.NotEmpty(t, brand.ID)

	resp, env = doJSON(t, client, http.MethodPost, BaseURL+"/posters",
		catalog.Poster{Title: "Promo", ImageURL: "https://cdn/p.jpg", Active: true})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var poster catalog.Poster
	require.NoError(t, json.Unmarshal(env["poster"], &poster))
	assert.NotEmpty(t, poster.ID)

	resp, env = doJSON(t, client, http.MethodGet, BaseURL+"/brands", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var brands []catalog.Brand
	require.NoError(t, json.Unmarshal(env["brands"], &brands))
	assert.Len(t, brands, 1)

	resp, _ = doJSON(t, client, http.MethodDelete, BaseURL+"/posters/"+poster.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}
