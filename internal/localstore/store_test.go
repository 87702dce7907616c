package localstore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"youtools-catalog/internal/catalog"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_FreshDatabaseAtCurrentSchema(t *testing.T) {
	s := openStore(t)
	v, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, v)
}

func TestMigrate_BackfillsBrandField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v1.db")

	// Build a version 1 database by hand: products stored without a brand key.
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	err = db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}
		if err := meta.Put([]byte(keySchemaVersion), []byte("1")); err != nil {
			return err
		}
		products, err := tx.CreateBucketIfNotExists(bucketProducts)
		if err != nil {
			return err
		}
		old := map[string]any{"id": "p1", "name": "Hammer", "price": 9.5}
		raw, _ := json.Marshal(old)
		return products.Put([]byte("p1"), raw)
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	p, err := s.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Hammer", p.Name)
	assert.Equal(t, "", p.Brand)

	// The raw record must now carry the key, not just decode to a zero value.
	err = s.db.View(func(tx *bolt.Tx) error {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(tx.Bucket(bucketProducts).Get([]byte("p1")), &rec))
		_, ok := rec["brand"]
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)
}

func TestProductCRUD(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	p := catalog.Product{ID: "p1", Name: "Drill", Price: 199.9, Position: 1}
	require.NoError(t, s.PutProduct(ctx, p))

	got, err := s.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	p.Price = 149.9
	require.NoError(t, s.PutProduct(ctx, p))
	got, err = s.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 149.9, got.Price)

	require.NoError(t, s.DeleteProduct(ctx, "p1"))
	_, err = s.GetProduct(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteProduct(ctx, "p1"), ErrNotFound)
}

func TestListProducts_OrderedByPositionThenID(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutProduct(ctx, catalog.Product{ID: "b", Position: 2}))
	require.NoError(t, s.PutProduct(ctx, catalog.Product{ID: "c", Position: 1}))
	require.NoError(t, s.PutProduct(ctx, catalog.Product{ID: "a", Position: 2}))

	items, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "c", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
	assert.Equal(t, "b", items[2].ID)
}

func TestReplaceProducts_SwapsSnapshot(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutProduct(ctx, catalog.Product{ID: "stale"}))
	require.NoError(t, s.ReplaceProducts(ctx, []catalog.Product{{ID: "fresh", Name: "New"}}))

	items, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "fresh", items[0].ID)

	_, err = s.GetProduct(ctx, "stale")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBrandOrderPersistence(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	order, err := s.BrandOrder(ctx)
	require.NoError(t, err)
	assert.Empty(t, order)

	require.NoError(t, s.SetBrandOrder(ctx, []string{"b3", "b1", "b2"}))
	order, err = s.BrandOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b3", "b1", "b2"}, order)
}

func TestListBrands_HonorsManualOrder(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutBrand(ctx, catalog.Brand{ID: "b1", Name: "Alpha", Position: 1}))
	require.NoError(t, s.PutBrand(ctx, catalog.Brand{ID: "b2", Name: "Beta", Position: 2}))
	require.NoError(t, s.PutBrand(ctx, catalog.Brand{ID: "b3", Name: "Gamma", Position: 3}))

	// Positions say b1,b2,b3; the saved drag order wins.
	require.NoError(t, s.SetBrandOrder(ctx, []string{"b3", "b1", "b2"}))

	items, err := s.ListBrands(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"b3", "b1", "b2"}, []string{items[0].ID, items[1].ID, items[2].ID})
}

func TestListBrands_UnrankedEntriesKeepPositionOrder(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutBrand(ctx, catalog.Brand{ID: "b1", Position: 1}))
	require.NoError(t, s.PutBrand(ctx, catalog.Brand{ID: "b2", Position: 2}))
	require.NoError(t, s.PutBrand(ctx, catalog.Brand{ID: "b3", Position: 3}))

	// b3 was created after the last drag, so the order list does not know it.
	require.NoError(t, s.SetBrandOrder(ctx, []string{"b2", "b1"}))

	items, err := s.ListBrands(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"b2", "b1", "b3"}, []string{items[0].ID, items[1].ID, items[2].ID})
}

func TestListPosters_HonorsManualOrder(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutPoster(ctx, catalog.Poster{ID: "p1", Position: 1}))
	require.NoError(t, s.PutPoster(ctx, catalog.Poster{ID: "p2", Position: 2}))
	require.NoError(t, s.SetPosterOrder(ctx, []string{"p2", "p1"}))

	items, err := s.ListPosters(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "p2", items[0].ID)
	assert.Equal(t, "p1", items[1].ID)
}

func TestPosterOrderPersistence(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetPosterOrder(ctx, []string{"x", "y"}))
	order, err := s.PosterOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, order)
}

func TestCategories_SortedByName(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceCategories(ctx, []catalog.Category{
		{ID: 2, Name: "Máquinas Elétricas", Slug: "maquinas-eletricas"},
		{ID: 1, Name: "Ferramentas Manuais", Slug: "ferramentas-manuais"},
	}))

	items, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Ferramentas Manuais", items[0].Name)
}
