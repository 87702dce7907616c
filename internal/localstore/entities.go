package localstore

import (
	"context"
	"fmt"
	"sort"

	"youtools-catalog/internal/catalog"
)

// Listing order everywhere: position ascending, id ascending as tie-break.
// Brands and posters additionally honor a manually persisted order list,
// which wins over positions when the two disagree (a backend refresh can
// overwrite positions after a drag that only reached local state).

func applyManualOrder[T any](items []T, order []string, idOf func(T) string) {
	if len(order) == 0 {
		return
	}
	rank := make(map[string]int, len(order))
	for i, id := range order {
		rank[id] = i
	}
	sort.SliceStable(items, func(i, j int) bool {
		ri, iok := rank[idOf(items[i])]
		rj, jok := rank[idOf(items[j])]
		if iok && jok {
			return ri < rj
		}
		// ranked entries first, the rest keep position order
		return iok && !jok
	})
}

// ListProducts returns the product snapshot.
func (s *Store) ListProducts(_ context.Context) ([]catalog.Product, error) {
	items, err := listBucket[catalog.Product](s, bucketProducts)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// GetProduct returns a single product or ErrNotFound.
func (s *Store) GetProduct(_ context.Context, id string) (catalog.Product, error) {
	return getBucket[catalog.Product](s, bucketProducts, id)
}

// PutProduct upserts a product.
func (s *Store) PutProduct(_ context.Context, p catalog.Product) error {
	return putBucket(s, bucketProducts, p.ID, p)
}

// DeleteProduct removes a product or returns ErrNotFound.
func (s *Store) DeleteProduct(_ context.Context, id string) error {
	return deleteBucket(s, bucketProducts, id)
}

// ReplaceProducts swaps the whole product snapshot.
func (s *Store) ReplaceProducts(_ context.Context, items []catalog.Product) error {
	return replaceBucket(s, bucketProducts, items, func(p catalog.Product) string { return p.ID })
}

// ListBrands returns the brand snapshot in manual order when one is saved.
func (s *Store) ListBrands(_ context.Context) ([]catalog.Brand, error) {
	items, err := listBucket[catalog.Brand](s, bucketBrands)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].ID < items[j].ID
	})
	if order, err := s.getOrder(keyBrandsOrder); err == nil {
		applyManualOrder(items, order, func(b catalog.Brand) string { return b.ID })
	}
	return items, nil
}

// GetBrand returns a single brand or ErrNotFound.
func (s *Store) GetBrand(_ context.Context, id string) (catalog.Brand, error) {
	return getBucket[catalog.Brand](s, bucketBrands, id)
}

// PutBrand upserts a brand.
func (s *Store) PutBrand(_ context.Context, b catalog.Brand) error {
	return putBucket(s, bucketBrands, b.ID, b)
}

// DeleteBrand removes a brand or returns ErrNotFound.
func (s *Store) DeleteBrand(_ context.Context, id string) error {
	return deleteBucket(s, bucketBrands, id)
}

// ReplaceBrands swaps the whole brand snapshot.
func (s *Store) ReplaceBrands(_ context.Context, items []catalog.Brand) error {
	return replaceBucket(s, bucketBrands, items, func(b catalog.Brand) string { return b.ID })
}

// BrandOrder returns the manually persisted brand order.
func (s *Store) BrandOrder(_ context.Context) ([]string, error) {
	return s.getOrder(keyBrandsOrder)
}

// SetBrandOrder persists a manual brand order.
func (s *Store) SetBrandOrder(_ context.Context, ids []string) error {
	return s.setOrder(keyBrandsOrder, ids)
}

// ListPosters returns the poster snapshot in manual order when one is saved.
func (s *Store) ListPosters(_ context.Context) ([]catalog.Poster, error) {
	items, err := listBucket[catalog.Poster](s, bucketPosters)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].ID < items[j].ID
	})
	if order, err := s.getOrder(keyPostersOrder); err == nil {
		applyManualOrder(items, order, func(p catalog.Poster) string { return p.ID })
	}
	return items, nil
}

// GetPoster returns a single poster or ErrNotFound.
func (s *Store) GetPoster(_ context.Context, id string) (catalog.Poster, error) {
	return getBucket[catalog.Poster](s, bucketPosters, id)
}

// PutPoster upserts a poster.
func (s *Store) PutPoster(_ context.Context, p catalog.Poster) error {
	return putBucket(s, bucketPosters, p.ID, p)
}

// DeletePoster removes a poster or returns ErrNotFound.
func (s *Store) DeletePoster(_ context.Context, id string) error {
	return deleteBucket(s, bucketPosters, id)
}

// ReplacePosters swaps the whole poster snapshot.
func (s *Store) ReplacePosters(_ context.Context, items []catalog.Poster) error {
	return replaceBucket(s, bucketPosters, items, func(p catalog.Poster) string { return p.ID })
}

// PosterOrder returns the manually persisted poster order.
func (s *Store) PosterOrder(_ context.Context) ([]string, error) {
	return s.getOrder(keyPostersOrder)
}

// SetPosterOrder persists a manual poster order.
func (s *Store) SetPosterOrder(_ context.Context, ids []string) error {
	return s.setOrder(keyPostersOrder, ids)
}

// ListCategories returns the category snapshot sorted by name.
func (s *Store) ListCategories(_ context.Context) ([]catalog.Category, error) {
	items, err := listBucket[catalog.Category](s, bucketCategories)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// ReplaceCategories swaps the category snapshot.
func (s *Store) ReplaceCategories(_ context.Context, items []catalog.Category) error {
	return replaceBucket(s, bucketCategories, items, func(c catalog.Category) string {
		return categoryKey(c.ID)
	})
}

func categoryKey(id int64) string {
	// zero-padded so bucket iteration keeps numeric order
	return fmt.Sprintf("%010d", id)
}
