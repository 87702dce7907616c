package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"youtools-catalog/internal/cache"
	"youtools-catalog/internal/catalog"
	"youtools-catalog/internal/hosted"
	"youtools-catalog/internal/localstore"
	"youtools-catalog/internal/logger"
)

const (
	keyAllProducts   = "all-products"
	keyProductPrefix = "product-"
	keySpecialOffers = "special-offers"
)

// Products is the data-access service for the product entity: fallback chain
// plus a read-through cache with request de-duplication for the two
// highest-traffic reads (full list and detail lookups).
type Products struct {
	chain *chain[catalog.Product]
	cache *cache.ResultCache
	local *localstore.Store
}

// NewProducts wires the product fallback chain from the configured backends.
func NewProducts(b Backends, rc *cache.ResultCache) *Products {
	ch := &chain[catalog.Product]{entity: "products"}
	if b.Hosted != nil {
		ch.add(BackendHosted, hosted.NewProducts(b.Hosted))
	}
	if b.Mock != nil {
		ch.add(BackendMock, newMockRepo[catalog.Product](b.Mock, b.MockURL+"/products", "products", "product"))
	}
	ch.add(BackendLocal, localProductRepo(b.Local))

	return &Products{chain: ch, cache: rc, local: b.Local}
}

func localProductRepo(s *localstore.Store) repo[catalog.Product] {
	return funcRepo[catalog.Product]{
		list: s.ListProducts,
		get:  s.GetProduct,
		create: func(ctx context.Context, p catalog.Product) (catalog.Product, error) {
			if p.ID == "" {
				p.ID = uuid.New().String()
			}
			now := time.Now().UTC()
			p.CreatedAt = now
			p.UpdatedAt = now
			return p, s.PutProduct(ctx, p)
		},
		update: func(ctx context.Context, id string, p catalog.Product) (catalog.Product, error) {
			existing, err := s.GetProduct(ctx, id)
			if err != nil {
				return catalog.Product{}, err
			}
			p.ID = id
			p.CreatedAt = existing.CreatedAt
			p.UpdatedAt = time.Now().UTC()
			return p, s.PutProduct(ctx, p)
		},
		remove: s.DeleteProduct,
	}
}

// List returns all products, cached for the TTL window.
func (s *Products) List(ctx context.Context) catalog.Result {
	return s.cache.GetOrFetch(keyAllProducts, func() catalog.Result {
		return s.listUncached(ctx)
	})
}

func (s *Products) listUncached(ctx context.Context) catalog.Result {
	items, kind, err := s.chain.List(ctx)
	if err != nil {
		// Read paths never error the UI: render empty rather than crash.
		return catalog.OK([]catalog.Product{})
	}

	for i := range items {
		catalog.NormalizeProductImages(&items[i])
	}
	s.refreshSnapshot(ctx, kind, items)

	r := catalog.OK(items)
	r.Remote = kind == BackendHosted
	r.Fallback = kind == BackendLocal
	return r
}

// refreshSnapshot keeps the local store a last-known-good copy of whatever a
// real backend served.
func (s *Products) refreshSnapshot(ctx context.Context, kind Backend, items []catalog.Product) {
	if kind == BackendLocal {
		return
	}
	if err := s.local.ReplaceProducts(ctx, items); err != nil {
		logger.Warnf("products snapshot refresh: %v", err)
	}
}

// Get returns a single product by id, cached for the TTL window.
func (s *Products) Get(ctx context.Context, id string) catalog.Result {
	return s.cache.GetOrFetch(keyProductPrefix+id, func() catalog.Result {
		item, kind, err := s.chain.Get(ctx, id)
		if err != nil {
			return catalog.Fail(err.Error())
		}
		catalog.NormalizeProductImages(&item)

		r := catalog.OK(item)
		r.Remote = kind == BackendHosted
		r.Fallback = kind == BackendLocal
		return r
	})
}

// SpecialOffers returns the products flagged as special offers.
func (s *Products) SpecialOffers(ctx context.Context) catalog.Result {
	return s.cache.GetOrFetch(keySpecialOffers, func() catalog.Result {
		r := s.List(ctx)
		if !r.Success {
			return r
		}
		all, _ := r.Data.([]catalog.Product)
		offers := []catalog.Product{}
		for _, p := range all {
			if p.IsSpecialOffer {
				offers = append(offers, p)
			}
		}
		filtered := r
		filtered.Data = offers
		return filtered
	})
}

// Create adds a product, appending it at position max+1 unless the caller
// chose one. Any successful mutation clears the whole product cache.
func (s *Products) Create(ctx context.Context, p catalog.Product) catalog.Result {
	catalog.NormalizeProductImages(&p)
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Position == 0 {
		p.Position = s.nextPosition(ctx)
	}

	created, kind, err := s.chain.Create(ctx, p)
	if err != nil {
		return catalog.Fail(err.Error())
	}
	if kind != BackendLocal {
		if err := s.local.PutProduct(ctx, created); err != nil {
			logger.Warnf("products snapshot put: %v", err)
		}
	}
	s.cache.Clear()

	r := catalog.OK(created)
	r.Remote = kind == BackendHosted
	r.LocalOnly = kind == BackendLocal
	return r
}

// Update replaces a product's mutable fields.
func (s *Products) Update(ctx context.Context, id string, p catalog.Product) catalog.Result {
	catalog.NormalizeProductImages(&p)

	updated, kind, err := s.chain.Update(ctx, id, p)
	if err != nil {
		return catalog.Fail(err.Error())
	}
	if kind != BackendLocal {
		if err := s.local.PutProduct(ctx, updated); err != nil {
			logger.Warnf("products snapshot put: %v", err)
		}
	}
	s.cache.Clear()

	r := catalog.OK(updated)
	r.Remote = kind == BackendHosted
	r.LocalOnly = kind == BackendLocal
	return r
}

// Delete removes a product.
func (s *Products) Delete(ctx context.Context, id string) catalog.Result {
	kind, err := s.chain.Delete(ctx, id)
	if err != nil {
		return catalog.Fail(err.Error())
	}
	if kind != BackendLocal {
		if err := s.local.DeleteProduct(ctx, id); err != nil && !errors.Is(err, localstore.ErrNotFound) {
			logger.Warnf("products snapshot delete: %v", err)
		}
	}
	s.cache.Clear()

	r := catalog.Result{Success: true, Message: "Product deleted successfully"}
	r.Remote = kind == BackendHosted
	r.LocalOnly = kind == BackendLocal
	return r
}

// nextPosition queries the current maximum before insert. Read-then-write is
// fine here: writes are operator-driven, not concurrent.
func (s *Products) nextPosition(ctx context.Context) int {
	r := s.List(ctx)
	items, _ := r.Data.([]catalog.Product)
	max := 0
	for _, p := range items {
		if p.Position > max {
			max = p.Position
		}
	}
	return max + 1
}
