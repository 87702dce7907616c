package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"youtools-catalog/internal/blobcache"
	"youtools-catalog/internal/catalog"
	"youtools-catalog/internal/hosted"
	"youtools-catalog/internal/imaging"
	"youtools-catalog/internal/localstore"
	"youtools-catalog/internal/logger"
)

// Brands is the data-access service for brands: fallback chain, slug
// management, manual ordering and the logo side-cache.
type Brands struct {
	chain *chain[catalog.Brand]
	local *localstore.Store
	blobs *blobcache.Cache
}

// NewBrands wires the brand fallback chain from the configured backends.
func NewBrands(b Backends, blobs *blobcache.Cache) *Brands {
	ch := &chain[catalog.Brand]{entity: "brands"}
	if b.Hosted != nil {
		ch.add(BackendHosted, hosted.NewBrands(b.Hosted))
	}
	if b.Mock != nil {
		ch.add(BackendMock, newMockRepo[catalog.Brand](b.Mock, b.MockURL+"/brands", "brands", "brand"))
	}
	ch.add(BackendLocal, localBrandRepo(b.Local))

	return &Brands{chain: ch, local: b.Local, blobs: blobs}
}

func localBrandRepo(s *localstore.Store) repo[catalog.Brand] {
	return funcRepo[catalog.Brand]{
		list: s.ListBrands,
		get:  s.GetBrand,
		create: func(ctx context.Context, b catalog.Brand) (catalog.Brand, error) {
			if b.ID == "" {
				b.ID = uuid.New().String()
			}
			return b, s.PutBrand(ctx, b)
		},
		update: func(ctx context.Context, id string, b catalog.Brand) (catalog.Brand, error) {
			if _, err := s.GetBrand(ctx, id); err != nil {
				return catalog.Brand{}, err
			}
			b.ID = id
			return b, s.PutBrand(ctx, b)
		},
		remove: s.DeleteBrand,
	}
}

// List returns all brands with logos healed from the side-cache.
func (s *Brands) List(ctx context.Context) catalog.Result {
	items, kind, err := s.chain.List(ctx)
	if err != nil {
		return catalog.OK([]catalog.Brand{})
	}

	items = s.blobs.EnsureBrandLogos(items)
	if kind != BackendLocal {
		if err := s.local.ReplaceBrands(ctx, items); err != nil {
			logger.Warnf("brands snapshot refresh: %v", err)
		}
	}

	r := catalog.OK(items)
	r.Remote = kind == BackendHosted
	r.Fallback = kind == BackendLocal
	return r
}

// Create adds a brand. The slug is derived from the name, the logo is
// compressed to the logo budget when it is an inline image, and the brand is
// appended at position max+1.
func (s *Brands) Create(ctx context.Context, b catalog.Brand) catalog.Result {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.Slug = brandSlug(b)
	b.Logo = s.compressLogo(b.Logo)
	if b.Position == 0 {
		b.Position = s.nextPosition(ctx)
	}

	created, kind, err := s.chain.Create(ctx, b)
	if err != nil {
		return catalog.Fail(err.Error())
	}
	s.cacheLogo(created)
	if kind != BackendLocal {
		if err := s.local.PutBrand(ctx, created); err != nil {
			logger.Warnf("brands snapshot put: %v", err)
		}
	}

	r := catalog.OK(created)
	r.Remote = kind == BackendHosted
	r.LocalOnly = kind == BackendLocal
	return r
}

// Update edits a brand. The slug is regenerated from the (possibly new)
// name, so a rename moves the brand's public URL.
func (s *Brands) Update(ctx context.Context, id string, b catalog.Brand) catalog.Result {
	b.ID = id
	b.Slug = brandSlug(b)
	b.Logo = s.compressLogo(b.Logo)

	updated, kind, err := s.chain.Update(ctx, id, b)
	if err != nil {
		return catalog.Fail(err.Error())
	}
	s.cacheLogo(updated)
	if kind != BackendLocal {
		if err := s.local.PutBrand(ctx, updated); err != nil {
			logger.Warnf("brands snapshot put: %v", err)
		}
	}

	r := catalog.OK(updated)
	r.Remote = kind == BackendHosted
	r.LocalOnly = kind == BackendLocal
	return r
}

// Delete removes a brand.
func (s *Brands) Delete(ctx context.Context, id string) catalog.Result {
	kind, err := s.chain.Delete(ctx, id)
	if err != nil {
		return catalog.Fail(err.Error())
	}
	if kind != BackendLocal {
		if err := s.local.DeleteBrand(ctx, id); err != nil && !errors.Is(err, localstore.ErrNotFound) {
			logger.Warnf("brands snapshot delete: %v", err)
		}
	}

	r := catalog.Result{Success: true, Message: "Brand deleted successfully"}
	r.Remote = kind == BackendHosted
	r.LocalOnly = kind == BackendLocal
	return r
}

// Reorder recomputes positions for the full visible set from the dragged
// order and persists it; the next List returns brands in exactly this order.
func (s *Brands) Reorder(ctx context.Context, ids []string) catalog.Result {
	current := s.List(ctx)
	if !current.Success {
		return current
	}
	byID := map[string]catalog.Brand{}
	items, _ := current.Data.([]catalog.Brand)
	for _, b := range items {
		byID[b.ID] = b
	}

	localOnly := false
	for i, id := range ids {
		b, ok := byID[id]
		if !ok {
			continue
		}
		b.Position = i + 1
		_, kind, err := s.chain.Update(ctx, id, b)
		if err != nil {
			return catalog.Fail(err.Error())
		}
		if kind == BackendLocal {
			localOnly = true
		} else if err := s.local.PutBrand(ctx, b); err != nil {
			logger.Warnf("brands snapshot put: %v", err)
		}
	}
	if err := s.local.SetBrandOrder(ctx, ids); err != nil {
		logger.Warnf("brands order persist: %v", err)
	}

	r := s.List(ctx)
	r.LocalOnly = localOnly
	return r
}

func brandSlug(b catalog.Brand) string {
	if slug := catalog.Slugify(b.Name); slug != "" {
		return slug
	}
	return b.ID
}

// compressLogo bounds inline logo payloads; on any compression failure the
// original payload is kept so the upload never blocks.
func (s *Brands) compressLogo(logo string) string {
	if !strings.HasPrefix(logo, "data:") {
		return logo
	}
	out, err := imaging.CompressDataURI(logo, imaging.LogoOptions)
	if err != nil {
		logger.Warnf("logo compression failed, keeping original: %v", err)
		return logo
	}
	return out
}

func (s *Brands) cacheLogo(b catalog.Brand) {
	if strings.HasPrefix(b.Logo, "data:") {
		key := b.ID
		if key == "" {
			key = b.Slug
		}
		s.blobs.Save(blobcache.Logos, key, b.Logo)
	}
}

func (s *Brands) nextPosition(ctx context.Context) int {
	r := s.List(ctx)
	items, _ := r.Data.([]catalog.Brand)
	max := 0
	for _, b := range items {
		if b.Position > max {
			max = b.Position
		}
	}
	return max + 1
}
