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

// Posters is the data-access service for the homepage carousel banners.
type Posters struct {
	chain *chain[catalog.Poster]
	local *localstore.Store
	blobs *blobcache.Cache
}

// NewPosters wires the poster fallback chain from the configured backends.
func NewPosters(b Backends, blobs *blobcache.Cache) *Posters {
	ch := &chain[catalog.Poster]{entity: "posters"}
	if b.Hosted != nil {
		ch.add(BackendHosted, hosted.NewPosters(b.Hosted))
	}
	if b.Mock != nil {
		ch.add(BackendMock, newMockRepo[catalog.Poster](b.Mock, b.MockURL+"/posters", "posters", "poster"))
	}
	ch.add(BackendLocal, localPosterRepo(b.Local))

	return &Posters{chain: ch, local: b.Local, blobs: blobs}
}

func localPosterRepo(s *localstore.Store) repo[catalog.Poster] {
	return funcRepo[catalog.Poster]{
		list: s.ListPosters,
		get:  s.GetPoster,
		create: func(ctx context.Context, p catalog.Poster) (catalog.Poster, error) {
			if p.ID == "" {
				p.ID = uuid.New().String()
			}
			return p, s.PutPoster(ctx, p)
		},
		update: func(ctx context.Context, id string, p catalog.Poster) (catalog.Poster, error) {
			if _, err := s.GetPoster(ctx, id); err != nil {
				return catalog.Poster{}, err
			}
			p.ID = id
			return p, s.PutPoster(ctx, p)
		},
		remove: s.DeletePoster,
	}
}

// List returns all posters with images healed from the side-cache.
func (s *Posters) List(ctx context.Context) catalog.Result {
	items, kind, err := s.chain.List(ctx)
	if err != nil {
		return catalog.OK([]catalog.Poster{})
	}

	items = s.blobs.EnsurePosterImages(items)
	if kind != BackendLocal {
		if err := s.local.ReplacePosters(ctx, items); err != nil {
			logger.Warnf("posters snapshot refresh: %v", err)
		}
	}

	r := catalog.OK(items)
	r.Remote = kind == BackendHosted
	r.Fallback = kind == BackendLocal
	return r
}

// Create adds a poster at position max+1, compressing inline images to the
// poster budget.
func (s *Posters) Create(ctx context.Context, p catalog.Poster) catalog.Result {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.ImageURL = s.compressImage(p.ImageURL)
	if p.Position == 0 {
		p.Position = s.nextPosition(ctx)
	}

	created, kind, err := s.chain.Create(ctx, p)
	if err != nil {
		return catalog.Fail(err.Error())
	}
	s.cacheImage(created)
	if kind != BackendLocal {
		if err := s.local.PutPoster(ctx, created); err != nil {
			logger.Warnf("posters snapshot put: %v", err)
		}
	}

	r := catalog.OK(created)
	r.Remote = kind == BackendHosted
	r.LocalOnly = kind == BackendLocal
	return r
}

// Update edits a poster.
func (s *Posters) Update(ctx context.Context, id string, p catalog.Poster) catalog.Result {
	p.ID = id
	p.ImageURL = s.compressImage(p.ImageURL)

	updated, kind, err := s.chain.Update(ctx, id, p)
	if err != nil {
		return catalog.Fail(err.Error())
	}
	s.cacheImage(updated)
	if kind != BackendLocal {
		if err := s.local.PutPoster(ctx, updated); err != nil {
			logger.Warnf("posters snapshot put: %v", err)
		}
	}

	r := catalog.OK(updated)
	r.Remote = kind == BackendHosted
	r.LocalOnly = kind == BackendLocal
	return r
}

// Delete removes a poster.
func (s *Posters) Delete(ctx context.Context, id string) catalog.Result {
	kind, err := s.chain.Delete(ctx, id)
	if err != nil {
		return catalog.Fail(err.Error())
	}
	if kind != BackendLocal {
		if err := s.local.DeletePoster(ctx, id); err != nil && !errors.Is(err, localstore.ErrNotFound) {
			logger.Warnf("posters snapshot delete: %v", err)
		}
	}

	r := catalog.Result{Success: true, Message: "Poster deleted successfully"}
	r.Remote = kind == BackendHosted
	r.LocalOnly = kind == BackendLocal
	return r
}

// Reorder recomputes positions from the dragged order and persists it.
func (s *Posters) Reorder(ctx context.Context, ids []string) catalog.Result {
	current := s.List(ctx)
	if !current.Success {
		return current
	}
	byID := map[string]catalog.Poster{}
	items, _ := current.Data.([]catalog.Poster)
	for _, p := range items {
		byID[p.ID] = p
	}

	localOnly := false
	for i, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		p.Position = i + 1
		_, kind, err := s.chain.Update(ctx, id, p)
		if err != nil {
			return catalog.Fail(err.Error())
		}
		if kind == BackendLocal {
			localOnly = true
		} else if err := s.local.PutPoster(ctx, p); err != nil {
			logger.Warnf("posters snapshot put: %v", err)
		}
	}
	if err := s.local.SetPosterOrder(ctx, ids); err != nil {
		logger.Warnf("posters order persist: %v", err)
	}

	r := s.List(ctx)
	r.LocalOnly = localOnly
	return r
}

func (s *Posters) compressImage(image string) string {
	if !strings.HasPrefix(image, "data:") {
		return image
	}
	out, err := imaging.CompressDataURI(image, imaging.PosterOptions)
	if err != nil {
		logger.Warnf("poster compression failed, keeping original: %v", err)
		return image
	}
	return out
}

func (s *Posters) cacheImage(p catalog.Poster) {
	if strings.HasPrefix(p.ImageURL, "data:") {
		s.blobs.Save(blobcache.Posters, p.ID, p.ImageURL)
	}
}

func (s *Posters) nextPosition(ctx context.Context) int {
	r := s.List(ctx)
	items, _ := r.Data.([]catalog.Poster)
	max := 0
	for _, p := range items {
		if p.Position > max {
			max = p.Position
		}
	}
	return max + 1
}
