package service

import (
	"context"

	"youtools-catalog/internal/catalog"
	"youtools-catalog/internal/hosted"
	"youtools-catalog/internal/logger"
)

// lister is the read-only contract categories need; they are reference data
// with no write path.
type lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

type listStrategy struct {
	kind Backend
	list lister[catalog.Category]
}

// Categories is the read-only data-access service for categories.
type Categories struct {
	strategies []listStrategy
	backends   Backends
}

// NewCategories wires the category fallback chain from the configured
// backends.
func NewCategories(b Backends) *Categories {
	s := &Categories{backends: b}
	if b.Hosted != nil {
		s.strategies = append(s.strategies, listStrategy{BackendHosted, hosted.NewCategories(b.Hosted)})
	}
	if b.Mock != nil {
		s.strategies = append(s.strategies, listStrategy{BackendMock,
			newMockRepo[catalog.Category](b.Mock, b.MockURL+"/categories", "categories", "category")})
	}
	s.strategies = append(s.strategies, listStrategy{BackendLocal,
		funcRepo[catalog.Category]{list: b.Local.ListCategories}})
	return s
}

// List returns all categories, or an empty set when every strategy fails.
func (s *Categories) List(ctx context.Context) catalog.Result {
	for _, st := range s.strategies {
		items, err := st.list.List(ctx)
		if err != nil {
			logger.Warnf("categories list via %s backend: %v", st.kind, err)
			continue
		}

		if st.kind != BackendLocal {
			if err := s.backends.Local.ReplaceCategories(ctx, items); err != nil {
				logger.Warnf("categories snapshot refresh: %v", err)
			}
		}

		r := catalog.OK(items)
		r.Remote = st.kind == BackendHosted
		r.Fallback = st.kind == BackendLocal
		return r
	}
	return catalog.OK([]catalog.Category{})
}
