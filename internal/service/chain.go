package service

import (
	"context"
	"errors"

	"youtools-catalog/internal/logger"
)

// Backend identifies which strategy served an operation; the envelope's
// diagnostic flags derive from it.
type Backend int

const (
	BackendHosted Backend = iota
	BackendMock
	BackendLocal
)

func (b Backend) String() string {
	switch b {
	case BackendHosted:
		return "hosted"
	case BackendMock:
		return "mock"
	default:
		return "local"
	}
}

var errNoBackend = errors.New("no backend available")

type strategy[T any] struct {
	kind Backend
	repo repo[T]
}

// chain tries each strategy in fixed priority order: hosted, mock, local.
// Any failure is logged as a warning and falls through to the next strategy;
// attempts are strictly sequential, never raced.
type chain[T any] struct {
	entity     string
	strategies []strategy[T]
}

func (c *chain[T]) add(kind Backend, r repo[T]) {
	c.strategies = append(c.strategies, strategy[T]{kind: kind, repo: r})
}

func (c *chain[T]) List(ctx context.Context) ([]T, Backend, error) {
	var lastErr error = errNoBackend
	for _, s := range c.strategies {
		items, err := s.repo.List(ctx)
		if err != nil {
			logger.Warnf("%s list via %s backend: %v", c.entity, s.kind, err)
			lastErr = err
			continue
		}
		return items, s.kind, nil
	}
	return nil, BackendLocal, lastErr
}

func (c *chain[T]) Get(ctx context.Context, id string) (T, Backend, error) {
	var lastErr error = errNoBackend
	for _, s := range c.strategies {
		item, err := s.repo.Get(ctx, id)
		if err != nil {
			logger.Warnf("%s get %s via %s backend: %v", c.entity, id, s.kind, err)
			lastErr = err
			continue
		}
		return item, s.kind, nil
	}
	var zero T
	return zero, BackendLocal, lastErr
}

func (c *chain[T]) Create(ctx context.Context, item T) (T, Backend, error) {
	var lastErr error = errNoBackend
	for _, s := range c.strategies {
		created, err := s.repo.Create(ctx, item)
		if err != nil {
			logger.Warnf("%s create via %s backend: %v", c.entity, s.kind, err)
			lastErr = err
			continue
		}
		return created, s.kind, nil
	}
	var zero T
	return zero, BackendLocal, lastErr
}

func (c *chain[T]) Update(ctx context.Context, id string, item T) (T, Backend, error) {
	var lastErr error = errNoBackend
	for _, s := range c.strategies {
		updated, err := s.repo.Update(ctx, id, item)
		if err != nil {
			logger.Warnf("%s update %s via %s backend: %v", c.entity, id, s.kind, err)
			lastErr = err
			continue
		}
		return updated, s.kind, nil
	}
	var zero T
	return zero, BackendLocal, lastErr
}

func (c *chain[T]) Delete(ctx context.Context, id string) (Backend, error) {
	var lastErr error = errNoBackend
	for _, s := range c.strategies {
		if err := s.repo.Delete(ctx, id); err != nil {
			logger.Warnf("%s delete %s via %s backend: %v", c.entity, id, s.kind, err)
			lastErr = err
			continue
		}
		return s.kind, nil
	}
	return BackendLocal, lastErr
}
