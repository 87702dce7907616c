package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// repo is the uniform persistence contract every backend strategy implements
// for an entity kind. The fallback chain composes several of these in
// priority order.
type repo[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, item T) (T, error)
	Delete(ctx context.Context, id string) error
}

var errUnsupported = errors.New("operation not supported by this backend")

// funcRepo adapts plain functions (the local snapshot store) to the repo
// contract. Nil members report errUnsupported.
type funcRepo[T any] struct {
	list   func(context.Context) ([]T, error)
	get    func(context.Context, string) (T, error)
	create func(context.Context, T) (T, error)
	update func(context.Context, string, T) (T, error)
	remove func(context.Context, string) error
}

func (f funcRepo[T]) List(ctx context.Context) ([]T, error) {
	if f.list == nil {
		return nil, errUnsupported
	}
	return f.list(ctx)
}

func (f funcRepo[T]) Get(ctx context.Context, id string) (T, error) {
	if f.get == nil {
		var zero T
		return zero, errUnsupported
	}
	return f.get(ctx, id)
}

func (f funcRepo[T]) Create(ctx context.Context, item T) (T, error) {
	if f.create == nil {
		var zero T
		return zero, errUnsupported
	}
	return f.create(ctx, item)
}

func (f funcRepo[T]) Update(ctx context.Context, id string, item T) (T, error) {
	if f.update == nil {
		var zero T
		return zero, errUnsupported
	}
	return f.update(ctx, id, item)
}

func (f funcRepo[T]) Delete(ctx context.Context, id string) error {
	if f.remove == nil {
		return errUnsupported
	}
	return f.remove(ctx, id)
}

// mockRepo talks REST to the mocked in-process backend. Responses may be
// enveloped ({"products": [...]}) or bare; both shapes are accepted so
// callers never branch on what the backend happened to return.
type mockRepo[T any] struct {
	client  *http.Client
	base    string // e.g. ".../api/products"
	listKey string // envelope key for lists, e.g. "products"
	itemKey string // envelope key for single items, e.g. "product"
}

func newMockRepo[T any](client *http.Client, base, listKey, itemKey string) *mockRepo[T] {
	return &mockRepo[T]{client: client, base: base, listKey: listKey, itemKey: itemKey}
}

func (m *mockRepo[T]) do(ctx context.Context, method, url string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (m *mockRepo[T]) List(ctx context.Context) ([]T, error) {
	raw, err := m.do(ctx, http.MethodGet, m.base, nil)
	if err != nil {
		return nil, err
	}
	return decodeEnveloped[[]T](raw, m.listKey)
}

func (m *mockRepo[T]) Get(ctx context.Context, id string) (T, error) {
	raw, err := m.do(ctx, http.MethodGet, m.base+"/"+id, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeEnveloped[T](raw, m.itemKey)
}

func (m *mockRepo[T]) Create(ctx context.Context, item T) (T, error) {
	raw, err := m.do(ctx, http.MethodPost, m.base, item)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeEnveloped[T](raw, m.itemKey)
}

func (m *mockRepo[T]) Update(ctx context.Context, id string, item T) (T, error) {
	raw, err := m.do(ctx, http.MethodPut, m.base+"/"+id, item)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeEnveloped[T](raw, m.itemKey)
}

func (m *mockRepo[T]) Delete(ctx context.Context, id string) error {
	_, err := m.do(ctx, http.MethodDelete, m.base+"/"+id, nil)
	return err
}

// decodeEnveloped unmarshals `{"<key>": v}` or bare `v`.
func decodeEnveloped[T any](raw []byte, key string) (T, error) {
	var out T

	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err == nil {
		if inner, ok := env[key]; ok {
			return out, json.Unmarshal(inner, &out)
		}
	}
	return out, json.Unmarshal(raw, &out)
}
