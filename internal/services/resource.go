package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Resource is the standard list/detail CRUD surface of one backend collection.
//
// T is the record returned by the backend; In is the writable shape sent on create and update.
type Resource[T, In any] struct {
	client *Client
	path   string
}

// NewResource binds a collection path (e.g. "/notes/") to client.
func NewResource[T, In any](client *Client, path string) *Resource[T, In] {
	p := "/"
	if trimmed := strings.Trim(path, "/"); trimmed != "" {
		p += trimmed + "/"
	}
	return &Resource[T, In]{client: client, path: p}
}

// Path returns the collection path, with a trailing slash.
func (r *Resource[T, In]) Path() string {
	return r.path
}

// Item returns the detail path of id, with an optional action suffix: Item(3, "pin") is "/notes/3/pin/".
func (r *Resource[T, In]) Item(id int, action ...string) string {
	p := fmt.Sprintf("%s%d/", r.path, id)
	for _, a := range action {
		p += strings.Trim(a, "/") + "/"
	}
	return p
}

// List fetches the collection filtered by query.
func (r *Resource[T, In]) List(ctx context.Context, query url.Values) ([]T, error) {
	var out []T
	if err := r.client.Get(ctx, r.path, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one record.
func (r *Resource[T, In]) Get(ctx context.Context, id int) (*T, error) {
	var out T
	if err := r.client.Get(ctx, r.Item(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts in and returns the stored record.
func (r *Resource[T, In]) Create(ctx context.Context, in In) (*T, error) {
	var out T
	if err := r.client.Post(ctx, r.path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the record with PUT.
func (r *Resource[T, In]) Update(ctx context.Context, id int, in In) (*T, error) {
	var out T
	if err := r.client.Put(ctx, r.Item(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Patch sends a partial update. fields may be a map or a struct with omitempty tags.
func (r *Resource[T, In]) Patch(ctx context.Context, id int, fields any) (*T, error) {
	var out T
	if err := r.client.Patch(ctx, r.Item(id), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the record.
func (r *Resource[T, In]) Delete(ctx context.Context, id int) error {
	return r.client.Delete(ctx, r.Item(id))
}

// Action calls a detail route such as "pin" or "toggle_complete" and decodes the result into a record.
func (r *Resource[T, In]) Action(ctx context.Context, method string, id int, action string, body any) (*T, error) {
	var out T
	if err := r.client.Do(ctx, Request{Method: method, Path: r.Item(id, action), JSON: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Collection calls a list route such as "today" and decodes a list.
func (r *Resource[T, In]) Collection(ctx context.Context, action string, query url.Values) ([]T, error) {
	var out []T
	if err := r.client.Get(ctx, r.path+strings.Trim(action, "/")+"/", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}
