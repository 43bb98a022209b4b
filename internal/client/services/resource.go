package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/butcherdesk/internal/client/models"
)

// Collection paths on the backend.
const (
	ProductsPath  = "/inventory/products/"
	OrdersPath    = "/orders/"
	SuppliersPath = "/suppliers/"
	CustomersPath = "/customers/"
	DocumentsPath = "/documents/"
	MessagesPath  = "/messages/"
)

// Resource is CRUD over one REST collection of T.
type Resource[T any] struct {
	client Client
	path   string
}

// NewResource binds a collection path such as "/orders/".
func NewResource[T any](client Client, path string) *Resource[T] {
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return &Resource[T]{client: client, path: path}
}

// Path returns the collection path.
func (r *Resource[T]) Path() string {
	return r.path
}

func (r *Resource[T]) itemPath(id string) string {
	return r.path + url.PathEscape(id) + "/"
}

func (r *Resource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	resp, err := r.client.Get(ctx, r.path, query)
	if err != nil {
		return nil, err
	}
	items := []T{}
	if err := resp.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return items, nil
}

func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	var item T
	if err := r.client.DoJSON(ctx, http.MethodGet, r.itemPath(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Resource[T]) Create(ctx context.Context, item T) (*T, error) {
	var out T
	if err := r.client.DoJSON(ctx, http.MethodPost, r.path, item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Update(ctx context.Context, id string, item T) (*T, error) {
	var out T
	if err := r.client.DoJSON(ctx, http.MethodPut, r.itemPath(id), item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.client.DoJSON(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
}

// Catalog groups the plain collections.
type Catalog struct {
	Products  *Resource[models.Product]
	Suppliers *Resource[models.Supplier]
	Customers *Resource[models.Customer]
	Messages  *Resource[models.Message]
}

func NewCatalog(client Client) *Catalog {
	return &Catalog{
		Products:  NewResource[models.Product](client, ProductsPath),
		Suppliers: NewResource[models.Supplier](client, SuppliersPath),
		Customers: NewResource[models.Customer](client, CustomersPath),
		Messages:  NewResource[models.Message](client, MessagesPath),
	}
}
