package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Nickgiresse/patis-t/internal/kv"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

const (
	productKeyPrefix  = "product:"
	categoryKeyPrefix = "category:"
)

// Store is the subset of the KV store the catalog uses.
type Store interface {
	Set(ctx context.Context, key string, value any) error
	GetByPrefix(ctx context.Context, prefix string) ([]kv.Pair, error)
	Delete(ctx context.Context, key string) error
}

type Repository interface {
	ListProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, in NewProduct) (Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListCategoryNames(ctx context.Context) ([]string, error)
	CreateCategory(ctx context.Context, name string) (Category, error)
}

type KVRepository struct {
	store Store
	now   func() time.Time
}

func NewKVRepository(store Store) *KVRepository {
	return &KVRepository{store: store, now: time.Now}
}

func (r *KVRepository) ListProducts(ctx context.Context) ([]Product, error) {
	pairs, err := r.store.GetByPrefix(ctx, productKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]Product, 0, len(pairs))
	for _, p := range pairs {
		if isJSONNull(p.Value) {
			continue
		}
		var prod Product
		if err := json.Unmarshal(p.Value, &prod); err != nil {
			return nil, fmt.Errorf("decode product %q: %w", p.Key, err)
		}
		products = append(products, prod)
	}
	return products, nil
}

func (r *KVRepository) CreateProduct(ctx context.Context, in NewProduct) (Product, error) {
	if in.Name == "" || in.Category == "" {
		return Product{}, fmt.Errorf("%w: name and category are required", ErrInvalidInput)
	}
	if in.Price < 0 {
		return Product{}, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	ts := r.now().UnixMilli()
	prod := Product{
		ID:          fmt.Sprintf("prod_%d", ts),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Category:    in.Category,
		CreatedAt:   r.now().UTC(),
	}

	key := fmt.Sprintf("%s%d", productKeyPrefix, ts)
	if err := r.store.Set(ctx, key, prod); err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return prod, nil
}

// DeleteProduct resolves the product id to its storage key by scanning the
// product prefix. Ids and keys differ (prod_<ts> vs product:<ts>), and legacy
// seed data used the key itself as the id, so both forms are accepted.
func (r *KVRepository) DeleteProduct(ctx context.Context, id string) error {
	pairs, err := r.store.GetByPrefix(ctx, productKeyPrefix)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	for _, p := range pairs {
		if p.Key == id {
			return r.store.Delete(ctx, p.Key)
		}
		var prod Product
		if err := json.Unmarshal(p.Value, &prod); err != nil {
			continue
		}
		if prod.ID == id {
			return r.store.Delete(ctx, p.Key)
		}
	}
	return ErrNotFound
}

// ListCategoryNames returns a duplicate-free list of category names in storage
// order. Stored values may be full Category objects, bare strings, or objects
// using a "label" field; all shapes are merged here rather than at the store.
func (r *KVRepository) ListCategoryNames(ctx context.Context) ([]string, error) {
	pairs, err := r.store.GetByPrefix(ctx, categoryKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	seen := make(map[string]struct{}, len(pairs))
	names := make([]string, 0, len(pairs))
	for _, p := range pairs {
		name, ok := categoryName(p.Value)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}

func (r *KVRepository) CreateCategory(ctx context.Context, name string) (Category, error) {
	if name == "" {
		return Category{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	ts := r.now().UnixMilli()
	cat := Category{
		ID:        fmt.Sprintf("cat_%d", ts),
		Name:      name,
		CreatedAt: r.now().UTC(),
	}

	key := fmt.Sprintf("%s%d", categoryKeyPrefix, ts)
	if err := r.store.Set(ctx, key, cat); err != nil {
		return Category{}, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

func categoryName(raw json.RawMessage) (string, bool) {
	if isJSONNull(raw) {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}

	var obj struct {
		Name  string `json:"name"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}
	if obj.Name != "" {
		return obj.Name, true
	}
	if obj.Label != "" {
		return obj.Label, true
	}
	return "", false
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
