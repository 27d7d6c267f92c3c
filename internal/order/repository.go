package order

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/Nickgiresse/patis-t/internal/kv"
)

const keyPrefix = "order:"

// Store is the subset of the KV store orders use.
type Store interface {
	Set(ctx context.Context, key string, value any) error
	GetByPrefix(ctx context.Context, prefix string) ([]kv.Pair, error)
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	List(ctx context.Context) ([]Order, error)
}

type KVRepository struct {
	store Store
	now   func() time.Time
}

func NewKVRepository(store Store) *KVRepository {
	return &KVRepository{store: store, now: time.Now}
}

// Create persists the order. The id doubles as the storage key, derived from
// the submission instant; collisions at millisecond resolution are accepted.
func (r *KVRepository) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = fmt.Sprintf("%s%d", keyPrefix, r.now().UnixMilli())
	}
	o.CreatedAt = r.now().UTC()
	o.Status = StatusPending

	if err := r.store.Set(ctx, o.ID, o); err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// List returns all orders sorted newest-first.
func (r *KVRepository) List(ctx context.Context) ([]Order, error) {
	pairs, err := r.store.GetByPrefix(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]Order, 0, len(pairs))
	for _, p := range pairs {
		var o Order
		if err := json.Unmarshal(p.Value, &o); err != nil {
			return nil, fmt.Errorf("decode order %q: %w", p.Key, err)
		}
		orders = append(orders, o)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}
