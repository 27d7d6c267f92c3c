package order

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nickgiresse/patis-t/internal/kv"
)

type fakeStore struct {
	data map[string]json.RawMessage
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]json.RawMessage)}
}

func (f *fakeStore) Set(_ context.Context, key string, value any) error {
	body, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = body
	return nil
}

func (f *fakeStore) GetByPrefix(_ context.Context, prefix string) ([]kv.Pair, error) {
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]kv.Pair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, kv.Pair{Key: k, Value: f.data[k]})
	}
	return pairs, nil
}

func TestCreateAssignsIdentityAndStatus(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	repo := NewKVRepository(store)
	repo.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	o := &Order{
		OrderNumber: "CMD1772445600000",
		Customer:    Customer{Name: "Marie", Email: "m@example.com", Phone: "06", OrderType: TypeDelivery, Address: "Paris"},
		Items:       []Item{{ProductID: "p1", ProductName: "Tarte", Quantity: 1, Price: 28}},
		Total:       28,
	}
	require.NoError(t, repo.Create(ctx, o))

	assert.Regexp(t, `^order:\d+$`, o.ID)
	assert.Equal(t, StatusPending, o.Status)
	assert.False(t, o.CreatedAt.IsZero())
	assert.Contains(t, store.data, o.ID)
}

func TestListSortsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	repo := NewKVRepository(store)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, num := range []string{"CMD1", "CMD2", "CMD3"} {
		ts := base.Add(time.Duration(i) * time.Minute)
		repo.now = func() time.Time { return ts }
		require.NoError(t, repo.Create(ctx, &Order{OrderNumber: num, Total: float64(i)}))
	}

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "CMD3", orders[0].OrderNumber)
	assert.Equal(t, "CMD2", orders[1].OrderNumber)
	assert.Equal(t, "CMD1", orders[2].OrderNumber)
}
