package catalog

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

// fakeStore is an in-memory stand-in for the Postgres KV store.
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

func (f *fakeStore) Delete(_ context.Context, key string) error {
	if _, ok := f.data[key]; !ok {
		return kv.ErrNotFound
	}
	delete(f.data, key)
	return nil
}

func newTestRepo(store *fakeStore) *KVRepository {
	repo := NewKVRepository(store)
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		ts = ts.Add(time.Millisecond)
		return ts
	}
	return repo
}

func TestCreateAndListProducts(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	repo := newTestRepo(store)

	created, err := repo.CreateProduct(ctx, NewProduct{
		Name:        "Éclair au Chocolat",
		Description: "Pâte à choux garnie de crème pâtissière",
		Price:       4.5,
		Category:    "Éclairs",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^prod_\d+$`, created.ID)

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, created.ID, products[0].ID)
	assert.Equal(t, 4.5, products[0].Price)
}

func TestCreateProduct_Invalid(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(newFakeStore())

	_, err := repo.CreateProduct(ctx, NewProduct{Name: "", Category: "Tartes"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = repo.CreateProduct(ctx, NewProduct{Name: "Tarte", Category: "Tartes", Price: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListProducts_SkipsNullEntries(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.data["product:1"] = json.RawMessage(`null`)
	store.data["product:2"] = json.RawMessage(`{"id":"prod_2","name":"Tarte","price":28,"category":"Tartes"}`)
	repo := newTestRepo(store)

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "prod_2", products[0].ID)
}

func TestDeleteProduct_ByIDAndByKey(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	repo := newTestRepo(store)

	created, err := repo.CreateProduct(ctx, NewProduct{Name: "Macarons", Category: "Macarons", Price: 24})
	require.NoError(t, err)

	// legacy seed entry whose id is the storage key itself
	store.data["product:1"] = json.RawMessage(`{"id":"product:1","name":"Croissant","price":1.8,"category":"Viennoiseries"}`)

	require.NoError(t, repo.DeleteProduct(ctx, created.ID))
	require.NoError(t, repo.DeleteProduct(ctx, "product:1"))

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	assert.ErrorIs(t, repo.DeleteProduct(ctx, "prod_unknown"), ErrNotFound)
}

func TestListCategoryNames_DeduplicatesAcrossShapes(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.data["category:1"] = json.RawMessage(`{"id":"cat_1","name":"Tartes"}`)
	store.data["category:2"] = json.RawMessage(`"Macarons"`)
	store.data["category:3"] = json.RawMessage(`{"label":"Viennoiseries"}`)
	store.data["category:4"] = json.RawMessage(`{"id":"cat_4","name":"Tartes"}`)
	store.data["category:5"] = json.RawMessage(`null`)
	store.data["category:6"] = json.RawMessage(`{"id":"cat_6"}`)
	repo := newTestRepo(store)

	names, err := repo.ListCategoryNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tartes", "Macarons", "Viennoiseries"}, names)
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	repo := newTestRepo(store)

	cat, err := repo.CreateCategory(ctx, "Gâteaux")
	require.NoError(t, err)
	assert.Regexp(t, `^cat_\d+$`, cat.ID)

	names, err := repo.ListCategoryNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gâteaux"}, names)

	_, err = repo.CreateCategory(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
