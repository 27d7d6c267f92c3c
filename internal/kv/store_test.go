package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestStore_Set(t *testing.T) {
	mock := newMock(t)
	store := NewStore(mock)

	mock.ExpectExec("INSERT INTO kv_store").
		WithArgs("product:1", []byte(`{"name":"Tarte"}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := store.Set(context.Background(), "product:1", map[string]string{"name": "Tarte"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Get(t *testing.T) {
	mock := newMock(t)
	store := NewStore(mock)

	mock.ExpectQuery("SELECT value FROM kv_store").
		WithArgs("product:1").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`{"name":"Tarte"}`)))

	var dest struct {
		Name string `json:"name"`
	}
	err := store.Get(context.Background(), "product:1", &dest)
	require.NoError(t, err)
	assert.Equal(t, "Tarte", dest.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetMissing(t *testing.T) {
	mock := newMock(t)
	store := NewStore(mock)

	mock.ExpectQuery("SELECT value FROM kv_store").
		WithArgs("product:missing").
		WillReturnError(pgx.ErrNoRows)

	var dest map[string]any
	err := store.Get(context.Background(), "product:missing", &dest)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_GetByPrefix(t *testing.T) {
	mock := newMock(t)
	store := NewStore(mock)

	mock.ExpectQuery("SELECT key, value FROM kv_store").
		WithArgs("category:%").
		WillReturnRows(pgxmock.NewRows([]string{"key", "value"}).
			AddRow("category:1", []byte(`{"name":"Tartes"}`)).
			AddRow("category:2", []byte(`"Macarons"`)))

	pairs, err := store.GetByPrefix(context.Background(), "category:")
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "category:1", pairs[0].Key)
	assert.JSONEq(t, `{"name":"Tartes"}`, string(pairs[0].Value))
	assert.JSONEq(t, `"Macarons"`, string(pairs[1].Value))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Delete(t *testing.T) {
	mock := newMock(t)
	store := NewStore(mock)

	mock.ExpectExec("DELETE FROM kv_store").
		WithArgs("product:1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, store.Delete(context.Background(), "product:1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeleteMissing(t *testing.T) {
	mock := newMock(t)
	store := NewStore(mock)

	mock.ExpectExec("DELETE FROM kv_store").
		WithArgs("product:nope").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := store.Delete(context.Background(), "product:nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_QueryError(t *testing.T) {
	mock := newMock(t)
	store := NewStore(mock)

	boom := errors.New("db down")
	mock.ExpectQuery("SELECT key, value FROM kv_store").
		WithArgs("order:%").
		WillReturnError(boom)

	_, err := store.GetByPrefix(context.Background(), "order:")
	assert.ErrorIs(t, err, boom)
}
