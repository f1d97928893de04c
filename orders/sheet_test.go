package orders

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveCSV(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestSheetStore(t *testing.T, url string) *SheetStore {
	t.Helper()
	store, err := NewSheetStore(SheetConfig{URL: url})
	require.NoError(t, err)
	return store
}

func TestSheetStoreFindsCode(t *testing.T) {
	srv := serveCSV(t, "Order Code,Status\nVasya_1,Shipped\npetya_2,Packed\n")
	store := newTestSheetStore(t, srv.URL)

	status, err := store.StatusByCode(context.Background(), "vasya_1")
	require.NoError(t, err)
	assert.Equal(t, "Shipped", status)
}

func TestSheetStoreCaseInsensitiveColumns(t *testing.T) {
	// Columns reordered and renamed; fragments still match.
	srv := serveCSV(t, "Текущий статус,Комментарий,Номер заказа клиента\nВ пути,-,VASYA_1\n")
	store := newTestSheetStore(t, srv.URL)

	status, err := store.StatusByCode(context.Background(), "vasya_1")
	require.NoError(t, err)
	assert.Equal(t, "В пути", status)
}

func TestSheetStoreNotFound(t *testing.T) {
	srv := serveCSV(t, "Order Code,Status\nVasya_1,Shipped\n")
	store := newTestSheetStore(t, srv.URL)

	_, err := store.StatusByCode(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSheetStoreMissingColumns(t *testing.T) {
	srv := serveCSV(t, "Name,Phone\nVasya,123\n")
	store := newTestSheetStore(t, srv.URL)

	_, err := store.StatusByCode(context.Background(), "vasya_1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestSheetStoreHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	store := newTestSheetStore(t, srv.URL)

	_, err := store.StatusByCode(context.Background(), "vasya_1")
	assert.Error(t, err)
}

func TestSheetStoreRequiresURL(t *testing.T) {
	_, err := NewSheetStore(SheetConfig{})
	assert.Error(t, err)
}
