package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	records map[string]string
	err     error

	lastCode string
}

func (s *stubStore) StatusByCode(_ context.Context, code string) (string, error) {
	s.lastCode = code
	if s.err != nil {
		return "", s.err
	}
	status, ok := s.records[code]
	if !ok {
		return "", ErrNotFound
	}
	return status, nil
}

func TestLookupNormalizesCode(t *testing.T) {
	store := &stubStore{records: map[string]string{"vasya_1": "Shipped"}}
	svc := NewService(store)

	for _, code := range []string{"Vasya_1", " vasya_1 ", "vasya_1", "VASYA_1"} {
		status, ok := svc.Lookup(context.Background(), code)
		require.True(t, ok, "code %q", code)
		assert.Equal(t, "Shipped", status)
		assert.Equal(t, "vasya_1", store.lastCode)
	}
}

func TestLookupMiss(t *testing.T) {
	svc := NewService(&stubStore{records: map[string]string{}})

	_, ok := svc.Lookup(context.Background(), "nope")
	assert.False(t, ok)
}

func TestLookupEmptyCode(t *testing.T) {
	store := &stubStore{records: map[string]string{"": "oops"}}
	svc := NewService(store)

	_, ok := svc.Lookup(context.Background(), "   ")
	assert.False(t, ok)
	assert.Empty(t, store.lastCode, "store must not be queried for empty input")
}

func TestLookupStoreFailureDegradesToNotFound(t *testing.T) {
	svc := NewService(&stubStore{err: errors.New("sheet unreachable")})

	_, ok := svc.Lookup(context.Background(), "vasya_1")
	assert.False(t, ok)
}

func TestLookupNilStore(t *testing.T) {
	svc := NewService(nil)

	_, ok := svc.Lookup(context.Background(), "vasya_1")
	assert.False(t, ok)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "vasya_1", NormalizeCode("  Vasya_1 "))
	assert.Equal(t, "", NormalizeCode("   "))
}
