package rates

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	rate float64
	err  error
}

func (s stubSource) Rate(context.Context, string) (float64, error) {
	return s.rate, s.err
}

func TestFallbackPassesThrough(t *testing.T) {
	src := NewFallback(stubSource{rate: 10.9}, 11.5)

	rate, err := src.Rate(context.Background(), "CNY")
	require.NoError(t, err)
	assert.InDelta(t, 10.9, rate, 1e-9)
}

func TestFallbackOnAnyError(t *testing.T) {
	src := NewFallback(stubSource{err: errors.New("feed down")}, 11.5)

	rate, err := src.Rate(context.Background(), "CNY")
	require.NoError(t, err)
	assert.InDelta(t, 11.5, rate, 1e-9)
}

func TestFallbackDefaultConstant(t *testing.T) {
	src := NewFallback(stubSource{err: errors.New("boom")}, 0)

	rate, err := src.Rate(context.Background(), "CNY")
	require.NoError(t, err)
	assert.InDelta(t, DefaultFallbackRate, rate, 1e-9)
}
