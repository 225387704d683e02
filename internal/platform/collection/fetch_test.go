package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	fallback := []string{"a", "b"}

	got, src := Resolve(nil, errors.New("down"), fallback)
	assert.Equal(t, fallback, got)
	assert.Equal(t, SourceFallback, src)

	got, src = Resolve([]string{}, nil, fallback)
	assert.Equal(t, fallback, got)
	assert.Equal(t, SourceFallback, src)

	got, src = Resolve([]string{"x"}, ErrEmptyResult, fallback)
	assert.Equal(t, fallback, got, "an error wins over partial items")
	assert.Equal(t, SourceFallback, src)

	remote := []string{"z", "y", "x"}
	got, src = Resolve(remote, nil, fallback)
	assert.Equal(t, remote, got)
	assert.Equal(t, SourceRemote, src)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, UnknownName, NormalizeName(""))
	assert.Equal(t, UnknownName, NormalizeName(" \t\n"))
	assert.Equal(t, "Dr. Alikunhi", NormalizeName("  Dr. Alikunhi "))
}

func TestFetchError(t *testing.T) {
	cause := errors.New("401 from upstream")
	err := NewFetchError("doctors", KindUnauthorized, cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "unauthorized")
	assert.Contains(t, err.Error(), "doctors")

	var fe *FetchError
	require.True(t, errors.As(error(err), &fe))
	assert.Equal(t, KindUnauthorized, fe.Kind)

	again := NewFetchError("doctors", KindTransport, err)
	assert.Same(t, err, again, "an existing FetchError keeps its kind")
}

func TestSafeFetch_WrapsPlainErrors(t *testing.T) {
	f := FetcherFunc[int](func(context.Context, string) ([]int, error) {
		return []int{1}, errors.New("reset by peer")
	})

	items, err := safeFetch[int](context.Background(), f, "departments")
	assert.Nil(t, items)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindTransport, fe.Kind)
	assert.Equal(t, "departments", fe.Collection)
}

func TestSafeFetch_RecoversPanics(t *testing.T) {
	f := FetcherFunc[int](func(context.Context, string) ([]int, error) {
		var m map[string]int
		m["x"] = 1
		return nil, nil
	})

	_, err := safeFetch[int](context.Background(), f, "doctors")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindUnknown, fe.Kind)
}

func TestTiers_PageSize(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{0, 4},
		{-1, 4},
		{320, 2},
		{767, 2},
		{768, 3},
		{1023, 3},
		{1024, 4},
		{2560, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DefaultTiers.PageSize(tt.width), "width %d", tt.width)
	}
}

func TestTiers_Monotonic(t *testing.T) {
	prev := DefaultTiers.PageSize(1)
	for w := 2; w < 3000; w++ {
		got := DefaultTiers.PageSize(w)
		require.GreaterOrEqual(t, got, prev, "width %d", w)
		prev = got
	}
}

func TestFixedTiers(t *testing.T) {
	fixed := FixedTiers(4)
	for _, w := range []int{0, 300, 800, 1600} {
		assert.Equal(t, 4, fixed.PageSize(w))
	}
}
