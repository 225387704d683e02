package collection

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UnknownName replaces blank display names on fetched items.
const UnknownName = "Unknown"

// Fetcher requests a named collection from a remote source. Implementations
// return only active items, ordered by their sort key when the source supports
// it, and report every failure as a *FetchError.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, collection string) ([]T, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc[T any] func(ctx context.Context, collection string) ([]T, error)

func (f FetcherFunc[T]) Fetch(ctx context.Context, collection string) ([]T, error) {
	return f(ctx, collection)
}

// ErrorKind classifies a FetchError.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTransport
	KindMalformed
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindMalformed:
		return "malformed"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// FetchError is the only error type a fetch cycle produces.
type FetchError struct {
	Collection string
	Kind       ErrorKind
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.Collection, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError wraps err unless it already is a *FetchError.
func NewFetchError(collection string, kind ErrorKind, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &FetchError{Collection: collection, Kind: kind, Err: err}
}

// ErrEmptyResult is reported when a fetch succeeds with zero items. It is not a
// failure of the source but it triggers the fallback all the same.
var ErrEmptyResult = errors.New("empty result")

// NormalizeName trims s and substitutes UnknownName when nothing is left.
func NormalizeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnknownName
	}
	return s
}

// safeFetch calls f once and converts panics and untyped errors into a
// *FetchError.
func safeFetch[T any](ctx context.Context, f Fetcher[T], name string) (items []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			items = nil
			err = &FetchError{Collection: name, Kind: KindUnknown, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	items, err = f.Fetch(ctx, name)
	if err != nil {
		return nil, NewFetchError(name, KindTransport, err)
	}
	return items, nil
}

// checkKeys reports a malformed response when two items share a key.
func checkKeys[T any](name string, items []T, key func(T) string) error {
	if key == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		k := key(it)
		if _, dup := seen[k]; dup {
			return &FetchError{Collection: name, Kind: KindMalformed, Err: fmt.Errorf("duplicate id %q", k)}
		}
		seen[k] = struct{}{}
	}
	return nil
}
