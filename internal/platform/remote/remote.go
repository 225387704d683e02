// Package remote reads directory collections from the configured data source
// and adapts them to collection.Fetcher. Sources return raw rows; the generic
// Fetcher applies the timeout, drops inactive rows and decodes each row into
// the caller's item type.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/elettil/hospital/internal/platform/collection"
)

// DefaultTimeout bounds a single fetch when none is configured.
const DefaultTimeout = 5 * time.Second

// Query describes the rows a Fetcher wants. An empty Table defaults to the
// collection name.
type Query struct {
	Table      string
	ActiveOnly bool
	OrderBy    string
}

// Source returns the rows of a table. Errors should be *collection.FetchError;
// anything else is treated as a transport failure.
type Source interface {
	Rows(ctx context.Context, q Query) ([]Row, error)
}

// Row is the union of the columns the directory tables carry. Every column but
// id is optional.
type Row struct {
	ID             FlexID   `json:"id"`
	Name           *string  `json:"name"`
	Specialization *string  `json:"specialization"`
	Education      *string  `json:"education"`
	Image          *string  `json:"image"`
	Icon           *string  `json:"icon"`
	OrderIndex     *float64 `json:"order_index"`
	IsActive       *bool    `json:"-"`
	RawActive      FlexBool `json:"is_active"`
}

// UnmarshalJSON records whether is_active was present.
func (r *Row) UnmarshalJSON(b []byte) error {
	type plain Row
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = Row(p)
	if p.RawActive.Set {
		v := p.RawActive.Value
		r.IsActive = &v
	}
	return nil
}

// Str dereferences an optional column.
func Str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FlexID accepts string and numeric ids.
type FlexID string

func (id *FlexID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = FlexID(n.String())
	return nil
}

// FlexBool accepts JSON booleans and the 0/1 integers SQLite stores.
type FlexBool struct {
	Value bool
	Set   bool
}

func (f *FlexBool) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "null":
		*f = FlexBool{}
	case "true", "1":
		*f = FlexBool{Value: true, Set: true}
	case "false", "0":
		*f = FlexBool{Value: false, Set: true}
	default:
		return fmt.Errorf("is_active: unexpected value %s", b)
	}
	return nil
}

// ErrMissingID is returned by decoders for rows without an id.
var ErrMissingID = errors.New("row has no id")

// Fetcher adapts a Source to collection.Fetcher for item type T.
type Fetcher[T any] struct {
	src     Source
	query   Query
	decode  func(Row) (T, error)
	timeout time.Duration
}

// NewFetcher returns a Fetcher that decodes rows with decode. A zero timeout
// selects DefaultTimeout.
func NewFetcher[T any](src Source, q Query, decode func(Row) (T, error), timeout time.Duration) *Fetcher[T] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher[T]{src: src, query: q, decode: decode, timeout: timeout}
}

// Fetch runs one query against the source. It never retries.
func (f *Fetcher[T]) Fetch(ctx context.Context, name string) ([]T, error) {
	q := f.query
	if q.Table == "" {
		q.Table = name
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	rows, err := f.src.Rows(ctx, q)
	if err != nil {
		return nil, collection.NewFetchError(name, collection.KindTransport, err)
	}

	items := make([]T, 0, len(rows))
	for i, row := range rows {
		if row.IsActive != nil && !*row.IsActive {
			continue
		}
		if row.ID == "" {
			return nil, collection.NewFetchError(name, collection.KindMalformed, fmt.Errorf("row %d: %w", i, ErrMissingID))
		}
		item, err := f.decode(row)
		if err != nil {
			return nil, collection.NewFetchError(name, collection.KindMalformed, fmt.Errorf("row %d: %w", i, err))
		}
		items = append(items, item)
	}
	return items, nil
}

// Unavailable is the Source used when no remote backend is configured. Every
// query fails, so views always resolve to their fallback.
type Unavailable struct{}

var errNotConfigured = errors.New("no directory source configured")

func (Unavailable) Rows(_ context.Context, q Query) ([]Row, error) {
	return nil, collection.NewFetchError(q.Table, collection.KindTransport, errNotConfigured)
}
