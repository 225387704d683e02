package collection

// Source names the data source that produced a snapshot.
type Source string

const (
	SourceNone     Source = ""
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Resolve picks the authoritative collection for a fetch outcome. An error or an
// empty result yields a fresh copy of fallback; anything else is returned as is.
// The two are never merged.
func Resolve[T any](items []T, err error, fallback []T) ([]T, Source) {
	if err != nil || len(items) == 0 {
		out := make([]T, len(fallback))
		copy(out, fallback)
		return out, SourceFallback
	}
	return items, SourceRemote
}
