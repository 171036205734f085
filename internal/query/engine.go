package query

import (
	"sort"
	"strings"
)

// Field names one queryable attribute of a record kind. Each kind declares
// its own field set next to its model; a field is only meaningful for the
// kind it was declared for.
type Field string

// Projector extracts the textual projection of one attribute from a
// record. The second return is false when the attribute is absent on that
// record.
type Projector[T any] func(rec T, field Field) (string, bool)

// Filter returns the records whose projection under field contains search,
// case-insensitively. An empty search keeps every record; a record with an
// absent projection is excluded from a non-empty search. The input is
// never mutated.
func Filter[T any](recs []T, proj Projector[T], field Field, search string) []T {
	if search == "" {
		return append([]T(nil), recs...)
	}

	needle := strings.ToLower(search)
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		value, ok := proj(rec, field)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(value), needle) {
			out = append(out, rec)
		}
	}
	return out
}

// Sort returns the records in ascending lexicographic order of their
// projection under field. The sort is stable; a comparison involving an
// absent projection reports equal, so records without the attribute keep
// their relative input order. The input is never mutated.
func Sort[T any](recs []T, proj Projector[T], field Field) []T {
	out := append([]T(nil), recs...)
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := proj(out[i], field)
		b, bok := proj(out[j], field)
		if !aok || !bok {
			return false
		}
		return a < b
	})
	return out
}

// Run applies Filter then Sort for the given state. Both steps are pure
// projections, so Run is idempotent for a fixed state.
func Run[T any](recs []T, proj Projector[T], st State) []T {
	return Sort(Filter(recs, proj, st.FilterField, st.Search), proj, st.SortField)
}
