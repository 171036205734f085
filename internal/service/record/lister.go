// Package record holds the generic listing machinery shared by every
// resource kind: fetch a page, run the client-side query engine over it,
// and never blank the view on a failed refresh.
package record

import (
	"context"
	"sync"

	"github.com/jwalitptl/fhir-console/internal/fhir"
	"github.com/jwalitptl/fhir-console/internal/query"
	"github.com/jwalitptl/fhir-console/pkg/logger"
)

// FetchFunc fetches one page of records from the resource server.
type FetchFunc[T any] func(ctx context.Context, p fhir.PageParams) ([]T, error)

// Lister pairs a page fetcher with a query projector. The last
// successfully fetched page is retained so a failed refresh serves stale
// data instead of an empty table.
type Lister[T any] struct {
	fetch  FetchFunc[T]
	proj   query.Projector[T]
	logger *logger.Logger

	mu   sync.Mutex
	last []T
}

func NewLister[T any](fetch FetchFunc[T], proj query.Projector[T], log *logger.Logger) *Lister[T] {
	if log == nil {
		log = logger.NewLogger(nil)
	}
	return &Lister[T]{fetch: fetch, proj: proj, logger: log}
}

// List fetches the window named by the state, falls back to the previous
// page on fetch failure, and returns the filtered and sorted view. The
// returned error reports the fetch failure for logging surfaces but the
// records are always usable.
func (l *Lister[T]) List(ctx context.Context, st query.State, subject string) ([]T, error) {
	records, err := l.fetch(ctx, fhir.PageParams{Count: st.Count, Offset: st.Offset, Subject: subject})

	l.mu.Lock()
	if err != nil {
		l.logger.Error(err, "refresh failed, retaining previous page")
		records = append([]T(nil), l.last...)
	} else {
		l.last = append([]T(nil), records...)
	}
	l.mu.Unlock()

	return query.Run(records, l.proj, st), err
}
