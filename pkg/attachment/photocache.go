package attachment

import (
	"context"
	"fmt"

	"github.com/jwalitptl/fhir-console/pkg/cache"
	"github.com/jwalitptl/fhir-console/pkg/metrics"
)

// PhotoCache memoizes rebuilt data URIs for stored attachments so repeated
// renders of the same photo skip the string assembly. Read-through,
// compute-on-miss, write-once; the backing store is bounded and evicts on
// its own schedule.
type PhotoCache struct {
	store   cache.Store
	metrics *metrics.Metrics
}

func NewPhotoCache(store cache.Store, m *metrics.Metrics) *PhotoCache {
	return &PhotoCache{store: store, metrics: m}
}

// DataURI returns the displayable data URI for an attachment, or an empty
// string when the attachment has no payload.
func (p *PhotoCache) DataURI(ctx context.Context, id, contentType, data string) string {
	if data == "" {
		return ""
	}

	key := fmt.Sprintf("%s-%s", id, data)
	if cached, found := p.store.Get(ctx, key); found {
		if p.metrics != nil {
			p.metrics.CacheHits.Inc()
		}
		return cached
	}
	if p.metrics != nil {
		p.metrics.CacheMisses.Inc()
	}

	uri := fmt.Sprintf("data:%s;base64,%s", contentType, data)
	p.store.Set(ctx, key, uri)
	return uri
}
