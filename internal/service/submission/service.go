// Package submission sends built resources to the resource server and
// reduces outcomes to a tri-state status for the presentation layer.
package submission

import (
	"context"
	"sync"

	"github.com/jwalitptl/fhir-console/internal/fhir"
	"github.com/jwalitptl/fhir-console/pkg/logger"
	"github.com/jwalitptl/fhir-console/pkg/metrics"
)

// Status is the user-visible outcome of a submission.
type Status string

const (
	StatusNone    Status = "none"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Outcome is the result of one independent sub-resource submission.
type Outcome struct {
	Index  int    `json:"index"`
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

type Service struct {
	client  *fhir.Client
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewService(client *fhir.Client, log *logger.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = logger.NewLogger(nil)
	}
	return &Service{client: client, logger: log, metrics: m}
}

// Submit creates one resource. Any non-success response or transport
// error maps to failure; nothing here ever propagates as a fault.
func (s *Service) Submit(ctx context.Context, kind string, resource any) Status {
	return s.resolve(kind, s.client.Create(ctx, kind, resource))
}

// SubmitUpdate replaces an existing resource by id.
func (s *Service) SubmitUpdate(ctx context.Context, kind, id string, resource any) Status {
	return s.resolve(kind, s.client.Update(ctx, kind, id, resource))
}

// SubmitAll submits independent sub-resources concurrently and joins the
// results into a per-item outcome list plus the derived aggregate: success
// only when every item succeeded. Already-sent items are not rolled back
// on a later failure; partial persistence is the documented semantics.
// No concurrency cap is applied, which is fine for the handful of files a
// single action carries but will not scale to large batches.
func (s *Service) SubmitAll(ctx context.Context, kind string, resources []any) ([]Outcome, Status) {
	outcomes := make([]Outcome, len(resources))

	var wg sync.WaitGroup
	for i, resource := range resources {
		wg.Add(1)
		go func(i int, resource any) {
			defer wg.Done()
			err := s.client.Create(ctx, kind, resource)
			outcomes[i] = Outcome{Index: i, Status: s.resolve(kind, err)}
			if err != nil {
				outcomes[i].Error = err.Error()
			}
		}(i, resource)
	}
	wg.Wait()

	aggregate := StatusSuccess
	for _, o := range outcomes {
		if o.Status != StatusSuccess {
			aggregate = StatusFailure
			break
		}
	}
	return outcomes, aggregate
}

func (s *Service) resolve(kind string, err error) Status {
	if s.metrics != nil {
		s.metrics.SubmissionsTotal.WithLabelValues(kind).Inc()
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.SubmissionsFailed.WithLabelValues(kind).Inc()
		}
		s.logger.Error(err, "submission failed", "resource", kind)
		return StatusFailure
	}
	return StatusSuccess
}
