package observation

import (
	"context"
	"fmt"

	"github.com/jwalitptl/fhir-console/internal/builder"
	"github.com/jwalitptl/fhir-console/internal/fhir"
	"github.com/jwalitptl/fhir-console/internal/model"
	"github.com/jwalitptl/fhir-console/internal/query"
	"github.com/jwalitptl/fhir-console/internal/service/record"
	"github.com/jwalitptl/fhir-console/internal/service/submission"
	"github.com/jwalitptl/fhir-console/pkg/logger"
)

type Service struct {
	client    *fhir.Client
	lister    *record.Lister[*model.Observation]
	submitter *submission.Service
	tracker   *submission.Tracker
}

func NewService(client *fhir.Client, submitter *submission.Service, log *logger.Logger) *Service {
	fetch := func(ctx context.Context, p fhir.PageParams) ([]*model.Observation, error) {
		return fhir.SearchPage[*model.Observation](ctx, client, model.ResourceObservation, p)
	}
	return &Service{
		client:    client,
		lister:    record.NewLister(fetch, (*model.Observation).Project, log),
		submitter: submitter,
		tracker:   submission.NewTracker(),
	}
}

// List returns the filtered and sorted page view. When subject is
// non-empty the server-side search is scoped to that patient.
func (s *Service) List(ctx context.Context, st query.State, subject string) ([]*model.Observation, error) {
	return s.lister.List(ctx, st, subject)
}

func (s *Service) Get(ctx context.Context, id string) (*model.Observation, error) {
	var o model.Observation
	if err := s.client.Get(ctx, model.ResourceObservation, id, &o); err != nil {
		return nil, fmt.Errorf("failed to get observation: %w", err)
	}
	return &o, nil
}

func (s *Service) Create(ctx context.Context, values builder.FormValues, patientID string) (submission.Status, error) {
	o, err := builder.BuildObservation(values, patientID)
	if err != nil {
		return submission.StatusNone, err
	}

	s.tracker.Begin()
	status := s.submitter.Submit(ctx, model.ResourceObservation, o)
	s.tracker.Resolve(status)
	return status, nil
}

func (s *Service) Update(ctx context.Context, id string, values builder.FormValues, patientID string) (submission.Status, error) {
	o, err := builder.BuildObservation(values, patientID)
	if err != nil {
		return submission.StatusNone, err
	}
	o.ID = id

	s.tracker.Begin()
	status := s.submitter.SubmitUpdate(ctx, model.ResourceObservation, id, o)
	s.tracker.Resolve(status)
	return status, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, model.ResourceObservation, id); err != nil {
		return fmt.Errorf("failed to delete observation: %w", err)
	}
	return nil
}

func (s *Service) Status() submission.Status {
	return s.tracker.Current()
}

func (s *Service) DismissStatus() {
	s.tracker.Dismiss()
}
