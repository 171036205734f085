package patient

import (
	"context"
	"fmt"

	"github.com/jwalitptl/fhir-console/internal/builder"
	"github.com/jwalitptl/fhir-console/internal/fhir"
	"github.com/jwalitptl/fhir-console/internal/model"
	"github.com/jwalitptl/fhir-console/internal/query"
	"github.com/jwalitptl/fhir-console/internal/service/record"
	"github.com/jwalitptl/fhir-console/internal/service/submission"
	"github.com/jwalitptl/fhir-console/pkg/attachment"
	"github.com/jwalitptl/fhir-console/pkg/logger"
)

type Service struct {
	client    *fhir.Client
	lister    *record.Lister[*model.Patient]
	submitter *submission.Service
	tracker   *submission.Tracker
	photos    *attachment.PhotoCache
}

func NewService(client *fhir.Client, submitter *submission.Service, photos *attachment.PhotoCache, log *logger.Logger) *Service {
	fetch := func(ctx context.Context, p fhir.PageParams) ([]*model.Patient, error) {
		return fhir.SearchPage[*model.Patient](ctx, client, model.ResourcePatient, p)
	}
	return &Service{
		client:    client,
		lister:    record.NewLister(fetch, (*model.Patient).Project, log),
		submitter: submitter,
		tracker:   submission.NewTracker(),
		photos:    photos,
	}
}

// List returns the filtered and sorted page view. A fetch failure serves
// the previous page; the error is reported alongside so the handler can
// surface staleness without blanking the table.
func (s *Service) List(ctx context.Context, st query.State) ([]*model.Patient, error) {
	return s.lister.List(ctx, st, "")
}

func (s *Service) Get(ctx context.Context, id string) (*model.Patient, error) {
	var p model.Patient
	if err := s.client.Get(ctx, model.ResourcePatient, id, &p); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &p, nil
}

// Create builds a patient from raw form values and submits it. A build
// failure prevents submission entirely; a submission failure is reduced to
// the tri-state status.
func (s *Service) Create(ctx context.Context, values builder.FormValues, files []attachment.EncodedFile) (submission.Status, error) {
	p, err := builder.BuildPatient(values, files)
	if err != nil {
		return submission.StatusNone, err
	}

	s.tracker.Begin()
	status := s.submitter.Submit(ctx, model.ResourcePatient, p)
	s.tracker.Resolve(status)
	return status, nil
}

// Update rebuilds the patient from the edit form and replaces it by id.
func (s *Service) Update(ctx context.Context, id string, values builder.FormValues, files []attachment.EncodedFile) (submission.Status, error) {
	p, err := builder.BuildPatient(values, files)
	if err != nil {
		return submission.StatusNone, err
	}
	p.ID = id

	s.tracker.Begin()
	status := s.submitter.SubmitUpdate(ctx, model.ResourcePatient, id, p)
	s.tracker.Resolve(status)
	return status, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, model.ResourcePatient, id); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

// Photos returns displayable data URIs for a patient's photo attachments,
// rebuilt through the bounded read-through cache.
func (s *Service) Photos(ctx context.Context, id string) ([]string, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	uris := make([]string, 0, len(p.Photo))
	for _, photo := range p.Photo {
		if uri := s.photos.DataURI(ctx, photo.ID, photo.ContentType, photo.Data); uri != "" {
			uris = append(uris, uri)
		}
	}
	return uris, nil
}

func (s *Service) Status() submission.Status {
	return s.tracker.Current()
}

func (s *Service) DismissStatus() {
	s.tracker.Dismiss()
}
