package media

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
	lister    *record.Lister[*model.Media]
	submitter *submission.Service
	tracker   *submission.Tracker
	photos    *attachment.PhotoCache
}

func NewService(client *fhir.Client, submitter *submission.Service, photos *attachment.PhotoCache, log *logger.Logger) *Service {
	fetch := func(ctx context.Context, p fhir.PageParams) ([]*model.Media, error) {
		return fhir.SearchPage[*model.Media](ctx, client, model.ResourceMedia, p)
	}
	return &Service{
		client:    client,
		lister:    record.NewLister(fetch, (*model.Media).Project, log),
		submitter: submitter,
		tracker:   submission.NewTracker(),
		photos:    photos,
	}
}

func (s *Service) List(ctx context.Context, st query.State, subject string) ([]*model.Media, error) {
	return s.lister.List(ctx, st, subject)
}

func (s *Service) Get(ctx context.Context, id string) (*model.Media, error) {
	var m model.Media
	if err := s.client.Get(ctx, model.ResourceMedia, id, &m); err != nil {
		return nil, fmt.Errorf("failed to get media: %w", err)
	}
	return &m, nil
}

// Create builds one Media resource per uploaded file and submits them
// concurrently. The aggregate status is success only when every item was
// persisted; items that succeeded before a failure stay persisted.
func (s *Service) Create(ctx context.Context, values builder.FormValues, patientID string, files []attachment.EncodedFile) ([]submission.Outcome, submission.Status, error) {
	items, err := builder.BuildMedia(values, patientID, files)
	if err != nil {
		return nil, submission.StatusNone, err
	}

	resources := make([]any, len(items))
	for i, m := range items {
		resources[i] = m
	}

	s.tracker.Begin()
	outcomes, status := s.submitter.SubmitAll(ctx, model.ResourceMedia, resources)
	s.tracker.Resolve(status)
	return outcomes, status, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, model.ResourceMedia, id); err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	return nil
}

// ContentURI returns the displayable data URI for a media item's content,
// rebuilt through the bounded read-through cache.
func (s *Service) ContentURI(ctx context.Context, id string) (string, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if m.Content == nil {
		return "", nil
	}
	return s.photos.DataURI(ctx, m.Content.ID, m.Content.ContentType, m.Content.Data), nil
}

func (s *Service) Status() submission.Status {
	return s.tracker.Current()
}

func (s *Service) DismissStatus() {
	s.tracker.Dismiss()
}
