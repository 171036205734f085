package builder

import (
	"github.com/jwalitptl/fhir-console/internal/model"
	"github.com/jwalitptl/fhir-console/pkg/attachment"
)

var mediaRequired = []string{"identifier", "status", "type", "year", "month", "day", "hour", "minute"}

// BuildMedia assembles one Media resource per uploaded file, all sharing
// the same identifier, status, type, subject and capture time. An empty
// file selection yields an empty sequence, not an error.
//
// The status fallback is "preliminary" even though that code is not in the
// Media event-status set; existing consumers depend on it, so it stays.
func BuildMedia(values FormValues, patientID string, files []attachment.EncodedFile) ([]*model.Media, error) {
	req, err := values.require(mediaRequired...)
	if err != nil {
		return nil, err
	}
	identifier := req[0]
	status := codeOrDefault(req[1], model.AllowedMediaStatuses, "preliminary")
	mediaType := codeOrDefault(req[2], model.AllowedMediaTypes, model.MediaTypeImage)
	created := composeDateTime(req[3], req[4], req[5], req[6], req[7])

	var subject *model.Reference
	if patientID != "" {
		subject = &model.Reference{
			Type:      model.ResourcePatient,
			Reference: model.ResourcePatient + "/" + patientID,
		}
	}

	var bodySite *model.CodeableConcept
	if raw, ok := values.lookup("bodySite"); ok && raw != "" {
		bodySite = &model.CodeableConcept{
			Coding: []model.Coding{{System: model.SystemBodySite, Code: raw}},
		}
	}

	var notes []model.Annotation
	if note, ok := values.lookup("note"); ok && note != "" {
		notes = []model.Annotation{{Text: note}}
	}

	attachments := buildAttachments(files)
	out := make([]*model.Media, 0, len(attachments))
	for i := range attachments {
		content := attachments[i]
		out = append(out, &model.Media{
			ResourceType: model.ResourceMedia,
			Identifier:   []model.Identifier{{Value: identifier}},
			Status:       status,
			Type: &model.CodeableConcept{
				Coding: []model.Coding{{System: model.SystemMediaType, Code: mediaType}},
			},
			Subject:         subject,
			CreatedDateTime: created,
			BodySite:        bodySite,
			Content:         &content,
			Note:            notes,
		})
	}
	return out, nil
}
