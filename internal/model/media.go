package model

import (
	"fmt"

	"github.com/jwalitptl/fhir-console/internal/query"
)

// MediaStatus values per FHIR R4 event-status.
const (
	MediaStatusPreparation    = "preparation"
	MediaStatusInProgress     = "in-progress"
	MediaStatusNotDone        = "not-done"
	MediaStatusOnHold         = "on-hold"
	MediaStatusStopped        = "stopped"
	MediaStatusCompleted      = "completed"
	MediaStatusEnteredInError = "entered-in-error"
	MediaStatusUnknown        = "unknown"
)

// Media type codes.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeAudio = "audio"
)

var (
	AllowedMediaStatuses = []string{
		MediaStatusPreparation,
		MediaStatusInProgress,
		MediaStatusNotDone,
		MediaStatusOnHold,
		MediaStatusStopped,
		MediaStatusCompleted,
		MediaStatusEnteredInError,
		MediaStatusUnknown,
	}

	AllowedMediaTypes = []string{MediaTypeImage, MediaTypeVideo, MediaTypeAudio}
)

// SystemMediaType is the coding system stamped onto built media types.
const SystemMediaType = "http://terminology.hl7.org/CodeSystem/media-type"

// Media is the FHIR R4 Media subset handled by the console. Content holds
// exactly one attachment; a multi-file upload becomes one Media resource
// per file, all referencing the same subject.
type Media struct {
	ResourceType    string           `json:"resourceType,omitempty"`
	ID              string           `json:"id,omitempty"`
	Meta            *Meta            `json:"meta,omitempty"`
	Identifier      []Identifier     `json:"identifier,omitempty"`
	Status          string           `json:"status,omitempty"`
	Type            *CodeableConcept `json:"type,omitempty"`
	Subject         *Reference       `json:"subject,omitempty"`
	CreatedDateTime string           `json:"createdDateTime,omitempty"`
	BodySite        *CodeableConcept `json:"bodySite,omitempty"`
	Content         *Attachment      `json:"content,omitempty"`
	Note            []Annotation     `json:"note,omitempty"`
}

// Queryable Media attributes.
const (
	MediaFieldIdentifier query.Field = "identifier"
	MediaFieldStatus     query.Field = "status"
	MediaFieldType       query.Field = "type"
	MediaFieldDate       query.Field = "date"
	MediaFieldBodySite   query.Field = "bodySite"
	MediaFieldNote       query.Field = "note"
)

var mediaFields = map[query.Field]bool{
	MediaFieldIdentifier: true,
	MediaFieldStatus:     true,
	MediaFieldType:       true,
	MediaFieldDate:       true,
	MediaFieldBodySite:   true,
	MediaFieldNote:       true,
}

// ParseMediaField validates a raw attribute name against the Media field
// set.
func ParseMediaField(raw string) (query.Field, error) {
	if raw == "" {
		return "", nil
	}
	f := query.Field(raw)
	if !mediaFields[f] {
		return "", fmt.Errorf("unknown media attribute %q", raw)
	}
	return f, nil
}

// Project returns the textual projection of one attribute.
func (m *Media) Project(field query.Field) (string, bool) {
	switch field {
	case MediaFieldIdentifier:
		if len(m.Identifier) > 0 && m.Identifier[0].Value != "" {
			return m.Identifier[0].Value, true
		}
	case MediaFieldStatus:
		if m.Status != "" {
			return m.Status, true
		}
	case MediaFieldType:
		return firstCoding(m.Type)
	case MediaFieldDate:
		if m.CreatedDateTime != "" {
			return m.CreatedDateTime, true
		}
	case MediaFieldBodySite:
		return firstCoding(m.BodySite)
	case MediaFieldNote:
		if len(m.Note) > 0 && m.Note[0].Text != "" {
			return m.Note[0].Text, true
		}
	}
	return "", false
}
