package model

import (
	"fmt"

	"github.com/jwalitptl/fhir-console/internal/query"
)

// ObservationStatus values accepted by the entry form.
const (
	ObservationStatusRegistered  = "registered"
	ObservationStatusPreliminary = "preliminary"
	ObservationStatusFinal       = "final"
)

// ObservationCategory codes per FHIR R4.
const (
	ObsCategoryVitalSigns = "vital-signs"
	ObsCategoryImaging    = "imaging"
	ObsCategoryLaboratory = "laboratory"
	ObsCategoryProcedure  = "procedure"
	ObsCategorySurvey     = "survey"
	ObsCategoryExam       = "exam"
	ObsCategoryTherapy    = "therapy"
	ObsCategoryActivity   = "activity"
)

var (
	// AllowedObservationStatuses is the closed value set for
	// Observation.status; out-of-range values fall back to preliminary.
	AllowedObservationStatuses = []string{
		ObservationStatusRegistered,
		ObservationStatusPreliminary,
		ObservationStatusFinal,
	}

	AllowedObservationCategories = []string{
		ObsCategoryVitalSigns,
		ObsCategoryImaging,
		ObsCategoryLaboratory,
		ObsCategoryProcedure,
		ObsCategorySurvey,
		ObsCategoryExam,
		ObsCategoryTherapy,
		ObsCategoryActivity,
	}
)

// Coding systems stamped onto built observations.
const (
	SystemObservationCategory = "http://hl7.org/fhir/ValueSet/observation-category"
	SystemObservationCodes    = "http://hl7.org/fhir/ValueSet/observation-codes"
	SystemBodySite            = "http://hl7.org/fhir/ValueSet/body-site"
)

// Observation is the FHIR R4 Observation subset handled by the console.
type Observation struct {
	ResourceType      string            `json:"resourceType,omitempty"`
	ID                string            `json:"id,omitempty"`
	Meta              *Meta             `json:"meta,omitempty"`
	Identifier        []Identifier      `json:"identifier,omitempty"`
	Status            string            `json:"status,omitempty"`
	Category          []CodeableConcept `json:"category,omitempty"`
	Code              *CodeableConcept  `json:"code,omitempty"`
	Subject           *Reference        `json:"subject,omitempty"`
	EffectiveDateTime string            `json:"effectiveDateTime,omitempty"`
	ValueQuantity     *Quantity         `json:"valueQuantity,omitempty"`
	BodySite          *CodeableConcept  `json:"bodySite,omitempty"`
	Note              []Annotation      `json:"note,omitempty"`
}

// Queryable Observation attributes.
const (
	ObservationFieldIdentifier query.Field = "identifier"
	ObservationFieldStatus     query.Field = "status"
	ObservationFieldCategory   query.Field = "category"
	ObservationFieldCode       query.Field = "code"
	ObservationFieldDate       query.Field = "date"
	ObservationFieldBodySite   query.Field = "bodySite"
	ObservationFieldNote       query.Field = "note"
)

var observationFields = map[query.Field]bool{
	ObservationFieldIdentifier: true,
	ObservationFieldStatus:     true,
	ObservationFieldCategory:   true,
	ObservationFieldCode:       true,
	ObservationFieldDate:       true,
	ObservationFieldBodySite:   true,
	ObservationFieldNote:       true,
}

// ParseObservationField validates a raw attribute name against the
// Observation field set.
func ParseObservationField(raw string) (query.Field, error) {
	if raw == "" {
		return "", nil
	}
	f := query.Field(raw)
	if !observationFields[f] {
		return "", fmt.Errorf("unknown observation attribute %q", raw)
	}
	return f, nil
}

// Project returns the textual projection of one attribute.
func (o *Observation) Project(field query.Field) (string, bool) {
	switch field {
	case ObservationFieldIdentifier:
		if len(o.Identifier) > 0 && o.Identifier[0].Value != "" {
			return o.Identifier[0].Value, true
		}
	case ObservationFieldStatus:
		if o.Status != "" {
			return o.Status, true
		}
	case ObservationFieldCategory:
		if len(o.Category) > 0 {
			return firstCoding(&o.Category[0])
		}
	case ObservationFieldCode:
		return firstCoding(o.Code)
	case ObservationFieldDate:
		if o.EffectiveDateTime != "" {
			return o.EffectiveDateTime, true
		}
	case ObservationFieldBodySite:
		return firstCoding(o.BodySite)
	case ObservationFieldNote:
		if len(o.Note) > 0 && o.Note[0].Text != "" {
			return o.Note[0].Text, true
		}
	}
	return "", false
}
