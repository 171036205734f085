package builder

import (
	"github.com/jwalitptl/fhir-console/internal/model"
)

var observationRequired = []string{"identifier", "status", "category", "code", "year", "month", "day", "hour", "minute"}

// BuildObservation assembles an Observation resource from raw form values.
// patientID, when non-empty, links the observation to its subject.
func BuildObservation(values FormValues, patientID string) (*model.Observation, error) {
	req, err := values.require(observationRequired...)
	if err != nil {
		return nil, err
	}
	identifier := req[0]
	status := codeOrDefault(req[1], model.AllowedObservationStatuses, model.ObservationStatusPreliminary)
	category := codeOrDefault(req[2], model.AllowedObservationCategories, model.ObsCategoryVitalSigns)
	code := req[3]
	effective := composeDateTime(req[4], req[5], req[6], req[7], req[8])

	o := &model.Observation{
		ResourceType: model.ResourceObservation,
		Identifier:   []model.Identifier{{Value: identifier}},
		Status:       status,
		Category: []model.CodeableConcept{{
			Coding: []model.Coding{{System: model.SystemObservationCategory, Code: category}},
		}},
		Code: &model.CodeableConcept{
			Coding: []model.Coding{{System: model.SystemObservationCodes, Code: code}},
		},
		EffectiveDateTime: effective,
	}

	if patientID != "" {
		o.Subject = &model.Reference{
			Type:      model.ResourcePatient,
			Reference: model.ResourcePatient + "/" + patientID,
		}
	}
	if bodySite, ok := values.lookup("bodySite"); ok && bodySite != "" {
		o.BodySite = &model.CodeableConcept{
			Coding: []model.Coding{{System: model.SystemBodySite, Code: bodySite}},
		}
	}
	if note, ok := values.lookup("note"); ok && note != "" {
		o.Note = []model.Annotation{{Text: note}}
	}
	return o, nil
}
