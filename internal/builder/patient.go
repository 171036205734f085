package builder

import (
	"github.com/google/uuid"

	"github.com/jwalitptl/fhir-console/internal/model"
	"github.com/jwalitptl/fhir-console/pkg/attachment"
)

// Patient form controls that are always rendered; their structural absence
// means the form layer is broken and the build fails.
var patientRequired = []string{"identifier", "given", "family", "gender", "year", "month", "day"}

// BuildPatient assembles a Patient resource from raw form values plus any
// encoded photo uploads.
func BuildPatient(values FormValues, files []attachment.EncodedFile) (*model.Patient, error) {
	req, err := values.require(patientRequired...)
	if err != nil {
		return nil, err
	}
	identifier, given, family := req[0], req[1], req[2]
	gender := codeOrDefault(req[3], model.AllowedGenders, "")
	birthDate := composeDate(req[4], req[5], req[6])

	name := model.HumanName{
		Given:  []string{given},
		Family: family,
	}
	if title, ok := values.lookup("title"); ok && title != "" {
		name.Prefix = []string{title}
	}

	var telecom []model.ContactPoint
	if phone, ok := values.lookup("phone"); ok {
		telecom = append(telecom, model.ContactPoint{System: "phone", Value: phone})
	}
	if email, ok := values.lookup("email"); ok {
		telecom = append(telecom, model.ContactPoint{System: "email", Value: email})
	}

	var addresses []model.Address
	if addr, ok := buildAddress(values); ok {
		addresses = append(addresses, addr)
	}

	deceased := false
	p := &model.Patient{
		ResourceType:    model.ResourcePatient,
		Identifier:      []model.Identifier{{Value: identifier}},
		Active:          values["active"] == "true" || values["active"] == "on",
		Name:            []model.HumanName{name},
		Telecom:         telecom,
		Gender:          gender,
		BirthDate:       birthDate,
		DeceasedBoolean: &deceased,
		Address:         addresses,
		Photo:           buildAttachments(files),
	}
	return p, nil
}

// buildAddress maps the discrete address controls one-to-one onto an
// Address; each absent raw field leaves its sub-attribute absent.
func buildAddress(values FormValues) (model.Address, bool) {
	var addr model.Address
	populated := false

	if street, ok := values.lookup("street"); ok {
		addr.Line = []string{street}
		populated = true
	}
	for key, dst := range map[string]*string{
		"city":       &addr.City,
		"postalCode": &addr.PostalCode,
		"state":      &addr.State,
		"country":    &addr.Country,
	} {
		if v, ok := values.lookup(key); ok {
			*dst = v
			populated = true
		}
	}
	return addr, populated
}

// buildAttachments turns encoded uploads into attachment entries. An empty
// selection yields an empty sequence, not an error.
func buildAttachments(files []attachment.EncodedFile) []model.Attachment {
	out := make([]model.Attachment, 0, len(files))
	for _, f := range files {
		contentType, payload := attachment.Decode(f.DataURI)
		out = append(out, model.Attachment{
			ID:          uuid.New().String(),
			ContentType: contentType,
			Data:        payload,
			Title:       f.Name,
		})
	}
	return out
}
