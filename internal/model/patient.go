package model

import (
	"fmt"
	"strings"

	"github.com/jwalitptl/fhir-console/internal/query"
)

// AdministrativeGender codes per FHIR R4.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderOther   = "other"
	GenderUnknown = "unknown"
)

// AllowedGenders is the closed value set for Patient.gender.
var AllowedGenders = []string{GenderMale, GenderFemale, GenderOther, GenderUnknown}

// Patient is the FHIR R4 Patient subset handled by the console. ID is
// server-assigned and absent until the first successful submission.
type Patient struct {
	ResourceType     string         `json:"resourceType,omitempty"`
	ID               string         `json:"id,omitempty"`
	Meta             *Meta          `json:"meta,omitempty"`
	Identifier       []Identifier   `json:"identifier,omitempty"`
	Active           bool           `json:"active,omitempty"`
	Name             []HumanName    `json:"name,omitempty"`
	Telecom          []ContactPoint `json:"telecom,omitempty"`
	Gender           string         `json:"gender,omitempty"`
	BirthDate        string         `json:"birthDate,omitempty"`
	DeceasedBoolean  *bool          `json:"deceasedBoolean,omitempty"`
	Address          []Address      `json:"address,omitempty"`
	MultipleBirth    *bool          `json:"multipleBirthBoolean,omitempty"`
	Photo            []Attachment   `json:"photo,omitempty"`
}

// Queryable Patient attributes.
const (
	PatientFieldName       query.Field = "name"
	PatientFieldFamily     query.Field = "family"
	PatientFieldBirthDate  query.Field = "birthDate"
	PatientFieldIdentifier query.Field = "identifier"
	PatientFieldGender     query.Field = "gender"
	PatientFieldPhone      query.Field = "phone"
	PatientFieldEmail      query.Field = "email"
)

var patientFields = map[query.Field]bool{
	PatientFieldName:       true,
	PatientFieldFamily:     true,
	PatientFieldBirthDate:  true,
	PatientFieldIdentifier: true,
	PatientFieldGender:     true,
	PatientFieldPhone:      true,
	PatientFieldEmail:      true,
}

// ParsePatientField validates a raw attribute name against the Patient
// field set. An empty name is valid and projects to nothing.
func ParsePatientField(raw string) (query.Field, error) {
	if raw == "" {
		return "", nil
	}
	f := query.Field(raw)
	if !patientFields[f] {
		return "", fmt.Errorf("unknown patient attribute %q", raw)
	}
	return f, nil
}

// Project returns the textual projection of one attribute. Nested access
// tolerates absence at every level; no field is guaranteed present.
func (p *Patient) Project(field query.Field) (string, bool) {
	switch field {
	case PatientFieldName:
		if len(p.Name) > 0 && len(p.Name[0].Given) > 0 && p.Name[0].Given[0] != "" {
			return p.Name[0].Given[0], true
		}
	case PatientFieldFamily:
		if len(p.Name) > 0 && p.Name[0].Family != "" {
			return p.Name[0].Family, true
		}
	case PatientFieldBirthDate:
		if p.BirthDate != "" {
			return p.BirthDate, true
		}
	case PatientFieldIdentifier:
		if len(p.Identifier) > 0 && p.Identifier[0].Value != "" {
			return p.Identifier[0].Value, true
		}
	case PatientFieldGender:
		if p.Gender != "" {
			return p.Gender, true
		}
	case PatientFieldPhone:
		return p.telecomValue("phone")
	case PatientFieldEmail:
		return p.telecomValue("email")
	}
	return "", false
}

func (p *Patient) telecomValue(system string) (string, bool) {
	for _, t := range p.Telecom {
		if t.System == system && t.Value != "" {
			return t.Value, true
		}
	}
	return "", false
}

// AddressText renders the first address for display: the free-text form
// when stored that way, otherwise the structured parts joined.
func (p *Patient) AddressText() string {
	if len(p.Address) == 0 {
		return "No address available"
	}
	first := p.Address[0]
	if first.Text != "" {
		return first.Text
	}
	if len(first.Line) > 0 && first.City != "" && first.State != "" && first.PostalCode != "" {
		return fmt.Sprintf("%s %s, %s %s", strings.Join(first.Line, ", "), first.City, first.State, first.PostalCode)
	}
	return "No address available"
}
