package session

import (
	"vacciprofile/internal/textfmt"
	"vacciprofile/pkg/domain"
)

// Details is the payload of the focused entity. The concrete type always
// matches the focus kind: NoDetails, VirusDetails, VaccineDetails,
// ManufacturerDetails or AccreditationDetails.
type Details interface {
	Kind() domain.Kind
	sealed()
}

// NoDetails is reported when nothing is focused or the focused slot has been
// cleared.
type NoDetails struct{}

// VirusDetails describes the focused virus.
type VirusDetails struct {
	Virus       domain.Virus       `json:"virus"`
	Description []textfmt.Fragment `json:"description"`
}

// VaccineDetails describes the focused vaccine.
type VaccineDetails struct {
	Vaccine     domain.Vaccine     `json:"vaccine"`
	Description []textfmt.Fragment `json:"description"`
}

// LabeledAttribute is a manufacturer attribute with its display label.
type LabeledAttribute struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// ManufacturerDetails describes the focused manufacturer. Sources and the
// last-updated stamp are carried separately from the attribute list.
type ManufacturerDetails struct {
	Manufacturer domain.Manufacturer `json:"manufacturer"`
	Description  []textfmt.Fragment  `json:"description"`
	Attributes   []LabeledAttribute  `json:"attributes"`
	Sources      []domain.Source     `json:"sources"`
	LastUpdated  string              `json:"lastUpdated,omitempty"`
}

// AccreditationDetails lists the vaccines carrying the focused tag.
type AccreditationDetails struct {
	Tag      string           `json:"tag"`
	Vaccines []domain.Vaccine `json:"vaccines"`
}

func (NoDetails) Kind() domain.Kind            { return domain.KindNone }
func (VirusDetails) Kind() domain.Kind         { return domain.KindVirus }
func (VaccineDetails) Kind() domain.Kind       { return domain.KindVaccine }
func (ManufacturerDetails) Kind() domain.Kind  { return domain.KindManufacturer }
func (AccreditationDetails) Kind() domain.Kind { return domain.KindAccreditation }

func (NoDetails) sealed()            {}
func (VirusDetails) sealed()         {}
func (VaccineDetails) sealed()       {}
func (ManufacturerDetails) sealed()  {}
func (AccreditationDetails) sealed() {}

// Details returns the payload for the focused kind.
func (s *Session) Details() Details {
	names := s.catalog.ScientificNames()
	switch s.kind {
	case domain.KindVirus:
		if s.virus == nil {
			return NoDetails{}
		}
		return VirusDetails{
			Virus:       s.virus.Clone(),
			Description: textfmt.Emphasize(s.virus.Description, names),
		}
	case domain.KindVaccine:
		if s.vaccine == nil {
			return NoDetails{}
		}
		return VaccineDetails{
			Vaccine:     s.vaccine.Clone(),
			Description: textfmt.Emphasize(s.vaccine.Description, names),
		}
	case domain.KindManufacturer:
		if s.manufacturer == nil {
			return NoDetails{}
		}
		return manufacturerDetails(s.manufacturer.Clone(), names)
	case domain.KindAccreditation:
		if s.accreditation == nil {
			return NoDetails{}
		}
		return AccreditationDetails{
			Tag:      *s.accreditation,
			Vaccines: s.catalog.VaccinesByAccreditation(*s.accreditation),
		}
	}
	return NoDetails{}
}

func manufacturerDetails(m domain.Manufacturer, names []string) ManufacturerDetails {
	d := ManufacturerDetails{
		Manufacturer: m,
		Description:  textfmt.Emphasize(m.Description, names),
		Attributes:   []LabeledAttribute{},
		Sources:      []domain.Source{},
	}
	if m.Information == nil {
		return d
	}
	for _, a := range m.Information.Attributes {
		d.Attributes = append(d.Attributes, LabeledAttribute{
			Key:   a.Key,
			Label: textfmt.ReadableLabel(a.Key),
			Value: a.Value,
		})
	}
	d.Sources = append(d.Sources, m.Information.Sources...)
	d.LastUpdated = m.Information.LastUpdated
	return d
}
