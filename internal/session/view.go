package session

import (
	"vacciprofile/internal/filter"
	"vacciprofile/pkg/domain"
)

// ViewState names which main panel a presentation layer should render.
type ViewState string

const (
	// ViewEmpty means the filter matched nothing; offer to clear filters.
	ViewEmpty ViewState = "empty"
	// ViewPrompt means manufacturers are listed but none is selected.
	ViewPrompt ViewState = "prompt"
	// ViewManufacturer shows the selected manufacturer's vaccine table.
	ViewManufacturer ViewState = "manufacturer"
)

// UnavailableSelectedVaccine marks a focused virus whose first vaccine
// reference did not resolve.
const UnavailableSelectedVaccine = "selectedVaccine"

// SidebarItem is one entry of the visible manufacturer list.
type SidebarItem struct {
	ManufacturerID string `json:"manufacturerId"`
	Name           string `json:"name"`
	Selected       bool   `json:"selected"`
}

// VirusCell is the virus column of a vaccine row.
type VirusCell struct {
	VirusID  string `json:"virusId"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// Row is one line of the manufacturer's vaccine table. Virus and Countries
// are nil when the reference could not be resolved.
type Row struct {
	Vaccine         domain.VaccineRef `json:"vaccine"`
	VaccineSelected bool              `json:"vaccineSelected"`
	Virus           *VirusCell        `json:"virus"`
	Accreditation   []string          `json:"accreditation"`
	SelectedTag     string            `json:"selectedTag,omitempty"`
	Countries       *string           `json:"countries"`
	Recommendation  string            `json:"recommendation"`
}

// View is a complete, self-contained rendering input for one session.
type View struct {
	State        ViewState            `json:"state"`
	Filter       filter.State         `json:"filter"`
	Sidebar      []SidebarItem        `json:"sidebar"`
	Focus        domain.Kind          `json:"focus"`
	Manufacturer *domain.Manufacturer `json:"manufacturer,omitempty"`
	Rows         []Row                `json:"rows,omitempty"`
	Details      Details              `json:"details,omitempty"`
	Unavailable  []string             `json:"unavailable,omitempty"`
}

// Snapshot builds the current view. Details are only attached while a
// manufacturer is selected, mirroring the main panel layout.
func (s *Session) Snapshot() View {
	v := View{
		Filter:  s.filter,
		Sidebar: make([]SidebarItem, 0, len(s.visible)),
		Focus:   s.kind,
	}
	for _, m := range s.visible {
		v.Sidebar = append(v.Sidebar, SidebarItem{
			ManufacturerID: m.ManufacturerID,
			Name:           m.Name,
			Selected:       s.manufacturer != nil && s.manufacturer.ManufacturerID == m.ManufacturerID,
		})
	}

	if s.kind == domain.KindVirus && s.virus != nil && s.vaccine == nil {
		v.Unavailable = append(v.Unavailable, UnavailableSelectedVaccine)
	}

	switch {
	case len(s.visible) == 0:
		v.State = ViewEmpty
		return v
	case s.manufacturer == nil:
		v.State = ViewPrompt
		return v
	}

	v.State = ViewManufacturer
	m := s.manufacturer.Clone()
	v.Manufacturer = &m
	vaccines, _ := s.ManufacturerVaccines()
	v.Rows = make([]Row, 0, len(vaccines))
	for _, vx := range vaccines {
		row := s.row(vx)
		if row.Virus == nil {
			v.Unavailable = append(v.Unavailable, vx.VaccineID+": virus")
		}
		if row.Countries == nil {
			v.Unavailable = append(v.Unavailable, vx.VaccineID+": countries")
		}
		v.Rows = append(v.Rows, row)
	}
	if d := s.Details(); d.Kind() != domain.KindNone {
		v.Details = d
	}
	return v
}

func (s *Session) row(vx domain.Vaccine) Row {
	row := Row{
		Vaccine:         vx.Ref(),
		VaccineSelected: s.kind == domain.KindVaccine && s.vaccine != nil && s.vaccine.Name == vx.Name,
		Accreditation:   append([]string{}, vx.Accreditation...),
		Recommendation:  s.catalog.RecommendationByVaccine(vx),
	}
	if virus, err := s.catalog.VirusByVaccine(vx); err == nil {
		row.Virus = &VirusCell{
			VirusID:  virus.VirusID,
			Name:     virus.Name,
			Selected: s.kind == domain.KindVirus && s.virus != nil && s.virus.Name == virus.Name,
		}
	}
	if countries, err := s.catalog.CountriesByVaccine(vx.Ref()); err == nil {
		row.Countries = &countries
	}
	if s.kind == domain.KindAccreditation && s.accreditation != nil && vx.HasAccreditation(*s.accreditation) {
		row.SelectedTag = *s.accreditation
	}
	return row
}
