// Package domain defines the catalogue entities shared by the store, the
// selection engine and the adapters of vacciprofile.
package domain

// EntityType identifies a catalogue collection.
type EntityType string

// Catalogue collections. Accreditation is not stored on its own; it names the
// tag space found inside Vaccine.Accreditation.
const (
	// EntityManufacturer identifies a manufacturer record.
	EntityManufacturer EntityType = "manufacturer"
	// EntityVirus identifies a pathogen record.
	EntityVirus EntityType = "virus"
	// EntityVaccine identifies a vaccine record.
	EntityVaccine EntityType = "vaccine"
	// EntityAccreditation identifies an accreditation tag.
	EntityAccreditation EntityType = "accreditation"
)

// Kind is the entity kind currently focused by a browsing session.
type Kind string

// Focus kinds. KindNone is the unfocused default of a new session.
const (
	KindNone          Kind = ""
	KindVirus         Kind = "Virus"
	KindVaccine       Kind = "Vaccine"
	KindManufacturer  Kind = "Manufacturer"
	KindAccreditation Kind = "Accreditation"
)

// String returns a printable name, "None" for the unfocused state.
func (k Kind) String() string {
	if k == KindNone {
		return "None"
	}
	return string(k)
}

// Manufacturer is a vaccine producer.
type Manufacturer struct {
	ManufacturerID string       `json:"manufacturerId"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Information    *Information `json:"information,omitempty"`
}

// Information holds the reported facts about a manufacturer. Attributes keep
// the order of the source dataset.
type Information struct {
	Attributes  []Attribute `json:"attributes"`
	Sources     []Source    `json:"sources"`
	LastUpdated string      `json:"lastUpdated,omitempty"`
}

// Attribute is a single scalar fact such as "ceo" or "headOffice".
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Source cites where manufacturer information was reported.
type Source struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	LastUpdated string `json:"lastUpdated"`
}

// Virus is a pathogen targeted by one or more vaccines.
type Virus struct {
	VirusID     string       `json:"virusId"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Vaccines    []VaccineRef `json:"vaccines"`
}

// VaccineRef is a lightweight reference to a vaccine. Virus records carry the
// id only; selection by tradename carries the name.
type VaccineRef struct {
	VaccineID string `json:"vaccineId"`
	Name      string `json:"name,omitempty"`
}

// Vaccine is a licensed product targeting one virus, made by one manufacturer.
type Vaccine struct {
	VaccineID      string   `json:"vaccineId"`
	VirusID        string   `json:"virusId"`
	ManufacturerID string   `json:"manufacturerId"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Link           string   `json:"link"`
	LastUpdated    string   `json:"lastUpdated"`
	Countries      []string `json:"countries"`
	Recommendation string   `json:"recommendation"`
	Accreditation  []string `json:"accreditation"`
	VaccineType    string   `json:"vaccineType"`
	Comments       string   `json:"comments"`
	Revenue        string   `json:"revenue"`
}

// Ref returns a reference carrying both the id and the tradename.
func (v Vaccine) Ref() VaccineRef {
	return VaccineRef{VaccineID: v.VaccineID, Name: v.Name}
}

// HasAccreditation reports whether tag appears in the vaccine's accreditation set.
func (v Vaccine) HasAccreditation(tag string) bool {
	for _, a := range v.Accreditation {
		if a == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the manufacturer.
func (m Manufacturer) Clone() Manufacturer {
	cp := m
	if m.Information != nil {
		info := *m.Information
		info.Attributes = append([]Attribute(nil), m.Information.Attributes...)
		info.Sources = append([]Source(nil), m.Information.Sources...)
		cp.Information = &info
	}
	return cp
}

// Clone returns a deep copy of the virus.
func (v Virus) Clone() Virus {
	cp := v
	cp.Vaccines = append([]VaccineRef(nil), v.Vaccines...)
	return cp
}

// Clone returns a deep copy of the vaccine.
func (v Vaccine) Clone() Vaccine {
	cp := v
	cp.Countries = append([]string(nil), v.Countries...)
	cp.Accreditation = append([]string(nil), v.Accreditation...)
	return cp
}
