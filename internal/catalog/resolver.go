package catalog

import (
	"strings"

	"vacciprofile/pkg/domain"
)

// VaccineByID resolves a vaccine by its id.
func (c *Catalog) VaccineByID(id string) (domain.Vaccine, error) {
	i, ok := c.vaccineByID[id]
	if !ok {
		return domain.Vaccine{}, domain.ErrNotFound{Entity: domain.EntityVaccine, Key: id}
	}
	return c.vaccines[i].Clone(), nil
}

// VaccineByName resolves the first vaccine carrying the given tradename.
func (c *Catalog) VaccineByName(name string) (domain.Vaccine, error) {
	i, ok := c.vaccineByName[name]
	if !ok {
		return domain.Vaccine{}, domain.ErrNotFound{Entity: domain.EntityVaccine, Key: name, By: "name"}
	}
	return c.vaccines[i].Clone(), nil
}

// VirusByID resolves a virus by its id.
func (c *Catalog) VirusByID(id string) (domain.Virus, error) {
	i, ok := c.virusByID[id]
	if !ok {
		return domain.Virus{}, domain.ErrNotFound{Entity: domain.EntityVirus, Key: id}
	}
	return c.viruses[i].Clone(), nil
}

// VirusByVaccine resolves the virus a vaccine targets.
func (c *Catalog) VirusByVaccine(v domain.Vaccine) (domain.Virus, error) {
	return c.VirusByID(v.VirusID)
}

// ManufacturerByID resolves a manufacturer by its id.
func (c *Catalog) ManufacturerByID(id string) (domain.Manufacturer, error) {
	i, ok := c.manufacturerByID[id]
	if !ok {
		return domain.Manufacturer{}, domain.ErrNotFound{Entity: domain.EntityManufacturer, Key: id}
	}
	return c.manufacturers[i].Clone(), nil
}

// CountriesByVaccine resolves the referenced vaccine and joins its countries
// with ", " in dataset order.
func (c *Catalog) CountriesByVaccine(ref domain.VaccineRef) (string, error) {
	v, err := c.VaccineByID(ref.VaccineID)
	if err != nil {
		return "", err
	}
	return strings.Join(v.Countries, ", "), nil
}

// RecommendationByVaccine returns the vaccine's recommendation as recorded.
func (c *Catalog) RecommendationByVaccine(v domain.Vaccine) string {
	return v.Recommendation
}

// VaccinesByAccreditation lists vaccines whose accreditation set contains tag,
// in dataset order. The result is empty, never nil, when nothing matches.
func (c *Catalog) VaccinesByAccreditation(tag string) []domain.Vaccine {
	return c.pick(c.byAccreditation[tag], false)
}

// VaccinesByManufacturer lists vaccines made by the given manufacturer, in
// dataset order. The result is empty, never nil, when nothing matches.
func (c *Catalog) VaccinesByManufacturer(manufacturerID string) []domain.Vaccine {
	return c.pick(c.byManufacturer[manufacturerID], false)
}

// Accreditations lists the distinct accreditation tags in first-seen order.
func (c *Catalog) Accreditations() []string {
	return append([]string{}, c.accreditations...)
}
