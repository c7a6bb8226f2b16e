// Package catalog holds the immutable entity collections of a loaded
// catalogue and the pure lookups that traverse their references.
package catalog

import (
	"vacciprofile/pkg/domain"
)

// Catalog is a read-only snapshot of the manufacturer, virus and vaccine
// collections plus the scientific-name vocabulary. It is safe for concurrent
// use; every accessor returns copies.
type Catalog struct {
	manufacturers   []domain.Manufacturer
	viruses         []domain.Virus
	vaccines        []domain.Vaccine
	scientificNames []string

	manufacturerByID map[string]int
	virusByID        map[string]int
	vaccineByID      map[string]int
	vaccineByName    map[string]int
	byManufacturer   map[string][]int
	byAccreditation  map[string][]int
	accreditations   []string
}

// New builds a catalogue from already-parsed collections. Input slices are
// copied. When an id or a vaccine name repeats, the first record wins, which
// keeps indexed lookups identical to a front-to-back scan.
func New(manufacturers []domain.Manufacturer, viruses []domain.Virus, vaccines []domain.Vaccine, scientificNames []string) *Catalog {
	c := &Catalog{
		manufacturers:    make([]domain.Manufacturer, len(manufacturers)),
		viruses:          make([]domain.Virus, len(viruses)),
		vaccines:         make([]domain.Vaccine, len(vaccines)),
		scientificNames:  append([]string(nil), scientificNames...),
		manufacturerByID: make(map[string]int, len(manufacturers)),
		virusByID:        make(map[string]int, len(viruses)),
		vaccineByID:      make(map[string]int, len(vaccines)),
		vaccineByName:    make(map[string]int, len(vaccines)),
		byManufacturer:   make(map[string][]int),
		byAccreditation:  make(map[string][]int),
	}
	for i, m := range manufacturers {
		c.manufacturers[i] = m.Clone()
		if _, ok := c.manufacturerByID[m.ManufacturerID]; !ok {
			c.manufacturerByID[m.ManufacturerID] = i
		}
	}
	for i, v := range viruses {
		c.viruses[i] = v.Clone()
		if _, ok := c.virusByID[v.VirusID]; !ok {
			c.virusByID[v.VirusID] = i
		}
	}
	for i, v := range vaccines {
		c.vaccines[i] = v.Clone()
		if _, ok := c.vaccineByID[v.VaccineID]; !ok {
			c.vaccineByID[v.VaccineID] = i
		}
		if _, ok := c.vaccineByName[v.Name]; !ok {
			c.vaccineByName[v.Name] = i
		}
		c.byManufacturer[v.ManufacturerID] = append(c.byManufacturer[v.ManufacturerID], i)
		seen := make(map[string]struct{}, len(v.Accreditation))
		for _, tag := range v.Accreditation {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			if _, known := c.byAccreditation[tag]; !known {
				c.accreditations = append(c.accreditations, tag)
			}
			c.byAccreditation[tag] = append(c.byAccreditation[tag], i)
		}
	}
	return c
}

// Manufacturers returns every manufacturer in dataset order.
func (c *Catalog) Manufacturers() []domain.Manufacturer {
	out := make([]domain.Manufacturer, len(c.manufacturers))
	for i, m := range c.manufacturers {
		out[i] = m.Clone()
	}
	return out
}

// Viruses returns every virus in dataset order.
func (c *Catalog) Viruses() []domain.Virus {
	out := make([]domain.Virus, len(c.viruses))
	for i, v := range c.viruses {
		out[i] = v.Clone()
	}
	return out
}

// Vaccines returns every vaccine in dataset order.
func (c *Catalog) Vaccines() []domain.Vaccine {
	return c.pick(nil, true)
}

// ScientificNames returns the vocabulary used to emphasise names in descriptions.
func (c *Catalog) ScientificNames() []string {
	return append([]string(nil), c.scientificNames...)
}

// Counts reports collection sizes, used for load logging.
func (c *Catalog) Counts() (manufacturers, viruses, vaccines int) {
	return len(c.manufacturers), len(c.viruses), len(c.vaccines)
}

// pick copies the vaccines at the given positions; all selects every vaccine.
func (c *Catalog) pick(idx []int, all bool) []domain.Vaccine {
	if all {
		out := make([]domain.Vaccine, len(c.vaccines))
		for i, v := range c.vaccines {
			out[i] = v.Clone()
		}
		return out
	}
	out := make([]domain.Vaccine, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.vaccines[i].Clone())
	}
	return out
}
