// Package testutil holds shared catalogue fixtures and import guards for
// package tests.
package testutil

import (
	"vacciprofile/internal/catalog"
	"vacciprofile/pkg/domain"
)

// Fixture ids shared by package tests.
const (
	Pfizer    = "m-pfizer"
	Moderna   = "m-moderna"
	Bavarian  = "m-bavarian"
	Emergent  = "m-emergent"
	Novavax   = "m-novavax"
	SarsCoV2  = "v-sars-cov-2"
	Anthrax   = "v-anthrax"
	Mpox      = "v-mpox"
	RSV       = "v-rsv"
	Ghost     = "v-ghost"
	Broken    = "v-broken"
	Comirnaty = "vx-comirnaty"
	Abrysvo   = "vx-abrysvo"
	Spikevax  = "vx-spikevax"
	Jynneos   = "vx-jynneos"
	BioThrax  = "vx-biothrax"
	Orphanvax = "vx-orphanvax"
)

// Manufacturers returns the fixture manufacturers in dataset order.
func Manufacturers() []domain.Manufacturer {
	return []domain.Manufacturer{
		{
			ManufacturerID: Pfizer,
			Name:           "Pfizer",
			Description:    "American multinational pharmaceutical corporation.",
			Information: &domain.Information{
				Attributes: []domain.Attribute{
					{Key: "ceo", Value: "Albert Bourla"},
					{Key: "headOffice", Value: "New York City"},
					{Key: "founded", Value: "1849"},
				},
				Sources: []domain.Source{
					{Title: "Annual Report", Link: "https://example.org/pfizer-report", LastUpdated: "2024-02-01"},
					{Title: "Press Kit", Link: "https://example.org/pfizer-press", LastUpdated: "2024-03-15"},
				},
				LastUpdated: "2024-03-15",
			},
		},
		{ManufacturerID: Moderna, Name: "Moderna", Description: "Biotechnology company pioneering mRNA therapeutics."},
		{ManufacturerID: Bavarian, Name: "Bavarian Nordic", Description: "Danish biotechnology company focused on smallpox vaccines."},
		{ManufacturerID: Emergent, Name: "Emergent BioSolutions", Description: "Maker of the anthrax vaccine."},
		{ManufacturerID: Novavax, Name: "Novavax", Description: "Protein-based vaccine developer."},
	}
}

// Viruses returns the fixture viruses. Ghost has no vaccines and Broken
// references a vaccine that does not exist.
func Viruses() []domain.Virus {
	return []domain.Virus{
		{VirusID: SarsCoV2, Name: "SARS-CoV-2", Description: "SARS-CoV-2 causes COVID-19.", Vaccines: []domain.VaccineRef{{VaccineID: Comirnaty}, {VaccineID: Spikevax}}},
		{VirusID: Anthrax, Name: "Anthrax", Description: "The Bacillus anthracis spore is resilient.", Vaccines: []domain.VaccineRef{{VaccineID: BioThrax}}},
		{VirusID: Mpox, Name: "Mpox", Description: "Caused by an orthopoxvirus.", Vaccines: []domain.VaccineRef{{VaccineID: Jynneos}}},
		{VirusID: RSV, Name: "RSV", Description: "Respiratory syncytial virus.", Vaccines: []domain.VaccineRef{{VaccineID: Abrysvo}}},
		{VirusID: Ghost, Name: "Ghost", Description: "No licensed vaccine."},
		{VirusID: Broken, Name: "Broken", Description: "Dangling reference.", Vaccines: []domain.VaccineRef{{VaccineID: "vx-missing"}}},
	}
}

// Vaccines returns the fixture vaccines. BioThrax repeats a tag and Orphanvax
// targets a virus that is not in the catalogue.
func Vaccines() []domain.Vaccine {
	return []domain.Vaccine{
		{
			VaccineID: Comirnaty, VirusID: SarsCoV2, ManufacturerID: Pfizer, Name: "Comirnaty",
			Description: "mRNA vaccine against SARS-CoV-2.", Link: "https://example.org/comirnaty", LastUpdated: "2024-01-10",
			Countries: []string{"USA", "Germany", "Japan"}, Recommendation: "Ages 6 months and older",
			Accreditation: []string{"FDA", "EMA", "WHO"}, VaccineType: "mRNA", Revenue: "11.2B",
		},
		{
			VaccineID: Abrysvo, VirusID: RSV, ManufacturerID: Pfizer, Name: "Abrysvo",
			Description: "Bivalent RSV prefusion F vaccine.", Countries: []string{"USA"},
			Recommendation: "Adults 60 and older", Accreditation: []string{"FDA"}, VaccineType: "Subunit",
		},
		{
			VaccineID: Spikevax, VirusID: SarsCoV2, ManufacturerID: Moderna, Name: "Spikevax",
			Description: "mRNA vaccine against SARS-CoV-2.", Countries: []string{"USA", "Canada"},
			Recommendation: "Ages 6 months and older", Accreditation: []string{"FDA", "EMA"}, VaccineType: "mRNA",
		},
		{
			VaccineID: Jynneos, VirusID: Mpox, ManufacturerID: Bavarian, Name: "Jynneos",
			Description: "Non-replicating orthopoxvirus vaccine.", Countries: []string{"USA", "Denmark"},
			Recommendation: "People at risk of mpox", Accreditation: []string{"FDA", "EMA"}, VaccineType: "Live non-replicating",
		},
		{
			VaccineID: BioThrax, VirusID: Anthrax, ManufacturerID: Emergent, Name: "BioThrax",
			Description: "Protects against Bacillus anthracis.", Countries: []string{"USA"},
			Recommendation: "Military and lab personnel", Accreditation: []string{"FDA", "FDA"}, VaccineType: "Inactivated",
		},
		{
			VaccineID: Orphanvax, VirusID: "v-missing", ManufacturerID: Emergent, Name: "Orphanvax",
			Description: "Targets an unlisted pathogen.", Recommendation: "Not recommended",
		},
	}
}

// ScientificNames returns the fixture emphasis vocabulary.
func ScientificNames() []string {
	return []string{"Bacillus anthracis", "Orthopoxvirus", "SARS-CoV-2"}
}

// Catalog builds the fixture catalogue.
func Catalog() *catalog.Catalog {
	return catalog.New(Manufacturers(), Viruses(), Vaccines(), ScientificNames())
}
