// Package session implements the per-user browsing state: the active filter,
// the focused entity kind and the last selected entity of each kind.
//
// A Session is owned by exactly one caller and is not safe for concurrent
// use. Every transition runs to completion, including recomputing the visible
// manufacturer list, before it returns.
package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vacciprofile/internal/catalog"
	"vacciprofile/internal/filter"
	"vacciprofile/internal/observability"
	"vacciprofile/pkg/domain"
)

// Operation names reported to the metrics recorder.
const (
	OpSearch              = "search"
	OpToggleLetter        = "toggle_letter"
	OpClearFilters        = "clear_filters"
	OpSelectVirus         = "select_virus"
	OpSelectVaccine       = "select_vaccine"
	OpSelectManufacturer  = "select_manufacturer"
	OpToggleManufacturer  = "toggle_manufacturer"
	OpSelectAccreditation = "select_accreditation"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for transition tracing.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r observability.Recorder) Option {
	return func(s *Session) {
		if r != nil {
			s.recorder = r
		}
	}
}

// Session is the selection state machine for one browsing session.
type Session struct {
	catalog  *catalog.Catalog
	logger   *zap.Logger
	recorder observability.Recorder

	filter  filter.State
	visible []domain.Manufacturer

	kind          domain.Kind
	virus         *domain.Virus
	vaccine       *domain.Vaccine
	manufacturer  *domain.Manufacturer
	accreditation *string
}

// New starts a session over c with no filter and nothing selected.
func New(c *catalog.Catalog, opts ...Option) *Session {
	s := &Session{
		catalog:  c,
		logger:   zap.NewNop(),
		recorder: observability.NopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.refilter()
	return s
}

// Catalog returns the catalogue the session browses.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Search replaces the keyword filter.
func (s *Session) Search(keyword string) {
	start := time.Now()
	s.filter.Keyword = keyword
	s.refilter()
	s.observe(OpSearch, start, nil)
}

// ToggleLetter applies the first-letter filter, clearing it when letter is
// already active. Any letter change drops the selected manufacturer.
func (s *Session) ToggleLetter(letter string) error {
	start := time.Now()
	next, err := s.filter.ToggleLetter(letter)
	if err != nil {
		s.observe(OpToggleLetter, start, err)
		return err
	}
	s.filter = next
	s.manufacturer = nil
	s.refilter()
	s.observe(OpToggleLetter, start, nil)
	return nil
}

// ClearFilters removes both the keyword and the letter filter.
func (s *Session) ClearFilters() {
	start := time.Now()
	s.filter = filter.State{}
	s.refilter()
	s.observe(OpClearFilters, start, nil)
}

// SelectVirus focuses v and selects the vaccine its first reference points
// to. The letter filter is cleared; the keyword is kept. When v has no vaccine
// reference, or the reference does not resolve, v is still focused but the
// selected vaccine becomes unavailable and the lookup error is returned.
func (s *Session) SelectVirus(v domain.Virus) error {
	start := time.Now()
	var err error
	if len(v.Vaccines) == 0 {
		err = domain.ErrNotFound{Entity: domain.EntityVaccine, Key: v.VirusID, By: "virus"}
		s.vaccine = nil
	} else {
		var vx domain.Vaccine
		vx, err = s.catalog.VaccineByID(v.Vaccines[0].VaccineID)
		if err != nil {
			s.vaccine = nil
		} else {
			s.vaccine = &vx
		}
	}
	virus := v.Clone()
	s.virus = &virus
	s.kind = domain.KindVirus
	s.filter.Letter = ""
	s.refilter()
	s.observe(OpSelectVirus, start, err)
	return err
}

// SelectVaccine resolves ref by tradename and focuses the result. On a failed
// lookup the session is left unchanged.
func (s *Session) SelectVaccine(ref domain.VaccineRef) error {
	start := time.Now()
	vx, err := s.catalog.VaccineByName(ref.Name)
	if err != nil {
		s.observe(OpSelectVaccine, start, err)
		return err
	}
	s.vaccine = &vx
	s.kind = domain.KindVaccine
	s.observe(OpSelectVaccine, start, nil)
	return nil
}

// SelectManufacturer selects and focuses m.
func (s *Session) SelectManufacturer(m domain.Manufacturer) {
	start := time.Now()
	s.setManufacturer(m)
	s.observe(OpSelectManufacturer, start, nil)
}

// ToggleManufacturer applies the sidebar rule: choosing the manufacturer that
// is already selected clears the selection and leaves the focus kind as is;
// any other manufacturer is selected and focused.
func (s *Session) ToggleManufacturer(m domain.Manufacturer) {
	start := time.Now()
	if s.manufacturer != nil && s.manufacturer.ManufacturerID == m.ManufacturerID {
		s.manufacturer = nil
	} else {
		s.setManufacturer(m)
	}
	s.observe(OpToggleManufacturer, start, nil)
}

func (s *Session) setManufacturer(m domain.Manufacturer) {
	cp := m.Clone()
	s.manufacturer = &cp
	s.kind = domain.KindManufacturer
}

// SelectAccreditation selects and focuses an accreditation tag.
func (s *Session) SelectAccreditation(tag string) {
	start := time.Now()
	s.accreditation = &tag
	s.kind = domain.KindAccreditation
	s.observe(OpSelectAccreditation, start, nil)
}

// Filter returns the active filter.
func (s *Session) Filter() filter.State { return s.filter }

// Visible returns the filtered manufacturer list. An empty list is a valid
// outcome and is never nil.
func (s *Session) Visible() []domain.Manufacturer {
	out := make([]domain.Manufacturer, len(s.visible))
	for i, m := range s.visible {
		out[i] = m.Clone()
	}
	return out
}

// Kind returns the focused entity kind.
func (s *Session) Kind() domain.Kind { return s.kind }

// SelectedVirus returns the last selected virus.
func (s *Session) SelectedVirus() (domain.Virus, bool) {
	if s.virus == nil {
		return domain.Virus{}, false
	}
	return s.virus.Clone(), true
}

// SelectedVaccine returns the last selected vaccine. It is unavailable after
// a virus whose first vaccine could not be resolved was selected.
func (s *Session) SelectedVaccine() (domain.Vaccine, bool) {
	if s.vaccine == nil {
		return domain.Vaccine{}, false
	}
	return s.vaccine.Clone(), true
}

// SelectedManufacturer returns the selected manufacturer, if any.
func (s *Session) SelectedManufacturer() (domain.Manufacturer, bool) {
	if s.manufacturer == nil {
		return domain.Manufacturer{}, false
	}
	return s.manufacturer.Clone(), true
}

// SelectedAccreditation returns the last selected accreditation tag.
func (s *Session) SelectedAccreditation() (string, bool) {
	if s.accreditation == nil {
		return "", false
	}
	return *s.accreditation, true
}

// ManufacturerVaccines lists the vaccines of the selected manufacturer. The
// boolean is false when no manufacturer is selected, which callers must keep
// apart from an empty list.
func (s *Session) ManufacturerVaccines() ([]domain.Vaccine, bool) {
	if s.manufacturer == nil {
		return nil, false
	}
	return s.catalog.VaccinesByManufacturer(s.manufacturer.ManufacturerID), true
}

// AccreditationVaccines lists the vaccines carrying the selected tag.
func (s *Session) AccreditationVaccines() ([]domain.Vaccine, bool) {
	if s.accreditation == nil {
		return nil, false
	}
	return s.catalog.VaccinesByAccreditation(*s.accreditation), true
}

func (s *Session) refilter() {
	s.visible = filter.Apply(s.catalog.Manufacturers(), s.filter)
}

func (s *Session) observe(op string, start time.Time, err error) {
	s.recorder.Observe(context.Background(), op, err == nil, time.Since(start))
	if err != nil {
		s.logger.Debug("session transition failed", zap.String("op", op), zap.Error(err))
		return
	}
	s.logger.Debug("session transition",
		zap.String("op", op),
		zap.Stringer("focus", s.kind),
		zap.String("keyword", s.filter.Keyword),
		zap.String("letter", s.filter.Letter),
		zap.Int("visible", len(s.visible)))
}
