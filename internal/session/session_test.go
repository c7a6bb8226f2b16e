package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"vacciprofile/internal/catalog"
	"vacciprofile/internal/filter"
	"vacciprofile/internal/session"
	"vacciprofile/pkg/domain"
	"vacciprofile/testutil"
)

type observation struct {
	op      string
	success bool
}

type fakeRecorder struct {
	calls []observation
}

func (f *fakeRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	f.calls = append(f.calls, observation{op: op, success: success})
}

func newSession(t *testing.T) (*session.Session, *catalog.Catalog) {
	t.Helper()
	c := testutil.Catalog()
	return session.New(c), c
}

func manufacturer(t *testing.T, c *catalog.Catalog, id string) domain.Manufacturer {
	t.Helper()
	m, err := c.ManufacturerByID(id)
	require.NoError(t, err)
	return m
}

func virus(t *testing.T, c *catalog.Catalog, id string) domain.Virus {
	t.Helper()
	v, err := c.VirusByID(id)
	require.NoError(t, err)
	return v
}

func visibleIDs(s *session.Session) []string {
	out := []string{}
	for _, m := range s.Visible() {
		out = append(out, m.ManufacturerID)
	}
	return out
}

func vaccineIDs(vs []domain.Vaccine) []string {
	out := []string{}
	for _, v := range vs {
		out = append(out, v.VaccineID)
	}
	return out
}

func TestNewSessionStartsUnfiltered(t *testing.T) {
	s, _ := newSession(t)

	assert.Equal(t, domain.KindNone, s.Kind())
	assert.True(t, s.Filter().IsZero())
	assert.Equal(t, []string{testutil.Pfizer, testutil.Moderna, testutil.Bavarian, testutil.Emergent, testutil.Novavax}, visibleIDs(s))
	_, ok := s.SelectedManufacturer()
	assert.False(t, ok)
	_, ok = s.SelectedVirus()
	assert.False(t, ok)
	assert.Equal(t, session.NoDetails{}, s.Details())
}

func TestSearchAndClearFilters(t *testing.T) {
	s, _ := newSession(t)

	s.Search("biotech")
	assert.Equal(t, []string{testutil.Moderna, testutil.Bavarian}, visibleIDs(s))

	require.NoError(t, s.ToggleLetter("M"))
	assert.Equal(t, []string{testutil.Moderna}, visibleIDs(s))

	s.ClearFilters()
	assert.Equal(t, filter.State{}, s.Filter())
	assert.Len(t, s.Visible(), 5)
}

func TestClearFiltersKeepsSelection(t *testing.T) {
	s, c := newSession(t)
	s.SelectManufacturer(manufacturer(t, c, testutil.Pfizer))
	s.Search("pfizer")

	s.ClearFilters()

	m, ok := s.SelectedManufacturer()
	require.True(t, ok)
	assert.Equal(t, testutil.Pfizer, m.ManufacturerID)
}

func TestToggleLetterClearsSelectedManufacturer(t *testing.T) {
	s, c := newSession(t)
	s.SelectManufacturer(manufacturer(t, c, testutil.Pfizer))

	require.NoError(t, s.ToggleLetter("P"))
	assert.Equal(t, "P", s.Filter().Letter)
	assert.Equal(t, []string{testutil.Pfizer}, visibleIDs(s))
	_, ok := s.SelectedManufacturer()
	assert.False(t, ok)
	assert.Equal(t, domain.KindManufacturer, s.Kind())

	s.SelectManufacturer(manufacturer(t, c, testutil.Pfizer))
	require.NoError(t, s.ToggleLetter("P"))
	assert.Empty(t, s.Filter().Letter)
	assert.Len(t, s.Visible(), 5)
	_, ok = s.SelectedManufacturer()
	assert.False(t, ok)
}

func TestToggleLetterRejectsInvalidInput(t *testing.T) {
	s, c := newSession(t)
	s.SelectManufacturer(manufacturer(t, c, testutil.Moderna))

	for _, letter := range []string{"", "m", "MM", "1"} {
		err := s.ToggleLetter(letter)
		assert.ErrorIs(t, err, domain.ErrInvalidLetter, "letter %q", letter)
	}
	assert.Empty(t, s.Filter().Letter)
	_, ok := s.SelectedManufacturer()
	assert.True(t, ok)
}

func TestToggleManufacturer(t *testing.T) {
	s, c := newSession(t)
	pfizer := manufacturer(t, c, testutil.Pfizer)

	s.ToggleManufacturer(pfizer)
	m, ok := s.SelectedManufacturer()
	require.True(t, ok)
	assert.Equal(t, testutil.Pfizer, m.ManufacturerID)
	assert.Equal(t, domain.KindManufacturer, s.Kind())

	s.SelectAccreditation("FDA")
	s.ToggleManufacturer(pfizer)
	_, ok = s.SelectedManufacturer()
	assert.False(t, ok)
	assert.Equal(t, domain.KindAccreditation, s.Kind(), "clearing must not move the focus")

	s.ToggleManufacturer(pfizer)
	s.ToggleManufacturer(manufacturer(t, c, testutil.Moderna))
	m, ok = s.SelectedManufacturer()
	require.True(t, ok)
	assert.Equal(t, testutil.Moderna, m.ManufacturerID)
	assert.Equal(t, domain.KindManufacturer, s.Kind())
}

func TestSelectVirusSelectsFirstVaccineAndClearsLetter(t *testing.T) {
	s, c := newSession(t)
	s.Search("bio")
	require.NoError(t, s.ToggleLetter("B"))
	s.SelectManufacturer(manufacturer(t, c, testutil.Bavarian))

	require.NoError(t, s.SelectVirus(virus(t, c, testutil.SarsCoV2)))

	assert.Equal(t, domain.KindVirus, s.Kind())
	assert.Equal(t, filter.State{Keyword: "bio"}, s.Filter())
	v, ok := s.SelectedVirus()
	require.True(t, ok)
	assert.Equal(t, testutil.SarsCoV2, v.VirusID)
	vx, ok := s.SelectedVaccine()
	require.True(t, ok)
	assert.Equal(t, testutil.Comirnaty, vx.VaccineID)
	m, ok := s.SelectedManufacturer()
	require.True(t, ok)
	assert.Equal(t, testutil.Bavarian, m.ManufacturerID)
}

func TestSelectVirusWithUnresolvableVaccine(t *testing.T) {
	for _, id := range []string{testutil.Ghost, testutil.Broken} {
		t.Run(id, func(t *testing.T) {
			s, c := newSession(t)
			require.NoError(t, s.SelectVaccine(domain.VaccineRef{Name: "Spikevax"}))

			err := s.SelectVirus(virus(t, c, id))
			require.Error(t, err)
			assert.True(t, domain.IsNotFound(err))

			assert.Equal(t, domain.KindVirus, s.Kind())
			v, ok := s.SelectedVirus()
			require.True(t, ok)
			assert.Equal(t, id, v.VirusID)
			_, ok = s.SelectedVaccine()
			assert.False(t, ok)
			assert.Contains(t, s.Snapshot().Unavailable, session.UnavailableSelectedVaccine)

			require.NoError(t, s.SelectVirus(virus(t, c, testutil.SarsCoV2)))
			assert.NotContains(t, s.Snapshot().Unavailable, session.UnavailableSelectedVaccine)
		})
	}
}

func TestSelectVaccineResolvesByName(t *testing.T) {
	s, _ := newSession(t)

	require.NoError(t, s.SelectVaccine(domain.VaccineRef{VaccineID: "ignored", Name: "Spikevax"}))
	vx, ok := s.SelectedVaccine()
	require.True(t, ok)
	assert.Equal(t, testutil.Spikevax, vx.VaccineID)
	assert.Equal(t, domain.KindVaccine, s.Kind())

	s.SelectAccreditation("EMA")
	err := s.SelectVaccine(domain.VaccineRef{Name: "Nonexistent"})
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, domain.KindAccreditation, s.Kind())
	vx, ok = s.SelectedVaccine()
	require.True(t, ok)
	assert.Equal(t, testutil.Spikevax, vx.VaccineID)
}

func TestManufacturerVaccines(t *testing.T) {
	s, c := newSession(t)

	_, ok := s.ManufacturerVaccines()
	assert.False(t, ok)

	s.SelectManufacturer(manufacturer(t, c, testutil.Novavax))
	list, ok := s.ManufacturerVaccines()
	assert.True(t, ok)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	s.SelectManufacturer(manufacturer(t, c, testutil.Pfizer))
	list, ok = s.ManufacturerVaccines()
	assert.True(t, ok)
	assert.Equal(t, []string{testutil.Comirnaty, testutil.Abrysvo}, vaccineIDs(list))
}

func TestAccreditationVaccines(t *testing.T) {
	s, _ := newSession(t)

	_, ok := s.AccreditationVaccines()
	assert.False(t, ok)

	s.SelectAccreditation("FDA")
	list, ok := s.AccreditationVaccines()
	assert.True(t, ok)
	assert.Equal(t, []string{testutil.Comirnaty, testutil.Abrysvo, testutil.Spikevax, testutil.Jynneos, testutil.BioThrax}, vaccineIDs(list))

	s.SelectAccreditation("XYZ")
	list, ok = s.AccreditationVaccines()
	assert.True(t, ok)
	assert.Empty(t, list)
	tag, ok := s.SelectedAccreditation()
	assert.True(t, ok)
	assert.Equal(t, "XYZ", tag)
}

func TestDetailsFollowFocus(t *testing.T) {
	s, c := newSession(t)

	require.NoError(t, s.SelectVirus(virus(t, c, testutil.Anthrax)))
	vd, ok := s.Details().(session.VirusDetails)
	require.True(t, ok)
	assert.Equal(t, testutil.Anthrax, vd.Virus.VirusID)
	require.Len(t, vd.Description, 3)
	assert.True(t, vd.Description[1].Scientific)
	assert.Equal(t, "Bacillus anthracis", vd.Description[1].Text)

	require.NoError(t, s.SelectVaccine(domain.VaccineRef{Name: "Jynneos"}))
	xd, ok := s.Details().(session.VaccineDetails)
	require.True(t, ok)
	assert.Equal(t, testutil.Jynneos, xd.Vaccine.VaccineID)
	assert.Equal(t, domain.KindVaccine, xd.Kind())

	s.SelectManufacturer(manufacturer(t, c, testutil.Pfizer))
	md, ok := s.Details().(session.ManufacturerDetails)
	require.True(t, ok)
	assert.Equal(t, []session.LabeledAttribute{
		{Key: "ceo", Label: "CEO", Value: "Albert Bourla"},
		{Key: "headOffice", Label: "head Office", Value: "New York City"},
		{Key: "founded", Label: "founded", Value: "1849"},
	}, md.Attributes)
	assert.Len(t, md.Sources, 2)
	assert.Equal(t, "2024-03-15", md.LastUpdated)

	s.SelectAccreditation("WHO")
	ad, ok := s.Details().(session.AccreditationDetails)
	require.True(t, ok)
	assert.Equal(t, "WHO", ad.Tag)
	assert.Equal(t, []string{testutil.Comirnaty}, vaccineIDs(ad.Vaccines))

	s.ToggleManufacturer(manufacturer(t, c, testutil.Moderna))
	s.ToggleManufacturer(manufacturer(t, c, testutil.Moderna))
	assert.Equal(t, domain.KindManufacturer, s.Kind())
	assert.Equal(t, session.NoDetails{}, s.Details())
}

func TestManufacturerWithoutInformation(t *testing.T) {
	s, c := newSession(t)
	s.SelectManufacturer(manufacturer(t, c, testutil.Moderna))

	md, ok := s.Details().(session.ManufacturerDetails)
	require.True(t, ok)
	assert.NotNil(t, md.Attributes)
	assert.Empty(t, md.Attributes)
	assert.Empty(t, md.Sources)
}

func TestVisibleReturnsCopies(t *testing.T) {
	s, _ := newSession(t)
	list := s.Visible()
	list[0].Name = "mutated"
	assert.Equal(t, "Pfizer", s.Visible()[0].Name)
}

func TestTransitionsAreRecordedAndLogged(t *testing.T) {
	rec := &fakeRecorder{}
	core, logs := observer.New(zapcore.DebugLevel)
	s := session.New(testutil.Catalog(), session.WithRecorder(rec), session.WithLogger(zap.New(core)))

	s.Search("pfizer")
	assert.Error(t, s.SelectVaccine(domain.VaccineRef{Name: "missing"}))
	s.ClearFilters()

	assert.Equal(t, []observation{
		{op: session.OpSearch, success: true},
		{op: session.OpSelectVaccine, success: false},
		{op: session.OpClearFilters, success: true},
	}, rec.calls)

	entries := logs.FilterField(zap.String("op", session.OpSearch)).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "session transition", entries[0].Message)
	assert.Equal(t, 1, logs.FilterMessage("session transition failed").Len())
}

func TestNilOptionsKeepDefaults(t *testing.T) {
	s := session.New(testutil.Catalog(), session.WithLogger(nil), session.WithRecorder(nil))
	s.Search("x")
	assert.Equal(t, "x", s.Filter().Keyword)
}
