package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacciprofile/internal/session"
	"vacciprofile/pkg/domain"
	"vacciprofile/testutil"
)

func newTestModel(t *testing.T) model {
	t.Helper()
	m, err := newModel(session.New(testutil.Catalog()), Options{GlamourStyle: "notty", Width: 120})
	require.NoError(t, err)
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		var ok bool
		m, ok = next.(model)
		require.True(t, ok)
	}
	return m
}

func TestLetterAndManufacturerSelection(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, m.View(), "Select a manufacturer")

	m = press(t, m, "P")
	assert.Equal(t, "P", m.session.Filter().Letter)
	require.Len(t, m.session.Visible(), 1)
	assert.Contains(t, m.View(), "[P]")

	m = press(t, m, "enter")
	mf, ok := m.session.SelectedManufacturer()
	require.True(t, ok)
	assert.Equal(t, testutil.Pfizer, mf.ManufacturerID)
	view := m.View()
	assert.Contains(t, view, "Comirnaty")
	assert.Contains(t, view, "Abrysvo")
	assert.Contains(t, view, "Albert Bourla")

	m = press(t, m, "P")
	_, ok = m.session.SelectedManufacturer()
	assert.False(t, ok, "letter toggle clears the manufacturer")
	assert.Equal(t, paneSidebar, m.pane)
	assert.Len(t, m.session.Visible(), 5)
}

func TestTableSelections(t *testing.T) {
	m := press(t, newTestModel(t), "P", "enter", "tab", "down", "enter")
	assert.Equal(t, paneTable, m.pane)
	vx, ok := m.session.SelectedVaccine()
	require.True(t, ok)
	assert.Equal(t, "Abrysvo", vx.Name)
	assert.Equal(t, domain.KindVaccine, m.session.Kind())

	m = press(t, m, "v")
	virus, ok := m.session.SelectedVirus()
	require.True(t, ok)
	assert.Equal(t, "RSV", virus.Name)
	assert.Equal(t, domain.KindVirus, m.session.Kind())

	m = press(t, m, "up", "a")
	tag, _ := m.session.SelectedAccreditation()
	assert.Equal(t, "FDA", tag)
	m = press(t, m, "a")
	tag, _ = m.session.SelectedAccreditation()
	assert.Equal(t, "EMA", tag)
	assert.Equal(t, domain.KindAccreditation, m.session.Kind())
	assert.Contains(t, m.View(), "Accreditation EMA")

	m = press(t, m, "m")
	assert.Equal(t, domain.KindManufacturer, m.session.Kind())

	m = press(t, m, "tab")
	assert.Equal(t, paneSidebar, m.pane)
}

func TestUnresolvedVirusShowsStatus(t *testing.T) {
	m := press(t, newTestModel(t), "E", "enter", "tab", "down", "v")
	assert.Contains(t, m.status, "not found")
	assert.Contains(t, m.View(), "unavailable")

	m = press(t, m, "down")
	assert.Empty(t, m.status, "status clears on the next key")
}

func TestSearchInput(t *testing.T) {
	m := press(t, newTestModel(t), "/", "z", "z", "z")
	assert.True(t, m.search.Focused())
	assert.Equal(t, "zzz", m.session.Filter().Keyword)
	assert.Contains(t, m.View(), "No manufacturers match")

	m = press(t, m, "esc")
	assert.False(t, m.search.Focused())

	m = press(t, m, "x")
	assert.Empty(t, m.session.Filter().Keyword)
	assert.Empty(t, m.search.Value())
	assert.Len(t, m.session.Visible(), 5)
}

func TestQuitAndResize(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	assert.Nil(t, cmd)
	assert.Equal(t, 60, next.(model).width)

	_, cmd = m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
