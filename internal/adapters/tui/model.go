// Package tui is a terminal browser over one catalogue session.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vacciprofile/internal/filter"
	"vacciprofile/internal/session"
	"vacciprofile/pkg/domain"
)

type pane int

const (
	paneSidebar pane = iota
	paneTable
)

// Options configures the browser.
type Options struct {
	// GlamourStyle names a glamour standard style such as "dark" or "notty".
	// Empty picks one from the terminal background.
	GlamourStyle string
	Width        int
}

type model struct {
	theme    Theme
	session  *session.Session
	search   textinput.Model
	renderer *glamour.TermRenderer
	style    string
	upper    cases.Caser

	pane    pane
	sidebar int
	row     int
	tag     int
	width   int
	status  string
}

// Run opens the browser on s and blocks until the user quits.
func Run(s *session.Session, opts Options) error {
	m, err := newModel(s, opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func newModel(s *session.Session, opts Options) (model, error) {
	width := opts.Width
	if width <= 0 {
		width = 100
	}
	renderer, err := newRenderer(opts.GlamourStyle, width)
	if err != nil {
		return model{}, fmt.Errorf("markdown renderer: %w", err)
	}
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search manufacturers"
	ti.CharLimit = 64
	ti.SetValue(s.Filter().Keyword)

	return model{
		theme:    DefaultTheme(),
		session:  s,
		search:   ti,
		renderer: renderer,
		style:    opts.GlamourStyle,
		upper:    cases.Upper(language.Und),
		width:    width,
	}, nil
}

func newRenderer(style string, width int) (*glamour.TermRenderer, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	wrap := width/2 - 4
	if wrap < 20 {
		wrap = 20
	}
	return glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wrap))
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if r, err := newRenderer(m.style, msg.Width); err == nil {
			m.renderer = r
		}
		return m, nil

	case tea.KeyMsg:
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		m.status = ""
		key := msg.String()
		switch key {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "/":
			cmd := m.search.Focus()
			return m, cmd
		case "tab":
			if m.pane == paneSidebar && m.hasManufacturer() {
				m.pane = paneTable
			} else {
				m.pane = paneSidebar
			}
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "enter":
			m.activate()
		case "v":
			m.selectVirus()
		case "a":
			m.selectAccreditation()
		case "m":
			if mf, ok := m.session.SelectedManufacturer(); ok {
				m.session.SelectManufacturer(mf)
			}
		case "x":
			m.session.ClearFilters()
			m.search.SetValue("")
			m.sidebar = 0
		default:
			if filter.ValidLetter(key) {
				m.report(m.session.ToggleLetter(key))
				m.sidebar, m.row = 0, 0
			}
		}
		m.clamp()
	}
	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc, tea.KeyEnter:
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != m.session.Filter().Keyword {
		m.session.Search(v)
		m.sidebar = 0
		m.clamp()
	}
	return m, cmd
}

func (m *model) move(delta int) {
	if m.pane == paneTable {
		m.row += delta
		m.tag = 0
	} else {
		m.sidebar += delta
	}
}

func (m *model) clamp() {
	if !m.hasManufacturer() {
		m.pane = paneSidebar
	}
	m.sidebar = bound(m.sidebar, len(m.session.Visible()))
	vaccines, _ := m.session.ManufacturerVaccines()
	m.row = bound(m.row, len(vaccines))
}

func bound(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (m *model) hasManufacturer() bool {
	_, ok := m.session.SelectedManufacturer()
	return ok
}

func (m *model) activate() {
	if m.pane == paneTable {
		if vx, ok := m.currentVaccine(); ok {
			m.report(m.session.SelectVaccine(vx.Ref()))
		}
		return
	}
	visible := m.session.Visible()
	if len(visible) == 0 {
		return
	}
	m.session.ToggleManufacturer(visible[m.sidebar])
	m.row, m.tag = 0, 0
}

func (m *model) currentVaccine() (domain.Vaccine, bool) {
	vaccines, ok := m.session.ManufacturerVaccines()
	if !ok || m.row >= len(vaccines) {
		return domain.Vaccine{}, false
	}
	return vaccines[m.row], true
}

func (m *model) selectVirus() {
	vx, ok := m.currentVaccine()
	if !ok {
		return
	}
	virus, err := m.session.Catalog().VirusByVaccine(vx)
	if err != nil {
		m.report(err)
		return
	}
	m.report(m.session.SelectVirus(virus))
}

// selectAccreditation focuses the next tag of the current row on each press.
func (m *model) selectAccreditation() {
	vx, ok := m.currentVaccine()
	if !ok {
		return
	}
	if len(vx.Accreditation) == 0 {
		m.status = vx.Name + " has no accreditation"
		return
	}
	m.session.SelectAccreditation(vx.Accreditation[m.tag%len(vx.Accreditation)])
	m.tag++
}

func (m *model) report(err error) {
	if err != nil {
		m.status = err.Error()
	}
}

func (m model) View() string {
	snap := m.session.Snapshot()
	header := m.theme.Title.Render("VacciProfile") + "  " +
		m.theme.Subtitle.Render("vaccines, pathogens and manufacturers")

	var b strings.Builder
	b.WriteString(header + "\n\n")
	b.WriteString(m.search.View() + "\n")
	b.WriteString(m.letterBar(snap.Filter.Letter) + "\n\n")

	sidebar := m.theme.Card.Render(m.sidebarView(snap))
	main := m.theme.Card.Render(m.mainView(snap))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main) + "\n")

	if m.status != "" {
		b.WriteString(m.theme.Status.Render(m.status) + "\n")
	}
	b.WriteString(m.theme.Help.Render("/ search • A-Z letter • x clear • tab pane • enter select • v virus • a accreditation • m manufacturer • q quit"))
	return b.String()
}

func (m model) letterBar(active string) string {
	letters := filter.Letters()
	out := make([]string, 0, len(letters))
	for _, l := range letters {
		if l == active {
			out = append(out, m.theme.Selected.Render("["+l+"]"))
			continue
		}
		out = append(out, m.theme.Muted.Render(l))
	}
	return strings.Join(out, " ")
}

func (m model) sidebarView(snap session.View) string {
	lines := []string{m.theme.Title.Render(m.upper.String("manufacturers"))}
	for i, item := range snap.Sidebar {
		prefix := "  "
		if m.pane == paneSidebar && i == m.sidebar {
			prefix = m.theme.Cursor.Render("> ")
		}
		name := item.Name
		if item.Selected {
			name = m.theme.Selected.Render(name)
		}
		lines = append(lines, prefix+name)
	}
	return strings.Join(lines, "\n")
}

func (m model) mainView(snap session.View) string {
	switch snap.State {
	case session.ViewEmpty:
		return "No manufacturers match the current filters.\n" + m.theme.Help.Render("Press x to clear filters.")
	case session.ViewPrompt:
		return "Select a manufacturer from the list."
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(snap.Manufacturer.Name) + "\n\n")
	cols := []string{"vaccine", "virus", "accreditation", "countries", "recommendation"}
	for i, c := range cols {
		cols[i] = m.upper.String(c)
	}
	b.WriteString(m.theme.Muted.Render(strings.Join(cols, " | ")) + "\n")
	for i, row := range snap.Rows {
		prefix := "  "
		if m.pane == paneTable && i == m.row {
			prefix = m.theme.Cursor.Render("> ")
		}
		b.WriteString(prefix + strings.Join(m.rowCells(row), " | ") + "\n")
	}
	if snap.Details != nil {
		b.WriteString("\n" + m.renderDetails(snap.Details))
	}
	return b.String()
}

func (m model) rowCells(row session.Row) []string {
	name := row.Vaccine.Name
	if row.VaccineSelected {
		name = m.theme.Highlight.Render(name)
	}
	virus := m.theme.Muted.Render("unavailable")
	if row.Virus != nil {
		virus = row.Virus.Name
		if row.Virus.Selected {
			virus = m.theme.Highlight.Render(virus)
		}
	}
	tags := make([]string, 0, len(row.Accreditation))
	for _, t := range row.Accreditation {
		if t == row.SelectedTag {
			t = m.theme.Highlight.Render(t)
		}
		tags = append(tags, t)
	}
	countries := m.theme.Muted.Render("unavailable")
	if row.Countries != nil {
		countries = *row.Countries
	}
	return []string{name, virus, strings.Join(tags, ", "), countries, row.Recommendation}
}

func (m model) renderDetails(d session.Details) string {
	md := detailsMarkdown(d)
	if md == "" {
		return ""
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
