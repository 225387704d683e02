// Package tui is a terminal browser for the doctor directory. It drives the
// same collection controller the site uses, with terminal columns standing in
// for the viewport width.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/elettil/hospital/internal/domain/doctor"
	"github.com/elettil/hospital/internal/platform/collection"
)

// TerminalTiers are the page-size breakpoints in terminal columns.
var TerminalTiers = collection.Tiers{MediumMin: 90, WideMin: 130, Narrow: 2, Medium: 3, Wide: 4}

// Styles holds the lipgloss styles used by the browser.
type Styles struct {
	Title      lipgloss.Style
	Filter     lipgloss.Style
	ActiveChip lipgloss.Style
	Card       lipgloss.Style
	Name       lipgloss.Style
	Muted      lipgloss.Style
	Toggle     lipgloss.Style
	Warning    lipgloss.Style
	Help       lipgloss.Style
}

// DefaultStyles follows the site palette.
func DefaultStyles() Styles {
	coral := lipgloss.Color("#E8705F")
	slate := lipgloss.Color("#2F3E4E")
	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(slate).MarginBottom(1),
		Filter:     lipgloss.NewStyle().Padding(0, 1),
		ActiveChip: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(coral),
		Card:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(slate).Padding(0, 1).Width(28),
		Name:       lipgloss.NewStyle().Bold(true),
		Muted:      lipgloss.NewStyle().Faint(true),
		Toggle:     lipgloss.NewStyle().Foreground(coral).Underline(true),
		Warning:    lipgloss.NewStyle().Foreground(lipgloss.Color("#B8860B")),
		Help:       lipgloss.NewStyle().Faint(true).MarginTop(1),
	}
}

type loadedMsg struct{ err error }

// Model is the bubbletea model for the doctor browser.
type Model struct {
	ctx    context.Context
	ctrl   *collection.Controller[doctor.Doctor]
	card   func(doctor.Doctor) doctor.Card
	styles Styles
	title  string
	width  int
	err    error
	done   bool
}

// New returns a browser over ctrl. The model owns the controller and closes it
// when the user quits.
func New(ctx context.Context, ctrl *collection.Controller[doctor.Doctor], card func(doctor.Doctor) doctor.Card, title string) Model {
	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		card:   card,
		styles: DefaultStyles(),
		title:  title,
	}
}

func (m Model) load(refresh bool) tea.Cmd {
	return func() tea.Msg {
		if refresh {
			return loadedMsg{err: m.ctrl.Refresh(m.ctx)}
		}
		return loadedMsg{err: m.ctrl.Initialize(m.ctx)}
	}
}

func (m Model) Init() tea.Cmd {
	return m.load(false)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.ctrl.SetViewportWidth(msg.Width)
		return m, nil

	case loadedMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.ctrl.Close()
			m.done = true
			return m, tea.Quit
		case "f", "tab", "right":
			m.cycleFilter(1)
		case "shift+tab", "left":
			m.cycleFilter(-1)
		case "a":
			m.ctrl.SetFilter(collection.All)
		case " ", "enter":
			if m.ctrl.View().ShowToggle {
				m.ctrl.ToggleExpanded()
			}
		case "r":
			return m, m.load(true)
		}
	}
	return m, nil
}

func (m Model) cycleFilter(step int) {
	v := m.ctrl.View()
	if len(v.Categories) == 0 {
		return
	}
	idx := 0
	for i, c := range v.Categories {
		if c == v.Filter {
			idx = i
			break
		}
	}
	n := len(v.Categories)
	m.ctrl.SetFilter(v.Categories[((idx+step)%n+n)%n])
}

// ToggleLabel is the show-more control text for v.
func ToggleLabel(v collection.View[doctor.Card]) string {
	if v.Expanded {
		return "Show Less"
	}
	return fmt.Sprintf("View All Doctors (%d)", v.Total)
}

func (m Model) View() string {
	if m.done {
		return ""
	}
	s := m.styles
	v := collection.MapView(m.ctrl.View(), m.card)

	var b strings.Builder
	b.WriteString(s.Title.Render(m.title))
	b.WriteString("\n")

	if v.Loading && len(v.Items) == 0 {
		b.WriteString(s.Muted.Render("Loading doctors..."))
		b.WriteString("\n")
		b.WriteString(s.Help.Render("q quit"))
		return b.String()
	}

	chips := make([]string, 0, len(v.Categories))
	for _, c := range v.Categories {
		if c == v.Filter {
			chips = append(chips, s.ActiveChip.Render(c))
			continue
		}
		chips = append(chips, s.Filter.Render(c))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, chips...))
	b.WriteString("\n\n")

	if v.Source == collection.SourceFallback {
		b.WriteString(s.Warning.Render("Showing the saved directory; live data is unavailable."))
		b.WriteString("\n")
	}
	if m.err != nil && !errors.Is(m.err, context.Canceled) {
		b.WriteString(s.Warning.Render("Refresh failed: " + m.err.Error()))
		b.WriteString("\n")
	}

	if len(v.Items) == 0 {
		b.WriteString(s.Muted.Render("No doctors in this category."))
		b.WriteString("\n")
	}

	// Lay cards out PageSize to a row so the grid matches the collapsed page.
	perRow := v.PageSize
	if perRow <= 0 {
		perRow = 1
	}
	for start := 0; start < len(v.Items); start += perRow {
		end := start + perRow
		if end > len(v.Items) {
			end = len(v.Items)
		}
		row := make([]string, 0, end-start)
		for _, c := range v.Items[start:end] {
			row = append(row, s.Card.Render(
				s.Name.Render(c.Name)+"\n"+c.Specialization+"\n"+s.Muted.Render(c.Education),
			))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteString("\n")
	}

	if v.ShowToggle {
		b.WriteString(s.Toggle.Render(ToggleLabel(v)))
		b.WriteString("\n")
	}

	b.WriteString(s.Help.Render("f/tab filter  a all  space more/less  r refresh  q quit"))
	return b.String()
}

// Run starts the browser on the terminal and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
