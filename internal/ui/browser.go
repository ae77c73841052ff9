package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hl7play/internal/issue"
)

// Section is one resource shown in the browser.
type Section struct {
	Title  string
	Groups []issue.ClassGroup
}

type pane uint8

const (
	paneClasses pane = iota
	paneCategories
	paneEntries
)

// BrowserModel is a three-pane view over grouped findings: classifications,
// the categories of the active classification, and the findings of the
// active category. Selecting a classification selects its first category.
type BrowserModel struct {
	sections []Section
	section  int
	focus    pane

	class    int // -1: нет активной классификации
	category int // -1: нет активной категории
	entry    int

	width  int
	height int
}

// NewBrowser returns a browser positioned on the first section.
func NewBrowser(sections []Section) *BrowserModel {
	m := &BrowserModel{sections: sections, width: 100, height: 24}
	m.show(0)
	return m
}

// show switches to section i and resets the selection the way a fresh
// result panel does: first classification and its first category, or
// nothing at all when there are no findings.
func (m *BrowserModel) show(i int) {
	m.section = i
	m.focus = paneClasses
	m.entry = 0
	if len(m.groups()) == 0 {
		m.class, m.category = -1, -1
		return
	}
	m.selectClass(0)
}

func (m *BrowserModel) groups() []issue.ClassGroup {
	if m.section < 0 || m.section >= len(m.sections) {
		return nil
	}
	return m.sections[m.section].Groups
}

func (m *BrowserModel) selectClass(i int) {
	m.class = i
	m.entry = 0
	if len(m.groups()[i].Categories) == 0 {
		m.category = -1
		return
	}
	m.category = 0
}

// ActiveClass returns the selected classification.
func (m *BrowserModel) ActiveClass() (issue.ClassGroup, bool) {
	if m.class < 0 {
		return issue.ClassGroup{}, false
	}
	return m.groups()[m.class], true
}

// ActiveCategory returns the selected category.
func (m *BrowserModel) ActiveCategory() (issue.CategoryGroup, bool) {
	c, ok := m.ActiveClass()
	if !ok || m.category < 0 {
		return issue.CategoryGroup{}, false
	}
	return c.Categories[m.category], true
}

func (m *BrowserModel) Init() tea.Cmd { return nil }

func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		if msg.Height > 0 {
			m.height = msg.Height
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if len(m.sections) > 0 {
				m.show((m.section + 1) % len(m.sections))
			}
		case "shift+tab":
			if len(m.sections) > 0 {
				m.show((m.section + len(m.sections) - 1) % len(m.sections))
			}
		case "left", "h":
			if m.focus > paneClasses {
				m.focus--
			}
		case "right", "l", "enter":
			if m.class >= 0 && m.focus < paneEntries {
				m.focus++
			}
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		}
	}
	return m, nil
}

func (m *BrowserModel) move(delta int) {
	if m.class < 0 {
		return
	}
	switch m.focus {
	case paneClasses:
		if next := m.class + delta; next >= 0 && next < len(m.groups()) {
			m.selectClass(next)
		}
	case paneCategories:
		cats := m.groups()[m.class].Categories
		if next := m.category + delta; next >= 0 && next < len(cats) {
			m.category = next
			m.entry = 0
		}
	case paneEntries:
		cat, ok := m.ActiveCategory()
		if !ok {
			return
		}
		if next := m.entry + delta; next >= 0 && next < len(cat.Entries) {
			m.entry = next
		}
	}
}

var (
	browserTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	browserPane     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	browserFocused  = browserPane.BorderForeground(lipgloss.Color("6"))
	browserSelected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	browserMuted    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m *BrowserModel) View() string {
	var b strings.Builder
	b.WriteString(browserTitle.Render(m.header()))
	b.WriteString("\n\n")

	if m.class < 0 {
		b.WriteString(browserMuted.Render("no issues"))
		b.WriteString("\n")
		return b.String()
	}

	colWidth := max((m.width-8)/3, 16)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderPane(paneClasses, colWidth, m.classLines()),
		m.renderPane(paneCategories, colWidth, m.categoryLines()),
		m.renderPane(paneEntries, colWidth, m.entryLines(colWidth)),
	))
	b.WriteString("\n")
	b.WriteString(browserMuted.Render("←/→ focus  ↑/↓ move  tab next resource  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *BrowserModel) header() string {
	if len(m.sections) == 0 {
		return "issues"
	}
	s := m.sections[m.section]
	title := fmt.Sprintf("%s (%d)", s.Title, issue.Total(s.Groups))
	if len(m.sections) > 1 {
		title = fmt.Sprintf("%s  [%d/%d]", title, m.section+1, len(m.sections))
	}
	return title
}

func (m *BrowserModel) renderPane(p pane, width int, lines []string) string {
	style := browserPane
	if m.focus == p {
		style = browserFocused
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func (m *BrowserModel) classLines() []string {
	groups := m.groups()
	lines := make([]string, len(groups))
	for i, g := range groups {
		lines[i] = m.mark(i == m.class, fmt.Sprintf("%s (%d)", label(g.Classification), g.Size))
	}
	return lines
}

func (m *BrowserModel) categoryLines() []string {
	cats := m.groups()[m.class].Categories
	lines := make([]string, len(cats))
	for i, c := range cats {
		lines[i] = m.mark(i == m.category, fmt.Sprintf("%s (%d)", label(c.Category), c.Size))
	}
	return lines
}

func (m *BrowserModel) entryLines(width int) []string {
	cat, ok := m.ActiveCategory()
	if !ok {
		return nil
	}
	lines := make([]string, 0, len(cat.Entries))
	for i, f := range cat.Entries {
		text := truncate(f.Location()+" "+f.Description, width)
		lines = append(lines, m.mark(m.focus == paneEntries && i == m.entry, text))
	}
	return lines
}

func (m *BrowserModel) mark(selected bool, s string) string {
	if selected {
		return browserSelected.Render("› " + s)
	}
	return "  " + s
}

func label(key string) string {
	if key == "" {
		return `""`
	}
	return key
}
