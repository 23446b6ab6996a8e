// Package review is a terminal browser over a user's persisted listings.
package review

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jobscout/internal/model"
)

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Width(14)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)
)

type reviewModel struct {
	userName string
	jobs     []model.JobListing

	listViewport   viewport.Model
	detailViewport viewport.Model
	cursor         int
	width          int
	height         int
	ready          bool
	view           viewState
}

// Run opens the TUI over the given listings.
func Run(userName string, jobs []model.JobListing) error {
	m := reviewModel{userName: userName, jobs: jobs}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.listViewport = viewport.New(m.width-2, m.height-4)
		m.detailViewport = viewport.New(m.width-4, m.height-4)
		m.listViewport.SetContent(m.renderList())
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m reviewModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "o":
		if len(m.jobs) > 0 {
			openURL(m.jobs[m.cursor].URL)
		}
		return m, nil
	case "enter":
		if len(m.jobs) == 0 {
			return m, nil
		}
		m.view = viewDetail
		m.detailViewport.SetContent(m.renderDetail())
		m.detailViewport.SetYOffset(0)
		return m, nil
	}

	var cmd tea.Cmd
	m.listViewport, cmd = m.listViewport.Update(msg)
	return m, cmd
}

func (m reviewModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		openURL(m.jobs[m.cursor].URL)
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *reviewModel) moveCursor(delta int) {
	if len(m.jobs) == 0 {
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(m.jobs)-1)
	m.listViewport.SetContent(m.renderList())
	m.ensureCursorVisible()
}

func (m *reviewModel) ensureCursorVisible() {
	top := m.cursor * jobItemHeight
	bottom := top + jobItemHeight - 1
	if top < m.listViewport.YOffset {
		m.listViewport.SetYOffset(top)
	} else if bottom >= m.listViewport.YOffset+m.listViewport.Height {
		m.listViewport.SetYOffset(bottom - m.listViewport.Height + 1)
	}
}

func (m reviewModel) View() string {
	if !m.ready {
		return "loading..."
	}

	if m.view == viewDetail {
		return borderStyle.Render(m.detailViewport.View()) + "\n" +
			statusBarStyle.Render("esc back · o open in browser · q quit")
	}

	header := headerStyle.Render(fmt.Sprintf("jobscout — %d saved jobs for %s", len(m.jobs), m.userName))
	return header + "\n" +
		borderStyle.Render(m.listViewport.View()) + "\n" +
		statusBarStyle.Render("↑/↓ move · enter detail · o open · q quit")
}

func (m reviewModel) renderList() string {
	if len(m.jobs) == 0 {
		return subtitleStyle.Render("no saved jobs yet — run a scrape first")
	}

	var b strings.Builder
	for i, j := range m.jobs {
		title := fmt.Sprintf("%s — %s", j.Title, j.Company)
		sub := fmt.Sprintf("score %d · %s · %s · %s", j.MatchScore, j.Source, j.Location, ageText(j))
		if i == m.cursor {
			b.WriteString(selectedTitleStyle.Render("▸ " + title))
			b.WriteString("\n")
			b.WriteString(selectedSubtitleStyle.Render("  " + sub))
		} else {
			b.WriteString(titleStyle.Render("  " + title))
			b.WriteString("\n")
			b.WriteString(subtitleStyle.Render("  " + sub))
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m reviewModel) renderDetail() string {
	j := m.jobs[m.cursor]

	var b strings.Builder
	b.WriteString(detailTitleStyle.Render(j.Title))
	b.WriteString("\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("Company", j.Company)
	row("Location", j.Location)
	row("Source", string(j.Source))
	row("Posted", j.PostingDateText)
	row("Age", ageText(j))
	row("Score", fmt.Sprintf("%d", j.MatchScore))
	row("Keyword", j.SearchKeyword)
	row("URL", j.URL)

	if j.Description != "" {
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render(strings.Repeat("─", 40)))
		b.WriteString("\n")
		b.WriteString(j.Description)
		b.WriteString("\n")
	}
	return b.String()
}

func ageText(j model.JobListing) string {
	switch {
	case j.PostingDays == model.UnknownDays:
		return "age unknown"
	case j.PostingDays == 0:
		return "today"
	case j.PostingDays == 1:
		return "1 day old"
	default:
		return fmt.Sprintf("%d days old", j.PostingDays)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL launches the system browser; errors are ignored on purpose, the
// URL stays visible in the detail view.
func openURL(url string) {
	if url == "" {
		return
	}
	switch runtime.GOOS {
	case "darwin":
		exec.Command("open", url).Start()
	case "windows":
		exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		exec.Command("xdg-open", url).Start()
	}
}
