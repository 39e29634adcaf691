package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mklann/ccaudit/pkg/models"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	pickerSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	pickerDimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// pickerModel is the bubbletea model for the interactive session picker.
type pickerModel struct {
	sessions []models.Session
	cursor   int
	chosen   bool
	quit     bool
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.sessions)-1 {
				m.cursor++
			}
		case "enter":
			m.chosen = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	s := pickerTitleStyle.Render("Select a session to audit") + "\n\n"
	for i, sess := range m.sessions {
		marker := " (subagent)"
		if !sess.IsSubagent {
			marker = ""
		}
		line := fmt.Sprintf("%s  %-24s %s%s",
			sess.StartedAt.Local().Format("2006-01-02 15:04"),
			sess.Project,
			pickerDimStyle.Render(formatPickerSize(sess.SizeBytes)),
			marker)
		if i == m.cursor {
			s += pickerSelectedStyle.Render("> "+line) + "\n"
		} else {
			s += "  " + line + "\n"
		}
	}
	s += "\n" + pickerDimStyle.Render("↑/↓ move · enter select · q cancel") + "\n"
	return s
}

// pickSession runs the interactive picker over the given sessions and
// returns the chosen one, or nil when cancelled.
func pickSession(sessions []models.Session) (*models.Session, error) {
	m := pickerModel{sessions: sessions}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, fmt.Errorf("running session picker: %w", err)
	}

	result, ok := final.(pickerModel)
	if !ok || !result.chosen || result.quit {
		return nil, nil
	}
	picked := sessions[result.cursor]
	return &picked, nil
}

func formatPickerSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
