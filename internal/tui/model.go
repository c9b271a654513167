package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"medrag/internal/domain"
)

// PrescriberPort is the TUI-facing subset of the pipeline.
type PrescriberPort interface {
	Generate(ctx context.Context, query string) (*domain.Prescription, error)
}

// Model is the Bubble Tea model for the interactive console.
type Model struct {
	service  PrescriberPort
	input    textinput.Model
	viewport viewport.Model
	result   *domain.Prescription
	header   string
	status   string
	cursor   int
	ready    bool
}

// New creates a new console model. The header typically reports the
// knowledge base size and active backends.
func New(service PrescriberPort, header string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Describe the symptoms and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, header: header, status: "Ready. Type a clinical description."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2 // title + header
		totalFooterLines := 1 // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				res, err := m.service.Generate(context.Background(), q)
				switch {
				case errors.Is(err, domain.ErrNoMatch):
					m.status = "Could not determine a condition from that description."
					m.result = nil
				case err != nil:
					m.status = "Error: " + err.Error()
					m.result = nil
				default:
					m.status = fmt.Sprintf("Prescription for %q", res.Condition)
					m.result = res
					m.cursor = 0
				}
				m.viewport.SetContent(m.renderResult())
				return m, nil
			}
		case "down":
			if m.result != nil && len(m.result.Medications) > 0 {
				m.cursor = (m.cursor + 1) % len(m.result.Medications)
				m.viewport.SetContent(m.renderResult())
				return m, nil
			}
		case "up":
			if m.result != nil && len(m.result.Medications) > 0 {
				m.cursor = (m.cursor - 1 + len(m.result.Medications)) % len(m.result.Medications)
				m.viewport.SetContent(m.renderResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the console layout and current prescription.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := lipgloss.NewStyle().Bold(true).Render("Prescription Console")
	header := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.header)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	result := resultBoxStyle.Render(m.viewport.View())
	return title + "\n" + header + "\n" + result + "\n" + input + "\n" + status
}

func (m Model) renderResult() string {
	if m.result == nil {
		return "No prescription yet."
	}
	var b strings.Builder
	b.WriteString(conditionStyle.Render(m.result.Condition))
	b.WriteString("\n")
	b.WriteString(m.result.GeneralAdvice)
	b.WriteString("\n\n")
	if len(m.result.Medications) == 0 {
		b.WriteString("No medications suggested for this condition.")
		return b.String()
	}
	med := m.result.Medications[m.cursor]
	b.WriteString(fmt.Sprintf("Medication %d/%d\n\n", m.cursor+1, len(m.result.Medications)))
	b.WriteString(medNameStyle.Render(med.Name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Dosage:       %s\n", med.Dosage))
	b.WriteString(fmt.Sprintf("Frequency:    %s\n", med.Frequency))
	b.WriteString(fmt.Sprintf("Timing:       %s\n", med.Timing))
	b.WriteString(fmt.Sprintf("Duration:     %s\n", med.Duration))
	b.WriteString(fmt.Sprintf("Quantity:     %d\n", med.Quantity))
	b.WriteString(fmt.Sprintf("Instructions: %s", med.Instructions))
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	conditionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	medNameStyle   = lipgloss.NewStyle().Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
