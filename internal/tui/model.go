package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dialograg/internal/domain"
	"dialograg/internal/service"
)

const (
	previewChars = 300

	// askTimeout bounds one whole question round trip (embed, search,
	// generate). A stuck backend surfaces as an error instead of a frozen UI.
	askTimeout = 2 * time.Minute
)

// AskPort is the TUI-facing subset of the ask service.
type AskPort interface {
	Ask(ctx context.Context, question string, k int) (*service.AskResult, error)
}

type answerMsg struct {
	question string
	result   *service.AskResult
	err      error
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	service     AskPort
	input       textinput.Model
	viewport    viewport.Model
	result      *service.AskResult
	askErr      error
	status      string
	corpusCount int
	topK        int
	waiting     bool
	ready       bool
}

// New creates a new TUI model instance.
func New(svc AskPort, corpusCount, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Posez votre question..."
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:     svc,
		input:       ti,
		viewport:    vp,
		corpusCount: corpusCount,
		topK:        topK,
		status:      "Prêt. Tapez une question et appuyez sur Entrée.",
	}
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
		totalHeaderLines := 2 // header + corpus line
		totalFooterLines := 1 // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case answerMsg:
		m.waiting = false
		m.result = msg.result
		m.askErr = msg.err
		switch {
		case msg.err != nil && errors.Is(msg.err, domain.ErrGeneration):
			m.status = "Réponse indisponible, dialogues associés affichés."
		case msg.err != nil:
			m.status = "Erreur: " + msg.err.Error()
		default:
			m.status = fmt.Sprintf("Réponse pour %q", msg.question)
		}
		m.viewport.SetContent(m.renderAnswer())
		m.viewport.GotoTop()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.waiting {
				m.waiting = true
				m.status = "Recherche dans les dialogues..."
				m.input.SetValue("")
				return m, m.ask(q)
			}
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(question string) tea.Cmd {
	svc, k := m.service, m.topK
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
		defer cancel()
		res, err := svc.Ask(ctx, question, k)
		return answerMsg{question: question, result: res, err: err}
	}
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Chargement..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Chatbot RAG - Dialogues")
	corpus := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).
		Render(fmt.Sprintf("%d dialogues en base", m.corpusCount))
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	answer := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + corpus + "\n" + answer + "\n" + input + "\n" + status
}

func (m Model) renderAnswer() string {
	if m.askErr != nil && !errors.Is(m.askErr, domain.ErrGeneration) {
		return "Erreur: " + m.askErr.Error()
	}
	if m.result == nil {
		return "Aucune question posée."
	}
	if len(m.result.Retrieved) == 0 {
		return "Désolé, je n'ai pas trouvé de dialogues pertinents pour répondre à votre question."
	}
	var sb strings.Builder
	if errors.Is(m.askErr, domain.ErrGeneration) {
		sb.WriteString(unavailableStyle.Render("Réponse indisponible, mais dialogues associés trouvés:"))
	} else {
		sb.WriteString(m.result.Answer.AnswerText)
	}
	sb.WriteString("\n\n")
	sb.WriteString(sourceHeaderStyle.Render("Dialogues sources"))
	sb.WriteString("\n")
	for i, c := range m.result.Answer.Citations {
		unit, ok := m.unitByID(c.ID)
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("\nDialogue %d (similarité: %.2f%%)\n", i+1, c.Score*100))
		sb.WriteString(fmt.Sprintf("ID: %s\n", c.ID))
		sb.WriteString(preview(unit.Text))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) unitByID(id string) (domain.DialogueUnit, bool) {
	for _, su := range m.result.Retrieved {
		if su.Unit.ID == id {
			return su.Unit, true
		}
	}
	return domain.DialogueUnit{}, false
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewChars {
		return text
	}
	return string(runes[:previewChars]) + "..."
}

var (
	resultBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	sourceHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unavailableStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
