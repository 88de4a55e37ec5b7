package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/wwexlabs/freightagent/internal/agent"
)

const turnTimeout = 60 * time.Second

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		orchestrator, err := buildOrchestrator(ctx)
		if err != nil {
			return err
		}
		return runChat(orchestrator)
	},
}

// Theme holds the color scheme for the chat display.
type Theme struct {
	User      lipgloss.Color
	Assistant lipgloss.Color
	Error     lipgloss.Color
	Hint      lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	User:      lipgloss.Color("#5FAFD7"), // light blue
	Assistant: lipgloss.Color("#00D787"), // green
	Error:     lipgloss.Color("#FF005F"), // red
	Hint:      lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) userStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.User).Bold(true)
}

func (t Theme) assistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Assistant)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// replyMsg carries the assistant's answer for one turn.
type replyMsg struct {
	reply string
	err   error
}

// chatModel is the bubbletea model for the interactive chat.
type chatModel struct {
	orchestrator *agent.Orchestrator
	sessionID    string
	input        textinput.Model
	lines        []string
	theme        Theme
	waiting      bool
	quitting     bool
}

func newChatModel(orchestrator *agent.Orchestrator) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about a shipment..."
	ti.Focus()

	return chatModel{
		orchestrator: orchestrator,
		sessionID:    uuid.NewString(),
		input:        ti,
		theme:        defaultTheme,
	}
}

// Init returns the initial command.
func (m chatModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and returns the updated model.
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.waiting {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.lines = append(m.lines, m.theme.userStyle().Render("You: ")+text)
			m.input.SetValue("")
			m.waiting = true
			return m, m.sendTurn(text)
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.lines = append(m.lines, m.theme.errorStyle().Render("Error: ")+msg.err.Error())
		} else {
			m.lines = append(m.lines, m.theme.assistantStyle().Render("Agent: ")+msg.reply)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat transcript and input line.
func (m chatModel) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	var b strings.Builder
	b.WriteString(m.theme.hintStyle().Render("freightagent chat — Esc or Ctrl+C to quit"))
	b.WriteString("\n\n")
	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.waiting {
		b.WriteString(m.theme.hintStyle().Render("thinking..."))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	return tea.NewView(b.String())
}

// sendTurn runs one conversation turn as a command so Update never blocks.
func (m chatModel) sendTurn(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()

		reply, err := m.orchestrator.ProcessTurn(ctx, m.sessionID, "", text)
		return replyMsg{reply: reply, err: err}
	}
}

// runChat runs the interactive chat UI.
func runChat(orchestrator *agent.Orchestrator) error {
	p := tea.NewProgram(newChatModel(orchestrator))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}
