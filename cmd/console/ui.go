package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/local-legends/npc-engine/pkg/npc"
)

const PlaceHolderText = "Type your message here..."

// ConsoleUI is the BubbleTea model that runs the chat UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config    *ConsoleConfig
	client    *http.Client
	sessionID string
	npc       npcSummary

	chatViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	lines   []string
	options []string
}

type interactResponseMsg struct {
	response *npc.InteractionResponse
	err      error
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	npcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, sessionID string, selected npcSummary) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = "> "
	ta.SetHeight(2)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	return ConsoleUI{
		config:    cfg,
		client:    client,
		sessionID: sessionID,
		npc:       selected,
		textarea:  ta,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		taCmd tea.Cmd
		vpCmd tea.Cmd
	)

	m.textarea, taCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatHeight := m.height - m.textarea.Height() - 6
		if chatHeight < 3 {
			chatHeight = 3
		}

		if !m.ready {
			m.chatViewport = viewport.New(m.width-4, chatHeight)
			m.ready = true
		} else {
			m.chatViewport.Width = m.width - 4
			m.chatViewport.Height = chatHeight
		}
		m.textarea.SetWidth(m.width - 4)
		m.refreshChat()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			message := strings.TrimSpace(m.textarea.Value())
			if message == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m.send(message)

		default:
			// A digit typed into an otherwise empty input picks a
			// suggested option. The textarea has already consumed the
			// keystroke, so the whole value is just that digit.
			if m.loading {
				break
			}
			idx := optionIndex(msg.String())
			if idx >= 0 && idx < len(m.options) && strings.TrimSpace(m.textarea.Value()) == msg.String() {
				m.textarea.Reset()
				return m.send(m.options[idx])
			}
		}

	case interactResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.lines = append(m.lines, renderNPCLine(m.npc.Name, msg.response.Response.Text))
			m.options = msg.response.Response.Options
		}
		m.refreshChat()
	}

	return m, tea.Batch(taCmd, vpCmd)
}

func (m ConsoleUI) send(message string) (tea.Model, tea.Cmd) {
	m.loading = true
	m.err = nil
	m.options = nil
	m.lines = append(m.lines, renderUserLine(message))
	m.refreshChat()

	client := m.client
	baseURL := m.config.APIBaseURL
	sessionID := m.sessionID
	npcName := m.npc.Name

	return m, func() tea.Msg {
		response, err := interact(client, baseURL, sessionID, npcName, message)
		return interactResponseMsg{response: response, err: err}
	}
}

func (m *ConsoleUI) refreshChat() {
	if !m.ready {
		return
	}
	content := strings.Join(m.lines, "\n\n")
	m.chatViewport.SetContent(wordwrap.String(content, m.chatViewport.Width))
	m.chatViewport.GotoBottom()
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Local Legends - talking to %s (%s)", m.npc.Name, m.npc.Neighborhood)))
	b.WriteString("\n\n")
	b.WriteString(m.chatViewport.View())
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(loadingStyle.Render(m.npc.Name + " is thinking..."))
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case len(m.options) > 0:
		parts := make([]string, 0, len(m.options))
		for i, opt := range m.options {
			parts = append(parts, fmt.Sprintf("[%d] %s", i+1, opt))
		}
		b.WriteString(optionStyle.Render(strings.Join(parts, "   ")))
	default:
		b.WriteString(optionStyle.Render("Say something to " + m.npc.Name))
	}

	b.WriteString("\n\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n")
	b.WriteString(optionStyle.Render("enter: send · 1-3: pick a reply · esc: quit"))

	return b.String()
}

func renderUserLine(message string) string {
	return speakerStyle.Render("You: ") + userStyle.Render(message)
}

func renderNPCLine(name string, text string) string {
	return speakerStyle.Render(name+": ") + npcStyle.Render(text)
}

func optionIndex(key string) int {
	switch key {
	case "1":
		return 0
	case "2":
		return 1
	case "3":
		return 2
	default:
		return -1
	}
}
