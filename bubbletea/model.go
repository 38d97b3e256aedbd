package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sincloak/ragchat"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	send    SendFunc
	session ragchat.Session // transcript rendered on first layout; never mutated
	theme   ragchat.Theme
	styles  Styles

	blocks     []MessageBlock
	blockFocus int // index of focused references block (-1 = none)

	// Blocks of the answer currently streaming. Reset on every submit.
	activeText  *AssistantTextBlock
	activeRefs  *ReferencesBlock
	activeUsage *UsageBlock

	running bool
	cancel  context.CancelFunc
	eventCh chan ragchat.Event
	doneCh  chan SendDoneMsg
	err     error
	ready   bool
}

// New creates a TUI Model that sends through send and starts with the
// transcript of session.
func New(send SendFunc, session ragchat.Session, theme ragchat.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:      ti,
		send:       send,
		session:    session,
		theme:      theme,
		styles:     NewStyles(theme),
		blockFocus: -1,
	}
}

// Running returns whether a reply is currently streaming.
func (m Model) Running() bool { return m.running }

// Err returns the last transport error, if any.
func (m Model) Err() error { return m.err }

// SetRunning is a test helper that puts the model in a running state.
func SetRunning(m Model) (Model, tea.Cmd) {
	m.running = true
	return m, nil
}

// SetRunningWithCancel is a test helper that puts the model in a running state
// with a cancel function.
func SetRunningWithCancel(m Model, cancel func()) (Model, tea.Cmd) {
	m.running = true
	m.cancel = cancel
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamEventMsg:
		m = m.processEvent(msg.Event)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh, m.doneCh)
		}
		return m, nil

	case SendDoneMsg:
		m.running = false
		m.cancel = nil
		m.eventCh = nil
		m.doneCh = nil
		// Application errors are already in the transcript as an error block.
		var appErr *ragchat.ApplicationError
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) && !errors.As(msg.Err, &appErr) {
			m.err = msg.Err
		}
		m = m.updateBlockFocus()
		cmds = append(cmds, m.Input.Focus())
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	const (
		inputHeight  = 1
		statusHeight = 1
		gapHeight    = 2
	)
	vpHeight := max(msg.Height-inputHeight-statusHeight-gapHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m = m.renderSession()
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
		m.Viewport.SetContent(m.renderContent())
	}

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)

	case tea.KeyTab:
		if !m.running && m.blockFocus >= 0 {
			block, cmd := m.blocks[m.blockFocus].Update(ToggleMsg{})
			m.blocks[m.blockFocus] = block
			m.Viewport.SetContent(m.renderContent())
			return m, cmd
		}
		return m, nil

	case tea.KeyShiftTab:
		if !m.running {
			m = m.cycleFocusPrev()
			m.Viewport.SetContent(m.renderContent())
		}
		return m, nil
	}

	// Character keys only go to the input; 'j' and 'k' would otherwise
	// scroll the viewport while typing.
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd
		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil

	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles))
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	m.activeText = nil
	m.activeRefs = nil
	m.activeUsage = nil

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan ragchat.Event, 256)
	m.doneCh = make(chan SendDoneMsg, 1)
	m.running = true

	m.Input.Blur()

	return m, tea.Batch(
		startSend(ctx, m.send, text, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
	)
}

// renderSession creates blocks from the loaded transcript.
func (m Model) renderSession() Model {
	for _, msg := range m.session.Messages {
		switch msg.Role {
		case ragchat.RoleUser:
			m.blocks = append(m.blocks, NewUserMessageBlock(msg.Content, m.styles))
		case ragchat.RoleAssistant:
			block := NewAssistantTextBlock(m.theme)
			block.Append(msg.Content)
			m.blocks = append(m.blocks, block)
			if len(msg.References) > 0 {
				m.blocks = append(m.blocks, NewReferencesBlock(msg.References, m.styles))
			}
			if msg.TokenUsage != nil && msg.TokenUsage.String() != "" {
				m.blocks = append(m.blocks, NewUsageBlock(*msg.TokenUsage, m.styles))
			}
		}
	}
	return m.updateBlockFocus()
}

func (m Model) renderContent() string {
	var b strings.Builder
	var prev MessageBlock
	for _, block := range m.blocks {
		view := block.View(m.Viewport.Width)
		if view == "" {
			continue
		}
		if prev != nil {
			b.WriteString(blockSeparator(prev, block))
		}
		b.WriteString(view)
		prev = block
	}
	return b.String()
}

// processEvent routes a streaming event to the blocks of the current answer.
func (m Model) processEvent(evt ragchat.Event) Model {
	switch e := evt.(type) {
	case ragchat.EventContent:
		if m.activeText == nil {
			m.activeText = NewAssistantTextBlock(m.theme)
			m.blocks = append(m.blocks, m.activeText)
		}
		m.activeText.Append(e.Text)
	case ragchat.EventTokenUsage:
		if m.activeUsage == nil {
			m.activeUsage = NewUsageBlock(e.Usage, m.styles)
			m.blocks = append(m.blocks, m.activeUsage)
		} else {
			m.activeUsage.Set(e.Usage)
		}
	case ragchat.EventReferences:
		if m.activeRefs == nil {
			m.activeRefs = NewReferencesBlock(e.References, m.styles)
			m.blocks = append(m.blocks, m.activeRefs)
			m = m.updateBlockFocus()
		} else {
			m.activeRefs.Set(e.References)
		}
	case ragchat.EventError:
		message := e.Message
		if strings.TrimSpace(message) == "" {
			message = "Unknown error"
		}
		m.blocks = append(m.blocks, NewErrorBlock(&ragchat.ApplicationError{Message: message}, m.styles))
	case ragchat.EventDone:
	}
	return m
}

// updateBlockFocus focuses the last references block.
func (m Model) updateBlockFocus() Model {
	m.blockFocus = -1
	for i := len(m.blocks) - 1; i >= 0; i-- {
		if _, ok := m.blocks[i].(*ReferencesBlock); ok {
			m.blockFocus = i
			return m
		}
	}
	return m
}

// cycleFocusPrev moves blockFocus to the previous references block, wrapping around.
func (m Model) cycleFocusPrev() Model {
	if len(m.blocks) == 0 {
		return m
	}
	start := m.blockFocus - 1
	if start < 0 {
		start = len(m.blocks) - 1
	}
	for i := range len(m.blocks) {
		idx := (start - i + len(m.blocks)) % len(m.blocks)
		if _, ok := m.blocks[idx].(*ReferencesBlock); ok {
			m.blockFocus = idx
			return m
		}
	}
	m.blockFocus = -1
	return m
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.running {
		return m.styles.Muted.Render("Streaming...")
	}
	return m.styles.Muted.Render("Enter to send, Tab to expand references, Ctrl+C to quit")
}

// startSend runs send in a goroutine and signals completion on doneCh.
func startSend(ctx context.Context, send SendFunc, text string, eventCh chan<- ragchat.Event, doneCh chan<- SendDoneMsg) tea.Cmd {
	return func() tea.Msg {
		msg, err := send(ctx, text, func(e ragchat.Event) {
			select {
			case eventCh <- e:
			case <-ctx.Done():
			}
		})
		close(eventCh)
		doneCh <- SendDoneMsg{Message: msg, Err: err}
		return nil
	}
}

// listenForEvent waits for the next event. When the channel closes, it
// returns the SendDoneMsg from doneCh.
func listenForEvent(ch <-chan ragchat.Event, doneCh <-chan SendDoneMsg) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return <-doneCh
		}
		return StreamEventMsg{Event: evt}
	}
}
