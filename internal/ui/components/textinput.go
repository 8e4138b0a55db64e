package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/intervio/internal/ui/theme"
)

// maxMessageLength bounds a single candidate message.
const maxMessageLength = 2000

// ChatInput is the single-line message box under the transcript.
type ChatInput struct {
	Model    textinput.Model
	disabled bool
}

// NewChatInput creates a focused message box.
func NewChatInput(placeholder string) ChatInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = maxMessageLength
	ti.Focus()
	return ChatInput{Model: ti}
}

// Init returns the initial command.
func (c ChatInput) Init() tea.Cmd {
	return c.Model.Focus()
}

// Update handles messages. Key presses are dropped while disabled.
func (c ChatInput) Update(msg tea.Msg) (ChatInput, tea.Cmd) {
	if c.disabled {
		if _, ok := msg.(tea.KeyMsg); ok {
			return c, nil
		}
	}
	var cmd tea.Cmd
	c.Model, cmd = c.Model.Update(msg)
	return c, cmd
}

// View renders the input box.
func (c ChatInput) View() string {
	if c.disabled {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("> " + c.Model.Value())
	}
	return c.Model.View()
}

// Value returns the trimmed message.
func (c ChatInput) Value() string {
	return strings.TrimSpace(c.Model.Value())
}

// Take returns the trimmed message and clears the box.
func (c *ChatInput) Take() string {
	v := c.Value()
	c.Model.Reset()
	return v
}

// SetDisabled toggles whether the box accepts key presses.
func (c *ChatInput) SetDisabled(disabled bool) {
	c.disabled = disabled
}

// Disabled reports whether the box ignores key presses.
func (c ChatInput) Disabled() bool {
	return c.disabled
}
