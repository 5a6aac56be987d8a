package notifier

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/cadence/internal/models"
)

// Message is a rendered notification.
type Message struct {
	Class models.NotificationClass
	Title string
	Body  string
}

// Text is the single line shown by the tray.
func (m Message) Text() string {
	switch {
	case m.Body == "":
		return m.Title
	case m.Class == models.ClassSummary:
		return fmt.Sprintf("%s (%s)", m.Title, m.Body)
	default:
		return m.Body
	}
}

// Sender delivers a message to the user.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var (
	classStyles = map[models.NotificationClass]lipgloss.Style{
		models.ClassCore:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		models.ClassUpdate:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.ClassRecovery: lipgloss.NewStyle().Foreground(lipgloss.Color("111")),
		models.ClassSoft:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		models.ClassSummary:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
	defaultClassStyle = lipgloss.NewStyle()
)

// Console prints messages instead of sending them. Used for dry runs.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Send(_ context.Context, msg Message) error {
	style, ok := classStyles[msg.Class]
	if !ok {
		style = defaultClassStyle
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "[DryRun] %s %s\n", style.Render("["+string(msg.Class)+"]"), msg.Text())
	return err
}
