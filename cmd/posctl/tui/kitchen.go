package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/notify"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/screen"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/service"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Completer marks kitchen orders as prepared. Satisfied by *service.KitchenService.
type Completer interface {
	Complete(ctx context.Context, kitchenOrderUUID string) (string, error)
}

// KitchenBoard is the Bubbletea model of the kitchen queue.
type KitchenBoard struct {
	queue   *screen.Collection[model.KitchenOrder]
	kitchen Completer
	notes   *notify.Recorder
	lang    string
	every   time.Duration

	table   table.Model
	orders  []service.PrioritizedOrder
	page    screen.Page[model.KitchenOrder]
	pageNum int
	busy    bool
	status  string
	failed  bool
	width   int
}

// NewKitchenBoard creates a board over queue. A zero every disables the timer.
func NewKitchenBoard(queue *screen.Collection[model.KitchenOrder], kitchen Completer, notes *notify.Recorder, lang string, every time.Duration) KitchenBoard {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(screen.PageSizeKitchen+1),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Foreground(colorPrimary).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorText).
		Background(colorPrimary).
		Bold(true)
	t.SetStyles(s)

	return KitchenBoard{
		queue:   queue,
		kitchen: kitchen,
		notes:   notes,
		lang:    lang,
		every:   every,
		table:   t,
		pageNum: 1,
		busy:    true,
	}
}

// Messages
type queueLoadedMsg struct{ err error }

type completedMsg struct {
	uuid    string
	message string
	err     error
}

type tickMsg struct{}

// Commands
func (m KitchenBoard) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return queueLoadedMsg{err: m.queue.Load(context.Background())}
	}
}

func (m KitchenBoard) completeCmd(uuid string) tea.Cmd {
	return func() tea.Msg {
		msg, err := m.kitchen.Complete(context.Background(), uuid)
		return completedMsg{uuid: uuid, message: msg, err: err}
	}
}

func (m KitchenBoard) tickCmd() tea.Cmd {
	if m.every <= 0 {
		return nil
	}
	return tea.Tick(m.every, func(time.Time) tea.Msg { return tickMsg{} })
}

// Init loads the queue and starts the refresh timer.
func (m KitchenBoard) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.tickCmd())
}

// Update handles messages
func (m KitchenBoard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetColumns(columns(msg.Width))
		return m, nil

	case queueLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(m.lastNote(msg.err.Error()), true)
		}
		m.refreshRows()
		return m, nil

	case completedMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(m.lastNote(msg.err.Error()), true)
		} else {
			m.notes.Drain()
			m.setStatus(msg.message, false)
		}
		// Complete reloads the queue itself.
		m.refreshRows()
		return m, nil

	case tickMsg:
		if m.busy {
			return m, m.tickCmd()
		}
		m.busy = true
		return m, tea.Batch(m.loadCmd(), m.tickCmd())

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			if m.busy {
				return m, nil
			}
			m.busy = true
			return m, m.loadCmd()
		case "enter":
			if m.busy || len(m.orders) == 0 {
				return m, nil
			}
			order := m.orders[m.table.Cursor()]
			m.busy = true
			m.setStatus(fmt.Sprintf("Completing order for table %d...", order.TableCode()), false)
			return m, m.completeCmd(order.UUID)
		case "right", "l":
			if m.pageNum < m.page.Pages {
				m.pageNum++
				m.refreshRows()
			}
			return m, nil
		case "left", "h":
			if m.pageNum > 1 {
				m.pageNum--
				m.refreshRows()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the board
func (m KitchenBoard) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Kitchen queue"))
	b.WriteString("\n")

	if len(m.orders) == 0 {
		if m.busy {
			b.WriteString(mutedStyle.Render("Loading..."))
		} else {
			b.WriteString(mutedStyle.Render("No orders waiting"))
		}
	} else {
		b.WriteString(boxStyle.Render(m.table.View()))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("page %d of %d, %d waiting", m.page.Number, m.page.Pages, m.page.Total)))
	}
	b.WriteString("\n")

	if m.status != "" {
		if m.failed {
			b.WriteString(dangerStyle.Render("✗ " + m.status))
		} else {
			b.WriteString(successStyle.Render("✓ " + m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(strings.Join([]string{
		FormatKey("↑/↓", "move"),
		FormatKey("enter", "complete"),
		FormatKey("←/→", "page"),
		FormatKey("r", "reload"),
		FormatKey("q", "quit"),
	}, " • ")))
	return b.String()
}

// Status returns the last status line and whether it reports a failure.
func (m KitchenBoard) Status() (string, bool) { return m.status, m.failed }

// Orders returns the orders on the current page.
func (m KitchenBoard) Orders() []service.PrioritizedOrder { return m.orders }

func (m *KitchenBoard) setStatus(s string, failed bool) {
	m.status = s
	m.failed = failed
}

// lastNote prefers the backend's message over the wrapped error text.
func (m *KitchenBoard) lastNote(fallback string) string {
	notes := m.notes.Drain()
	for i := len(notes) - 1; i >= 0; i-- {
		if notes[i].Level == notify.LevelError {
			return notes[i].Message
		}
	}
	return fallback
}

func (m *KitchenBoard) refreshRows() {
	m.page = m.queue.Page(m.pageNum)
	m.pageNum = m.page.Number
	m.orders = service.Prioritize(m.page)

	rows := make([]table.Row, len(m.orders))
	for i, o := range m.orders {
		rows[i] = table.Row{strconv.Itoa(o.Priority), strconv.Itoa(o.TableCode()), o.WaiterName(), Lines(o.KitchenOrder, m.lang)}
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func columns(width int) []table.Column {
	items := width - 4 - 4 - 7 - 20 - 10
	if items < 20 {
		items = 20
	}
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Table", Width: 7},
		{Title: "Waiter", Width: 20},
		{Title: "Items", Width: items},
	}
}

// Lines summarizes an order's lines as "2× Trout, 1× Salad" in lang.
func Lines(k model.KitchenOrder, lang string) string {
	parts := make([]string, 0, len(k.ListOfOrderProducts))
	for _, line := range k.ListOfOrderProducts {
		name := "?"
		if line.Product != nil {
			name = line.Product.DisplayName(lang)
		}
		parts = append(parts, fmt.Sprintf("%d× %s", line.Quantity, name))
	}
	return strings.Join(parts, ", ")
}
