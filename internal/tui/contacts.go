package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cpaas-portal/internal/debounce"
	"cpaas-portal/internal/gateway"
	"cpaas-portal/internal/listing"
	"cpaas-portal/internal/notify"
	"cpaas-portal/internal/theme"
	"cpaas-portal/pkg/models"
)

// Browser notices.
const (
	MsgDeleted      = "Contact Deleted Successfully"
	MsgDeleteFailed = "Failed to delete contact"
	MsgFetchFailed  = "Failed to fetch contacts"
)

// Config wires the browser to the admin API.
type Config struct {
	Fetch    listing.Fetcher[models.Contact]
	Delete   func(ctx context.Context, id string) error
	Theme    theme.Theme
	Delay    time.Duration
	PageSize int
	Notices  *notify.Center
}

type searchTickMsg struct{ seq int }

type contactsMsg struct {
	gen      int
	contacts []models.Contact
	err      error
}

type deletedMsg struct {
	id  string
	err error
}

type noticeTickMsg struct{}

// filters cycled with tab; "" shows every channel.
var filters = append([]string{""}, models.ContactChannels...)

// Model is the interactive contacts browser
type Model struct {
	cfg Config
	ctx context.Context

	search    textinput.Model
	searching bool

	// seq tags keystrokes, gen tags fetches; stale ticks and results are dropped.
	seq     int
	gen     int
	query   listing.Query
	filter  int
	loading bool

	contacts []models.Contact
	page     int
	selected int

	confirmDelete bool
	width         int
	noticeDelay   time.Duration

	headerStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	dimStyle      lipgloss.Style
	errorStyle    lipgloss.Style
	successStyle  lipgloss.Style
}

// New creates a browser bound to ctx for every API call it makes.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Delay <= 0 {
		cfg.Delay = debounce.DefaultDelay
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = listing.DefaultPageSize
	}
	if cfg.Notices == nil {
		cfg.Notices = notify.NewCenter()
	}
	if cfg.Theme.Primary == "" {
		cfg.Theme = theme.New(theme.DefaultBrandColor)
	}

	ti := textinput.New()
	ti.Placeholder = "Search contacts..."
	ti.Prompt = "/ "
	ti.CharLimit = 80
	ti.Width = 40

	primary := lipgloss.Color(cfg.Theme.Primary)
	secondary := lipgloss.Color(cfg.Theme.Secondary)
	return Model{
		cfg:    cfg,
		ctx:    ctx,
		search: ti,
		page:   1,

		noticeDelay: notify.AutoClose,

		headerStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(primary).Padding(0, 1),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(secondary),
		dimStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		errorStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		successStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
}

func (m Model) Init() tea.Cmd {
	return m.fetch()
}

// fetch starts a new generation; results of older ones are ignored.
func (m *Model) fetch() tea.Cmd {
	m.gen++
	m.loading = true
	gen, q, fetch, ctx := m.gen, m.query, m.cfg.Fetch, m.ctx
	return func() tea.Msg {
		contacts, err := fetch(ctx, q)
		return contactsMsg{gen: gen, contacts: contacts, err: err}
	}
}

func (m *Model) deleteCmd(id string) tea.Cmd {
	del, ctx := m.cfg.Delete, m.ctx
	return func() tea.Msg {
		return deletedMsg{id: id, err: del(ctx, id)}
	}
}

// noticeTick redraws once the current notice has expired.
func (m Model) noticeTick() tea.Cmd {
	return tea.Tick(m.noticeDelay, func(time.Time) tea.Msg { return noticeTickMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case searchTickMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		text := strings.TrimSpace(m.search.Value())
		if text == m.query.Search {
			return m, nil
		}
		m.query.Search = text
		m.page = 1
		m.selected = 0
		return m, m.fetch()

	case contactsMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.cfg.Notices.Error(gateway.Message(msg.err, MsgFetchFailed))
			return m, m.noticeTick()
		}
		m.contacts = msg.contacts
		m.page = listing.ClampPage(m.page, m.totalPages())
		m.clampSelection()
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			m.cfg.Notices.Error(gateway.Message(msg.err, MsgDeleteFailed))
			return m, m.noticeTick()
		}
		m.cfg.Notices.Success(MsgDeleted)
		return m, tea.Batch(m.fetch(), m.noticeTick())

	case noticeTickMsg:
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.confirmDelete {
			m.confirmDelete = false
			if msg.String() == "y" || msg.String() == "Y" {
				if c, ok := m.current(); ok {
					return m, m.deleteCmd(c.ID)
				}
			}
			return m, nil
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		if msg.Type == tea.KeyEnter {
			m.seq++
			seq := m.seq
			return m, func() tea.Msg { return searchTickMsg{seq: seq} }
		}
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	m.seq++
	seq := m.seq
	tick := tea.Tick(m.cfg.Delay, func(time.Time) tea.Msg { return searchTickMsg{seq: seq} })
	return m, tea.Batch(cmd, tick)
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "tab":
		m.filter = (m.filter + 1) % len(filters)
		m.query.Filter = filters[m.filter]
		m.page = 1
		m.selected = 0
		return m, m.fetch()
	case "r":
		return m, m.fetch()
	case "right", "l":
		if m.page < m.totalPages() {
			m.page++
			m.selected = 0
		}
	case "left", "h":
		if m.page > 1 {
			m.page--
			m.selected = 0
		}
	case "down", "j":
		m.selected++
		m.clampSelection()
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "d":
		if _, ok := m.current(); ok {
			m.confirmDelete = true
		}
	}
	return m, nil
}

func (m Model) totalPages() int {
	return listing.TotalPages(len(m.contacts), m.cfg.PageSize)
}

func (m Model) visible() []models.Contact {
	start, end := listing.Window(len(m.contacts), m.page, m.cfg.PageSize)
	return m.contacts[start:end]
}

func (m Model) current() (models.Contact, bool) {
	rows := m.visible()
	if m.selected < 0 || m.selected >= len(rows) {
		return models.Contact{}, false
	}
	return rows[m.selected], true
}

func (m *Model) clampSelection() {
	n := len(m.visible())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// Contacts returns the rows of the current generation.
func (m Model) Contacts() []models.Contact { return m.contacts }

// Page returns the current page and the page count.
func (m Model) Page() (int, int) { return m.page, m.totalPages() }

// Query returns the search and channel filter the rows were fetched with.
func (m Model) Query() listing.Query { return m.query }

func (m Model) View() string {
	var b strings.Builder

	channel := m.query.Filter
	if channel == "" {
		channel = "all"
	}
	b.WriteString(m.headerStyle.Render("Contacts"))
	b.WriteString(m.dimStyle.Render(fmt.Sprintf("  channel: %s", channel)))
	b.WriteString("\n\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	switch {
	case m.loading && len(m.contacts) == 0:
		b.WriteString(m.dimStyle.Render("Loading..."))
		b.WriteString("\n")
	case len(m.contacts) == 0:
		b.WriteString(m.dimStyle.Render("No contacts found"))
		b.WriteString("\n")
	default:
		for i, c := range m.visible() {
			line := fmt.Sprintf("%-24s %-28s %-15s %-8s %s",
				truncate(c.FullName(), 24),
				truncate(c.ClientEmail, 28),
				c.PhoneNumber,
				c.Channel,
				strings.Join(c.Tags, ", "),
			)
			if i == m.selected {
				line = m.selectedStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.dimStyle.Render(fmt.Sprintf("page %d/%d  (%d contacts)", m.page, m.totalPages(), len(m.contacts))))
	b.WriteString("\n")

	if m.confirmDelete {
		if c, ok := m.current(); ok {
			b.WriteString(m.errorStyle.Render(fmt.Sprintf("Delete %s? (y/N)", c.FullName())))
			b.WriteString("\n")
		}
	}

	for _, n := range m.cfg.Notices.Active() {
		style := m.dimStyle
		switch n.Level {
		case notify.LevelError:
			style = m.errorStyle
		case notify.LevelSuccess:
			style = m.successStyle
		}
		b.WriteString(style.Render(n.Message))
		b.WriteString("\n")
	}

	b.WriteString(m.dimStyle.Render("/ search  tab channel  ←/→ page  d delete  r refresh  q quit"))
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// Run starts the browser on the terminal and blocks until the user quits.
func Run(ctx context.Context, cfg Config) error {
	p := tea.NewProgram(New(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
