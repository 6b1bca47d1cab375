// Package tui is the interactive sector map viewer.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"starmap-service/internal/domain"
	"starmap-service/internal/ports"
	"starmap-service/internal/referee"
	"starmap-service/internal/services"
)

// Deps wires the viewer to its data sources. Repo should already be wrapped
// in the referee shroud when an overlay is active, so public mode never sees
// concealed worlds.
type Deps struct {
	Repo    ports.WorldRepository
	Cache   ports.RouteCache
	Overlay *referee.Overlay
	Sector  string
	Jump    int

	// RefereeUnlocked enables the R key. The CLI sets it when a referee
	// token is configured.
	RefereeUnlocked bool
}

type sectorLoadedMsg struct {
	sector *domain.Sector
	worlds []*domain.World
	routes []domain.XBoatRoute
	err    error
}

type routePlannedMsg struct {
	plan *domain.RoutePlan
	err  error
}

func cmdLoadSector(deps Deps, includeHidden bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		sec, err := deps.Repo.GetSector(ctx, deps.Sector)
		if err != nil {
			return sectorLoadedMsg{err: err}
		}
		worlds, err := deps.Repo.ListWorlds(ctx, sec.Name, ports.WorldFilter{IncludeHidden: includeHidden})
		if err != nil {
			return sectorLoadedMsg{err: err}
		}
		routes, err := deps.Repo.ListXBoatRoutes(ctx, sec.Name, includeHidden)
		if err != nil {
			return sectorLoadedMsg{err: err}
		}
		return sectorLoadedMsg{sector: sec, worlds: worlds, routes: routes}
	}
}

func cmdPlotRoute(deps Deps, sector string, from, to domain.Hex, jump int, includeHidden bool) tea.Cmd {
	return func() tea.Msg {
		plan, err := services.PlotRoute(context.Background(), services.PlotRouteRequest{
			Sector:        sector,
			From:          from,
			To:            to,
			Jump:          jump,
			IncludeHidden: includeHidden,
		}, deps.Repo, deps.Cache)
		return routePlannedMsg{plan: plan, err: err}
	}
}

// Model holds all viewer state. State changes happen in Update only;
// View renders without side effects.
type Model struct {
	theme Theme
	deps  Deps

	loading bool
	loadErr error
	sector  *domain.Sector
	worlds  map[domain.Hex]*domain.World
	routes  []domain.XBoatRoute

	cursor domain.Hex
	page   int

	jump    int
	origin  *domain.Hex
	plan    *domain.RoutePlan
	planErr error
	onRoute map[domain.Hex]bool

	refereeMode bool

	searching bool
	search    textinput.Model
	matches   []domain.Hex
	matchIdx  int

	showHelp bool
	width    int
	height   int
}

func New(deps Deps) Model {
	jump := deps.Jump
	if jump < 1 || jump > 6 {
		jump = 2
	}

	ti := textinput.New()
	ti.Placeholder = "world name"
	ti.Prompt = "/"
	ti.CharLimit = 24
	ti.Width = 24

	return Model{
		theme:   DefaultTheme(),
		deps:    deps,
		loading: true,
		worlds:  map[domain.Hex]*domain.World{},
		cursor:  domain.Hex{Col: 1, Row: 1},
		jump:    jump,
		search:  ti,
	}
}

// Run starts the viewer on the alternate screen.
func Run(deps Deps) error {
	if !isTTY(os.Stdout) {
		return fmt.Errorf("view requires a terminal")
	}
	p := tea.NewProgram(New(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func (m Model) Init() tea.Cmd {
	return cmdLoadSector(m.deps, false)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case sectorLoadedMsg:
		return m.applyLoaded(msg), nil

	case routePlannedMsg:
		m.planErr = msg.err
		m.plan = msg.plan
		m.onRoute = map[domain.Hex]bool{}
		for _, leg := range legsOf(msg.plan) {
			m.onRoute[leg.From] = true
			m.onRoute[leg.To] = true
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func legsOf(plan *domain.RoutePlan) []domain.RouteLeg {
	if plan == nil {
		return nil
	}
	return plan.Legs
}

func (m Model) applyLoaded(msg sectorLoadedMsg) Model {
	m.loading = false
	if msg.err != nil {
		m.loadErr = msg.err
		return m
	}

	m.loadErr = nil
	m.sector = msg.sector
	m.routes = msg.routes
	m.worlds = make(map[domain.Hex]*domain.World, len(msg.worlds))
	for _, w := range msg.worlds {
		m.worlds[w.Hex] = w
	}

	// A reload can retire worlds the origin or plotted route referenced.
	if m.origin != nil && m.worlds[*m.origin] == nil {
		m.origin = nil
	}
	for _, leg := range legsOf(m.plan) {
		if m.worlds[leg.From] == nil || m.worlds[leg.To] == nil {
			m.plan, m.onRoute = nil, nil
			break
		}
	}
	return m
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "up", "k":
		return m.moveCursor(0, -1), nil
	case "down", "j":
		return m.moveCursor(0, 1), nil
	case "left", "h":
		return m.moveCursor(-1, 0), nil
	case "right", "l":
		return m.moveCursor(1, 0), nil

	case "[", "pgup":
		return m.turnPage(-1), nil
	case "]", "pgdown":
		return m.turnPage(1), nil

	case "1", "2", "3", "4", "5", "6":
		m.jump = int(msg.String()[0] - '0')
		return m, nil

	case "m":
		if m.worlds[m.cursor] != nil {
			hex := m.cursor
			m.origin = &hex
			m.plan, m.onRoute, m.planErr = nil, nil, nil
		}
		return m, nil

	case "p":
		if m.origin == nil || m.worlds[m.cursor] == nil || m.cursor == *m.origin {
			return m, nil
		}
		m.planErr = nil
		return m, cmdPlotRoute(m.deps, m.sectorName(), *m.origin, m.cursor, m.jump, m.refereeMode)

	case "/":
		m.searching = true
		m.search.SetValue("")
		m.search.Focus()
		m.matches = nil
		m.matchIdx = 0
		return m, textinput.Blink

	case "n":
		if len(m.matches) > 0 {
			m.matchIdx = (m.matchIdx + 1) % len(m.matches)
			return m.focusHex(m.matches[m.matchIdx]), nil
		}
		return m, nil

	case "R":
		if !m.deps.RefereeUnlocked {
			return m, nil
		}
		m.refereeMode = !m.refereeMode
		m.loading = true
		m.plan, m.onRoute, m.planErr = nil, nil, nil
		return m, cmdLoadSector(m.deps, m.refereeMode)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.searching = false
		m.search.Blur()
		m.matches = nil
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		if len(m.matches) > 0 {
			return m.focusHex(m.matches[0]), nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m = m.refreshMatches()
	if len(m.matches) > 0 {
		m = m.focusHex(m.matches[0])
	}
	return m, cmd
}

// refreshMatches recomputes the hexes whose world name contains the query,
// in hex order.
func (m Model) refreshMatches() Model {
	m.matchIdx = 0
	q := strings.ToLower(strings.TrimSpace(m.search.Value()))
	if q == "" {
		m.matches = nil
		return m
	}

	var out []domain.Hex
	for hex, w := range m.worlds {
		if strings.Contains(strings.ToLower(w.Name), q) {
			out = append(out, hex)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	m.matches = out
	return m
}

func (m Model) moveCursor(dc, dr int) Model {
	next := domain.Hex{Col: m.cursor.Col + dc, Row: m.cursor.Row + dr}
	if !next.Valid() {
		return m
	}
	return m.focusHex(next)
}

// focusHex moves the cursor and pages to the subsector containing it.
func (m Model) focusHex(hex domain.Hex) Model {
	m.cursor = hex
	m.page = int(hex.SubsectorIndex() - 'A')
	return m
}

func (m Model) turnPage(delta int) Model {
	page := (m.page + delta + domain.SubsectorCount) % domain.SubsectorCount
	minCol, minRow, _, _, err := domain.SubsectorBounds(byte('A' + page))
	if err != nil {
		return m
	}
	m.page = page
	m.cursor = domain.Hex{
		Col: minCol + (m.cursor.Col-1)%8,
		Row: minRow + (m.cursor.Row-1)%10,
	}
	return m
}

// sectorName is the canonical name once loaded, the requested one before.
func (m Model) sectorName() string {
	if m.sector != nil {
		return m.sector.Name
	}
	return m.deps.Sector
}

func (m Model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)

	if m.showHelp {
		return wrap.Render(m.renderHelp())
	}
	if m.loading {
		return wrap.Render("Loading " + m.deps.Sector + "...")
	}
	if m.loadErr != nil {
		return wrap.Render(m.theme.Error.Render("Load failed: "+m.loadErr.Error()) +
			"\n\n" + m.theme.Help.Render("q quit"))
	}

	header := m.theme.Title.Render(fmt.Sprintf("%s / %s", m.sectorName(), m.subsectorTitle())) +
		"  " + m.theme.Help.Render(fmt.Sprintf("J-%d", m.jump))
	if m.refereeMode {
		header += "  " + m.theme.Referee.Render("[REFEREE]")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderGrid(), "  ", m.renderSidebar())

	return wrap.Render(header + "\n\n" + body + "\n" + m.renderFooter())
}

func (m Model) subsectorTitle() string {
	idx := byte('A' + m.page)
	if m.sector != nil {
		return fmt.Sprintf("Subsector %c: %s", idx, m.sector.SubsectorName(idx))
	}
	return fmt.Sprintf("Subsector %c", idx)
}

func (m Model) renderFooter() string {
	if m.searching {
		line := m.search.View()
		if strings.TrimSpace(m.search.Value()) != "" {
			line += m.theme.Help.Render(fmt.Sprintf("  %d matches", len(m.matches)))
		}
		return line
	}
	return m.theme.Help.Render("hjkl move • [/] subsector • / search • m mark • p plot • 1-6 jump • R referee • ? help • q quit")
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Keys"))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"arrows, hjkl", "move cursor"},
		{"[ and ]", "previous / next subsector"},
		{"/", "incremental name search"},
		{"n", "next search match"},
		{"m", "mark route origin"},
		{"p", "plot route from origin to cursor"},
		{"1-6", "set jump rating"},
		{"R", "toggle referee view"},
		{"?", "close this help"},
		{"q", "quit"},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "  %-14s %s\n", r[0], r[1])
	}

	if !m.deps.RefereeUnlocked {
		b.WriteString("\n")
		b.WriteString(m.theme.Help.Render("Referee view is locked: no referee token configured."))
	}
	return b.String()
}
