package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/pdfkit/prefs"
	"github.com/lepinkainen/pdfkit/transport"
)

const musicUnavailableMessage = "Background music is unavailable in this terminal"

// Downloader fetches result files
type Downloader interface {
	Resolve(link string) (string, error)
	Download(ctx context.Context, link, dir string, track func(size int64) io.Writer) (string, error)
}

// ModelConfig carries the collaborators of the TUI model
type ModelConfig struct {
	Version    string
	Prefs      *prefs.Store
	Pending    *transport.Form // submitted once the push channel connects
	Arrange    *Arrangement    // confirmed by the user before Pending is built
	Follow     bool            // switch to the tool of each incoming event
	Downloader Downloader
	OutDir     string
	Copy       func(string) error
}

// Model is the bubbletea program: it owns layout and key handling and
// delegates all region state to the Controller.
type Model struct {
	ctrl *Controller
	cfg  ModelConfig

	active   int
	selected int

	theme   prefs.Theme
	musicOn bool

	bar      progress.Model
	timeline progress.Model
	logList  list.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	modal    modalKeyMap
	arrange  arrangeKeyMap

	arranging bool
	submitted bool
	width     int
	height    int
	quitting  bool
}

// NewModel creates the TUI model
func NewModel(ctrl *Controller, cfg ModelConfig) Model {
	logList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	logList.Title = "Status Log"
	logList.SetShowHelp(false)
	logList.SetFilteringEnabled(false)

	m := Model{
		ctrl:     ctrl,
		cfg:      cfg,
		theme:    prefs.ThemeDark,
		bar:      progress.New(progress.WithDefaultGradient()),
		timeline: progress.New(progress.WithSolidFill("62"), progress.WithoutPercentage()),
		logList:  logList,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:     help.New(),
		keys:     defaultKeys(),
		modal:    defaultModalKeys(),
		arrange:  defaultArrangeKeys(),
	}
	if cfg.Prefs != nil {
		p := cfg.Prefs.Get()
		m.theme = p.Theme
		m.musicOn = p.MusicEnabled
	}
	if cfg.Pending != nil {
		m.activate(cfg.Pending.Tool)
	}
	if cfg.Arrange != nil {
		m.arranging = true
		m.activate(cfg.Arrange.Tool)
	}
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.musicOn {
		// Autoplay failures are expected and only logged
		if err := m.ctrl.Player().StartMusic(); err != nil {
			m.ctrl.Logger().Infow("Autoplay prevented", "error", err)
		}
	}
	return m.spinner.Tick
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.arranging {
			return m.handleArrangeKey(msg)
		}
		if m.ctrl.Modal() != nil {
			return m, m.handleModalKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(msg.Width-20, 10)
		m.timeline.Width = max(msg.Width-20, 10)
		m.logList.SetSize(msg.Width-4, msg.Height/3)
		m.help.Width = msg.Width

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case PrefsChangedMsg:
		m.theme = msg.Prefs.Theme
		m.musicOn = msg.Prefs.MusicEnabled

	case DownloadDoneMsg:
		if msg.Err != nil {
			return m, m.ctrl.Notify("Download failed: "+msg.Err.Error(), transport.StatusError)
		}
		return m, m.ctrl.Notify("Saved "+msg.Path, transport.StatusSuccess)

	case transport.ConnectionEvent:
		cmds = append(cmds, m.ctrl.OnConnectionChange(msg))
		cmds = append(cmds, m.submitPending())

	case transport.StatusEvent:
		if m.cfg.Follow {
			m.activate(msg.Tool)
		}
		cmds = append(cmds, m.ctrl.OnStatusEvent(msg))

	default:
		if cmd, ok := m.ctrl.Update(msg); ok {
			cmds = append(cmds, cmd)
		}
	}

	m.syncLog()
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.ctrl.Player().StopMusic()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.NextTool):
		m.cycle(1)

	case key.Matches(msg, m.keys.PrevTool):
		m.cycle(-1)

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Down):
		if v := m.activeView(); v != nil && m.selected < len(v.Results.Downloads)-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.Theme):
		cmd := m.toggleTheme()
		return m, cmd

	case key.Matches(msg, m.keys.Music):
		cmd := m.toggleMusic()
		return m, cmd

	case key.Matches(msg, m.keys.Email):
		if d, ok := m.selectedDownload(); ok {
			m.ctrl.OpenEmail(d.Filename)
		}

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyLink()

	case key.Matches(msg, m.keys.Download):
		return m, m.download()
	}
	return m, nil
}

// submitPending sends the pending form once, after arrangement and connection
func (m *Model) submitPending() tea.Cmd {
	if m.arranging || m.submitted || m.cfg.Pending == nil ||
		m.ctrl.Board().Connection != transport.Connected {
		return nil
	}
	m.submitted = true
	return m.ctrl.OnSubmit(*m.cfg.Pending)
}

func (m Model) handleArrangeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := m.cfg.Arrange
	switch {
	case key.Matches(msg, m.arrange.Cancel):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.arrange.MoveUp):
		a.MoveUp()
	case key.Matches(msg, m.arrange.MoveDown):
		a.MoveDown()
	case key.Matches(msg, m.arrange.Up):
		a.CursorUp()
	case key.Matches(msg, m.arrange.Down):
		a.CursorDown()
	case key.Matches(msg, m.arrange.Top):
		a.MoveToTop()
	case key.Matches(msg, m.arrange.Bottom):
		a.MoveToBottom()
	case key.Matches(msg, m.arrange.Confirm):
		form, err := a.Form()
		if err != nil {
			return m, m.ctrl.Notify("Cannot upload: "+err.Error(), transport.StatusError)
		}
		m.cfg.Pending = &form
		m.arranging = false
		cmd := m.submitPending()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleModalKey(msg tea.KeyMsg) tea.Cmd {
	modal := m.ctrl.Modal()
	switch {
	case key.Matches(msg, m.modal.Cancel):
		m.ctrl.CloseEmail()
		return nil
	case key.Matches(msg, m.modal.Next):
		modal.FocusNext()
		return nil
	case key.Matches(msg, m.modal.Send):
		return m.ctrl.SendEmail()
	}
	return modal.updateInput(msg)
}

func (m *Model) activate(tool string) {
	for i, t := range m.ctrl.Board().Tools() {
		if t == tool {
			if m.active != i {
				m.selected = 0
			}
			m.active = i
			return
		}
	}
}

func (m *Model) cycle(step int) {
	tools := m.ctrl.Board().Tools()
	if len(tools) == 0 {
		return
	}
	m.active = (m.active + step + len(tools)) % len(tools)
	m.selected = 0
}

func (m Model) activeTool() string {
	tools := m.ctrl.Board().Tools()
	if m.active < len(tools) {
		return tools[m.active]
	}
	return ""
}

func (m Model) activeView() *ToolView {
	return m.ctrl.Board().View(m.activeTool())
}

func (m Model) selectedDownload() (transport.Download, bool) {
	v := m.activeView()
	if v == nil || !v.Results.Visible || m.selected >= len(v.Results.Downloads) {
		return transport.Download{}, false
	}
	return v.Results.Downloads[m.selected], true
}

// syncLog mirrors the active session's log into the list widget
func (m *Model) syncLog() {
	s := m.ctrl.Session(m.activeTool())
	items := make([]list.Item, len(s.Log))
	for i, entry := range s.Log {
		items[i] = entry
	}
	m.logList.SetItems(items)
}

func (m *Model) toggleTheme() tea.Cmd {
	if m.cfg.Prefs == nil {
		if m.theme == prefs.ThemeDark {
			m.theme = prefs.ThemeLight
		} else {
			m.theme = prefs.ThemeDark
		}
		return nil
	}
	theme, err := m.cfg.Prefs.ToggleTheme()
	if err != nil {
		return m.ctrl.Notify("Could not save theme: "+err.Error(), transport.StatusError)
	}
	m.theme = theme
	return nil
}

func (m *Model) toggleMusic() tea.Cmd {
	player := m.ctrl.Player()
	if m.musicOn {
		player.StopMusic()
		m.musicOn = false
		m.saveMusic(false)
		return nil
	}
	if err := player.StartMusic(); err != nil {
		m.ctrl.Logger().Warnw("Error playing background music", "error", err)
		return m.ctrl.Notify(musicUnavailableMessage, transport.StatusInfo)
	}
	m.musicOn = true
	m.saveMusic(true)
	return nil
}

func (m *Model) saveMusic(enabled bool) {
	if m.cfg.Prefs == nil {
		return
	}
	if err := m.cfg.Prefs.SetMusic(enabled); err != nil {
		m.ctrl.Logger().Warnw("Could not save music preference", "error", err)
	}
}

func (m Model) copyLink() tea.Cmd {
	d, ok := m.selectedDownload()
	if !ok || m.cfg.Copy == nil || m.cfg.Downloader == nil {
		return nil
	}
	link, err := m.cfg.Downloader.Resolve(d.URL)
	if err == nil {
		err = m.cfg.Copy(link)
	}
	if err != nil {
		return m.ctrl.Notify("Could not copy link: "+err.Error(), transport.StatusError)
	}
	return m.ctrl.Notify("Link copied to clipboard", transport.StatusInfo)
}

func (m Model) download() tea.Cmd {
	d, ok := m.selectedDownload()
	if !ok || m.cfg.Downloader == nil {
		return nil
	}
	dl, ctx, dir := m.cfg.Downloader, m.ctrl.Context(), m.cfg.OutDir
	return func() tea.Msg {
		path, err := dl.Download(ctx, d.URL, dir, nil)
		return DownloadDoneMsg{Path: path, Err: err}
	}
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	sections := []string{m.renderHeader()}
	if toast := m.renderToast(); toast != "" {
		sections = append(sections, toast)
	}

	if m.arranging {
		sections = append(sections, m.renderArrangement(m.cfg.Arrange), m.help.View(m.arrange))
		return strings.Join(sections, "\n\n")
	}

	if modal := m.ctrl.Modal(); modal != nil {
		sections = append(sections, m.renderModal(modal), m.help.View(m.modal))
		return strings.Join(sections, "\n\n")
	}

	sections = append(sections, m.renderTool())
	if size := m.renderSizePanel(); size != "" {
		sections = append(sections, size)
	}
	sections = append(sections, m.help.View(m.keys))

	return strings.Join(sections, "\n\n")
}

func (m Model) renderHeader() string {
	conn := ErrorStyle.Render("● Disconnected")
	if m.ctrl.Board().Connection == transport.Connected {
		conn = SuccessStyle.Render("● Connected")
	}
	music := "♪ off"
	if m.musicOn {
		music = "♪ on"
	}
	title := HeaderStyle.Render(fmt.Sprintf("PDF Toolkit %s", m.cfg.Version))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", conn, "  ",
		MutedStyle.Render(fmt.Sprintf("%s theme  %s", m.theme, music)))
}

func (m Model) renderToast() string {
	n := m.ctrl.Notifier().Current()
	if n == nil {
		return ""
	}
	body := fmt.Sprintf("%s %s", kindIcon(n.Kind), n.Message)
	if n.Flavor != "" {
		body = statusStyle(n.Kind).Render(n.Flavor) + "\n" + body
	}
	return toastStyle(n.Kind, n.Fading).Render(body)
}

func (m Model) renderTool() string {
	tools := m.ctrl.Board().Tools()
	tool := m.activeTool()
	v := m.activeView()
	if v == nil {
		return MutedStyle.Render("No tool selected")
	}
	s := m.ctrl.Session(tool)

	var b strings.Builder
	b.WriteString(InfoStyle.Render(fmt.Sprintf("Tool: %s (%d/%d)", tool, m.active+1, len(tools))))
	b.WriteString("\n")

	status := v.Status
	if status == "" {
		status = "Idle"
	}
	if s.Phase == PhaseProcessing {
		status = m.spinner.View() + " " + status
	}
	b.WriteString(status)
	b.WriteString("\n")

	if v.ProgressVisible {
		b.WriteString(m.bar.ViewAs(fraction(v.ProgressWidth)))
		b.WriteString("\n")
	}

	if v.LogVisible {
		b.WriteString(fmt.Sprintf("⏱  %s   %s\n", v.Timer, renderStages(v.Stages)))
		b.WriteString(m.timeline.ViewAs(fraction(v.TimelineWidth)))
		b.WriteString("\n")
		b.WriteString(m.logList.View())
		b.WriteString("\n")
	}

	if v.PreviewVisible {
		b.WriteString(panelStyle(m.theme).Render("Preview\n" + truncateLines(v.Preview, 10)))
		b.WriteString("\n")
	}

	if v.Results.Visible {
		b.WriteString(m.renderResults(v.Results))
	}

	return panelStyle(m.theme).Render(b.String())
}

func (m Model) renderResults(r ResultPanel) string {
	var b strings.Builder
	b.WriteString(SuccessStyle.Render(r.Header))
	b.WriteString("\n")
	b.WriteString(r.Subtitle)
	b.WriteString("\n")
	for i, d := range r.Downloads {
		cursor := "  "
		line := fmt.Sprintf("⬇ %s  (%s)  ✉", d.DisplayLabel(), d.URL)
		if i == m.selected {
			cursor = "▸ "
			line = lipgloss.NewStyle().Reverse(true).Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}
	return b.String()
}

func (m Model) renderSizePanel() string {
	size := m.ctrl.Board().Size
	if !size.Visible {
		return ""
	}
	return panelStyle(m.theme).Render(fmt.Sprintf(
		"Original: %s   Compressed: %s   Reduction: %s",
		size.Original, size.Compressed, size.Reduction))
}

func (m Model) renderArrangement(a *Arrangement) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("Upload order for %s", a.Tool)))
	b.WriteString("\n")
	for i, name := range a.labels() {
		line := fmt.Sprintf("%2d. %s", i+1, name)
		if i == a.Cursor {
			b.WriteString("▸ " + lipgloss.NewStyle().Reverse(true).Render(line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return panelStyle(m.theme).Render(b.String())
}

func (m Model) renderModal(modal *EmailModal) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Send File by Email"))
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("File: " + modal.Filename))
	b.WriteString("\n\n")
	b.WriteString(modal.email.View())
	b.WriteString("\n")
	b.WriteString(modal.subject.View())
	b.WriteString("\n")
	b.WriteString(modal.message.View())
	b.WriteString("\n")
	if modal.Status != "" {
		b.WriteString(statusStyle(modal.StatusKind).Render(modal.Status))
		b.WriteString("\n")
	}
	if modal.Sending {
		b.WriteString(MutedStyle.Render("[ Sending... ]"))
	} else {
		b.WriteString(InfoStyle.Render("[ Send Email ]"))
	}
	return panelStyle(m.theme).Render(b.String())
}

func renderStages(set StageSet) string {
	parts := make([]string, len(Stages))
	for i, st := range Stages {
		if set.Has(st) {
			parts[i] = SuccessStyle.Render("● " + st.String())
		} else {
			parts[i] = MutedStyle.Render("○ " + st.String())
		}
	}
	return strings.Join(parts, " ─ ")
}

// fraction converts a percentage for progress.ViewAs, which expects 0..1
func fraction(percent float64) float64 {
	return percent / 100
}

func truncateLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n") + "\n…"
}
