package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/balloon/internal/endpoint"
	"github.com/five82/balloon/internal/prefs"
	"github.com/five82/balloon/internal/state"
	"github.com/five82/balloon/internal/translator"
)

// Jobs is the job session the TUI drives.
type Jobs interface {
	Submit(ctx context.Context, rawEndpoint string, upload translator.Upload) (string, error)
	Store() *state.Store
}

// HealthChecker probes the translation service.
type HealthChecker interface {
	Health(ctx context.Context, healthURL string) (translator.HealthResponse, error)
}

// Options configures the UI.
type Options struct {
	Context     context.Context
	Jobs        Jobs
	Health      HealthChecker
	Logger      *slog.Logger
	Endpoint    string // initial endpoint field value
	ThemeName   string
	PrefsPath   string
	RefreshTick time.Duration // how often the store is re-read; zero uses 250ms
}

type focus int

const (
	focusEndpoint focus = iota
	focusImage
	focusResults
)

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeSuccess
	noticeDanger
)

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	jobs      Jobs
	health    HealthChecker
	logger    *slog.Logger
	prefsPath string
	refresh   time.Duration

	theme  Theme
	keys   keyMap
	help   help.Model
	width  int
	height int
	ready  bool

	endpointInput textinput.Model
	imageInput    textinput.Model
	focus         focus

	spinner  spinner.Model
	results  viewport.Model
	snapshot state.Snapshot

	notice      string
	noticeLevel noticeLevel
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	refresh := opts.RefreshTick
	if refresh <= 0 {
		refresh = 250 * time.Millisecond
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	endpointInput := textinput.New()
	endpointInput.Prompt = ""
	endpointInput.Placeholder = endpoint.DefaultBase
	endpointInput.SetValue(strings.TrimSpace(opts.Endpoint))
	endpointInput.CursorEnd()
	endpointInput.Focus()

	imageInput := textinput.New()
	imageInput.Prompt = ""
	imageInput.Placeholder = "~/manga/page-001.png"

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		ctx:           ctx,
		jobs:          opts.Jobs,
		health:        opts.Health,
		logger:        logger,
		prefsPath:     prefsPath,
		refresh:       refresh,
		theme:         GetTheme(opts.ThemeName),
		keys:          DefaultKeyMap(),
		help:          help.New(),
		endpointInput: endpointInput,
		imageInput:    imageInput,
		focus:         focusEndpoint,
		spinner:       spin,
		results:       viewport.New(0, 0),
	}
	if m.jobs != nil {
		m.snapshot = m.jobs.Store().Snapshot()
	}
	m.applyTheme()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		m.spinner.Tick,
		tickCmd(m.refresh),
	}
	if m.jobs != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.jobs.Store()))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.refresh)}
		if m.jobs != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.jobs.Store()))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case submitResultMsg:
		return m.handleSubmitResult(msg)

	case healthMsg:
		m.handleHealth(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.NextField):
		m.setFocus((m.focus + 1) % 3)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.setFocus((m.focus + 2) % 3)
		return m, nil
	}

	if m.focus != focusResults {
		if key.Matches(msg, m.keys.Blur) {
			m.setFocus(focusResults)
			return m, nil
		}
		return m.updateFocused(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.Health):
		if m.health == nil {
			return m, nil
		}
		m.setNotice(noticeInfo, "Checking "+endpoint.Resolve(m.endpointInput.Value()).HealthURL()+"...")
		return m, healthCmd(m.ctx, m.health, m.endpointInput.Value())
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusEndpoint:
		m.endpointInput, cmd = m.endpointInput.Update(msg)
	case focusImage:
		m.imageInput, cmd = m.imageInput.Update(msg)
	default:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	m.endpointInput.Blur()
	m.imageInput.Blur()
	switch f {
	case focusEndpoint:
		m.endpointInput.Focus()
	case focusImage:
		m.imageInput.Focus()
	}
}

// submit starts a job from the current field values. Any job already
// running is superseded by the session.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.jobs == nil {
		return m, nil
	}
	path := strings.TrimSpace(m.imageInput.Value())
	if path == "" {
		m.setNotice(noticeDanger, "Choose an image file first.")
		m.setFocus(focusImage)
		return m, nil
	}
	m.clearNotice()
	m.savePrefs()
	m.setFocus(focusResults)
	return m, tea.Batch(
		submitCmd(m.ctx, m.jobs, m.endpointInput.Value(), path),
		fetchSnapshotCmd(m.jobs.Store()),
	)
}

func (m Model) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.readErr != nil:
		m.setNotice(noticeDanger, msg.readErr.Error())
	case errors.Is(msg.err, translator.ErrEmptyUpload):
		m.setNotice(noticeDanger, "That file is empty.")
	case msg.err != nil:
		// Upload failures are recorded in the store and rendered from there.
		m.logger.Debug("submit returned", "error", msg.err)
	}
	if m.jobs == nil {
		return m, nil
	}
	return m, fetchSnapshotCmd(m.jobs.Store())
}

func (m *Model) handleHealth(msg healthMsg) {
	if msg.err != nil {
		m.setNotice(noticeDanger, "Health check failed: "+translator.UserMessage(translator.KindOf(msg.err), ""))
		return
	}
	if !msg.status.OK() {
		m.setNotice(noticeDanger, "Service at "+msg.url+" reported status "+quoteStatus(msg.status.Status))
		return
	}
	m.setNotice(noticeSuccess, "Service is up at "+msg.url)
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	if snap.Version == m.snapshot.Version {
		return
	}
	jobChanged := snap.Job.Token != m.snapshot.Job.Token || snap.Job.State != m.snapshot.Job.State
	m.snapshot = snap
	m.results.SetContent(renderResults(snap, m.theme.Styles(), m.results.Width))
	if jobChanged {
		m.results.GotoTop()
	}
}

func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.spinner.Style = styles.AccentText
	m.endpointInput.TextStyle = styles.Text
	m.imageInput.TextStyle = styles.Text
	m.endpointInput.PlaceholderStyle = styles.FaintText
	m.imageInput.PlaceholderStyle = styles.FaintText
	m.help.Styles.ShortKey = styles.WarningText
	m.help.Styles.FullKey = styles.WarningText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.FullDesc = styles.MutedText
	m.results.SetContent(renderResults(m.snapshot, styles, m.results.Width))
}

// layout sizes the inputs and results pane for the current window.
func (m *Model) layout() {
	inputWidth := m.width - 14
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.endpointInput.Width = inputWidth
	m.imageInput.Width = inputWidth
	m.help.Width = m.width

	// header, blank, two inputs, blank, status, blank, panel border (2), notice, help
	reserved := 10
	if m.help.ShowAll {
		reserved += 3
	}
	height := m.height - reserved
	if height < 3 {
		height = 3
	}
	width := m.width - 4
	if width < 10 {
		width = 10
	}
	m.results.Width = width
	m.results.Height = height
	m.results.SetContent(renderResults(m.snapshot, m.theme.Styles(), width))
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, LastEndpoint: m.endpointInput.Value()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

func (m *Model) setNotice(level noticeLevel, text string) {
	m.noticeLevel = level
	m.notice = text
}

func (m *Model) clearNotice() {
	m.notice = ""
	m.noticeLevel = noticeInfo
}

func quoteStatus(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(empty)"
	}
	return `"` + s + `"`
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
		opts.Context = ctx
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
