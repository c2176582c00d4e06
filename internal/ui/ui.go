package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/br-lazy-bird/content-delivery/internal/blog"
	"github.com/br-lazy-bird/content-delivery/internal/prefs"
	"github.com/br-lazy-bird/content-delivery/internal/state"
)

const (
	viewerTitle        = "Blog Content Delivery"
	loadingPostsText   = "Loading blog posts..."
	loadingPostText    = "Loading post..."
	listErrorTitle     = "Could not load posts"
	maxCardWidth       = 100
	fetchTimeout       = 30 * time.Second
	defaultUIInterval  = time.Second
	defaultThemeChoice = "Nightfox"
)

// Options configure the UI runtime.
type Options struct {
	Context        context.Context
	Client         blog.Fetcher
	Store          *state.Store
	Logger         *zap.Logger
	APIURL         string
	BackendLogPath string
	PollTick       time.Duration
	ThemeName      string
	PrefsPath      string
	ShowLogs       bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    blog.Fetcher
	store     *state.Store
	log       *zap.Logger
	apiURL    string
	prefsPath string
	pollTick  time.Duration

	// UI state
	theme    Theme
	keys     keyMap
	width    int
	height   int
	ready    bool
	showHelp bool

	// Data state
	snapshot state.Snapshot
	viewer   blogViewer
	cursor   int
	postBody string

	spinner      spinner.Model
	mainViewport viewport.Model

	logViewport viewport.Model
	logState    logState
}

// New creates the viewer model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = defaultUIInterval
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = defaultThemeChoice
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	theme := GetTheme(themeName)

	return Model{
		ctx:       ctx,
		client:    opts.Client,
		store:     opts.Store,
		log:       log,
		apiURL:    opts.APIURL,
		prefsPath: opts.PrefsPath,
		pollTick:  pollTick,
		theme:     theme,
		keys:      DefaultKeyMap(),
		viewer:    newBlogViewer(),

		mainViewport: viewport.New(0, 0),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))),
		),
		logState: logState{
			visible: opts.ShowLogs,
			path:    opts.BackendLogPath,
			follow:  true,
		},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.fetchPostsCmd(m.viewer.listSeq),
		m.spinner.Tick,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.logState.visible && m.logState.path != "" {
		cmds = append(cmds, readLogCmd(m.logState.path))
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
		m.mainViewport.Width = m.width
		m.mainViewport.Height = max(m.height-2, 1)
		m.renderPostBody()
		m.updateLogViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case postsMsg:
		if m.viewer.ApplyPosts(msg.seq, msg.posts, msg.err) {
			m.cursor = clampCursor(m.cursor, len(m.viewer.posts)+1)
			if msg.err != nil {
				m.log.Warn("post list fetch failed", zap.Error(msg.err))
			} else {
				m.log.Info("post list loaded", zap.Int("count", len(msg.posts)))
			}
		}
		return m, nil

	case postMsg:
		return m.handlePost(msg), nil

	case tickMsg:
		var cmds []tea.Cmd
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		if cmd := m.refreshLogs(false); cmd != nil {
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, tickCmd(m.pollTick))
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var body string
	if m.logState.visible {
		body = m.renderLogs()
	} else {
		vp := m.mainViewport
		vp.SetContent(m.renderMain())
		body = vp.View()
	}
	return m.renderHeader() + "\n" + body + "\n" + m.renderFooter()
}

func (m Model) busy() bool {
	return m.viewer.initialLoading || m.viewer.loading
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
		m.savePrefs()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.ToggleLogs):
		m.logState.visible = !m.logState.visible
		m.savePrefs()
		return m, m.refreshLogs(true)

	case key.Matches(msg, m.keys.Reload):
		if m.viewer.initialLoading {
			return m, nil
		}
		seq := m.viewer.Reload()
		return m, tea.Batch(m.fetchPostsCmd(seq), m.spinner.Tick)
	}

	if m.logState.visible {
		return m.handleLogsKey(msg)
	}
	return m.handleSelectorKey(msg)
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc":
		m.logState.visible = false
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logState.follow = true
		m.logViewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logState.follow = false
		m.logViewport.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	m.logState.follow = m.logViewport.AtBottom()
	return m, cmd
}

func (m Model) handleSelectorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := len(m.viewer.posts) + 1
	locked := m.busy()

	switch {
	case key.Matches(msg, m.keys.Clear):
		if m.viewer.selectedID == "" && !m.viewer.loading {
			return m, nil
		}
		m.viewer.Select("")
		m.cursor = 0
		m.postBody = ""
		return m, nil

	case key.Matches(msg, m.keys.PageDown, m.keys.PageUp, m.keys.HalfPageDown, m.keys.HalfPageUp):
		m.mainViewport.SetContent(m.renderMain())
		return m.scrollMain(msg), nil

	case locked:
		// The selector is disabled while a fetch is in flight.
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < options-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.cursor = options - 1
		return m, nil

	case key.Matches(msg, m.keys.Select):
		return m.selectOption(selectorOptions(m.viewer.posts)[clampCursor(m.cursor, options)].Value)
	}
	return m, nil
}

func (m Model) scrollMain(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.PageDown):
		m.mainViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.mainViewport.PageUp()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.mainViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.mainViewport.HalfPageUp()
	}
	return m
}

// selectOption applies a selector choice and starts the fetch it needs.
func (m Model) selectOption(value string) (tea.Model, tea.Cmd) {
	fetch := m.viewer.Select(value)
	if fetch == nil {
		m.postBody = ""
		return m, nil
	}
	return m, tea.Batch(m.fetchPostCmd(*fetch), m.spinner.Tick)
}

func (m Model) handlePost(msg postMsg) Model {
	if !m.viewer.ApplyPost(msg.seq, msg.post, msg.elapsed, msg.err) {
		m.log.Debug("dropped stale post response", zap.Int64("id", msg.id))
		return m
	}

	if m.store != nil && (msg.err == nil || msg.elapsed > 0) {
		m.store.Record(state.Sample{
			PostID:  msg.id,
			Title:   msg.post.Title,
			Elapsed: msg.elapsed,
			Err:     msg.err,
		})
		m.snapshot = m.store.Snapshot()
	}

	if msg.err != nil {
		m.log.Warn("post fetch failed",
			zap.Int64("id", msg.id),
			zap.Duration("elapsed", msg.elapsed),
			zap.Error(msg.err),
		)
		m.postBody = ""
		return m
	}

	m.log.Info("post loaded",
		zap.Int64("id", msg.id),
		zap.String("title", msg.post.Title),
		zap.Duration("elapsed", msg.elapsed),
	)
	m.renderPostBody()
	m.mainViewport.GotoTop()
	return m
}

// renderPostBody converts the selected post's markdown for the current width.
func (m *Model) renderPostBody() {
	if m.viewer.selected == nil {
		m.postBody = ""
		return
	}
	m.postBody = renderMarkdown(m.viewer.selected.Content, m.cardWidth()-8)
}

func (m Model) cardWidth() int {
	w := m.width - 2
	if w > maxCardWidth {
		w = maxCardWidth
	}
	if w < 30 {
		w = 30
	}
	return w
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, ShowLogs: m.logState.visible}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn("save prefs failed", zap.Error(err))
	}
}

// renderMain renders the viewer card.
func (m Model) renderMain() string {
	width := m.cardWidth()
	inner := width - 6
	v := m.viewer

	l := layout{
		Title:          viewerTitle,
		Description:    problemDescription,
		Loading:        v.initialLoading,
		LoadingMessage: loadingPostsText,
		Metrics:        m.metrics(),
	}

	// With nothing to select, a list failure replaces the content.
	if len(v.posts) == 0 && v.err != "" {
		l.Error = v.err
		l.ErrorTitle = listErrorTitle
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, renderLayout(m.theme, width, m.spinner.View(), l))
	}

	sections := []string{renderSelector(m.theme, inner, v.posts, m.cursor, v.selectedID, v.loading)}
	if v.loading {
		sections = append(sections, renderSpinner(m.theme, m.spinner.View(), loadingPostText))
	}
	if v.err != "" {
		sections = append(sections, renderError(m.theme, inner, errorBanner{HideTitle: true, Message: v.err}))
	}
	if v.ShowPost() {
		sections = append(sections, renderPostDisplay(m.theme, inner, *v.selected, *v.lastRequest, m.postBody))
	}
	l.Content = strings.Join(sections, "\n\n")

	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, renderLayout(m.theme, width, m.spinner.View(), l))
}

// metrics summarises the latency history for the footer.
func (m Model) metrics() []Metric {
	lat := m.snapshot.Latency()
	if lat.Count == 0 {
		return nil
	}
	return []Metric{
		{Label: "Last", Value: lat.Last, Unit: "ms"},
		{Label: "Average", Value: lat.Average, Unit: "ms"},
		{Label: "Requests", Value: lat.Count},
		{Label: "Same post", Value: lat.Repeats, Unit: "x"},
	}
}

func clampCursor(cursor, options int) int {
	if cursor >= options {
		cursor = options - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type postsMsg struct {
	seq   int
	posts []blog.Post
	err   error
}

type postMsg struct {
	seq     int
	id      int64
	post    blog.Post
	elapsed time.Duration
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func (m Model) fetchPostsCmd(seq int) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		if client == nil {
			return postsMsg{seq: seq, err: errors.New(errLoadPosts)}
		}
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		posts, err := client.FetchPosts(ctx)
		return postsMsg{seq: seq, posts: posts, err: err}
	}
}

func (m Model) fetchPostCmd(f postFetch) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		if client == nil {
			return postMsg{seq: f.seq, id: f.id, err: errors.New(errLoadPost)}
		}
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		post, elapsed, err := client.FetchPost(ctx, f.id)
		return postMsg{seq: f.seq, id: f.id, post: post, elapsed: elapsed, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
