// Package tui provides a Bubble Tea terminal user interface for audiograb.
package tui

import (
	"context"
	"fmt"
	"strings"

	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/audiograb/internal/config"
	"github.com/handiism/audiograb/internal/download"
	"github.com/handiism/audiograb/internal/model"
	"github.com/handiism/audiograb/internal/progress"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxLogs is how many log lines stay on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   progress.Level
}

// BatchFunc runs jobs with settings and reports through onProgress.
// A returned error means the batch could not start.
type BatchFunc func(ctx context.Context, settings *config.Settings, jobs []model.Job, onProgress progress.Func) ([]model.Outcome, error)

// sourceHints is the cycle order of the source selector.
var sourceHints = append([]model.SourceType{model.SourceAuto}, model.SourceTypes...)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progressbar.Model
	settings  *config.Settings
	runBatch  BatchFunc
	logs      []LogEntry
	err       error

	// Queued URLs, in the order they will be downloaded
	queue []string

	// Batch state. gen numbers batches; messages of an older batch are
	// dropped.
	ctx          context.Context
	cancel       context.CancelFunc
	gen          int
	events       chan progress.Event
	jobIDs       map[string]bool
	outcomes     []model.Outcome
	batchErr     error
	batchDone    bool
	eventsClosed bool

	// Options
	scrape    bool
	sourceIdx int
	playlist  bool
	verbose   bool

	width  int
	height int
}

// NewModel creates a new TUI model. A nil runBatch runs the real
// yt-dlp pipeline.
func NewModel(settings *config.Settings, runBatch BatchFunc) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if runBatch == nil {
		runBatch = defaultBatch
	}

	ti := textinput.New()
	ti.Placeholder = "https://soundcloud.com/artist/track"
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progressbar.New(progressbar.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		runBatch:  runBatch,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		playlist:  settings.CreatePlaylist,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one event from batch Gen.
	ProgressMsg struct {
		Gen   int
		Event progress.Event
	}

	// EventsClosedMsg is sent once batch Gen stops emitting events.
	EventsClosedMsg struct {
		Gen int
	}

	// BatchDoneMsg is sent when batch Gen has returned. Events may still
	// be queued behind it.
	BatchDoneMsg struct {
		Gen      int
		Outcomes []model.Outcome
		Err      error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading {
				// Remaining jobs fail fast once the context is done.
				m.cancel()
			}

		case "enter":
			if m.state == StateInput {
				input := strings.TrimSpace(m.textInput.Value())
				if input != "" {
					m.queue = append(m.queue, strings.Fields(input)...)
					m.textInput.SetValue("")
					return m, nil
				}
				if len(m.queue) > 0 {
					return m.start()
				}
			}

		case "ctrl+s":
			if m.state == StateInput {
				m.scrape = !m.scrape
			}

		case "tab":
			if m.state == StateInput {
				m.sourceIdx = (m.sourceIdx + 1) % len(sourceHints)
			}

		case "ctrl+p":
			if m.state == StateInput {
				m.playlist = !m.playlist
			}

		case "ctrl+l":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "ctrl+d":
			if m.state == StateInput && len(m.queue) > 0 {
				m.queue = m.queue[:len(m.queue)-1]
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				return m.reset()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Gen != m.gen || m.events == nil {
			break
		}
		cmds = append(cmds, waitForEvent(m.gen, m.events))
		if id := msg.Event.JobID; id != "" && !m.jobIDs[id] && !m.batchDone {
			if m.jobIDs == nil {
				m.jobIDs = make(map[string]bool)
			}
			m.jobIDs[id] = true
			cmds = append(cmds, m.progress.SetPercent(m.percent()))
		}
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level == progress.LevelVerbose && !m.verbose {
			break
		}
		m.appendLog(msg.Event.Message, msg.Event.Level)

	case EventsClosedMsg:
		if msg.Gen != m.gen {
			break
		}
		m.eventsClosed = true
		m.events = nil
		cmds = append(cmds, m.finish())

	case BatchDoneMsg:
		if msg.Gen != m.gen {
			break
		}
		m.batchDone = true
		m.outcomes = msg.Outcomes
		m.batchErr = msg.Err
		cmds = append(cmds, m.finish())

	case progressbar.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progressbar.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// start launches the queued batch in the background.
func (m Model) start() (tea.Model, tea.Cmd) {
	settings := *m.settings
	settings.CreatePlaylist = m.playlist

	jobs := model.NewJobs(m.queue, m.scrape, sourceHints[m.sourceIdx])
	events := make(chan progress.Event, 64)

	m.gen++
	m.state = StateDownloading
	m.events = events
	m.jobIDs = make(map[string]bool, len(jobs))
	m.batchDone = false
	m.eventsClosed = false
	m.batchErr = nil
	m.outcomes = nil
	m.logs = m.logs[:0]
	m.textInput.Blur()

	return m, tea.Batch(
		runBatchCmd(m.ctx, m.gen, m.runBatch, &settings, jobs, events),
		waitForEvent(m.gen, events),
		m.spinner.Tick,
	)
}

// finish leaves StateDownloading once the batch has returned and all of
// its events have been shown.
func (m *Model) finish() tea.Cmd {
	if !m.batchDone || !m.eventsClosed || m.state != StateDownloading {
		return nil
	}
	if m.batchErr != nil {
		m.state = StateError
		m.err = m.batchErr
		return nil
	}
	m.state = StateComplete
	return m.progress.SetPercent(1)
}

// reset prepares the model for a new batch, keeping the options. Late
// messages of the finished batch are ignored from here on.
func (m Model) reset() (Model, tea.Cmd) {
	m.gen++
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.queue = nil
	m.outcomes = nil
	m.batchErr = nil
	m.events = nil
	m.jobIDs = nil
	m.batchDone = false
	m.eventsClosed = false
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.SetValue("")
	cmd := tea.Batch(m.progress.SetPercent(0), m.textInput.Focus())
	return m, cmd
}

func (m *Model) appendLog(msg string, level progress.Level) {
	m.logs = append(m.logs, LogEntry{Message: msg, Level: level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// percent is the share of jobs that have finished, counting the one in
// progress as not done.
func (m Model) percent() float64 {
	if len(m.queue) == 0 || len(m.jobIDs) == 0 {
		return 0
	}
	return float64(len(m.jobIDs)-1) / float64(len(m.queue))
}

// runBatchCmd runs the batch and closes events when it returns.
func runBatchCmd(ctx context.Context, gen int, run BatchFunc, settings *config.Settings, jobs []model.Job, events chan<- progress.Event) tea.Cmd {
	return func() tea.Msg {
		defer close(events)
		outcomes, err := run(ctx, settings, jobs, func(e progress.Event) {
			events <- e
		})
		return BatchDoneMsg{Gen: gen, Outcomes: outcomes, Err: err}
	}
}

// waitForEvent delivers the next batch event as a ProgressMsg.
func waitForEvent(gen int, events <-chan progress.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return EventsClosedMsg{Gen: gen}
		}
		return ProgressMsg{Gen: gen, Event: e}
	}
}

func defaultBatch(ctx context.Context, settings *config.Settings, jobs []model.Job, onProgress progress.Func) ([]model.Outcome, error) {
	manager, err := download.NewFromSettings(settings, "", onProgress)
	if err != nil {
		return nil, err
	}
	return manager.RunBatch(ctx, jobs), nil
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♫ audiograb"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download audio from SoundCloud, Bandcamp, archive.org and plain pages"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	if len(m.queue) > 0 {
		b.WriteString(infoStyle.Render(fmt.Sprintf("Queue (%d):", len(m.queue))))
		b.WriteString("\n")
		for _, u := range m.queue {
			b.WriteString(urlStyle.Render(fmt.Sprintf("  ♪ %s", u)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Scrape page for audio links (ctrl+s)\n", checkbox(m.scrape)))
	b.WriteString(fmt.Sprintf("  [%s] Source type (tab)\n", sourceHints[m.sourceIdx]))
	b.WriteString(fmt.Sprintf("  %s Create playlist (ctrl+p)\n", checkbox(m.playlist)))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (ctrl+l)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output: %s (%s)", m.settings.OutputDir, m.settings.Codec)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Job %d/%d", max(len(m.jobIDs), 1), len(m.queue))))
	b.WriteString("\n\n")

	b.WriteString(m.progress.View())
	b.WriteString("\n\n")

	// Logs
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	s := model.Summarize(m.outcomes)
	box := boxStyle.Render(fmt.Sprintf(
		"✨ Batch Complete!\n\n"+
			"Jobs: %d (%d failed)\n"+
			"Tracks: %d\n"+
			"Failed downloads: %d",
		s.Jobs, s.JobsFailed, s.Tracks, s.TracksFailed,
	))
	b.WriteString(box)
	b.WriteString("\n\n")

	for _, o := range m.outcomes {
		if o.Success {
			b.WriteString(successStyle.Render(fmt.Sprintf("✓ %s [%s] %d track(s)", o.Job.URL, o.SourceType, len(o.Tracks))))
		} else {
			b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s [%s] %s", o.Job.URL, o.SourceType, o.Reason)))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case progress.LevelError:
			style = errorStyle
			prefix = "✗"
		case progress.LevelWarning:
			style = warningStyle
			prefix = "!"
		case progress.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case progress.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		if len(m.queue) > 0 && m.textInput.Value() == "" {
			return "enter: start • ctrl+d: drop last • tab: source • ctrl+s/p/l: toggle • esc: quit"
		}
		return "enter: add URL • tab: source • ctrl+s: scrape • ctrl+p: playlist • ctrl+l: verbose • esc: quit"
	case StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new batch • q: quit"
	}
	return ""
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings, nil), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
