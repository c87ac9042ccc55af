// Package tui is the interactive planning board: task cards with quick-add,
// edit and soft delete, save and schedule actions, the dependency graph and
// a hoverable timeline.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/planboard/internal/api"
	"github.com/felixgeelhaar/planboard/internal/board"
	"github.com/felixgeelhaar/planboard/internal/gateway"
	"github.com/felixgeelhaar/planboard/internal/log"
	"github.com/felixgeelhaar/planboard/internal/refresh"
	"github.com/felixgeelhaar/planboard/internal/timeline"
)

// Pane is a section of the board
type Pane int

const (
	PaneTasks Pane = iota
	PaneGraph
	PaneTimeline
)

var paneNames = []string{"Tasks", "Dependency graph", "Timeline"}

func (p Pane) String() string {
	return paneNames[p]
}

// DefaultNotificationTTL is how long a notification stays visible
const DefaultNotificationTTL = 5 * time.Second

// Remote reads the project and the artifacts from the scheduler service
type Remote interface {
	GetProject(ctx context.Context) (*board.ProjectData, error)
	FetchGraph(ctx context.Context) (api.Graph, error)
	FetchTimeline(ctx context.Context) (*timeline.Snapshot, error)
}

// Saver runs the save sequence
type Saver interface {
	Save(ctx context.Context, payload board.Payload, finalizer gateway.Finalizer) (gateway.SaveOutcome, error)
}

// Scheduler runs the schedule sequence
type Scheduler interface {
	Request(ctx context.Context) (*api.ScheduleResponse, error)
}

// Options configures a Model
type Options struct {
	Remote    Remote
	Saver     Saver
	Scheduler Scheduler
	Tokens    *refresh.Tokens
	Logger    *log.Logger

	NotificationTTL time.Duration
	ChartWidth      int
	TooltipWidthPct float64
}

type noticeKind int

const (
	noticeSuccess noticeKind = iota
	noticeWarning
	noticeError
)

type notification struct {
	kind noticeKind
	text string
	seq  int
}

// Model is the board state
type Model struct {
	ctx       context.Context
	store     *board.Store
	remote    Remote
	saver     Saver
	scheduler Scheduler
	tokens    *refresh.Tokens
	logger    *log.Logger

	// Session
	loading    bool
	loadErr    error
	cursor     int
	issues     []board.Issue
	lastResult *api.ScheduleResponse

	// Busy flags; the matching key is ignored while set
	saving     bool
	scheduling bool

	// Artifacts
	graph           api.Graph
	graphErr        error
	graphLoading    bool
	graphSeen       uint64
	snapshot        *timeline.Snapshot
	timelineErr     error
	timelineLoading bool
	timelineSeen    uint64
	hover           timeline.Hover
	hoverRow        int

	// Forms
	form      *huh.Form
	formMode  formMode
	fields    *taskFields
	confirmed *bool

	// Notification
	note    *notification
	noteSeq int
	noteTTL time.Duration

	// UI
	pane         Pane
	showHelp     bool
	width        int
	height       int
	chartWidth   int
	tooltipWidth float64
	quitting     bool

	help    help.Model
	spinner spinner.Model
	styles  Styles
}

// NewModel creates a board over store
func NewModel(ctx context.Context, store *board.Store, opts Options) Model {
	if opts.Tokens == nil {
		opts.Tokens = &refresh.Tokens{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.NotificationTTL <= 0 {
		opts.NotificationTTL = DefaultNotificationTTL
	}
	if opts.ChartWidth <= 0 {
		opts.ChartWidth = 60
	}
	if opts.TooltipWidthPct <= 0 {
		opts.TooltipWidthPct = 20
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:             ctx,
		store:           store,
		remote:          opts.Remote,
		saver:           opts.Saver,
		scheduler:       opts.Scheduler,
		tokens:          opts.Tokens,
		logger:          opts.Logger,
		loading:         true,
		graphLoading:    true,
		timelineLoading: true,
		graphSeen:       opts.Tokens.Graph.Value(),
		timelineSeen:    opts.Tokens.Timeline.Value(),
		noteTTL:         opts.NotificationTTL,
		chartWidth:      opts.ChartWidth,
		tooltipWidth:    opts.TooltipWidthPct,
		help:            help.New(),
		spinner:         sp,
		styles:          DefaultStyles(),
	}
}

// Store returns the board's task store
func (m Model) Store() *board.Store {
	return m.store
}

// selectedTask returns the task under the cursor
func (m Model) selectedTask() (board.Task, bool) {
	tasks := m.store.Tasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return board.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *Model) clampCursor() {
	n := m.store.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
