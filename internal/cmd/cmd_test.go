package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/planboard/internal/board"
	"github.com/felixgeelhaar/planboard/internal/errors"
	"github.com/felixgeelhaar/planboard/internal/exitcode"
	"github.com/felixgeelhaar/planboard/internal/ux"
)

// fakeScheduler is an in-memory scheduler service with call counters.
type fakeScheduler struct {
	saves      atomic.Int32
	graphPosts atomic.Int32
	ganttPosts atomic.Int32
	failGraph  bool
	graphPNG   bool
	ganttTasks string

	mu          sync.Mutex
	lastPayload board.Payload
}

func (f *fakeScheduler) payload() board.Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPayload
}

func (f *fakeScheduler) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"resources":["Developer"],"tasks":[
			{"id":"T1","title":"Design","baseReward":40,"dependencies":[],"requiredResources":["Developer"],"requiredTime":2,"rewardDecayFactor":0.1},
			{"id":"T2","title":"Build","baseReward":80,"dependencies":["T1","T9"],"requiredResources":[],"requiredTime":5,"rewardDecayFactor":0}]}`))
	})
	mux.HandleFunc("POST /projects", func(w http.ResponseWriter, r *http.Request) {
		f.saves.Add(1)
		f.mu.Lock()
		_ = json.NewDecoder(r.Body).Decode(&f.lastPayload)
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"message":"Project data saved successfully"}`))
	})
	mux.HandleFunc("POST /dependency-graph", func(w http.ResponseWriter, r *http.Request) {
		f.graphPosts.Add(1)
		if f.failGraph {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"graphviz not installed"}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("GET /dependency-graph", func(w http.ResponseWriter, r *http.Request) {
		if f.graphPNG {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("\x89PNG fake"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"nodes":[{"id":"T1","label":"Design"},{"id":"T2","label":"Build"}],"edges":[{"from":"T1","to":"T2"}]}`))
	})
	mux.HandleFunc("POST /schedule", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Schedule computed","result":{"scheduled_tasks":[
			{"id":"T1","title":"Design","start_time":0,"end_time":2,"resources":["Developer"],"actual_reward":38,
			 "llm_analysis":{"estimated_complexity":"low","potential_risks":["scope creep"],"required_skills":[],"suggested_priority":"high"}},
			{"id":"T2","title":"Build","start_time":2,"end_time":7,"resources":[],"actual_reward":70}],
			"total_reward":108,"total_time":7}}`))
	})
	mux.HandleFunc("POST /gantt-chart", func(w http.ResponseWriter, r *http.Request) {
		f.ganttPosts.Add(1)
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("GET /gantt-chart", func(w http.ResponseWriter, r *http.Request) {
		tasks := f.ganttTasks
		if tasks == "" {
			tasks = "[]"
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tasks":` + tasks + `}`))
	})
	return mux
}

func startScheduler(t *testing.T, f *fakeScheduler) {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	t.Setenv("HOME", t.TempDir())
	t.Setenv("PLANBOARD_API_URL", srv.URL)
	t.Setenv("PLANBOARD_LOG_LEVEL", "error")
}

// execute runs the root command with fresh flag values.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, outFormat, logLevel, logFormat = "", "text", "", ""
	saveFile, saveDryRun = "", false
	scheduleShow, scheduleBaseDate = false, ""
	timelineHover, timelineWidth = "", 0
	graphOut, graphRegenerate = ux.NewPathDefaults().GraphFile(), false
	doctorContractURL, doctorTimeout = "", 10*time.Second

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const projectYAML = `tasks:
  - id: T1
    title: Design
    baseReward: 40
    requiredTime: 2
    dependencies: []
    requiredResources: [Developer]
  - id: T2
    title: Build
    baseReward: 80
    requiredTime: 5
    dependencies: [T1]
    requiredResources: []
resources: [Developer, Designer]
`

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "goVersion")
}

func TestTasksCommand(t *testing.T) {
	startScheduler(t, &fakeScheduler{})

	out, err := execute(t, "tasks")
	require.NoError(t, err)
	assert.Contains(t, out, "Design")
	assert.Contains(t, out, "T1, T9")
	assert.Contains(t, out, "1 warning(s)")
	assert.Contains(t, out, `dependency "T9" does not exist`)
}

func TestTasksCommandYAMLRoundTrips(t *testing.T) {
	startScheduler(t, &fakeScheduler{})

	out, err := execute(t, "tasks", "--format", "yaml")
	require.NoError(t, err)

	p, err := readPayload(writeFile(t, "project.yaml", out), nil)
	require.NoError(t, err)
	assert.Len(t, p.Tasks, 2)
	assert.Equal(t, []string{"Developer"}, p.Resources)
}

func TestSaveCommand(t *testing.T) {
	f := &fakeScheduler{}
	startScheduler(t, f)

	out, err := execute(t, "save", "--file", writeFile(t, "project.yaml", projectYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "Project saved successfully: 2 tasks, 2 resources")
	assert.Equal(t, int32(1), f.saves.Load())
	assert.Equal(t, int32(1), f.graphPosts.Load())
	assert.Len(t, f.payload().Tasks, 2)
	assert.Equal(t, []string{"Developer", "Designer"}, f.payload().Resources)
}

func TestSaveCommandDryRun(t *testing.T) {
	f := &fakeScheduler{}
	startScheduler(t, f)

	out, err := execute(t, "save", "--dry-run", "--file", writeFile(t, "project.yaml", projectYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "Project data is valid")
	assert.Equal(t, int32(0), f.saves.Load())
}

func TestSaveCommandRejectsMissingResources(t *testing.T) {
	f := &fakeScheduler{}
	startScheduler(t, f)

	path := writeFile(t, "project.json", `{"tasks":[]}`)
	_, err := execute(t, "save", "--file", path)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, exitcode.ValidationError, exitcode.DetermineExitCode(err))
	assert.Equal(t, int32(0), f.saves.Load(), "validation happens before any network call")
}

func TestSaveCommandRejectsDuplicateIDs(t *testing.T) {
	f := &fakeScheduler{}
	startScheduler(t, f)

	path := writeFile(t, "project.json", `{"resources":[],"tasks":[
		{"id":"T1","title":"Design","baseReward":10},
		{"id":"T1","title":"Design copy","baseReward":5}]}`)
	_, err := execute(t, "save", "--file", path)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidTask, errors.CodeOf(err))
	assert.Equal(t, exitcode.ValidationError, exitcode.DetermineExitCode(err))
	assert.Equal(t, int32(0), f.saves.Load())
}

func TestSaveCommandPartialFailure(t *testing.T) {
	f := &fakeScheduler{failGraph: true}
	startScheduler(t, f)

	out, err := execute(t, "save", "--file", writeFile(t, "project.yaml", projectYAML))
	require.Error(t, err)
	assert.True(t, errors.IsPartial(err))
	assert.Equal(t, exitcode.PartialFailure, exitcode.DetermineExitCode(err))
	assert.Contains(t, out, "dependency graph not regenerated")
	assert.Equal(t, int32(1), f.saves.Load())
}

func TestScheduleCommand(t *testing.T) {
	f := &fakeScheduler{}
	startScheduler(t, f)

	out, err := execute(t, "schedule", "--show", "--base-date", "2024-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Schedule: 2 tasks, total reward 108.0 over 7.0 days")
	assert.Contains(t, out, "scope creep")
	assert.Contains(t, out, "T2 Build")
	assert.Equal(t, int32(1), f.ganttPosts.Load())
}

func TestScheduleCommandBadBaseDate(t *testing.T) {
	f := &fakeScheduler{}
	startScheduler(t, f)

	_, err := execute(t, "schedule", "--base-date", "03/01/2024")
	require.Error(t, err)
	assert.Equal(t, exitcode.ConfigError, exitcode.DetermineExitCode(err))
	assert.Equal(t, int32(0), f.ganttPosts.Load())
}

func TestTimelineCommandEmpty(t *testing.T) {
	startScheduler(t, &fakeScheduler{})

	out, err := execute(t, "timeline")
	require.NoError(t, err)
	assert.Contains(t, out, "No scheduled tasks to display")
}

func TestTimelineCommandJSON(t *testing.T) {
	startScheduler(t, &fakeScheduler{ganttTasks: `[
		{"id":"T1","title":"Design","start":"2024-01-01","end":"2024-01-03","progress":100},
		{"id":"T2","title":"Build","start":"2024-01-03","end":"2024-01-11","progress":0}]`})

	out, err := execute(t, "timeline", "--format", "json")
	require.NoError(t, err)

	var report struct {
		Empty      bool `json:"empty"`
		Projection struct {
			Bars []struct {
				LeftPct  float64 `json:"leftPct"`
				WidthPct float64 `json:"widthPct"`
			} `json:"bars"`
		} `json:"projection"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Empty)
	require.Len(t, report.Projection.Bars, 2)
	assert.InDelta(t, 0, report.Projection.Bars[0].LeftPct, 1e-9)
	assert.InDelta(t, 20, report.Projection.Bars[0].WidthPct, 1e-9)
	assert.InDelta(t, 20, report.Projection.Bars[1].LeftPct, 1e-9)
}

func TestGraphCommandTable(t *testing.T) {
	startScheduler(t, &fakeScheduler{})

	out, err := execute(t, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "Build")
	assert.Contains(t, out, "DEPENDS ON")
}

func TestGraphCommandWritesPNG(t *testing.T) {
	startScheduler(t, &fakeScheduler{graphPNG: true})
	target := filepath.Join(t.TempDir(), "deps.png")

	out, err := execute(t, "graph", "--out", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Dependency graph written to")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG fake", string(data))
}

func TestGraphCommandRegenerate(t *testing.T) {
	f := &fakeScheduler{}
	startScheduler(t, f)

	_, err := execute(t, "graph", "--regenerate")
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.graphPosts.Load())
	assert.Equal(t, int32(0), f.saves.Load())
}

func TestDoctorCommand(t *testing.T) {
	startScheduler(t, &fakeScheduler{})

	out, err := execute(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "scheduler-api")
	assert.Contains(t, out, "api-contract")
	assert.Contains(t, out, "Overall: healthy")
}

func TestDoctorCommandUnreachable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PLANBOARD_API_URL", "http://127.0.0.1:1")
	t.Setenv("PLANBOARD_LOG_LEVEL", "error")

	cfg := writeFile(t, "config.yaml", "api:\n  max_retries: 0\n")
	_, err := execute(t, "doctor", "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, exitcode.NetworkError, exitcode.DetermineExitCode(err))
}

func TestMissingExplicitConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := execute(t, "tasks", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, exitcode.ConfigError, exitcode.DetermineExitCode(err))
}

func TestUnknownFormat(t *testing.T) {
	startScheduler(t, &fakeScheduler{})

	_, err := execute(t, "tasks", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Use one of: text, json, yaml")
}

func TestServiceErrorAddsTransportHint(t *testing.T) {
	refused := errors.Wrap(errors.ErrCodeTransport, "request to /projects failed",
		fmt.Errorf("dial tcp 127.0.0.1:1: connect: connection refused"))
	err := ServiceError("load project data", refused)
	assert.Equal(t, errors.ErrCodeTransport, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "Start the scheduler service")

	slow := ServiceError("load the timeline", fmt.Errorf("context deadline exceeded"))
	var ews *ErrorWithSuggestion
	require.ErrorAs(t, slow, &ews)
	require.Len(t, ews.Suggestions, 3)
	assert.Contains(t, ews.Suggestions[0], "raise api.timeout")

	other := ServiceError("load the timeline", fmt.Errorf("boom"))
	require.ErrorAs(t, other, &ews)
	assert.Len(t, ews.Suggestions, 2)
}
