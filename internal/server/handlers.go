package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/felixgeelhaar/planboard/internal/board"
	"github.com/felixgeelhaar/planboard/internal/errors"
	"github.com/felixgeelhaar/planboard/internal/timeline"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

// ErrorBody is the JSON body of a failed request
type ErrorBody struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error"`
}

// SaveResponse is the JSON body of a successful save
type SaveResponse struct {
	Message          string `json:"message"`
	Persisted        bool   `json:"persisted"`
	GraphRegenerated bool   `json:"graphRegenerated"`
}

// TimelineBar is a projected bar with its tooltip placement
type TimelineBar struct {
	timeline.Bar
	Tooltip    timeline.Placement `json:"tooltip"`
	TooltipCSS map[string]string  `json:"tooltipCss"`
}

// TimelineResponse is the JSON body of GET /api/timeline
type TimelineResponse struct {
	Empty       bool            `json:"empty"`
	WindowStart *time.Time      `json:"windowStart,omitempty"`
	WindowEnd   *time.Time      `json:"windowEnd,omitempty"`
	Ticks       []timeline.Tick `json:"ticks,omitempty"`
	Bars        []TimelineBar   `json:"bars,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// message returns a one-line error text without suggestions.
func message(err error) string {
	if be, ok := err.(*errors.BoardError); ok {
		return be.Summary()
	}
	return err.Error()
}

// savePayload is decoded with raw fields so that a non-array value is told
// apart from a missing one.
type savePayload struct {
	Tasks     json.RawMessage `json:"tasks"`
	Resources json.RawMessage `json:"resources"`
}

func decodePayload(r io.Reader) (board.Payload, error) {
	var raw savePayload
	if err := json.NewDecoder(io.LimitReader(r, maxBodyBytes)).Decode(&raw); err != nil {
		return board.Payload{}, errors.NewInvalidPayloadError("tasks and resources arrays are required")
	}

	var p board.Payload
	if !isArray(raw.Tasks) || !isArray(raw.Resources) {
		return p, errors.NewInvalidPayloadError("tasks and resources arrays are required")
	}
	if err := json.Unmarshal(raw.Tasks, &p.Tasks); err != nil {
		return p, errors.NewInvalidPayloadError(fmt.Sprintf("malformed task: %v", err))
	}
	if err := json.Unmarshal(raw.Resources, &p.Resources); err != nil {
		return p, errors.NewInvalidPayloadError(fmt.Sprintf("malformed resource list: %v", err))
	}
	return p, nil
}

func isArray(raw json.RawMessage) bool {
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

// handleSaveProject validates the payload and runs the save sequence.
//
// 400 for a malformed payload (no upstream call), 500 when the project was
// not persisted, 502 when it was persisted but the graph failed.
func (s *Server) handleSaveProject(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r.Body)
	if err != nil {
		s.deps.Metrics.ObserveSave("invalid")
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: message(err)})
		return
	}

	outcome, err := s.deps.Saver.Save(r.Context(), payload, nil)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, SaveResponse{
			Message:          "Project saved",
			Persisted:        true,
			GraphRegenerated: outcome.GraphRegenerated,
		})
	case errors.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: message(err)})
	case errors.IsPartial(err):
		writeJSON(w, http.StatusBadGateway, ErrorBody{
			Message: "Project saved; graph generation failed",
			Error:   message(err),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorBody{
			Message: "Error saving project data",
			Error:   message(err),
		})
	}
}

// handleSchedule runs the schedule sequence and returns the schedule.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	resp, err := s.deps.Scheduler.Request(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorBody{
			Message: "Error fetching schedule data",
			Error:   message(err),
		})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleTimeline projects the stored snapshot. Concurrent requests share
// one upstream read.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	width := s.tooltipWidth
	if v := r.URL.Query().Get("tooltipWidth"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 || parsed > 100 {
			writeJSON(w, http.StatusBadRequest, ErrorBody{Error: fmt.Sprintf("invalid tooltipWidth %q: want a percentage between 0 and 100", v)})
			return
		}
		width = parsed
	}

	ctx := context.WithoutCancel(r.Context())
	v, err, _ := s.timelineFlight.Do("timeline", func() (interface{}, error) {
		return s.deps.Timeline.FetchTimeline(ctx)
	})
	if err != nil {
		writeJSON(w, http.StatusBadGateway, ErrorBody{
			Message: "Error fetching timeline data",
			Error:   message(err),
		})
		return
	}

	snap := v.(*timeline.Snapshot)
	proj, err := timeline.Project(snap.Tasks)
	if err != nil {
		s.deps.Metrics.ObserveProjection(0)
		writeJSON(w, http.StatusOK, TimelineResponse{Empty: true})
		return
	}
	s.deps.Metrics.ObserveProjection(len(proj.Bars))

	rows := proj.Rows()
	bars := make([]TimelineBar, len(proj.Bars))
	for i, b := range proj.Bars {
		p := timeline.PlaceTooltip(b.Row, rows, b.LeftPct, width)
		bars[i] = TimelineBar{Bar: b, Tooltip: p, TooltipCSS: p.CSS()}
	}

	writeJSON(w, http.StatusOK, TimelineResponse{
		WindowStart: &proj.WindowStart,
		WindowEnd:   &proj.WindowEnd,
		Ticks:       proj.Ticks(tickCount(proj)),
		Bars:        bars,
	})
}

// tickCount labels every day for short windows and ten points otherwise.
func tickCount(p timeline.Projection) int {
	days := int(p.SpanDays()) + 1
	if days > 10 {
		return 10
	}
	return days
}

// handleRefresh returns the current refresh token values.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Tokens.Snapshot())
}
