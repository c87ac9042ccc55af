package api

import (
	"context"
	"net/http"

	"github.com/felixgeelhaar/planboard/internal/timeline"
)

// FetchTimeline reads the stored gantt-chart snapshot
func (c *Client) FetchTimeline(ctx context.Context) (*timeline.Snapshot, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, EndpointGanttChart, nil)
	if err != nil {
		return nil, err
	}
	var snap timeline.Snapshot
	if err := decode(resp, EndpointGanttChart, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// StoreTimeline uploads a schedule result as the new gantt-chart artifact
func (c *Client) StoreTimeline(ctx context.Context, result *ScheduleResult) error {
	_, err := c.doRequest(ctx, http.MethodPost, EndpointGanttChart, result)
	return err
}
