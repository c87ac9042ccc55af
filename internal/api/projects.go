package api

import (
	"context"
	"net/http"

	"github.com/felixgeelhaar/planboard/internal/board"
)

// GetProject fetches the persisted project
func (c *Client) GetProject(ctx context.Context) (*board.ProjectData, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, EndpointProjects, nil)
	if err != nil {
		return nil, err
	}
	var data board.ProjectData
	if err := decode(resp, EndpointProjects, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// SaveProject persists the payload as the whole project
func (c *Client) SaveProject(ctx context.Context, p board.Payload) error {
	_, err := c.doRequest(ctx, http.MethodPost, EndpointProjects, p)
	return err
}

// Health checks that the scheduler service answers a project read.
// Reads are not retried here so a probe fails fast.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.once(ctx, http.MethodGet, EndpointProjects, nil)
	if err != nil {
		return err
	}
	if resp.status < 200 || resp.status >= 300 {
		return newAPIError(resp)
	}
	return nil
}
