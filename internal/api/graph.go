package api

import (
	"context"
	"fmt"
	"mime"
	"net/http"

	"github.com/felixgeelhaar/planboard/internal/board"
	"github.com/felixgeelhaar/planboard/internal/errors"
)

// Graph is the dependency-graph artifact: a GraphImage or a GraphTable.
type Graph interface {
	isGraph()
}

// GraphImage is a rendered PNG of the dependency graph
type GraphImage struct {
	PNG []byte
}

// GraphNode is one task node of a tabular graph
type GraphNode struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// GraphEdge points from a dependency to its dependent
type GraphEdge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// GraphTable is the structured form of the dependency graph
type GraphTable struct {
	Nodes []GraphNode `json:"nodes" yaml:"nodes"`
	Edges []GraphEdge `json:"edges" yaml:"edges"`
}

func (GraphImage) isGraph() {}
func (GraphTable) isGraph() {}

// DependenciesOf returns the labels of the nodes with an edge into id, in
// edge order. Unknown source nodes are listed by id.
func (g GraphTable) DependenciesOf(id string) []string {
	labels := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		labels[n.ID] = n.Label
	}
	var out []string
	for _, e := range g.Edges {
		if e.To != id {
			continue
		}
		if l, ok := labels[e.From]; ok && l != "" {
			out = append(out, l)
		} else {
			out = append(out, e.From)
		}
	}
	return out
}

// FetchGraph reads the current dependency-graph artifact. The variant is
// chosen from the response content type.
func (c *Client) FetchGraph(ctx context.Context) (Graph, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, EndpointDependencyGraph, nil)
	if err != nil {
		return nil, err
	}
	return graphFromResponse(resp)
}

// RegenerateGraph asks the service to rebuild the graph from the payload
func (c *Client) RegenerateGraph(ctx context.Context, p board.Payload) error {
	_, err := c.doRequest(ctx, http.MethodPost, EndpointDependencyGraph, p)
	return err
}

func graphFromResponse(resp *response) (Graph, error) {
	mediaType, _, err := mime.ParseMediaType(resp.contentType)
	if err != nil {
		mediaType = resp.contentType
	}
	switch mediaType {
	case "image/png":
		return GraphImage{PNG: resp.body}, nil
	case "application/json":
		var table GraphTable
		if err := decode(resp, EndpointDependencyGraph, &table); err != nil {
			return nil, err
		}
		return table, nil
	default:
		return nil, errors.New(errors.ErrCodeGraphContentType,
			fmt.Sprintf("Unexpected content type: %q", resp.contentType)).
			WithSuggestion("The scheduler service returned neither an image nor a JSON graph")
	}
}
