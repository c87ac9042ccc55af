package api

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/planboard/internal/errors"
)

func TestFetchGraph_ContentTypes(t *testing.T) {
	pngMagic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

	tests := []struct {
		name        string
		contentType string
		body        []byte
		check       func(t *testing.T, g Graph, err error)
	}{
		{
			name:        "png image",
			contentType: "image/png",
			body:        pngMagic,
			check: func(t *testing.T, g Graph, err error) {
				require.NoError(t, err)
				img, ok := g.(GraphImage)
				require.True(t, ok)
				assert.Equal(t, pngMagic, img.PNG)
			},
		},
		{
			name:        "json table with charset",
			contentType: "application/json; charset=utf-8",
			body:        []byte(`{"nodes":[{"id":"T1","label":"Design"},{"id":"T2","label":"Build"}],"edges":[{"from":"T1","to":"T2"}]}`),
			check: func(t *testing.T, g Graph, err error) {
				require.NoError(t, err)
				table, ok := g.(GraphTable)
				require.True(t, ok)
				assert.Len(t, table.Nodes, 2)
				assert.Equal(t, []string{"Design"}, table.DependenciesOf("T2"))
			},
		},
		{
			name:        "unexpected type",
			contentType: "text/html",
			body:        []byte("<p>graph</p>"),
			check: func(t *testing.T, g Graph, err error) {
				require.Error(t, err)
				assert.Nil(t, g)
				assert.Equal(t, errors.ErrCodeGraphContentType, errors.CodeOf(err))
				assert.Contains(t, err.Error(), "text/html")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				_, _ = w.Write(tt.body)
			})
			g, err := c.FetchGraph(context.Background())
			tt.check(t, g, err)
		})
	}
}

func TestGraphTable_DependenciesOf(t *testing.T) {
	table := GraphTable{
		Nodes: []GraphNode{{ID: "T1", Label: "Design"}, {ID: "T3", Label: "Test"}},
		Edges: []GraphEdge{
			{From: "T3", To: "T4"},
			{From: "T1", To: "T4"},
			{From: "T9", To: "T4"},
			{From: "T1", To: "T3"},
		},
	}

	assert.Equal(t, []string{"Test", "Design", "T9"}, table.DependenciesOf("T4"))
	assert.Equal(t, []string{"Design"}, table.DependenciesOf("T3"))
	assert.Empty(t, table.DependenciesOf("T1"))
}

func TestRegenerateGraph_Posts(t *testing.T) {
	var method, path string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_, _ = io.Copy(io.Discard, r.Body)
	})

	require.NoError(t, c.RegenerateGraph(context.Background(), testPayload()))
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, EndpointDependencyGraph, path)
}
