// Package contract describes the scheduler service API as an OpenAPI
// document and checks that a document covers every endpoint the client uses.
package contract

import (
	"context"
	_ "embed"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/felixgeelhaar/planboard/internal/api"
	"github.com/felixgeelhaar/planboard/internal/errors"
)

//go:embed openapi.yaml
var embedded []byte

// Endpoint is one method and path of the scheduler service
type Endpoint struct {
	Method string `json:"method" yaml:"method"`
	Path   string `json:"path" yaml:"path"`
}

func (e Endpoint) String() string {
	return e.Method + " " + e.Path
}

// Required lists the endpoints the client calls
func Required() []Endpoint {
	return []Endpoint{
		{Method: "GET", Path: api.EndpointProjects},
		{Method: "POST", Path: api.EndpointProjects},
		{Method: "POST", Path: api.EndpointSchedule},
		{Method: "GET", Path: api.EndpointDependencyGraph},
		{Method: "POST", Path: api.EndpointDependencyGraph},
		{Method: "GET", Path: api.EndpointGanttChart},
		{Method: "POST", Path: api.EndpointGanttChart},
	}
}

// Embedded returns the bundled contract document
func Embedded(ctx context.Context) (*openapi3.T, error) {
	return Load(ctx, embedded)
}

// Load parses and validates an OpenAPI document
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeContractInvalid, "failed to load OpenAPI document", err)
	}
	return validate(ctx, doc)
}

// LoadURL fetches, parses and validates a remote OpenAPI document
func LoadURL(ctx context.Context, rawURL string) (*openapi3.T, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeContractInvalid, fmt.Sprintf("invalid contract URL %q", rawURL), err)
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromURI(u)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeContractInvalid, fmt.Sprintf("failed to load OpenAPI document from %s", rawURL), err).
			WithSuggestion("Check --contract-url and that the scheduler service publishes its OpenAPI document")
	}
	return validate(ctx, doc)
}

func validate(ctx context.Context, doc *openapi3.T) (*openapi3.T, error) {
	if err := doc.Validate(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeContractInvalid, "invalid OpenAPI document", err)
	}
	return doc, nil
}

// MissingEndpoints returns the required endpoints the document lacks, in
// the order given. Paths are matched after normalization and with path
// parameters matching any segment.
func MissingEndpoints(doc *openapi3.T, required []Endpoint) []Endpoint {
	var missing []Endpoint
	for _, ep := range required {
		item := findPath(doc, normalizePath(ep.Path))
		if item == nil || item.GetOperation(strings.ToUpper(ep.Method)) == nil {
			missing = append(missing, ep)
		}
	}
	return missing
}

// Endpoints lists every operation in the document, sorted by path then method
func Endpoints(doc *openapi3.T) []Endpoint {
	var out []Endpoint
	if doc.Paths == nil {
		return out
	}
	for path, item := range doc.Paths.Map() {
		for method := range item.Operations() {
			out = append(out, Endpoint{Method: method, Path: path})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func findPath(doc *openapi3.T, path string) *openapi3.PathItem {
	if doc.Paths == nil {
		return nil
	}
	if item := doc.Paths.Find(path); item != nil {
		return item
	}

	want := strings.Split(strings.Trim(path, "/"), "/")
	for specPath, item := range doc.Paths.Map() {
		have := strings.Split(strings.Trim(specPath, "/"), "/")
		if len(have) != len(want) {
			continue
		}
		match := true
		for i := range have {
			if isParam(have[i]) || isParam(want[i]) {
				continue
			}
			if have[i] != want[i] {
				match = false
				break
			}
		}
		if match {
			return item
		}
	}
	return nil
}

func isParam(seg string) bool {
	return strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}")
}

// normalizePath drops the query and any trailing slash and ensures a
// leading slash.
func normalizePath(path string) string {
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}
