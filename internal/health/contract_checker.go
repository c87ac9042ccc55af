package health

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/felixgeelhaar/planboard/internal/contract"
)

// ContractLoader loads the OpenAPI document to verify
type ContractLoader func(ctx context.Context) (*openapi3.T, error)

// ContractChecker verifies that a contract document covers every endpoint
// the client calls.
type ContractChecker struct {
	load   ContractLoader
	source string
}

// NewContractChecker creates a checker. source names the document in
// results.
func NewContractChecker(load ContractLoader, source string) *ContractChecker {
	return &ContractChecker{load: load, source: source}
}

// Name returns the name of this health check.
func (c *ContractChecker) Name() string {
	return "api-contract"
}

// Check loads the document and reports missing endpoints as unhealthy.
func (c *ContractChecker) Check(ctx context.Context) *Result {
	doc, err := c.load(ctx)
	if err != nil {
		return Unhealthy("contract document could not be loaded").
			WithDetail("source", c.source).
			WithDetail("error", err.Error())
	}

	missing := contract.MissingEndpoints(doc, contract.Required())
	if len(missing) > 0 {
		names := make([]string, len(missing))
		for i, ep := range missing {
			names[i] = ep.String()
		}
		return Unhealthy("contract is missing endpoints").
			WithDetail("source", c.source).
			WithDetail("missing", names)
	}

	return Healthy("contract covers all client endpoints").
		WithDetail("source", c.source).
		WithDetail("version", doc.Info.Version)
}
