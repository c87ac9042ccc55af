// Package refresh provides the counters that tell dependent views to
// re-fetch their data.
package refresh

import "sync/atomic"

// Token is a monotonically increasing counter. Only the latest value
// matters: several bumps between two reads cause a single re-fetch.
type Token struct {
	n atomic.Uint64
}

// Bump increments the token and returns the new value.
func (t *Token) Bump() uint64 {
	return t.n.Add(1)
}

// Value returns the current value.
func (t *Token) Value() uint64 {
	return t.n.Load()
}

// Changed reports whether the token moved past seen.
func (t *Token) Changed(seen uint64) bool {
	return t.n.Load() != seen
}

// Tokens groups the refresh tokens of the board's two artifact views.
type Tokens struct {
	Graph    Token
	Timeline Token
}

// Values is a point-in-time copy of Tokens.
type Values struct {
	Graph    uint64 `json:"graph"`
	Timeline uint64 `json:"timeline"`
}

// Snapshot returns the current values.
func (t *Tokens) Snapshot() Values {
	return Values{Graph: t.Graph.Value(), Timeline: t.Timeline.Value()}
}
