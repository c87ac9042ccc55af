package board

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"
)

// Canonicalize returns a canonical JSON form of a payload. Tasks are ordered
// by id; dependencies, resources and the resource set are sorted, since their
// order carries no meaning.
func Canonicalize(p Payload) ([]byte, error) {
	tasks := make([]map[string]interface{}, len(p.Tasks))
	for i, t := range p.Tasks {
		deps := make([]string, len(t.Dependencies))
		for j, d := range t.Dependencies {
			deps[j] = string(d)
		}
		tasks[i] = map[string]interface{}{
			"id":                string(t.ID),
			"title":             t.Title,
			"description":       t.Description,
			"baseReward":        t.BaseReward,
			"dependencies":      sortedCopy(deps),
			"requiredResources": sortedCopy(t.RequiredResources),
			"requiredTime":      t.RequiredTime,
			"rewardDecayFactor": t.RewardDecayFactor,
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i]["id"].(string) < tasks[j]["id"].(string)
	})

	return json.Marshal(map[string]interface{}{
		"tasks":     tasks,
		"resources": sortedCopy(p.Resources),
	})
}

// Hash computes the blake3 hash of a canonicalized payload
func Hash(p Payload) (string, error) {
	canonical, err := Canonicalize(p)
	if err != nil {
		return "", fmt.Errorf("canonicalize payload: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash payload: %w", err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// Fingerprint is the hash of the current commit payload, or "" if it cannot
// be computed.
func (s *Store) Fingerprint() string {
	h, err := Hash(s.Commit())
	if err != nil {
		return ""
	}
	return h
}

func sortedCopy(in []string) []string {
	out := append(make([]string, 0, len(in)), in...)
	sort.Strings(out)
	return out
}
