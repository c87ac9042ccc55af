package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashIsStableAcrossSetOrder(t *testing.T) {
	a := Payload{
		Tasks: []Task{
			withDeps(task("T2", "b", 2, "bob", "alice"), "T1"),
			task("T1", "a", 1, "alice"),
		},
		Resources: []string{"alice", "bob"},
	}
	b := Payload{
		Tasks: []Task{
			task("T1", "a", 1, "alice"),
			withDeps(task("T2", "b", 2, "alice", "bob"), "T1"),
		},
		Resources: []string{"bob", "alice"},
	}

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, err := Hash(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)
}

func TestFingerprintChangesOnMutation(t *testing.T) {
	s := NewStore()
	s.AddTask(task("T1", "Design", 10, "alice"))
	before := s.Fingerprint()

	updated, _ := s.Task("T1")
	updated.BaseReward = 11
	s.UpdateTask(updated)
	assert.NotEqual(t, before, s.Fingerprint())

	s.SeedResources("zed")
	after := s.Fingerprint()
	s.SeedResources("zed")
	assert.Equal(t, after, s.Fingerprint(), "seeding a known resource is a no-op")
}
