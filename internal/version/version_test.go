package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withBuildInfo(t *testing.T, v, c, d string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, Commit, Date
	Version, Commit, Date = v, c, d
	t.Cleanup(func() {
		Version, Commit, Date = origVersion, origCommit, origDate
	})
}

func TestGetInfo(t *testing.T) {
	withBuildInfo(t, "1.0.0", "abc123def456", "2024-01-01T12:00:00Z")

	info := GetInfo()
	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, "abc123def456", info.Commit)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{
			name: "long commit is shortened",
			info: Info{Version: "1.2.3", Commit: "abcdef0123456789", Date: "today", GoVersion: "go1.24", Platform: "linux/amd64"},
			want: "planboard 1.2.3 (abcdef01) built today with go1.24 for linux/amd64",
		},
		{
			name: "short commit is kept",
			info: Info{Version: "dev", Commit: "abc", Date: "unknown", GoVersion: "go1.24", Platform: "darwin/arm64"},
			want: "planboard dev (abc) built unknown with go1.24 for darwin/arm64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.String())
		})
	}
}

func TestUserAgent(t *testing.T) {
	info := Info{Version: "0.3.0", Platform: "linux/amd64"}
	assert.Equal(t, "planboard/0.3.0 (linux/amd64)", info.UserAgent())
}
