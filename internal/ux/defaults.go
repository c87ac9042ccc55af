package ux

import (
	"os"
	"path/filepath"
)

// PathDefaults provides default locations for planboard files
type PathDefaults struct {
	Dir string
}

// NewPathDefaults roots the defaults at ~/.planboard, falling back to a
// relative .planboard directory when the home directory is unknown.
func NewPathDefaults() *PathDefaults {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return &PathDefaults{Dir: ".planboard"}
	}
	return &PathDefaults{Dir: filepath.Join(home, ".planboard")}
}

// ConfigFile returns the default config file path
func (pd *PathDefaults) ConfigFile() string {
	return filepath.Join(pd.Dir, "config.yaml")
}

// GraphFile returns the default output path for a PNG dependency graph
func (pd *PathDefaults) GraphFile() string {
	return "dependency-graph.png"
}
