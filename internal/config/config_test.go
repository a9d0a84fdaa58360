package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokanplan/gokanplan/pkg/search"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "astar", cfg.Search.Algorithm)
	assert.Equal(t, "goalcount", cfg.Search.Heuristic)
	assert.False(t, cfg.Grounding.Parallel)
}

func TestValidateRejectsUnknownNames(t *testing.T) {
	cfg := Default()
	cfg.Search.Algorithm = "dijkstra"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Search.Heuristic = "ff"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Search.MaxStates = -1
	assert.Error(t, cfg.Validate())
}

func TestAlgorithmResolution(t *testing.T) {
	cfg := Default()
	assert.Equal(t, search.AStar, cfg.Algorithm())
	cfg.Search.Algorithm = "gbfs"
	assert.Equal(t, search.GBFS, cfg.Algorithm())
}

func TestHeuristicResolution(t *testing.T) {
	cfg := Default()
	_, ok := cfg.Heuristic(nil).(*search.GoalCount)
	assert.True(t, ok)
	cfg.Search.Heuristic = "blind"
	_, ok = cfg.Heuristic(nil).(search.Blind)
	assert.True(t, ok)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gokanplan.yaml")
	contents := "search:\n  algorithm: gbfs\n  max_time: 5s\ngrounding:\n  parallel: true\n  workers: 4\ndebug: true\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "gbfs", cfg.Search.Algorithm)
	assert.Equal(t, 5*time.Second, cfg.Search.MaxTime)
	assert.True(t, cfg.Grounding.Parallel)
	assert.Equal(t, 4, cfg.Grounding.Workers)
	assert.True(t, cfg.Debug)
	// max_states and heuristic were not set in the file, so Default's
	// zero/non-zero values survive the unmarshal over top of them.
	assert.Equal(t, "goalcount", cfg.Search.Heuristic)
}

func TestMergeFlagOverridesLayerOnFile(t *testing.T) {
	base := Default()
	base.Search.MaxStates = 1000

	flags := &Config{Search: SearchConfig{Algorithm: "gbfs"}, Grounding: GroundingConfig{Parallel: true}}
	base.Merge(flags)

	assert.Equal(t, "gbfs", base.Search.Algorithm)
	assert.Equal(t, 1000, base.Search.MaxStates, "fields absent from the override must survive")
	assert.True(t, base.Grounding.Parallel)
}
