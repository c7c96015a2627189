package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-pluto/lattice/config"
)

// Functions

// TestLoadConfig executes a black-box unit test
// on implemented LoadConfig() function.
func TestLoadConfig(t *testing.T) {

	conf, err := config.LoadConfig("testdata/test-config.toml")
	require.NoError(t, err)

	assert.Equal(t, 3, conf.Simulation.Replicas)
	assert.Equal(t, 25, conf.Simulation.TickMillis)
	assert.Equal(t, 4, conf.Simulation.MergeEvery)
	assert.Equal(t, 0.2, conf.Simulation.DuplicateProb)
	assert.Equal(t, 0.1, conf.Simulation.ReorderProb)
	assert.Equal(t, int64(42), conf.Simulation.Seed)
	assert.Equal(t, "", conf.Simulation.PrometheusAddr)
}

// TestLoadConfigFailures checks the validation errors on bad files.
func TestLoadConfigFailures(t *testing.T) {

	_, err := config.LoadConfig("testdata/does-not-exist.toml")
	assert.Error(t, err)

	write := func(body string) string {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0600))
		return path
	}

	_, err = config.LoadConfig(write(`
[Simulation]
Replicas = 1
TickMillis = 25
MergeEvery = 4
`))
	assert.Error(t, err, "fewer than two replicas must be rejected")

	_, err = config.LoadConfig(write(`
[Simulation]
Replicas = 3
TickMillis = 0
MergeEvery = 4
`))
	assert.Error(t, err, "a non-positive tick interval must be rejected")

	_, err = config.LoadConfig(write(`
[Simulation]
Replicas = 3
TickMillis = 25
MergeEvery = 4
DuplicateProb = 1.5
`))
	assert.Error(t, err, "an out-of-range probability must be rejected")
}

// TestLoadEnv executes a black-box test on the
// implemented functionalities to load environment overrides.
func TestLoadEnv(t *testing.T) {

	t.Setenv("LATTICE_PROMETHEUS_ADDR", "127.0.0.1:9999")

	env := config.LoadEnv()
	assert.Equal(t, "127.0.0.1:9999", env.PrometheusAddr)
}
