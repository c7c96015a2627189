package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Structs

// Config holds all information parsed from
// supplied config file.
type Config struct {
	Simulation Simulation
}

// Simulation configures the convergence exerciser run by the lattice
// binary: how many replicas gossip, how fast, and how hostile the
// simulated transport behaves.
type Simulation struct {
	Replicas       int
	TickMillis     int
	MergeEvery     int
	DuplicateProb  float64
	ReorderProb    float64
	Seed           int64
	PrometheusAddr string
}

// Functions

// LoadConfig takes in the path to the main config file of lattice in
// TOML syntax and places the values from the file in the corresponding
// struct. Values from an optional .env file override it.
func LoadConfig(configFile string) (*Config, error) {

	conf := new(Config)

	// Parse values from TOML file into struct.
	if _, err := toml.DecodeFile(configFile, conf); err != nil {
		return nil, errors.Wrapf(err, "failed to read in TOML config file at '%s'", configFile)
	}

	// Let a present .env file override deploy-specific values.
	env := LoadEnv()
	if env.PrometheusAddr != "" {
		conf.Simulation.PrometheusAddr = env.PrometheusAddr
	}

	if conf.Simulation.Replicas < 2 {
		return nil, errors.New("simulation needs at least two replicas to exchange anything")
	}

	if conf.Simulation.TickMillis <= 0 {
		return nil, errors.New("simulation tick interval has to be positive")
	}

	if conf.Simulation.MergeEvery <= 0 {
		return nil, errors.New("simulation merge cadence has to be positive")
	}

	if conf.Simulation.DuplicateProb < 0.0 || conf.Simulation.DuplicateProb > 1.0 {
		return nil, errors.New("duplication probability has to lie in [0, 1]")
	}

	if conf.Simulation.ReorderProb < 0.0 || conf.Simulation.ReorderProb > 1.0 {
		return nil, errors.New("reorder probability has to lie in [0, 1]")
	}

	return conf, nil
}
