package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Structs

// Env holds information specific to the system where lattice is
// deployed. This enables host adaptions without needing to maintain two
// different config files.
type Env struct {
	PrometheusAddr string
}

// Functions

// LoadEnv looks for an .env file in the directory of lattice and reads
// in all defined values. A missing .env file is fine; plain process
// environment variables still apply.
func LoadEnv() *Env {

	// Load environment file if there is one.
	_ = godotenv.Load(".env")

	env := new(Env)

	// Fill variables from environment into struct.
	env.PrometheusAddr = os.Getenv("LATTICE_PROMETHEUS_ADDR")

	return env
}
