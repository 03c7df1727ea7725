package analysis

import (
	"runtime"

	"github.com/df07/go-principled-bsdf/pkg/core"
)

// Config controls Monte Carlo estimation
type Config struct {
	SamplesPerEstimate int         // Samples drawn for each estimate
	NumWorkers         int         // Number of parallel workers (0 = use CPU count)
	Seed               int64       // Base seed; task i uses Seed+i
	Logger             core.Logger // Progress output (nil = silent)
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		SamplesPerEstimate: 100000,
		NumWorkers:         0,
		Seed:               42,
		Logger:             core.NopLogger{},
	}
}

// Merge returns c with every non-zero field of other applied on top
func (c Config) Merge(other Config) Config {
	if other.SamplesPerEstimate > 0 {
		c.SamplesPerEstimate = other.SamplesPerEstimate
	}
	if other.NumWorkers > 0 {
		c.NumWorkers = other.NumWorkers
	}
	if other.Seed != 0 {
		c.Seed = other.Seed
	}
	if other.Logger != nil {
		c.Logger = other.Logger
	}
	return c
}

func (c Config) workers() int {
	if c.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return c.NumWorkers
}

func (c Config) logger() core.Logger {
	if c.Logger == nil {
		return core.NopLogger{}
	}
	return c.Logger
}
