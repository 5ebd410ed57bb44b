package cfr

import (
	"github.com/pkg/errors"
)

// Params are the configuration options for a training run.
type Params struct {
	// Number of CFR iterations to run.
	Iterations int
	// Average strategy probabilities below this value are set to zero
	// when reporting.
	PurificationThreshold float64
	// Log the running expected game value every LogInterval iterations.
	// Zero disables progress logging.
	LogInterval int
}

// DefaultParams returns the Params used when nothing else is configured.
func DefaultParams() Params {
	return Params{
		Iterations:            10000,
		PurificationThreshold: DefaultPurificationThreshold,
		LogInterval:           1000,
	}
}

// Validate returns an error if the params cannot be used for training.
func (p Params) Validate() error {
	if p.Iterations < 1 {
		return errors.Errorf("iterations must be at least 1, got %d", p.Iterations)
	}

	if p.PurificationThreshold < 0 || p.PurificationThreshold >= 1 {
		return errors.Errorf("purification threshold must be in [0, 1), got %v",
			p.PurificationThreshold)
	}

	if p.LogInterval < 0 {
		return errors.Errorf("log interval must not be negative, got %d", p.LogInterval)
	}

	return nil
}
