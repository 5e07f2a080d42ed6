package grid

import (
	"errors"
	"fmt"

	"github.com/1F47E/psf-grid/pkg/geodesy"
)

var (
	ErrTooFewLatitudes     = errors.New("number of latitude bands must be at least 3")
	ErrRingTooCoarse       = errors.New("ring spacing too coarse for this latitude/depth combination")
	ErrNegativeDepth       = errors.New("depth must not be negative")
	ErrDepthTooLarge       = errors.New("depth must be smaller than the Earth radius")
	ErrNonPositiveDistance = errors.New("distance must be positive")
	ErrNegativeSigma       = errors.New("sigma must not be negative")
	ErrNoDepths            = errors.New("no target depths given")
	ErrDuplicateDepth      = errors.New("target depth listed more than once")
)

// ConfigurationError reports generator parameters that cannot produce a grid.
type ConfigurationError struct {
	Field string
	Value interface{}
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configErr(field string, value interface{}, err error) error {
	return &ConfigurationError{Field: field, Value: value, Err: err}
}

// The checks below are written so that NaN fails them.

func checkDepth(field string, depth float64) error {
	if !(depth >= 0) {
		return configErr(field, depth, ErrNegativeDepth)
	}
	if !(depth < geodesy.EarthRadius) {
		return configErr(field, depth, ErrDepthTooLarge)
	}
	return nil
}

func checkDistance(distance float64) error {
	if !(distance > 0) {
		return configErr("distance", distance, ErrNonPositiveDistance)
	}
	return nil
}

func checkSigmas(sigmaH, sigmaV float64) error {
	if !(sigmaH >= 0) {
		return configErr("sigma_h", sigmaH, ErrNegativeSigma)
	}
	if !(sigmaV >= 0) {
		return configErr("sigma_v", sigmaV, ErrNegativeSigma)
	}
	return nil
}

func checkDepths(depths []float64) error {
	if len(depths) == 0 {
		return configErr("depths", depths, ErrNoDepths)
	}
	seen := make(map[float64]bool, len(depths))
	for _, d := range depths {
		if err := checkDepth("depths", d); err != nil {
			return err
		}
		if seen[d] {
			return configErr("depths", d, ErrDuplicateDepth)
		}
		seen[d] = true
	}
	return nil
}
