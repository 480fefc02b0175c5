package logic

import (
	"errors"
	"fmt"
)

// Threshold values in ADC counts.
const (
	SensorMin             Sample = 10   // at or below: suspicious, counted toward the streak
	SensorMax             Sample = 3500 // above: open circuit
	DryThreshold          Sample = 2800 // above: dry soil
	OptimalThreshold      Sample = 1500 // below: optimal/wet soil
	DisconnectStreakLimit Streak = 5    // consecutive low readings before LOW_DISCONNECT
)

// Thresholds holds the classification boundaries.
type Thresholds struct {
	SensorMin             Sample
	SensorMax             Sample
	DryThreshold          Sample
	OptimalThreshold      Sample
	DisconnectStreakLimit Streak
}

// DefaultThresholds are the compiled-in boundaries used by the daemon.
var DefaultThresholds = Thresholds{
	SensorMin:             SensorMin,
	SensorMax:             SensorMax,
	DryThreshold:          DryThreshold,
	OptimalThreshold:      OptimalThreshold,
	DisconnectStreakLimit: DisconnectStreakLimit,
}

// ErrInvalidThresholds is returned by Validate for misordered boundaries.
var ErrInvalidThresholds = errors.New("invalid thresholds")

// Validate checks SensorMin < OptimalThreshold <= DryThreshold < SensorMax <= SampleMax
// and a non-zero streak limit. Classify is undefined for thresholds that fail.
func (t Thresholds) Validate() error {
	switch {
	case t.DisconnectStreakLimit == 0:
		return fmt.Errorf("%w: disconnect streak limit must be at least 1", ErrInvalidThresholds)
	case t.SensorMin >= t.OptimalThreshold:
		return fmt.Errorf("%w: sensor min %d must be below optimal threshold %d", ErrInvalidThresholds, t.SensorMin, t.OptimalThreshold)
	case t.OptimalThreshold > t.DryThreshold:
		return fmt.Errorf("%w: optimal threshold %d must not exceed dry threshold %d", ErrInvalidThresholds, t.OptimalThreshold, t.DryThreshold)
	case t.DryThreshold >= t.SensorMax:
		return fmt.Errorf("%w: dry threshold %d must be below sensor max %d", ErrInvalidThresholds, t.DryThreshold, t.SensorMax)
	case t.SensorMax > SampleMax:
		return fmt.Errorf("%w: sensor max %d exceeds ADC range %d", ErrInvalidThresholds, t.SensorMax, SampleMax)
	}
	return nil
}
