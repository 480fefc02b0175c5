package logic

import (
	"fmt"
	"math"
)

// Classify maps a sample and the incoming disconnect streak to a
// classification and the outgoing streak. It is a pure function.
//
// Order matters: the streak is updated first, then the low-side disconnect
// check, then the open-circuit check, then the soil condition.
func Classify(s Sample, streak Streak, t Thresholds) (Classification, Streak) {
	if s <= t.SensorMin {
		if streak < math.MaxUint8 {
			streak++
		}
	} else {
		streak = 0
	}

	if streak >= t.DisconnectStreakLimit {
		return Classification{Kind: KindLowDisconnect, Sample: s}, streak
	}

	// A single high reading trips immediately; low readings need a streak
	// because near zero is also very wet soil.
	if s > t.SensorMax {
		return Classification{Kind: KindOpenCircuit, Sample: s}, streak
	}

	switch {
	case s > t.DryThreshold:
		return Classification{Kind: KindDry, Sample: s}, streak
	case s < t.OptimalThreshold:
		return Classification{Kind: KindOptimal, Sample: s}, streak
	default:
		return Classification{Kind: KindAcceptable, Sample: s}, streak
	}
}

// IsAlarm reports whether the classification is a sensor fault.
func (c Classification) IsAlarm() bool {
	return c.Kind == KindLowDisconnect || c.Kind == KindOpenCircuit
}

// Describe returns the human-readable log line for the classification.
func (c Classification) Describe() string {
	switch c.Kind {
	case KindLowDisconnect:
		return fmt.Sprintf("WARNING: Sensor not connected (low ADC) - ADC=%d", c.Sample)
	case KindOpenCircuit:
		return fmt.Sprintf("WARNING: Sensor disconnected! ADC=%d", c.Sample)
	case KindDry:
		return fmt.Sprintf("Soil: DRY (needs water) - ADC=%d", c.Sample)
	case KindOptimal:
		return fmt.Sprintf("Soil: OPTIMAL/WET - ADC=%d", c.Sample)
	case KindAcceptable:
		return fmt.Sprintf("Soil: ACCEPTABLE - ADC=%d", c.Sample)
	}
	return fmt.Sprintf("Soil: UNKNOWN - ADC=%d", c.Sample)
}
