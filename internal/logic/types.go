// Package logic contains the pure soil classification and sensor fault logic.
// This package has NO external dependencies (no GPIO, I2C, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// SampleMax is the full-scale value of the 12-bit ADC.
const SampleMax = 4095

// Sample is one raw ADC reading from the moisture probe.
type Sample uint16

// Streak counts consecutive low-side readings. It saturates at 255.
type Streak uint8

// Kind identifies a classification variant.
type Kind string

const (
	KindLowDisconnect Kind = "LOW_DISCONNECT"
	KindOpenCircuit   Kind = "OPEN_CIRCUIT"
	KindDry           Kind = "DRY"
	KindOptimal       Kind = "OPTIMAL"
	KindAcceptable    Kind = "ACCEPTABLE"
)

// Kinds lists every classification variant in evaluation order.
var Kinds = []Kind{KindLowDisconnect, KindOpenCircuit, KindDry, KindOptimal, KindAcceptable}

// Classification is the result of a single cycle: a soil condition or a
// sensor fault, together with the sample that produced it.
type Classification struct {
	Kind   Kind
	Sample Sample
}

// Counts tracks how many times each variant was produced since startup.
type Counts struct {
	LowDisconnect int
	OpenCircuit   int
	Dry           int
	Optimal       int
	Acceptable    int
}

// HeartbeatData contains information for a heartbeat log line.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Cycles    int
	Counts    Counts
}
