package logic

import "time"

// Tally accumulates classification counts and schedules heartbeats.
type Tally struct {
	startTime     time.Time
	lastHeartbeat time.Time
	cycles        int
	counts        Counts
}

// NewTally creates a Tally. The startTime is used for uptime in heartbeats.
func NewTally(startTime time.Time) *Tally {
	return &Tally{
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Record counts one classification.
func (t *Tally) Record(c Classification) {
	t.cycles++
	switch c.Kind {
	case KindLowDisconnect:
		t.counts.LowDisconnect++
	case KindOpenCircuit:
		t.counts.OpenCircuit++
	case KindDry:
		t.counts.Dry++
	case KindOptimal:
		t.counts.Optimal++
	case KindAcceptable:
		t.counts.Acceptable++
	}
}

// Counts returns a copy of the current counts.
func (t *Tally) Counts() Counts {
	return t.counts
}

// Cycles returns the number of recorded classifications.
func (t *Tally) Cycles() int {
	return t.cycles
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (t *Tally) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(t.lastHeartbeat) < interval {
		return nil
	}

	t.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(t.startTime),
		Cycles:    t.cycles,
		Counts:    t.counts,
	}
}
