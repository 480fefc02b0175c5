package control

import (
	"time"

	"github.com/sweeney/soil-sensor/internal/gpio"
	"github.com/sweeney/soil-sensor/internal/logic"
)

// Timing defaults.
const (
	DefaultAlarmBlinks = 10
	DefaultAlarmPhase  = 100 * time.Millisecond
	DefaultCycleWait   = 2000 * time.Millisecond
)

// Step drives the indicator to Level and holds it for Hold.
type Step struct {
	Level gpio.Level
	Hold  time.Duration
}

// Schedule is the per-cycle timing policy.
type Schedule struct {
	// AlarmBlinks is the number of on/off pairs in the fault pattern.
	AlarmBlinks int
	// AlarmPhase is how long each half of a blink is held.
	AlarmPhase time.Duration
	// CycleWait is the hold after a normal cycle. Alarm cycles skip it.
	CycleWait time.Duration
}

// DefaultSchedule blinks at 5 Hz for two seconds on a fault and samples every
// two seconds otherwise.
var DefaultSchedule = Schedule{
	AlarmBlinks: DefaultAlarmBlinks,
	AlarmPhase:  DefaultAlarmPhase,
	CycleWait:   DefaultCycleWait,
}

// Plan returns the indicator steps for one cycle.
func (s Schedule) Plan(c logic.Classification) []Step {
	if c.IsAlarm() {
		steps := make([]Step, 0, 2*s.AlarmBlinks)
		for i := 0; i < s.AlarmBlinks; i++ {
			steps = append(steps,
				Step{Level: gpio.On, Hold: s.AlarmPhase},
				Step{Level: gpio.Off, Hold: s.AlarmPhase},
			)
		}
		return steps
	}

	if c.Kind == logic.KindDry {
		return []Step{{Level: gpio.On, Hold: s.CycleWait}}
	}
	return []Step{{Level: gpio.Off, Hold: s.CycleWait}}
}

// Duration returns the total hold time of a plan.
func Duration(steps []Step) time.Duration {
	var d time.Duration
	for _, st := range steps {
		d += st.Hold
	}
	return d
}
