// Package control runs the sample, classify, render, wait loop.
package control

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sweeney/soil-sensor/internal/adc"
	"github.com/sweeney/soil-sensor/internal/gpio"
	"github.com/sweeney/soil-sensor/internal/logic"
)

var (
	// ErrAcquisition wraps a failure to read a sample. It is fatal.
	ErrAcquisition = errors.New("acquisition fault")
	// ErrDrive wraps a failure to set the indicator. It is fatal.
	ErrDrive = errors.New("drive fault")
	// ErrStopped is returned by a Sleeper when the process is shutting down.
	ErrStopped = errors.New("stopped")
)

// Sleeper blocks for d. It returns ErrStopped if interrupted by shutdown.
type Sleeper func(d time.Duration) error

// Controller owns the disconnect streak and runs one cycle at a time.
// Not safe for concurrent use.
type Controller struct {
	source     adc.Source
	indicator  gpio.Indicator
	thresholds logic.Thresholds
	schedule   Schedule
	sleep      Sleeper
	now        func() time.Time
	heartbeat  time.Duration

	streak logic.Streak
	tally  *logic.Tally
}

// Config holds the Controller dependencies.
type Config struct {
	Source     adc.Source
	Indicator  gpio.Indicator
	Thresholds logic.Thresholds
	Schedule   Schedule
	Sleep      Sleeper
	Now        func() time.Time
	// Heartbeat is the interval between summary log lines (0 disables).
	Heartbeat time.Duration
}

// New validates the thresholds and creates a Controller.
func New(cfg Config) (*Controller, error) {
	if err := cfg.Thresholds.Validate(); err != nil {
		return nil, err
	}
	if cfg.Source == nil || cfg.Indicator == nil {
		return nil, errors.New("control: source and indicator are required")
	}
	if cfg.Schedule == (Schedule{}) {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.Sleep == nil {
		cfg.Sleep = func(d time.Duration) error {
			time.Sleep(d)
			return nil
		}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Controller{
		source:     cfg.Source,
		indicator:  cfg.Indicator,
		thresholds: cfg.Thresholds,
		schedule:   cfg.Schedule,
		sleep:      cfg.Sleep,
		now:        cfg.Now,
		heartbeat:  cfg.Heartbeat,
		tally:      logic.NewTally(cfg.Now()),
	}, nil
}

// Cycle acquires one sample, classifies it, and renders the indicator plan.
// The returned classification is valid whenever the sample was acquired,
// even if rendering failed or was interrupted.
func (c *Controller) Cycle() (logic.Classification, error) {
	sample, err := c.source.Read()
	if err != nil {
		return logic.Classification{}, fmt.Errorf("%w: %w", ErrAcquisition, err)
	}

	result, streak := logic.Classify(sample, c.streak, c.thresholds)
	c.streak = streak
	c.tally.Record(result)
	log.Print(result.Describe())

	if hb := c.tally.CheckHeartbeat(c.now(), c.heartbeat); hb != nil {
		log.Printf("heartbeat: uptime=%v cycles=%d dry=%d optimal=%d acceptable=%d low_disconnect=%d open_circuit=%d",
			hb.Uptime.Truncate(time.Second), hb.Cycles, hb.Counts.Dry, hb.Counts.Optimal, hb.Counts.Acceptable,
			hb.Counts.LowDisconnect, hb.Counts.OpenCircuit)
	}

	for _, step := range c.schedule.Plan(result) {
		if err := c.indicator.Set(step.Level); err != nil {
			return result, fmt.Errorf("%w: %w", ErrDrive, err)
		}
		if err := c.sleep(step.Hold); err != nil {
			return result, err
		}
	}

	return result, nil
}

// Run executes cycles until a fatal fault or shutdown. Shutdown returns nil.
func (c *Controller) Run() error {
	for {
		if _, err := c.Cycle(); err != nil {
			if errors.Is(err, ErrStopped) {
				return nil
			}
			return err
		}
	}
}

// Streak returns the current disconnect streak.
func (c *Controller) Streak() logic.Streak {
	return c.streak
}

// Counts returns the classification counts since startup.
func (c *Controller) Counts() logic.Counts {
	return c.tally.Counts()
}
