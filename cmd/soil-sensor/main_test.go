package main

import (
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/sweeney/soil-sensor/internal/adc"
	"github.com/sweeney/soil-sensor/internal/config"
	"github.com/sweeney/soil-sensor/internal/control"
	"github.com/sweeney/soil-sensor/internal/gpio"
	"github.com/sweeney/soil-sensor/internal/logic"
)

func TestParseFlagsOnlyOverridesGivenFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-led-line", "22", "-heartbeat", "0"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	base := config.Hardware{
		GPIOChip:       "gpiochip4",
		LEDLine:        17,
		I2CBus:         "3",
		ADCAddr:        0x48,
		Heartbeat:      time.Minute,
		BringUpRetries: 2,
	}
	got := opts.apply(base)

	want := base
	want.LEDLine = 22
	want.Heartbeat = 0
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParseFlagsDefaults(t *testing.T) {
	opts, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if opts.envFile != config.DefaultEnvFile {
		t.Errorf("envFile: got %q, want %q", opts.envFile, config.DefaultEnvFile)
	}
	if opts.printSample {
		t.Error("printSample should default to false")
	}
	if len(opts.set) != 0 {
		t.Errorf("expected no flags set, got %v", opts.set)
	}
}

func TestParseFlagsAllOverrides(t *testing.T) {
	opts, err := parseFlags([]string{
		"-gpio-chip", "gpiochip1", "-i2c-bus", "0", "-adc-addr", "0x49", "-bringup-retries", "9", "-print-sample",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	got := opts.apply(config.Hardware{})
	if got.GPIOChip != "gpiochip1" || got.I2CBus != "0" || got.ADCAddr != 0x49 || got.BringUpRetries != 9 {
		t.Errorf("unexpected hardware: %+v", got)
	}
	if !opts.printSample {
		t.Error("expected printSample")
	}
}

func TestParseFlagsRejectsUnknown(t *testing.T) {
	if _, err := parseFlags([]string{"-no-such-flag"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}

// --- sleeper tests ---

func TestSleeperCompletes(t *testing.T) {
	sig := make(chan os.Signal, 1)
	sleep := newSleeper(sig)

	if err := sleep(time.Millisecond); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSleeperInterruptedBySignal(t *testing.T) {
	sig := make(chan os.Signal, 1)
	sleep := newSleeper(sig)
	sig <- syscall.SIGTERM

	start := time.Now()
	err := sleep(time.Hour)
	if !errors.Is(err, control.ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("sleeper did not return promptly on signal")
	}
}

// --- bringUp tests ---

func TestBringUpRetriesUntilReady(t *testing.T) {
	calls := 0
	dev, err := bringUp("test", backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 3), func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("not yet")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dev != 42 {
		t.Errorf("dev: got %d, want 42", dev)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestBringUpGivesUp(t *testing.T) {
	calls := 0
	_, err := bringUp("test", backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2), func() (int, error) {
		calls++
		return 0, errors.New("no device")
	})
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3 (1 attempt + 2 retries)", calls)
	}
}

// --- runLoop tests ---

// fakeClock returns a function that yields start, start+step, start+2*step, ...
// on successive calls. Not safe for concurrent use.
func fakeClock(start time.Time, step time.Duration) func() time.Time {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * step)
		n++
		return t
	}
}

// stopAfter returns a Sleeper that records holds and stops after n calls.
func stopAfter(n int, holds *[]time.Duration) control.Sleeper {
	return func(d time.Duration) error {
		*holds = append(*holds, d)
		if len(*holds) >= n {
			return control.ErrStopped
		}
		return nil
	}
}

func TestRunLoopScenario(t *testing.T) {
	// Four optimal cycles, then LOW_DISCONNECT (20 holds), then dry.
	src := adc.NewFakeSource(5, 5, 5, 5, 5, 3000)
	ind := gpio.NewFakeIndicator()
	var holds []time.Duration
	clock := fakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 2*time.Second)

	err := runLoop(src, ind, logic.DefaultThresholds, stopAfter(4+20+1, &holds), 0, clock)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if src.Reads != 6 {
		t.Errorf("reads: got %d, want 6", src.Reads)
	}
	for i := 0; i < 4; i++ {
		if holds[i] != 2*time.Second {
			t.Errorf("hold %d: got %v, want 2s", i, holds[i])
		}
	}
	for i := 4; i < 24; i++ {
		if holds[i] != 100*time.Millisecond {
			t.Errorf("hold %d: got %v, want 100ms", i, holds[i])
		}
	}
	if ind.Current() != gpio.On {
		t.Errorf("final level: got %s, want ON (dry)", ind.Current())
	}
}

func TestRunLoopAcquisitionFaultIsFatal(t *testing.T) {
	src := adc.NewFakeSource(2000)
	src.ReadError = errors.New("i2c timeout")
	var holds []time.Duration

	err := runLoop(src, gpio.NewFakeIndicator(), logic.DefaultThresholds, stopAfter(100, &holds), 0, time.Now)
	if !errors.Is(err, control.ErrAcquisition) {
		t.Fatalf("expected ErrAcquisition, got %v", err)
	}
	if src.Reads != 1 {
		t.Errorf("reads: got %d, want 1 (no retry)", src.Reads)
	}
}

func TestRunLoopDriveFaultIsFatal(t *testing.T) {
	ind := gpio.NewFakeIndicator()
	ind.SetError = errors.New("line released")
	var holds []time.Duration

	err := runLoop(adc.NewFakeSource(3000), ind, logic.DefaultThresholds, stopAfter(100, &holds), 0, time.Now)
	if !errors.Is(err, control.ErrDrive) {
		t.Fatalf("expected ErrDrive, got %v", err)
	}
	if len(holds) != 0 {
		t.Errorf("expected no holds after drive fault, got %v", holds)
	}
}

func TestRunLoopRejectsInvalidThresholds(t *testing.T) {
	th := logic.DefaultThresholds
	th.OptimalThreshold = th.DryThreshold + 1
	var holds []time.Duration

	err := runLoop(adc.NewFakeSource(1), gpio.NewFakeIndicator(), th, stopAfter(1, &holds), 0, time.Now)
	if !errors.Is(err, logic.ErrInvalidThresholds) {
		t.Errorf("expected ErrInvalidThresholds, got %v", err)
	}
}
