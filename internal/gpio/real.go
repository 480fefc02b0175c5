//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealIndicator drives an LED from actual hardware using Linux GPIO character device.
type RealIndicator struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealIndicator requests the given line offset as an output, initially low.
func NewRealIndicator(chipName string, offset int) (*RealIndicator, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	line, err := chip.RequestLine(offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("soil-sensor"))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request LED line %d: %w", offset, err)
	}

	return &RealIndicator{
		chip: chip,
		line: line,
	}, nil
}

// Set drives the LED line: On = 1, Off = 0.
func (r *RealIndicator) Set(level Level) error {
	v := 0
	if level == On {
		v = 1
	}
	if err := r.line.SetValue(v); err != nil {
		return fmt.Errorf("set LED line %s: %w", level, err)
	}
	return nil
}

// Close turns the LED off and releases GPIO resources.
// The line is reconfigured to input with pull-down (matching Pi boot defaults)
// before closing so the pin is left in a clean state for reboot.
func (r *RealIndicator) Close() error {
	var errs []error

	if r.line != nil {
		if err := r.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear LED line: %w", err))
		}
		if err := r.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure LED line: %w", err))
		}
		if err := r.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close LED line: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
