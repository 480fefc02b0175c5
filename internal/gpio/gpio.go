// Package gpio provides the indicator LED output with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Level is the logical output level of the indicator.
type Level bool

const (
	Off Level = false
	On  Level = true
)

func (l Level) String() string {
	if l {
		return "ON"
	}
	return "OFF"
}

// Indicator drives a single binary output.
type Indicator interface {
	// Set drives the output to the given level.
	Set(level Level) error

	// Close releases GPIO resources.
	Close() error
}

// Default wiring (gpiochip0 line offsets, BCM numbering on a Raspberry Pi).
const (
	DefaultChip    = "gpiochip0"
	DefaultLEDLine = 17
)
