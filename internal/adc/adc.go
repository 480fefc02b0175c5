// Package adc provides soil probe sampling with hardware abstraction.
// The real implementation reads an MCP3221 12-bit ADC over I2C.
// The fake implementation allows testing without hardware.
package adc

import "github.com/sweeney/soil-sensor/internal/logic"

// Source produces raw moisture samples.
type Source interface {
	// Read returns one sample in [0, logic.SampleMax]. The value is not
	// checked against any classification threshold.
	Read() (logic.Sample, error)

	// Close releases bus resources.
	Close() error
}

// Default wiring.
const (
	DefaultBus  = "1"  // /dev/i2c-1
	DefaultAddr = 0x4D // MCP3221A5
)

// decodeFrame converts the MCP3221 two-byte big-endian result into a sample.
// The upper nibble of the first byte is always zero on the wire; it is masked
// so a corrupted frame cannot exceed the ADC range.
func decodeFrame(b [2]byte) logic.Sample {
	return logic.Sample(uint16(b[0]&0x0F)<<8 | uint16(b[1]))
}
