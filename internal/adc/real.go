package adc

import (
	"fmt"

	"github.com/sweeney/soil-sensor/internal/logic"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// RealSource reads samples from an MCP3221 on an I2C bus.
type RealSource struct {
	bus i2c.BusCloser
	dev *i2c.Dev
}

// NewRealSource initializes the host drivers and opens the ADC on the named
// bus ("" selects the first available bus).
func NewRealSource(busName string, addr uint16) (*RealSource, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	return &RealSource{
		bus: bus,
		dev: &i2c.Dev{Bus: bus, Addr: addr},
	}, nil
}

// Read performs a single conversion. The MCP3221 converts on every read
// transaction, so no command byte is written.
func (s *RealSource) Read() (logic.Sample, error) {
	var frame [2]byte
	if err := s.dev.Tx(nil, frame[:]); err != nil {
		return 0, fmt.Errorf("read adc 0x%02x: %w", s.dev.Addr, err)
	}
	return decodeFrame(frame), nil
}

// Close releases the I2C bus.
func (s *RealSource) Close() error {
	if s.bus == nil {
		return nil
	}
	if err := s.bus.Close(); err != nil {
		return fmt.Errorf("close i2c bus: %w", err)
	}
	return nil
}
