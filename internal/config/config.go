// Package config loads hardware bring-up settings from the environment.
// Classification thresholds are compiled in and never read from here.
package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/sweeney/soil-sensor/internal/adc"
	"github.com/sweeney/soil-sensor/internal/gpio"
)

// Environment variable names.
const (
	EnvGPIOChip       = "SOIL_GPIO_CHIP"
	EnvLEDLine        = "SOIL_LED_LINE"
	EnvI2CBus         = "SOIL_I2C_BUS"
	EnvADCAddr        = "SOIL_ADC_ADDR"
	EnvHeartbeat      = "SOIL_HEARTBEAT"
	EnvBringUpRetries = "SOIL_BRINGUP_RETRIES"
)

// DefaultEnvFile is read at startup if present.
const DefaultEnvFile = "/etc/soil-sensor.env"

// Hardware describes how the probe and LED are wired.
type Hardware struct {
	GPIOChip       string
	LEDLine        int
	I2CBus         string
	ADCAddr        uint16
	Heartbeat      time.Duration
	BringUpRetries int
}

// Load reads the optional env file at path, then builds Hardware from the
// environment. Variables already set in the environment take precedence
// over the file. A missing file is not an error.
func Load(path string) (Hardware, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Hardware{}, err
		}
	}

	return Hardware{
		GPIOChip:       getEnv(EnvGPIOChip, gpio.DefaultChip),
		LEDLine:        getEnvInt(EnvLEDLine, gpio.DefaultLEDLine),
		I2CBus:         getEnv(EnvI2CBus, adc.DefaultBus),
		ADCAddr:        uint16(getEnvInt(EnvADCAddr, adc.DefaultAddr)),
		Heartbeat:      getEnvDuration(EnvHeartbeat, 15*time.Minute),
		BringUpRetries: getEnvInt(EnvBringUpRetries, 5),
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt accepts decimal or 0x-prefixed values.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	n, err := strconv.ParseInt(value, 0, 32)
	if err != nil {
		log.Printf("config: cannot parse %s=%q, using default %d: %v", key, value, defaultValue, err)
		return defaultValue
	}
	return int(n)
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("config: cannot parse %s=%q, using default %v: %v", key, value, defaultValue, err)
		return defaultValue
	}
	return d
}
