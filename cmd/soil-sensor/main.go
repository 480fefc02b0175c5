// Command soil-sensor samples a soil moisture probe and drives an indicator LED.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/sweeney/soil-sensor/internal/adc"
	"github.com/sweeney/soil-sensor/internal/config"
	"github.com/sweeney/soil-sensor/internal/control"
	"github.com/sweeney/soil-sensor/internal/gpio"
	"github.com/sweeney/soil-sensor/internal/logic"
)

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("fatal: %v", err)
	}

	hw, err := config.Load(opts.envFile)
	if err != nil {
		log.Fatalf("fatal: load %s: %v", opts.envFile, err)
	}

	if err := run(opts.apply(hw), opts.printSample); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// options holds command-line values. Flags that were not given leave the
// corresponding config.Hardware field untouched.
type options struct {
	envFile     string
	printSample bool

	gpioChip  string
	ledLine   int
	i2cBus    string
	adcAddr   uint
	heartbeat time.Duration
	retries   int

	set map[string]bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("soil-sensor", flag.ContinueOnError)
	fs.StringVar(&o.envFile, "env", config.DefaultEnvFile, "Env file with hardware settings (missing file is ignored)")
	fs.BoolVar(&o.printSample, "print-sample", false, "Read and classify one sample, print it and exit")
	fs.StringVar(&o.gpioChip, "gpio-chip", gpio.DefaultChip, "GPIO chip for the indicator LED")
	fs.IntVar(&o.ledLine, "led-line", gpio.DefaultLEDLine, "GPIO line offset for the indicator LED")
	fs.StringVar(&o.i2cBus, "i2c-bus", adc.DefaultBus, "I2C bus of the MCP3221 ADC")
	fs.UintVar(&o.adcAddr, "adc-addr", adc.DefaultAddr, "I2C address of the MCP3221 ADC")
	fs.DurationVar(&o.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat log interval (0 to disable)")
	fs.IntVar(&o.retries, "bringup-retries", 5, "Retries while opening hardware at startup")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

func (o options) apply(hw config.Hardware) config.Hardware {
	if o.set["gpio-chip"] {
		hw.GPIOChip = o.gpioChip
	}
	if o.set["led-line"] {
		hw.LEDLine = o.ledLine
	}
	if o.set["i2c-bus"] {
		hw.I2CBus = o.i2cBus
	}
	if o.set["adc-addr"] {
		hw.ADCAddr = uint16(o.adcAddr)
	}
	if o.set["heartbeat"] {
		hw.Heartbeat = o.heartbeat
	}
	if o.set["bringup-retries"] {
		hw.BringUpRetries = o.retries
	}
	return hw
}

func run(hw config.Hardware, printSample bool) error {
	log.Printf("soil moisture sensor starting")

	thresholds := logic.DefaultThresholds
	if err := thresholds.Validate(); err != nil {
		return err
	}

	// Initialize ADC
	source, err := bringUp("adc", bringUpBackOff(hw.BringUpRetries), func() (*adc.RealSource, error) {
		return adc.NewRealSource(hw.I2CBus, hw.ADCAddr)
	})
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}
	defer closeLogged("adc", source)

	// Print sample mode
	if printSample {
		sample, err := source.Read()
		if err != nil {
			return fmt.Errorf("read adc: %w", err)
		}
		c, _ := logic.Classify(sample, 0, thresholds)
		fmt.Printf("ADC: %d, %s\n", sample, c.Kind)
		return nil
	}

	// Initialize LED
	indicator, err := bringUp("gpio", bringUpBackOff(hw.BringUpRetries), func() (*gpio.RealIndicator, error) {
		return gpio.NewRealIndicator(hw.GPIOChip, hw.LEDLine)
	})
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer closeLogged("gpio", indicator)

	log.Printf("sensor initialized: adc=i2c-%s@0x%02x led=%s/%d", hw.I2CBus, hw.ADCAddr, hw.GPIOChip, hw.LEDLine)
	log.Printf("thresholds: min=%d max=%d dry=%d optimal=%d streak=%d heartbeat=%v",
		thresholds.SensorMin, thresholds.SensorMax, thresholds.DryThreshold, thresholds.OptimalThreshold,
		thresholds.DisconnectStreakLimit, hw.Heartbeat)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(source, indicator, thresholds, newSleeper(sigCh), hw.Heartbeat, time.Now)
}

func runLoop(source adc.Source, indicator gpio.Indicator, thresholds logic.Thresholds, sleep control.Sleeper, heartbeat time.Duration, now func() time.Time) error {
	ctrl, err := control.New(control.Config{
		Source:     source,
		Indicator:  indicator,
		Thresholds: thresholds,
		Schedule:   control.DefaultSchedule,
		Sleep:      sleep,
		Now:        now,
		Heartbeat:  heartbeat,
	})
	if err != nil {
		return err
	}

	log.Printf("reading soil moisture...")
	if err := ctrl.Run(); err != nil {
		return err
	}

	counts := ctrl.Counts()
	log.Printf("shutting down: dry=%d optimal=%d acceptable=%d low_disconnect=%d open_circuit=%d",
		counts.Dry, counts.Optimal, counts.Acceptable, counts.LowDisconnect, counts.OpenCircuit)
	return nil
}

// newSleeper returns a Sleeper that waits for d or until a signal arrives.
func newSleeper(sig <-chan os.Signal) control.Sleeper {
	return func(d time.Duration) error {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil
		case s := <-sig:
			log.Printf("received %v", s)
			return control.ErrStopped
		}
	}
}

func bringUpBackOff(retries int) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	if retries < 0 {
		retries = 0
	}
	return backoff.WithMaxRetries(bo, uint64(retries))
}

// bringUp opens a device, retrying while its device node is not ready.
func bringUp[T any](name string, bo backoff.BackOff, open func() (T, error)) (T, error) {
	var dev T
	err := backoff.Retry(func() error {
		d, err := open()
		if err != nil {
			log.Printf("%s not ready: %v", name, err)
			return err
		}
		dev = d
		return nil
	}, bo)
	return dev, err
}

type closer interface {
	Close() error
}

func closeLogged(name string, c closer) {
	if err := c.Close(); err != nil {
		log.Printf("close %s: %v", name, err)
	}
}
