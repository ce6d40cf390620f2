// Package config assembles the settings of an EEPROM session from defaults,
// a YAML file, a .env file and EEPROM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sarchlab/eeprom/eeprom"
	"gopkg.in/yaml.v3"
)

// Backend kinds.
const (
	BackendSim    = "sim"
	BackendI2CDev = "i2cdev"
)

// DefaultDevice is the i2c-dev node used when none is configured.
const DefaultDevice = "/dev/i2c-1"

// Backend selects what the driver talks to.
type Backend struct {
	// Kind is either "sim" or "i2cdev".
	Kind string `yaml:"kind" json:"kind"`

	// Device is the i2c-dev node, for the i2cdev backend.
	Device string `yaml:"device" json:"device"`

	// Image is the file that keeps the content of a simulated device between
	// runs. Empty means the content is not kept.
	Image string `yaml:"image" json:"image"`
}

// Config is everything needed to open a driver.
type Config struct {
	Geometry    eeprom.Geometry `yaml:"geometry" json:"geometry"`
	Backend     Backend         `yaml:"backend" json:"backend"`
	Timeout     time.Duration   `yaml:"timeout" json:"timeout"`
	WriteCycle  time.Duration   `yaml:"write_cycle" json:"write_cycle"`
	TraceDB     string          `yaml:"trace_db" json:"trace_db"`
	MonitorPort int             `yaml:"monitor_port" json:"monitor_port"`
}

// Default returns the configuration of the reference board.
func Default() Config {
	return Config{
		Geometry: eeprom.DefaultGeometry,
		Backend: Backend{
			Kind:   BackendSim,
			Device: DefaultDevice,
		},
		Timeout:    eeprom.DefaultTimeout,
		WriteCycle: eeprom.DefaultWriteCycle,
	}
}

// Load builds a configuration from the defaults, the YAML file at path (if
// path is not empty), the .env file in the working directory and the
// environment. The result is not validated, so that command-line flags can
// still be applied.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		err := c.LoadFile(path)
		if err != nil {
			return c, err
		}
	}

	err := LoadDotEnv(".env")
	if err != nil {
		return c, err
	}

	err = c.ApplyEnv()
	if err != nil {
		return c, err
	}

	return c, nil
}

// LoadFile overlays the fields set in a YAML file.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	err = yaml.Unmarshal(data, c)
	if err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	return nil
}

// LoadDotEnv loads variables from a .env file into the environment. Variables
// that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	return nil
}

// ApplyEnv overlays the EEPROM_* environment variables.
func (c *Config) ApplyEnv() error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"EEPROM_PAGE_SIZE", &c.Geometry.PageSize},
		{"EEPROM_PAGE_COUNT", &c.Geometry.PageCount},
		{"EEPROM_ADDRESS_WIDTH", &c.Geometry.AddressWidth},
		{"EEPROM_MONITOR_PORT", &c.MonitorPort},
	}

	for _, v := range ints {
		s, ok := os.LookupEnv(v.name)
		if !ok {
			continue
		}

		n, err := strconv.Atoi(s)
		if err != nil {
			return envError(v.name, s, err)
		}

		*v.dst = n
	}

	if s, ok := os.LookupEnv("EEPROM_DEVICE_ADDRESS"); ok {
		n, err := strconv.ParseUint(s, 0, 16)
		if err != nil {
			return envError("EEPROM_DEVICE_ADDRESS", s, err)
		}

		c.Geometry.DeviceAddress = uint16(n)
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"EEPROM_TIMEOUT", &c.Timeout},
		{"EEPROM_WRITE_CYCLE", &c.WriteCycle},
	}

	for _, v := range durations {
		s, ok := os.LookupEnv(v.name)
		if !ok {
			continue
		}

		d, err := time.ParseDuration(s)
		if err != nil {
			return envError(v.name, s, err)
		}

		*v.dst = d
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"EEPROM_BACKEND", &c.Backend.Kind},
		{"EEPROM_DEVICE", &c.Backend.Device},
		{"EEPROM_IMAGE", &c.Backend.Image},
		{"EEPROM_TRACE_DB", &c.TraceDB},
	}

	for _, v := range strs {
		if s, ok := os.LookupEnv(v.name); ok {
			*v.dst = s
		}
	}

	return nil
}

func envError(name, value string, err error) error {
	return fmt.Errorf("invalid %s=%q: %w", name, value, err)
}

// Validate checks that the configuration can open a driver.
func (c Config) Validate() error {
	err := c.Geometry.Validate()
	if err != nil {
		return err
	}

	switch c.Backend.Kind {
	case BackendSim:
	case BackendI2CDev:
		if c.Backend.Device == "" {
			return errors.New("the i2cdev backend needs a device")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend.Kind)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout %v must be positive", c.Timeout)
	}

	if c.WriteCycle < 0 {
		return fmt.Errorf("write cycle %v must not be negative", c.WriteCycle)
	}

	if c.MonitorPort < 0 || c.MonitorPort > 65535 {
		return fmt.Errorf("invalid monitor port %d", c.MonitorPort)
	}

	return nil
}
