package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/sarchlab/eeprom/bus"
	"github.com/sarchlab/eeprom/config"
	"github.com/sarchlab/eeprom/datarecording"
	"github.com/sarchlab/eeprom/eeprom"
	"github.com/sarchlab/eeprom/simdevice"
	"github.com/sarchlab/eeprom/tracing"
	"github.com/spf13/cobra"
)

// session is an opened driver plus everything that must be released when
// the command finishes.
type session struct {
	cfg      config.Config
	driver   *eeprom.Driver
	stats    *tracing.StatsTracer
	device   *simdevice.Device
	closer   io.Closer
	recorder datarecording.DataRecorder
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()

	if flags.Changed("backend") {
		cfg.Backend.Kind = flagBackend
	}

	if flags.Changed("device") {
		cfg.Backend.Device = flagDevice
	}

	if flags.Changed("image") {
		cfg.Backend.Image = flagImage
	}

	if flags.Changed("trace-db") {
		cfg.TraceDB = flagTraceDB
	}

	return cfg, cfg.Validate()
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}

	var (
		transport  bus.Transport
		delayer    bus.Delayer
		timeTeller tracing.TimeTeller
	)

	switch cfg.Backend.Kind {
	case config.BackendSim:
		clock := simdevice.NewManualClock(time.Now())
		s.device, err = openSimDevice(cfg, clock)
		transport, delayer, timeTeller = s.device, clock, clock
	case config.BackendI2CDev:
		var b i2cBus
		b, err = openI2CDev(cfg.Backend.Device)
		transport, delayer, timeTeller = b, bus.SleepDelayer{}, tracing.WallClock()
		s.closer = b
	}

	if err != nil {
		return nil, err
	}

	s.driver, err = eeprom.MakeBuilder().
		WithGeometry(cfg.Geometry).
		WithTransport(transport).
		WithDelayer(delayer).
		WithTimeout(cfg.Timeout).
		WithWriteCycle(cfg.WriteCycle).
		Build("EEPROM")
	if err != nil {
		s.release()
		return nil, err
	}

	s.stats = tracing.NewStatsTracer(timeTeller)
	s.driver.AcceptHook(s.stats)

	if flagVerbose {
		s.driver.AcceptHook(
			tracing.NewLogTracer(log.New(cmd.ErrOrStderr(), "", log.Lmicroseconds)))
	}

	if cfg.TraceDB != "" {
		if _, err := os.Stat(cfg.TraceDB + ".sqlite3"); err == nil {
			s.release()
			return nil, fmt.Errorf("trace database %s.sqlite3 already exists",
				cfg.TraceDB)
		}

		s.recorder = datarecording.New(cfg.TraceDB)
		s.driver.AcceptHook(tracing.NewDBTracer(s.recorder, timeTeller))
	}

	return s, nil
}

func openSimDevice(
	cfg config.Config,
	clock *simdevice.ManualClock,
) (*simdevice.Device, error) {
	device := simdevice.MakeBuilder().
		WithPageSize(cfg.Geometry.PageSize).
		WithPageCount(cfg.Geometry.PageCount).
		WithDeviceAddress(cfg.Geometry.DeviceAddress).
		WithWriteCycle(cfg.WriteCycle).
		WithClock(clock).
		Build()

	if cfg.Backend.Image == "" {
		return device, nil
	}

	err := device.LoadImage(cfg.Backend.Image)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	return device, nil
}

// Close saves the simulated device and releases the bus and the trace
// database.
func (s *session) Close() error {
	var errs []error

	if s.device != nil && s.cfg.Backend.Image != "" {
		errs = append(errs, s.device.SaveImage(s.cfg.Backend.Image))
	}

	errs = append(errs, s.release())

	return errors.Join(errs...)
}

func (s *session) release() error {
	var errs []error

	if s.closer != nil {
		errs = append(errs, s.closer.Close())
	}

	if s.recorder != nil {
		errs = append(errs, s.recorder.Close())
	}

	return errors.Join(errs...)
}

// withSession opens a session, runs f and closes the session.
func withSession(
	cmd *cobra.Command,
	f func(s *session) error,
) (err error) {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, s.Close())
	}()

	return f(s)
}
