//go:build !linux

package cmd

import (
	"errors"

	"github.com/sarchlab/eeprom/bus"
)

type i2cBus interface {
	bus.Transport
	Close() error
}

func openI2CDev(string) (i2cBus, error) {
	return nil, errors.New("the i2cdev backend is only available on Linux")
}
