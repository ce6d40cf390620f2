package cmd

import (
	"github.com/sarchlab/eeprom/bus"
	"github.com/sarchlab/eeprom/bus/i2cdev"
)

type i2cBus interface {
	bus.Transport
	Close() error
}

func openI2CDev(path string) (i2cBus, error) {
	b, err := i2cdev.Open(path)
	if err != nil {
		return nil, err
	}

	return b, nil
}
