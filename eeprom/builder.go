package eeprom

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/sarchlab/eeprom/bus"
	"github.com/sarchlab/eeprom/idgen"
)

// Timing of the reference device.
const (
	DefaultTimeout    = 1000 * time.Millisecond
	DefaultWriteCycle = 5 * time.Millisecond
)

// Builder can build drivers.
type Builder struct {
	geometry   Geometry
	transport  bus.Transport
	delayer    bus.Delayer
	timeout    time.Duration
	writeCycle time.Duration
	byteOrder  binary.ByteOrder
	ids        idgen.Generator
}

// MakeBuilder returns a Builder with the reference geometry and timing.
func MakeBuilder() Builder {
	return Builder{
		geometry:   DefaultGeometry,
		delayer:    bus.SleepDelayer{},
		timeout:    DefaultTimeout,
		writeCycle: DefaultWriteCycle,
		byteOrder:  binary.LittleEndian,
	}
}

// WithGeometry sets the device geometry.
func (b Builder) WithGeometry(g Geometry) Builder {
	b.geometry = g
	return b
}

// WithTransport sets the bus transport.
func (b Builder) WithTransport(t bus.Transport) Builder {
	b.transport = t
	return b
}

// WithDelayer sets the delay primitive used for write cycles.
func (b Builder) WithDelayer(d bus.Delayer) Builder {
	b.delayer = d
	return b
}

// WithTimeout sets the timeout passed to every bus transaction.
func (b Builder) WithTimeout(timeout time.Duration) Builder {
	b.timeout = timeout
	return b
}

// WithWriteCycle sets the delay after each write transaction.
func (b Builder) WithWriteCycle(d time.Duration) Builder {
	b.writeCycle = d
	return b
}

// WithByteOrder sets the byte order of stored numbers.
func (b Builder) WithByteOrder(order binary.ByteOrder) Builder {
	b.byteOrder = order
	return b
}

// WithIDGenerator sets the generator of request and transaction IDs.
func (b Builder) WithIDGenerator(gen idgen.Generator) Builder {
	b.ids = gen
	return b
}

// Build creates a driver.
func (b Builder) Build(name string) (*Driver, error) {
	err := b.geometry.Validate()
	if err != nil {
		return nil, err
	}

	if b.transport == nil {
		return nil, errors.New("eeprom: transport is not set")
	}

	if b.delayer == nil {
		return nil, errors.New("eeprom: delayer is not set")
	}

	if b.byteOrder == nil {
		b.byteOrder = binary.LittleEndian
	}

	if b.ids == nil {
		b.ids = idgen.New()
	}

	d := &Driver{
		name:       name,
		geometry:   b.geometry,
		transport:  b.transport,
		delayer:    b.delayer,
		timeout:    b.timeout,
		writeCycle: b.writeCycle,
		byteOrder:  b.byteOrder,
		ids:        b.ids,
	}

	return d, nil
}
