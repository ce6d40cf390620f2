package simdevice

import (
	"fmt"
	"time"
)

// Builder can build simulated devices.
type Builder struct {
	pageSize   int
	pageCount  int
	devAddr    uint16
	writeCycle time.Duration
	clock      Clock
}

// MakeBuilder returns a Builder for a 2 KiB device with 8-byte pages at bus
// address 0xAE.
func MakeBuilder() Builder {
	return Builder{
		pageSize:   8,
		pageCount:  256,
		devAddr:    0xAE,
		writeCycle: 5 * time.Millisecond,
		clock:      realClock{},
	}
}

// WithPageSize sets the page size.
func (b Builder) WithPageSize(pageSize int) Builder {
	b.pageSize = pageSize
	return b
}

// WithPageCount sets the number of pages.
func (b Builder) WithPageCount(pageCount int) Builder {
	b.pageCount = pageCount
	return b
}

// WithDeviceAddress sets the bus address the device answers to.
func (b Builder) WithDeviceAddress(devAddr uint16) Builder {
	b.devAddr = devAddr
	return b
}

// WithWriteCycle sets how long the device stays busy after a write.
func (b Builder) WithWriteCycle(d time.Duration) Builder {
	b.writeCycle = d
	return b
}

// WithClock sets the clock used to time write cycles.
func (b Builder) WithClock(c Clock) Builder {
	b.clock = c
	return b
}

// Build creates an erased device.
func (b Builder) Build() *Device {
	if b.pageSize <= 0 || b.pageCount <= 0 {
		panic(fmt.Sprintf("invalid device size %d x %d",
			b.pageSize, b.pageCount))
	}

	d := &Device{
		pageSize:   b.pageSize,
		pageCount:  b.pageCount,
		devAddr:    b.devAddr,
		writeCycle: b.writeCycle,
		clock:      b.clock,
		mem:        make([]byte, b.pageSize*b.pageCount),
		failAfter:  -1,
	}

	for i := range d.mem {
		d.mem[i] = 0xff
	}

	return d
}
