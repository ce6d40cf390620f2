// Package bus defines the two-wire bus collaborators that the EEPROM driver
// talks to: a blocking, timed memory-mapped transport and a delay primitive.
package bus

import (
	"fmt"
	"time"
)

// A Transport performs blocking memory-mapped transactions on a two-wire
// bus. The device address is given in the 8-bit form used by the HAL
// (read/write bit cleared). The length of buf is the transfer length.
type Transport interface {
	// WriteBytes writes buf to the device starting at memAddr. The memory
	// address is sent as addrWidth bytes, most significant byte first.
	WriteBytes(
		devAddr uint16,
		memAddr uint32,
		addrWidth int,
		buf []byte,
		timeout time.Duration,
	) error

	// ReadBytes fills buf with the device content starting at memAddr.
	ReadBytes(
		devAddr uint16,
		memAddr uint32,
		addrWidth int,
		buf []byte,
		timeout time.Duration,
	) error
}

// A Delayer blocks the caller for a duration.
type Delayer interface {
	Sleep(d time.Duration)
}

// SleepDelayer delays with time.Sleep.
type SleepDelayer struct{}

// Sleep blocks for d.
func (SleepDelayer) Sleep(d time.Duration) {
	time.Sleep(d)
}

// EncodeMemoryAddress returns the on-wire bytes of a memory address.
func EncodeMemoryAddress(memAddr uint32, width int) ([]byte, error) {
	if width < 1 || width > 4 {
		return nil, fmt.Errorf("address width %d is not supported", width)
	}

	if width < 4 && memAddr>>(8*uint(width)) != 0 {
		return nil, fmt.Errorf(
			"address 0x%x does not fit in %d bytes", memAddr, width)
	}

	b := make([]byte, width)
	for i := 0; i < width; i++ {
		b[width-1-i] = byte(memAddr >> (8 * uint(i)))
	}

	return b, nil
}

// DecodeMemoryAddress is the inverse of EncodeMemoryAddress.
func DecodeMemoryAddress(b []byte) uint32 {
	addr := uint32(0)
	for _, v := range b {
		addr = addr<<8 | uint32(v)
	}

	return addr
}
