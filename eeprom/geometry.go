package eeprom

import (
	"fmt"
	"math/bits"
)

// Geometry describes the address space of one EEPROM device.
type Geometry struct {
	// PageSize is the number of bytes in a page. It must be a power of two.
	PageSize int `yaml:"page_size" json:"page_size"`

	// PageCount is the number of pages on the device.
	PageCount int `yaml:"page_count" json:"page_count"`

	// DeviceAddress is the bus address of the device in 8-bit form.
	DeviceAddress uint16 `yaml:"device_address" json:"device_address"`

	// AddressWidth is the number of bytes used to send a memory address.
	AddressWidth int `yaml:"address_width" json:"address_width"`
}

// DefaultGeometry is a 2 KiB device with 8-byte pages at bus address 0xAE,
// addressed with two bytes.
var DefaultGeometry = Geometry{
	PageSize:      8,
	PageCount:     256,
	DeviceAddress: 0xAE,
	AddressWidth:  2,
}

// Validate checks that the geometry can be used to address a device.
func (g Geometry) Validate() error {
	if g.PageSize <= 0 || bits.OnesCount(uint(g.PageSize)) != 1 {
		return fmt.Errorf("%w: page size %d is not a power of two",
			ErrInvalidGeometry, g.PageSize)
	}

	if g.PageCount <= 0 {
		return fmt.Errorf("%w: page count %d must be positive",
			ErrInvalidGeometry, g.PageCount)
	}

	if g.AddressWidth < 1 || g.AddressWidth > 4 {
		return fmt.Errorf("%w: address width %d must be between 1 and 4",
			ErrInvalidGeometry, g.AddressWidth)
	}

	if g.AddressWidth < 4 && uint64(g.Capacity()) > 1<<(8*uint(g.AddressWidth)) {
		return fmt.Errorf("%w: %d bytes cannot be addressed with %d address bytes",
			ErrInvalidGeometry, g.Capacity(), g.AddressWidth)
	}

	return nil
}

// Capacity returns the number of bytes on the device.
func (g Geometry) Capacity() int {
	return g.PageSize * g.PageCount
}

// PageShift returns log2 of the page size, the bit position where the page
// number starts in a memory address.
func (g Geometry) PageShift() uint {
	return uint(bits.TrailingZeros(uint(g.PageSize)))
}

// MemoryAddress combines a page number and an in-page offset into the
// address sent on the bus.
func (g Geometry) MemoryAddress(page, offset int) uint32 {
	return uint32(page)<<g.PageShift() | uint32(offset)
}

// CheckRange reports whether size bytes starting at (page, offset) lie on the
// device.
func (g Geometry) CheckRange(page, offset, size int) error {
	outOfRange := page < 0 || page >= g.PageCount ||
		offset < 0 || offset >= g.PageSize ||
		size < 0 ||
		size > g.Capacity()-(page*g.PageSize+offset)

	if outOfRange {
		return &RangeError{
			Page:     page,
			Offset:   offset,
			Size:     size,
			Geometry: g,
		}
	}

	return nil
}
