package eeprom

import (
	"errors"
	"fmt"
)

// Errors reported by the driver. Use errors.Is to classify a returned error.
var (
	ErrOutOfRange       = errors.New("eeprom: out of range")
	ErrTransportFailure = errors.New("eeprom: transport failure")
	ErrBufferTooSmall   = errors.New("eeprom: buffer too small")
	ErrInvalidGeometry  = errors.New("eeprom: invalid geometry")
)

// A RangeError reports a request that does not fit the device geometry.
type RangeError struct {
	Page     int
	Offset   int
	Size     int
	Geometry Geometry
}

func (e *RangeError) Error() string {
	return fmt.Sprintf(
		"eeprom: page %d offset %d size %d is outside %d pages of %d bytes",
		e.Page, e.Offset, e.Size, e.Geometry.PageCount, e.Geometry.PageSize)
}

// Unwrap returns ErrOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// A TransportError reports a bus transaction that failed. Segments issued
// before the failing one have already been committed to the device.
type TransportError struct {
	Op      Kind
	Page    int
	Address uint32
	Length  int
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("eeprom: %s of %d bytes at 0x%04x (page %d) failed: %v",
		e.Op, e.Length, e.Address, e.Page, e.Err)
}

// Unwrap returns both ErrTransportFailure and the transport's own error.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransportFailure, e.Err}
}

// A BufferError reports a caller buffer shorter than the requested size.
type BufferError struct {
	Need int
	Have int
}

func (e *BufferError) Error() string {
	return fmt.Sprintf("eeprom: buffer holds %d bytes, %d requested",
		e.Have, e.Need)
}

// Unwrap returns ErrBufferTooSmall.
func (e *BufferError) Unwrap() error {
	return ErrBufferTooSmall
}
