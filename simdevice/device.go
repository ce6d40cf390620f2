// Package simdevice simulates a 24Cxx-style paged serial EEPROM behind the
// bus.Transport interface.
//
// The simulation keeps the properties that matter to a driver: a write that
// runs past the end of a page wraps to the start of that page, a read runs
// across pages and rolls over at the end of the array, and the device does
// not acknowledge anything while an internal write cycle is in progress.
package simdevice

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sarchlab/eeprom/bus"
)

// Errors returned by the device.
var (
	ErrNack     = errors.New("simdevice: no acknowledge")
	ErrInjected = errors.New("simdevice: injected failure")
)

// A Clock tells the current time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Transaction records one transaction seen by the device.
type Transaction struct {
	Write   bool
	Address uint32
	Data    []byte
}

// Device is a simulated EEPROM.
type Device struct {
	lock sync.Mutex

	pageSize   int
	pageCount  int
	devAddr    uint16
	writeCycle time.Duration
	clock      Clock

	mem       []byte
	busyUntil time.Time
	log       []Transaction
	failAfter int
}

var _ bus.Transport = (*Device)(nil)

// Capacity returns the size of the memory array.
func (d *Device) Capacity() int {
	return len(d.mem)
}

// PageSize returns the page size of the device.
func (d *Device) PageSize() int {
	return d.pageSize
}

// WriteBytes latches the page addressed by memAddr and stores buf in it,
// wrapping inside the page.
func (d *Device) WriteBytes(
	devAddr uint16,
	memAddr uint32,
	addrWidth int,
	buf []byte,
	_ time.Duration,
) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	addr, err := d.acknowledge(devAddr, memAddr, addrWidth)
	if err != nil {
		return err
	}

	d.record(true, addr, buf)

	pageBase := addr - addr%d.pageSize
	inPage := addr % d.pageSize

	for i, b := range buf {
		d.mem[pageBase+(inPage+i)%d.pageSize] = b
	}

	if len(buf) > 0 {
		d.busyUntil = d.clock.Now().Add(d.writeCycle)
	}

	return nil
}

// ReadBytes fills buf starting at memAddr, running across pages.
func (d *Device) ReadBytes(
	devAddr uint16,
	memAddr uint32,
	addrWidth int,
	buf []byte,
	_ time.Duration,
) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	addr, err := d.acknowledge(devAddr, memAddr, addrWidth)
	if err != nil {
		return err
	}

	for i := range buf {
		buf[i] = d.mem[(addr+i)%len(d.mem)]
	}

	d.record(false, addr, buf)

	return nil
}

// acknowledge returns the array index addressed by a transaction, or the
// reason the device stays silent.
func (d *Device) acknowledge(
	devAddr uint16,
	memAddr uint32,
	addrWidth int,
) (int, error) {
	if devAddr != d.devAddr {
		return 0, fmt.Errorf("%w: device 0x%02x", ErrNack, devAddr)
	}

	if d.clock.Now().Before(d.busyUntil) {
		return 0, fmt.Errorf("%w: write cycle in progress", ErrNack)
	}

	if d.failAfter >= 0 {
		if d.failAfter == 0 {
			d.failAfter = -1
			return 0, ErrInjected
		}
		d.failAfter--
	}

	wire, err := bus.EncodeMemoryAddress(memAddr, addrWidth)
	if err != nil {
		return 0, err
	}

	return int(bus.DecodeMemoryAddress(wire)) % len(d.mem), nil
}

func (d *Device) record(write bool, addr int, buf []byte) {
	data := make([]byte, len(buf))
	copy(data, buf)

	d.log = append(d.log, Transaction{
		Write:   write,
		Address: uint32(addr),
		Data:    data,
	})
}

// Transactions returns the transactions seen since the last ClearLog.
func (d *Device) Transactions() []Transaction {
	d.lock.Lock()
	defer d.lock.Unlock()

	txns := make([]Transaction, len(d.log))
	copy(txns, d.log)

	return txns
}

// ClearLog forgets the recorded transactions.
func (d *Device) ClearLog() {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.log = nil
}

// FailAfter makes the device fail the transaction that follows the next n
// successful ones. A negative n disables the failure.
func (d *Device) FailAfter(n int) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.failAfter = n
}

// Snapshot returns a copy of the memory array.
func (d *Device) Snapshot() []byte {
	d.lock.Lock()
	defer d.lock.Unlock()

	mem := make([]byte, len(d.mem))
	copy(mem, d.mem)

	return mem
}

// LoadImage replaces the memory array with the content of a file. The file
// must be exactly as large as the device.
func (d *Device) LoadImage(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	d.lock.Lock()
	defer d.lock.Unlock()

	if len(data) != len(d.mem) {
		return fmt.Errorf("image %s holds %d bytes, device holds %d",
			path, len(data), len(d.mem))
	}

	copy(d.mem, data)

	return nil
}

// SaveImage writes the memory array to a file.
func (d *Device) SaveImage(path string) error {
	return os.WriteFile(path, d.Snapshot(), 0o644)
}
