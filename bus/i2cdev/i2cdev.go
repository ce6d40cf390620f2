//go:build linux

// Package i2cdev implements bus.Transport on top of the Linux i2c-dev
// character devices (/dev/i2c-N).
package i2cdev

import (
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/sarchlab/eeprom/bus"
	"golang.org/x/sys/unix"
)

// Values from <linux/i2c-dev.h> and <linux/i2c.h>.
const (
	ioctlTimeout = 0x0702
	ioctlRdwr    = 0x0707
	msgFlagRead  = 0x0001
)

type i2cMsg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   unsafe.Pointer
}

type rdwrIoctlData struct {
	msgs  unsafe.Pointer
	nmsgs uint32
}

// Bus is an open i2c-dev adapter.
type Bus struct {
	lock    sync.Mutex
	path    string
	fd      int
	timeout time.Duration
}

var _ bus.Transport = (*Bus)(nil)

// Open opens an i2c-dev adapter such as /dev/i2c-1.
func Open(path string) (*Bus, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return &Bus{path: path, fd: fd}, nil
}

// Close releases the adapter.
func (b *Bus) Close() error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.fd < 0 {
		return nil
	}

	err := unix.Close(b.fd)
	b.fd = -1

	return err
}

// WriteBytes sends the memory address followed by buf in one message.
func (b *Bus) WriteBytes(
	devAddr uint16,
	memAddr uint32,
	addrWidth int,
	buf []byte,
	timeout time.Duration,
) error {
	addr, err := bus.EncodeMemoryAddress(memAddr, addrWidth)
	if err != nil {
		return err
	}

	payload := make([]byte, 0, len(addr)+len(buf))
	payload = append(payload, addr...)
	payload = append(payload, buf...)

	msgs := []i2cMsg{
		makeMsg(devAddr, 0, payload),
	}

	return b.transfer(msgs, timeout, payload)
}

// ReadBytes sends the memory address, then reads len(buf) bytes after a
// repeated start.
func (b *Bus) ReadBytes(
	devAddr uint16,
	memAddr uint32,
	addrWidth int,
	buf []byte,
	timeout time.Duration,
) error {
	addr, err := bus.EncodeMemoryAddress(memAddr, addrWidth)
	if err != nil {
		return err
	}

	if len(buf) == 0 {
		return nil
	}

	msgs := []i2cMsg{
		makeMsg(devAddr, 0, addr),
		makeMsg(devAddr, msgFlagRead, buf),
	}

	return b.transfer(msgs, timeout, addr, buf)
}

func makeMsg(devAddr uint16, flags uint16, buf []byte) i2cMsg {
	msg := i2cMsg{
		addr:  kernelAddress(devAddr),
		flags: flags,
		len:   uint16(len(buf)),
	}

	if len(buf) > 0 {
		msg.buf = unsafe.Pointer(&buf[0])
	}

	return msg
}

// kernelAddress converts the 8-bit HAL form into the 7-bit address the
// kernel expects.
func kernelAddress(devAddr uint16) uint16 {
	if devAddr > 0x7f {
		return devAddr >> 1
	}

	return devAddr
}

func (b *Bus) transfer(
	msgs []i2cMsg,
	timeout time.Duration,
	keepAlive ...[]byte,
) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.fd < 0 {
		return fmt.Errorf("%s is closed", b.path)
	}

	err := b.setTimeout(timeout)
	if err != nil {
		return err
	}

	data := rdwrIoctlData{
		msgs:  unsafe.Pointer(&msgs[0]),
		nmsgs: uint32(len(msgs)),
	}

	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		uintptr(b.fd),
		ioctlRdwr,
		uintptr(unsafe.Pointer(&data)),
	)

	runtime.KeepAlive(msgs)
	runtime.KeepAlive(keepAlive)

	if errno != 0 {
		return fmt.Errorf("%s: I2C_RDWR: %w", b.path, errno)
	}

	return nil
}

// setTimeout programs the adapter timeout, in units of 10 ms.
func (b *Bus) setTimeout(timeout time.Duration) error {
	if timeout <= 0 || timeout == b.timeout {
		return nil
	}

	units := int((timeout + 10*time.Millisecond - 1) / (10 * time.Millisecond))

	err := unix.IoctlSetInt(b.fd, ioctlTimeout, units)
	if err != nil {
		return fmt.Errorf("%s: I2C_TIMEOUT: %w", b.path, err)
	}

	b.timeout = timeout

	return nil
}
