// Package eeprom implements a driver for paged serial EEPROMs on a two-wire
// bus.
//
// The device wraps a write at the end of a page back to the start of the
// same page. The driver therefore splits every request into transactions
// that stay inside one page, and waits for the device write cycle after
// each write transaction.
package eeprom

import (
	"bytes"
	"encoding/binary"
	"sync"
	"time"

	"github.com/sarchlab/eeprom/bus"
	"github.com/sarchlab/eeprom/idgen"
)

// ErasedByte is the value of an erased cell.
const ErasedByte = 0xFF

// A Driver reads and writes one EEPROM device. All methods are safe for
// concurrent use; a multi-page request holds the device until it returns.
type Driver struct {
	HookableBase

	name       string
	geometry   Geometry
	transport  bus.Transport
	delayer    bus.Delayer
	timeout    time.Duration
	writeCycle time.Duration
	byteOrder  binary.ByteOrder
	ids        idgen.Generator

	lock sync.Mutex
}

// Name returns the name of the driver.
func (d *Driver) Name() string {
	return d.name
}

// Geometry returns the geometry of the device.
func (d *Driver) Geometry() Geometry {
	return d.geometry
}

// ByteOrder returns the byte order of stored numbers.
func (d *Driver) ByteOrder() binary.ByteOrder {
	return d.byteOrder
}

// Write stores the first size bytes of data starting at (page, offset).
func (d *Driver) Write(page, offset int, data []byte, size int) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	req := d.startRequest(KindWrite, page, offset, size)
	err := d.write(req, page, offset, data, size)
	d.endRequest(req, err)

	return err
}

// Read fills the first size bytes of buf with the content starting at
// (page, offset).
func (d *Driver) Read(page, offset int, buf []byte, size int) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	req := d.startRequest(KindRead, page, offset, size)
	err := d.read(req, page, offset, buf, size)
	d.endRequest(req, err)

	return err
}

// ErasePage sets every byte of a page to ErasedByte.
func (d *Driver) ErasePage(page int) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	req := d.startRequest(KindErase, page, 0, d.geometry.PageSize)
	err := d.erase(req, page)
	d.endRequest(req, err)

	return err
}

// WriteNumber stores v as 4 bytes at (page, offset).
func (d *Driver) WriteNumber(page, offset int, v float32) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	b := FloatToBytes(d.byteOrder, v)

	req := d.startRequest(KindWriteNumber, page, offset, NumberSize)
	err := d.write(req, page, offset, b[:], NumberSize)
	d.endRequest(req, err)

	return err
}

// ReadNumber loads a number stored by WriteNumber.
func (d *Driver) ReadNumber(page, offset int) (float32, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	var b [NumberSize]byte

	req := d.startRequest(KindReadNumber, page, offset, NumberSize)
	err := d.read(req, page, offset, b[:], NumberSize)
	d.endRequest(req, err)

	if err != nil {
		return 0, err
	}

	return BytesToFloat(d.byteOrder, b), nil
}

func (d *Driver) write(
	req Request,
	page, offset int,
	data []byte,
	size int,
) error {
	err := d.checkRequest(page, offset, len(data), size)
	if err != nil {
		return err
	}

	for _, seg := range d.geometry.Split(page, offset, size) {
		err = d.writeSegment(req, KindWrite, seg,
			data[seg.Start:seg.Start+seg.Length])
		if err != nil {
			return err
		}
	}

	return nil
}

func (d *Driver) read(
	req Request,
	page, offset int,
	buf []byte,
	size int,
) error {
	err := d.checkRequest(page, offset, len(buf), size)
	if err != nil {
		return err
	}

	for _, seg := range d.geometry.Split(page, offset, size) {
		err = d.readSegment(req, seg, buf[seg.Start:seg.Start+seg.Length])
		if err != nil {
			return err
		}
	}

	return nil
}

func (d *Driver) erase(req Request, page int) error {
	err := d.geometry.CheckRange(page, 0, d.geometry.PageSize)
	if err != nil {
		return err
	}

	seg := Segment{
		Page:    page,
		Offset:  0,
		Address: d.geometry.MemoryAddress(page, 0),
		Start:   0,
		Length:  d.geometry.PageSize,
	}
	data := bytes.Repeat([]byte{ErasedByte}, d.geometry.PageSize)

	return d.writeSegment(req, KindErase, seg, data)
}

func (d *Driver) checkRequest(page, offset, bufLen, size int) error {
	err := d.geometry.CheckRange(page, offset, size)
	if err != nil {
		return err
	}

	if bufLen < size {
		return &BufferError{Need: size, Have: bufLen}
	}

	return nil
}

func (d *Driver) writeSegment(
	req Request,
	kind Kind,
	seg Segment,
	data []byte,
) error {
	txn := d.startTransaction(req, kind, seg)

	err := d.transport.WriteBytes(
		d.geometry.DeviceAddress,
		seg.Address,
		d.geometry.AddressWidth,
		data,
		d.timeout,
	)

	d.endTransaction(txn, err)

	if err != nil {
		return d.transportError(txn, err)
	}

	d.delayer.Sleep(d.writeCycle)
	d.InvokeHook(HookCtx{
		Domain: d,
		Pos:    HookPosWriteCycle,
		Item:   txn,
		Detail: d.writeCycle,
	})

	return nil
}

func (d *Driver) readSegment(req Request, seg Segment, buf []byte) error {
	txn := d.startTransaction(req, KindRead, seg)

	err := d.transport.ReadBytes(
		d.geometry.DeviceAddress,
		seg.Address,
		d.geometry.AddressWidth,
		buf,
		d.timeout,
	)

	d.endTransaction(txn, err)

	if err != nil {
		return d.transportError(txn, err)
	}

	return nil
}

func (d *Driver) transportError(txn Transaction, err error) error {
	return &TransportError{
		Op:      txn.Kind,
		Page:    txn.Page,
		Address: txn.Address,
		Length:  txn.Length,
		Err:     err,
	}
}

func (d *Driver) startRequest(kind Kind, page, offset, size int) Request {
	req := Request{
		ID:     d.ids.Generate(),
		Kind:   kind,
		Page:   page,
		Offset: offset,
		Size:   size,
	}

	d.InvokeHook(HookCtx{
		Domain: d,
		Pos:    HookPosRequestStart,
		Item:   req,
	})

	return req
}

func (d *Driver) endRequest(req Request, err error) {
	d.InvokeHook(HookCtx{
		Domain: d,
		Pos:    HookPosRequestEnd,
		Item:   req,
		Detail: err,
	})
}

func (d *Driver) startTransaction(
	req Request,
	kind Kind,
	seg Segment,
) Transaction {
	txn := Transaction{
		ID:       d.ids.Generate(),
		ParentID: req.ID,
		Kind:     kind,
		Page:     seg.Page,
		Offset:   seg.Offset,
		Address:  seg.Address,
		Length:   seg.Length,
	}

	d.InvokeHook(HookCtx{
		Domain: d,
		Pos:    HookPosTransactionStart,
		Item:   txn,
	})

	return txn
}

func (d *Driver) endTransaction(txn Transaction, err error) {
	d.InvokeHook(HookCtx{
		Domain: d,
		Pos:    HookPosTransactionEnd,
		Item:   txn,
		Detail: err,
	})
}
