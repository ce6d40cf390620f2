package eeprom

import (
	"encoding/binary"
	"math"
)

// NumberSize is the number of bytes a stored number occupies.
const NumberSize = 4

// FloatToBytes returns the IEEE-754 bytes of v in the given byte order.
func FloatToBytes(order binary.ByteOrder, v float32) [NumberSize]byte {
	var b [NumberSize]byte

	order.PutUint32(b[:], math.Float32bits(v))

	return b
}

// BytesToFloat reinterprets 4 bytes in the given byte order as a float32.
func BytesToFloat(order binary.ByteOrder, b [NumberSize]byte) float32 {
	return math.Float32frombits(order.Uint32(b[:]))
}
