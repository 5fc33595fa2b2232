package binrec

import (
	"encoding/binary"
	"fmt"
)

// ByteOrder selects how multi-byte values are laid out for a record type.
// The choice is made once, at Compile time, and applies to every field of
// the record including nested records and union members.
type ByteOrder uint8

// Byte-order modes. Only NativeAligned inserts implicit padding between
// fields; all other modes lay fields out contiguously.
const (
	// NativeAligned uses host byte order and host ABI alignment padding.
	// Record widths become host-dependent; prefer one of the fixed modes.
	NativeAligned ByteOrder = iota
	// Native uses host byte order with no implicit padding.
	Native
	// LittleEndian is fixed little-endian, no implicit padding.
	LittleEndian
	// BigEndian is fixed big-endian, no implicit padding.
	BigEndian
	// Network is a synonym for BigEndian.
	Network
)

var byteOrderNames = map[ByteOrder]string{
	NativeAligned: "native-aligned",
	Native:        "native",
	LittleEndian:  "little-endian",
	BigEndian:     "big-endian",
	Network:       "network",
}

// String returns the mode name used in manifests.
func (o ByteOrder) String() string {
	if name, ok := byteOrderNames[o]; ok {
		return name
	}
	return fmt.Sprintf("byteorder_%d", uint8(o))
}

// ParseByteOrder maps a manifest mode name to its ByteOrder.
func ParseByteOrder(name string) (ByteOrder, error) {
	for o, n := range byteOrderNames {
		if n == name {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown byte order %q", name)
}

// encoder returns the binary.ByteOrder used for multi-byte values.
func (o ByteOrder) encoder() binary.ByteOrder {
	switch o {
	case LittleEndian:
		return binary.LittleEndian
	case BigEndian, Network:
		return binary.BigEndian
	default:
		return binary.NativeEndian
	}
}

// aligned reports whether the mode inserts host ABI alignment padding.
func (o ByteOrder) aligned() bool {
	return o == NativeAligned
}
