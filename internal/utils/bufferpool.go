// Package utils provides low-level helpers shared by the binrec codec.
package utils

import "sync"

var bufferPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 0, 1024)
	},
}

// GetBuffer returns a zeroed byte slice of the given size from the pool.
// Pack buffers rely on starting zeroed: padding, string tails and short
// union members are never written explicitly.
func GetBuffer(size int) []byte {
	buf := bufferPool.Get().([]byte)
	if cap(buf) < size {
		return make([]byte, size)
	}
	buf = buf[:size]
	clear(buf)
	return buf
}

// ReleaseBuffer returns a buffer to the pool. Callers must not retain the
// slice after release; Pack copies out before releasing.
func ReleaseBuffer(buf []byte) {
	//nolint:staticcheck // SA6002: slice descriptor copy is acceptable for sync.Pool
	bufferPool.Put(buf[:0])
}
