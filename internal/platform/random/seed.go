// Package random provides seed generation for pseudo-random draws.
//
// Seeds come from crypto/rand so independent processes never share a
// sequence; services take a seed function so tests can pin the draw.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"time"
)

// NewSeed returns a high-entropy seed, falling back to the wall clock if
// crypto/rand is unavailable.
func NewSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
