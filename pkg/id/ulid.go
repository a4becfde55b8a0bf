// Package id generates identifiers: sortable ULIDs for attempt records and
// unguessable URL-safe tokens for the OAuth state parameter.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// Crockford's Base32 alphabet (excludes I, L, O, U to avoid confusion).
const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID generates a ULID (Universally Unique Lexicographically Sortable Identifier).
// Returns a 26-character string: 10 chars timestamp (48-bit ms) + 16 chars random (80-bit).
func NewULID() string {
	return NewULIDAt(time.Now())
}

// NewULIDAt generates a ULID whose timestamp component is t.
func NewULIDAt(t time.Time) string {
	var raw [16]byte
	binary.BigEndian.PutUint16(raw[0:2], uint16(uint64(t.UnixMilli())>>32))
	binary.BigEndian.PutUint32(raw[2:6], uint32(t.UnixMilli()))
	_, _ = rand.Read(raw[6:])

	// 128 bits are emitted as 26 groups of 5 bits with two leading zero bits.
	var out [26]byte
	for i := range out {
		start := i*5 - 2
		var v byte
		for j := range 5 {
			v <<= 1
			if p := start + j; p >= 0 {
				v |= raw[p/8] >> (7 - p%8) & 1
			}
		}
		out[i] = crockfordBase32[v]
	}
	return string(out[:])
}
