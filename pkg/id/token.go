package id

import "crypto/rand"

// urlSafe has 64 symbols, so every symbol carries exactly 6 bits.
const urlSafe = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// NewToken returns an n-character string drawn uniformly from [A-Za-z0-9-_]
// using crypto/rand. Each character carries 6 bits of entropy, so 32
// characters carry 192 bits. The result needs no escaping in URLs.
func NewToken(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = urlSafe[b&63]
	}
	return string(buf)
}
