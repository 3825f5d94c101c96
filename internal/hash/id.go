// Package hash provides the xxHash64 digests used to fingerprint chain inputs.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Bytes computes the xxHash64 of raw file content.
func Bytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Names digests an ordered list of names. A zero byte terminates each name so
// that ["ab", "c"] and ["a", "bc"] hash differently.
func Names(names []string) uint64 {
	d := xxhash.New()
	for _, n := range names {
		_, _ = d.WriteString(n)
		_, _ = d.Write([]byte{0})
	}

	return d.Sum64()
}

// Hex formats a digest as 16 lowercase hex digits.
func Hex(sum uint64) string {
	const digits = "0123456789abcdef"
	var buf [16]byte
	for i := 15; i >= 0; i-- {
		buf[i] = digits[sum&0xf]
		sum >>= 4
	}

	return string(buf[:])
}
