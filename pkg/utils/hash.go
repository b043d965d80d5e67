package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashStrings hashes an ordered list of parts. Each part is length-prefixed so
// that ["ab","c"] and ["a","bc"] never collide.
func HashStrings(parts ...string) string {
	h := sha256.New()
	var lenBuf [8]byte
	for _, p := range parts {
		n := uint64(len(p))
		for i := 0; i < 8; i++ {
			lenBuf[i] = byte(n >> (8 * i))
		}
		h.Write(lenBuf[:])
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
