package block

import (
	"encoding/hex"

	"github.com/google/uuid"
)

const blockIDAlphabet = "0123456789abcdefABCDEF_"

// NewID returns a fresh 24-character hexadecimal block id.
func NewID() string {
	return hex.EncodeToString(entropy(12))
}

// NewBlockID returns a fresh 10-character short id.
func NewBlockID() string {
	buf := entropy(10)
	out := make([]byte, len(buf))
	for i, b := range buf {
		out[i] = blockIDAlphabet[int(b)%len(blockIDAlphabet)]
	}
	return string(out)
}

// entropy collects n random bytes from version 4 UUIDs, skipping the
// version and variant bytes.
func entropy(n int) []byte {
	out := make([]byte, 0, n)
	for len(out) < n {
		u := uuid.New()
		for i, b := range u {
			if i == 6 || i == 8 {
				continue
			}
			out = append(out, b)
			if len(out) == n {
				break
			}
		}
	}
	return out
}
