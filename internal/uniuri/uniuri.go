// Package uniuri generates cryptographically secure random strings used for
// document share tokens and generated initial passwords.
package uniuri

import "crypto/rand"

const (
	// StdLen is the standard token length (~95 bits of entropy).
	StdLen = 16

	// ShareTokenLen is the length of document share tokens.
	ShareTokenLen = 32
)

// StdChars is the set of characters used in generated strings.
var StdChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// New returns a new random string of the standard length.
func New() string {
	return NewLen(StdLen)
}

// NewLen returns a new random string of the provided length. Random bytes
// outside the unbiased range are rejected rather than taken modulo the
// charset size, so every character is equally likely.
func NewLen(length int) string {
	if length == 0 {
		return ""
	}

	clen := len(StdChars)
	maxRb := 255 - (256 % clen)

	out := make([]byte, length)
	buf := make([]byte, length*2)

	i := 0

	for {
		if _, err := rand.Read(buf); err != nil {
			panic("uniuri: error reading random bytes: " + err.Error())
		}

		for _, rb := range buf {
			c := int(rb)
			if c > maxRb {
				continue
			}

			out[i] = StdChars[c%clen]
			i++

			if i == length {
				return string(out)
			}
		}
	}
}
