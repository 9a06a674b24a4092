// Package runid generates URL-safe random identifiers for wizard runs.
package runid

import (
	"crypto/rand"
	"math"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	// 22 * 6 = 132 bits of entropy, a touch over a uuid's 128.
	defaultSize = 22
)

// mask covers the 64-character alphabet exactly, so no random byte is
// wasted on rejection.
const mask = len(alphabet) - 1

// New returns a fresh run identifier of the default length.
func New() (string, error) {
	return NewWithLength(defaultSize)
}

// NewWithLength returns a run identifier of the given length.
func NewWithLength(size int) (string, error) {
	if size <= 0 {
		size = defaultSize
	}

	step := int(math.Ceil(1.6 * float64(size)))

	id := make([]byte, size)
	buffer := make([]byte, step)

	for position := 0; position < size; {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}

		for i := 0; i < step && position < size; i++ {
			index := buffer[i] & byte(mask)
			id[position] = alphabet[index]
			position++
		}
	}

	return string(id), nil
}
