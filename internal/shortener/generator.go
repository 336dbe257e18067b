package shortener

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// Alphabet is the set of characters short codes are drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultCodeLength is the length of generated short codes.
const DefaultCodeLength = 8

// CodeGenerator generates short codes. Implementations must be safe for concurrent use.
type CodeGenerator func() string

// NewCodeGenerator returns a generator of uniformly distributed alphanumeric codes.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	if length < 2 {
		return nil, fmt.Errorf("code length must be at least 2, got %d", length)
	}

	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("create code generator: %w", err)
	}

	return CodeGenerator(gen), nil
}
