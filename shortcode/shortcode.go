// Package shortcode generates and validates the public codes of short links.
// Generators should be safe for concurrent use.
package shortcode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the length of generated codes.
	DefaultLength = 5

	// MinLength and MaxLength bound generated codes. MaxLength also caps
	// custom codes.
	MinLength = 3
	MaxLength = 64

	// Bytes at or above this value are rejected so every symbol is equally likely.
	// 248 is the largest multiple of 62 that fits in a byte.
	rejectAbove = 256 - 256%len(base62Chars)
)

var (
	ErrInvalidLength = errors.New("length must be positive")
	ErrInvalidCode   = errors.New("invalid short code")
)

// Generator generates short codes.
// Implementations should be safe for concurrent use.
type Generator interface {
	Generate(length int) (string, error)
}

// GeneratorFunc adapts a plain function to a Generator.
type GeneratorFunc func(length int) (string, error)

func (f GeneratorFunc) Generate(length int) (string, error) { return f(length) }

// base62Generator draws codes uniformly from [0-9A-Za-z].
type base62Generator struct{}

// NewBase62 returns a new base62 code generator.
func NewBase62() Generator {
	return base62Generator{}
}

// Generate returns a random base62 string of the given length.
func (base62Generator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", ErrInvalidLength
	}

	out := make([]byte, 0, length)
	buf := make([]byte, length+length/2)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= rejectAbove {
				continue
			}
			out = append(out, base62Chars[int(b)%len(base62Chars)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}

// ValidateCustom checks a caller-chosen code. Any code that fits in a
// single path segment is kept as-is: at most MaxLength bytes of valid UTF-8
// with no '/', whitespace, control characters or URL delimiters ('?', '#',
// '%'). "." and ".." are rejected because paths are cleaned before routing.
func ValidateCustom(code string) error {
	if code == "" {
		return fmt.Errorf("%w: cannot be empty", ErrInvalidCode)
	}
	if len(code) > MaxLength {
		return fmt.Errorf("%w: must be at most %d characters", ErrInvalidCode, MaxLength)
	}
	if !utf8.ValidString(code) {
		return fmt.Errorf("%w: must be valid UTF-8", ErrInvalidCode)
	}
	if code == "." || code == ".." {
		return fmt.Errorf("%w: %q is not a usable path", ErrInvalidCode, code)
	}
	if i := strings.IndexFunc(code, isReserved); i >= 0 {
		r, _ := utf8.DecodeRuneInString(code[i:])
		return fmt.Errorf("%w: character %q is not allowed", ErrInvalidCode, r)
	}
	return nil
}

func isReserved(r rune) bool {
	switch r {
	case '/', '?', '#', '%':
		return true
	}
	return unicode.IsSpace(r) || unicode.IsControl(r)
}
