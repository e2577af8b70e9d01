// Package joincode generates the short human-typable codes that
// identify a payment session, e.g. "VACA-3F7K".
package joincode

import (
	"math/rand"
	"regexp"
	"strings"
)

const (
	// Prefix is the fixed leading part of every join code.
	Prefix = "VACA-"
	// Alphabet excludes visually ambiguous characters (0/O, 1/I).
	Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	suffixLength = 4
)

var pattern = regexp.MustCompile(`^VACA-[` + Alphabet + `]{4}$`)

// Generate returns a fresh join code. Uniqueness against live sessions
// is the caller's responsibility.
func Generate() string {
	var b strings.Builder
	b.Grow(len(Prefix) + suffixLength)
	b.WriteString(Prefix)
	for i := 0; i < suffixLength; i++ {
		b.WriteByte(Alphabet[rand.Intn(len(Alphabet))])
	}
	return b.String()
}

// Valid reports whether code has the canonical join-code shape.
func Valid(code string) bool {
	return pattern.MatchString(code)
}
