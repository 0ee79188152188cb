package services

import (
	"crypto/rand"
	"math/big"
)

// CodeGenerator produces short human-readable codes for daily codes and
// delivery codes. Injected so tests can pin the generated value.
type CodeGenerator func() string

// Ambiguous glyphs (0/O, 1/I) are excluded; staff read these out loud.
const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const codeLength = 4

func DefaultCodeGenerator() string {
	max := big.NewInt(int64(len(codeAlphabet)))
	out := make([]byte, codeLength)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			idx = big.NewInt(int64(i) % int64(len(codeAlphabet)))
		}
		out[i] = codeAlphabet[idx.Int64()]
	}
	return string(out)
}
