package commitment

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/consensys/gnark-crypto/ecc/bw6-761/fr/mimc"
)

// Digester maps a string to a fixed-width lowercase hex digest. Width is
// in hex characters; shorter digests are left-padded with zeros and longer
// ones are truncated.
type Digester interface {
	Name() string
	Digest(input string, width int) string
}

const (
	DigestRolling = "rolling"
	DigestSHA256  = "sha256"
	DigestMiMC    = "mimc"
)

// DigesterByName returns the digester registered under name.
func DigesterByName(name string) (Digester, error) {
	switch strings.ToLower(name) {
	case "", DigestRolling:
		return Rolling{}, nil
	case DigestSHA256:
		return SHA256{}, nil
	case DigestMiMC:
		return MiMC{}, nil
	}

	return nil, fmt.Errorf("unknown digest %q", name)
}

// Rolling is the 32-bit multiplicative rolling hash h = h*31 + c over the
// UTF-16 code units of the input. It is reversible and collides easily; it
// exists so commitments stay compatible with records produced by existing
// clients, and must not be relied on for integrity.
type Rolling struct{}

func (Rolling) Name() string {
	return DigestRolling
}

func (Rolling) Digest(input string, width int) string {
	var h int32

	for _, c := range utf16.Encode([]rune(input)) {
		h = (h << 5) - h + int32(c)
	}

	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}

	return fit(strconv.FormatInt(abs, 16), width)
}

// SHA256 digests the UTF-8 bytes of the input with SHA-256.
type SHA256 struct{}

func (SHA256) Name() string {
	return DigestSHA256
}

func (SHA256) Digest(input string, width int) string {
	sum := sha256.Sum256([]byte(input))

	return fit(hex.EncodeToString(sum[:]), width)
}

// MiMC digests the SHA-256 of the input with the MiMC sponge over the
// BW6-761 scalar field, the same primitive the note commitments in the
// zerocash circuits use. The SHA-256 pre-image always fits in a single
// field element.
type MiMC struct{}

func (MiMC) Name() string {
	return DigestMiMC
}

func (MiMC) Digest(input string, width int) string {
	pre := sha256.Sum256([]byte(input))

	h := mimc.NewMiMC()
	// A 32 byte block is left-padded to the 48 byte field size and is always
	// below the modulus, so Write cannot fail here.
	_, _ = h.Write(pre[:])

	return fit(hex.EncodeToString(h.Sum(nil)), width)
}

func fit(digest string, width int) string {
	if width <= 0 {
		return digest
	}

	if len(digest) < width {
		digest = strings.Repeat("0", width-len(digest)) + digest
	}

	return digest[:width]
}
