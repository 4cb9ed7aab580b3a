// Package signer signs dataset attestations with a secp256k1 ECDSA key.
package signer

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/consensys/gnark-crypto/ecc/secp256k1/ecdsa"
)

type Signer struct {
	key *ecdsa.PrivateKey
}

// Generate creates a signer with a fresh key read from r, or crypto/rand
// when r is nil.
func Generate(r io.Reader) (*Signer, error) {
	if r == nil {
		r = rand.Reader
	}

	key, err := ecdsa.GenerateKey(r)
	if err != nil {
		return nil, fmt.Errorf("generating secp256k1 key: %w", err)
	}

	return &Signer{key: key}, nil
}

// FromHex restores a signer from the hex encoding of a serialized private key.
func FromHex(encoded string) (*Signer, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("decoding private key: %w", err)
	}

	key := new(ecdsa.PrivateKey)
	if _, err := key.SetBytes(raw); err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	return &Signer{key: key}, nil
}

// FromFile reads a hex encoded private key from path.
func FromFile(path string) (*Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading private key file: %w", err)
	}

	return FromHex(string(data))
}

func (s *Signer) Sign(_ context.Context, message []byte) ([]byte, error) {
	sig, err := s.key.Sign(message, sha256.New())
	if err != nil {
		return nil, fmt.Errorf("signing message: %w", err)
	}

	return sig, nil
}

func (s *Signer) Verify(message, signature []byte) (bool, error) {
	return s.key.PublicKey.Verify(signature, message, sha256.New())
}

func (s *Signer) PublicKey() []byte {
	return s.key.PublicKey.Bytes()
}

// PrivateKeyHex is the serialized private key, in the format read by FromHex.
func (s *Signer) PrivateKeyHex() string {
	return hex.EncodeToString(s.key.Bytes())
}

// KeyID is a short printable fingerprint of a serialized public key, used
// to tell signer keys apart in logs and attestations.
func KeyID(publicKey []byte) string {
	sum := sha256.Sum256(publicKey)

	return base58.Encode(sum[:20])
}
