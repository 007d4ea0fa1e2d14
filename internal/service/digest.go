package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const (
	DigestSHA256  = "sha256"
	DigestBLAKE2b = "blake2b"
)

// Digester turns a plaintext password into the fixed-length hex digest
// kept in the users table. The same input always yields the same output.
type Digester interface {
	Digest(password string) string
}

type hashDigester struct {
	sum func([]byte) []byte
}

func NewDigester(algorithm string) (Digester, error) {
	switch algorithm {
	case DigestSHA256, "":
		return hashDigester{sum: func(b []byte) []byte {
			h := sha256.Sum256(b)
			return h[:]
		}}, nil
	case DigestBLAKE2b:
		return hashDigester{sum: func(b []byte) []byte {
			h := blake2b.Sum256(b)
			return h[:]
		}}, nil
	default:
		return nil, fmt.Errorf("unknown password digest %q", algorithm)
	}
}

func (d hashDigester) Digest(password string) string {
	return hex.EncodeToString(d.sum([]byte(password)))
}
