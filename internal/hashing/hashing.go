// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package hashing computes tagged content hashes for files about to be
// published. The strongest available algorithm wins: BLAKE3 is preferred,
// SHA-256 is the fallback, and when no algorithm is available the hash is
// empty and the publish proceeds without a fingerprint.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"lukechampine.com/blake3"
)

// Algorithm names a digest algorithm in tag form.
type Algorithm string

const (
	BLAKE3 Algorithm = "blake3"
	SHA256 Algorithm = "sha256"
)

// Hash is a tagged content hash, e.g. blake3:<hex> or sha256:<hex>.
// The zero value means "no hash computed".
type Hash struct {
	Algo Algorithm
	Hex  string
}

// IsZero reports whether no hash was computed.
func (h Hash) IsZero() bool { return h.Hex == "" }

// Tagged renders the hash as "<algo>:<hex>", or "" for the zero value.
// This form is shown to the user.
func (h Hash) Tagged() string {
	if h.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s:%s", h.Algo, h.Hex)
}

// ForServer renders the hash for API requests. Only the preferred BLAKE3
// hash is sent; a SHA-256 fallback is surfaced to the user but intentionally
// omitted from requests, matching the service's historical contract.
func (h Hash) ForServer() string {
	if h.Algo != BLAKE3 {
		return ""
	}
	return h.Tagged()
}

// Hasher computes file hashes by walking a preference chain of algorithms
// and using the first one available.
type Hasher struct {
	chain []Algorithm
}

// New returns a hasher with the given preference chain. An empty chain means
// hashing is skipped entirely.
func New(chain ...Algorithm) *Hasher {
	return &Hasher{chain: chain}
}

// Default returns the production preference chain: BLAKE3, then SHA-256.
func Default() *Hasher {
	return New(BLAKE3, SHA256)
}

// File computes the tagged hash of the file at path. Unknown algorithms in
// the chain are treated as unavailable and skipped; an exhausted chain yields
// the zero Hash with no error.
func (h *Hasher) File(path string) (Hash, error) {
	for _, algo := range h.chain {
		digest := newDigest(algo)
		if digest == nil {
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			return Hash{}, err
		}
		_, err = io.Copy(digest, f)
		f.Close()
		if err != nil {
			return Hash{}, err
		}
		return Hash{Algo: algo, Hex: hex.EncodeToString(digest.Sum(nil))}, nil
	}
	return Hash{}, nil
}

func newDigest(algo Algorithm) hash.Hash {
	switch algo {
	case BLAKE3:
		return blake3.New(32, nil)
	case SHA256:
		return sha256.New()
	default:
		return nil
	}
}
