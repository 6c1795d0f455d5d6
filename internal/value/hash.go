package value

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainContext = "scenectx/context/v1"
	DomainResult  = "scenectx/result/v1"
)

// HashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data), hex encoded.
// The null byte separator prevents domain/data boundary ambiguity.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// HashPairs computes the content hash of a set of named values.
// The result depends only on the set of (name, value) pairs, never on
// their order.
func HashPairs(domain string, pairs []Pair) (string, error) {
	canonical, err := MarshalCanonicalPairs(pairs)
	if err != nil {
		return "", fmt.Errorf("HashPairs: failed to marshal: %w", err)
	}
	return HashWithDomain(domain, canonical), nil
}

// MustHashPairs is like HashPairs but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustHashPairs(domain string, pairs []Pair) string {
	hash, err := HashPairs(domain, pairs)
	if err != nil {
		panic(err)
	}
	return hash
}
