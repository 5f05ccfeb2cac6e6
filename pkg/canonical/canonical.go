// Package canonical provides the deterministic serialisation and
// SHA-256 helpers used for hash pre-images. Canonical form is RFC 8785
// (JCS): object keys sorted lexicographically at every nesting level,
// numbers in shortest form, strings JSON-escaped, no insignificant
// whitespace. Key ordering must not depend on struct or map iteration
// order, otherwise hashes would differ across implementations.
package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gowebpki/jcs"
)

// GenesisHash is the previousHash of the first entry ever appended to
// an empty journal: 64 zero hex digits.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// Marshal serialises v to canonical JSON bytes.
func Marshal(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonical marshal: %w", err)
	}
	out, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonical transform: %w", err)
	}
	return out, nil
}

// SHA256Hex returns the lowercase hex SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Hash canonicalises v and returns its lowercase hex SHA-256 digest.
func Hash(v interface{}) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return SHA256Hex(data), nil
}

// ChainHash computes the link hash for one journal entry:
// SHA256(previousHash bytes || canonical pre-image bytes).
func ChainHash(previousHash string, preImage []byte) string {
	h := sha256.New()
	h.Write([]byte(previousHash))
	h.Write(preImage)
	return hex.EncodeToString(h.Sum(nil))
}

// IsHex64 reports whether s is a well-formed 64-digit lowercase hex
// string (the shape of every chain hash).
func IsHex64(s string) bool {
	if len(s) != 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// LowerJSON serialises v with encoding/json and lowercases the result.
// Compliance checkers match markers by substring over this form; the
// approximation (and its false positives) is the observable contract.
func LowerJSON(v interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.ToLower(string(raw))
}
