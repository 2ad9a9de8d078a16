package ids

import (
	"crypto/sha256"
	"encoding/base32"
	"strings"

	internalstrings "github.com/amonks/taskmaster/internal/strings"
)

// DefaultLength is the standard length for generated IDs.
const DefaultLength = 8

// Generate creates a deterministic, lowercase base32 ID derived from input.
func Generate(input string, length int) string {
	hash := sha256.Sum256([]byte(input))
	encoded := base32.StdEncoding.EncodeToString(hash[:])
	if length <= 0 {
		return ""
	}
	if length > len(encoded) {
		length = len(encoded)
	}
	return internalstrings.NormalizeLower(encoded[:length])
}

// GenerateFromParts joins parts with a separator before hashing.
func GenerateFromParts(length int, parts ...string) string {
	return Generate(strings.Join(parts, "\x00"), length)
}
