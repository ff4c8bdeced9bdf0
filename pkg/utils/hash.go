package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint returns a short, stable identifier for a piece of contact data so
// log lines can be correlated without writing the raw value. Case and
// surrounding whitespace are ignored.
func Fingerprint(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:12]
}
