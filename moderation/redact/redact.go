// Package redact implements the small PII helpers used during moderation
// runs: masking email addresses out of text before it leaves the service, and
// one-way hashing of usernames for persisted references.
package redact

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// MaskEmail replaces every email address in text with "[REDACTED]".
func MaskEmail(text string) string {
	return emailPattern.ReplaceAllString(text, "[REDACTED]")
}

// HashUsername returns the hex SHA-256 of the username. This is a one-way
// reference; the raw username is never recoverable from it.
func HashUsername(username string) string {
	sum := sha256.Sum256([]byte(username))
	return hex.EncodeToString(sum[:])
}
