// Package id generates identifiers for imported transactions and parse runs.
package id

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// ForRow returns a stable transaction ID for a source row that carries none:
// the hex SHA-1 of its fields joined by commas.
func ForRow(fields []string) string {
	sum := sha1.Sum([]byte(strings.Join(fields, ",")))
	return hex.EncodeToString(sum[:])
}

// NewRun returns a fresh random identifier for a batch run.
func NewRun() string {
	return uuid.NewString()
}

// Short returns the first n characters of id, for display.
func Short(id string, n int) string {
	if len(id) <= n {
		return id
	}
	return id[:n]
}
