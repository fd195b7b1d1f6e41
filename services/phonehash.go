// ABOUTME: Caller phone-number hashing for memory lookup keys
// ABOUTME: Normalizes numbers to digits and derives a BLAKE3 keyed hash

package services

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"
)

// callerDomainKey separates caller hashes from any other BLAKE3 use.
// Changing it orphans every stored caller memory.
var callerDomainKey = [32]byte{
	'c', 'a', 'l', 'l', 'b', 'r', 'i', 'd', 'g', 'e', '.', 'c', 'a', 'l', 'l', 'e',
	'r', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// NormalizePhone keeps only the ASCII digits of a caller ID, so
// "+1 (555) 010-0000" and "15550100000" refer to the same caller.
func NormalizePhone(callerID string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, callerID)
}

// HashPhone returns the 64-character hex phone hash for callerID, or ""
// when it contains no digits (withheld or anonymous callers).
func HashPhone(callerID string) string {
	digits := NormalizePhone(callerID)
	if digits == "" {
		return ""
	}

	hasher, err := blake3.NewKeyed(callerDomainKey[:])
	if err != nil {
		panic("services: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write([]byte(digits))
	return hex.EncodeToString(hasher.Sum(nil))
}
