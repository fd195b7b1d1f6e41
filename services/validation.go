// ABOUTME: Input validation for caller keys taken from URLs and webhooks
// ABOUTME: Keeps phone hashes safe as file names and SQL keys

package services

import (
	"fmt"
	"regexp"
	"strings"
)

// phoneHashPattern matches HashPhone output as well as shorter hand-made
// keys such as "abc123". No dots or slashes, so a hash is always a plain
// file name.
var phoneHashPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// sanitizeForLog removes control characters from strings to prevent log injection
// when including user input in error messages
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1 // Remove control characters
		}
		return r
	}, s)
}

// ValidPhoneHash reports whether s can be used as a caller key.
func ValidPhoneHash(s string) bool {
	return phoneHashPattern.MatchString(s)
}

// ValidatePhoneHash returns an error wrapping ErrInvalidPhoneHash when s
// is not a usable caller key.
func ValidatePhoneHash(s string) error {
	if !ValidPhoneHash(s) {
		return fmt.Errorf("%w: %q", ErrInvalidPhoneHash, sanitizeForLog(s))
	}
	return nil
}
