package internal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// KeyKind tells a catalog lookup which index to use.
type KeyKind int

const (
	KeyID KeyKind = iota
	KeyFingerprint
)

// Key is a tagged lookup key, constructed at the CLI boundary so the
// catalog never has to guess what a raw string means.
type Key struct {
	Kind        KeyKind
	ID          int64
	Fingerprint string
}

var (
	idPattern          = regexp.MustCompile(`^[0-9]{1,6}$`)
	fingerprintPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)
)

// ParseKey resolves intent by shape: a numeric key up to 6 digits is a
// catalog ID, a 32-character hex string is a fingerprint. Anything else
// is rejected.
func ParseKey(raw string) (Key, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case idPattern.MatchString(raw):
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return Key{}, fmt.Errorf("invalid catalog id %q", raw)
		}
		return Key{Kind: KeyID, ID: id}, nil
	case fingerprintPattern.MatchString(strings.ToLower(raw)):
		return Key{Kind: KeyFingerprint, Fingerprint: strings.ToLower(raw)}, nil
	}
	return Key{}, fmt.Errorf("key %q is neither a catalog id (1-6 digits) nor a fingerprint (32 hex chars)", raw)
}

// FormatID renders the zero-padded external form of a catalog id ("fid").
func FormatID(id int64) string {
	return fmt.Sprintf("%06d", id)
}
