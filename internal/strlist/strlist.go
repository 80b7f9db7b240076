// Package strlist encodes string lists as single pipe-delimited strings for
// callers that cannot receive a native list type.
package strlist

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter separates list entries in the flattened form.
const Delimiter = '|'

var (
	ErrDelimiterInEntry = errors.New("strlist: entry contains delimiter")
	ErrEmptyEntry       = errors.New("strlist: empty entry")
)

// Join flattens entries into one string. No delimiter is appended after the
// last entry. Entries that could not be recovered by Split are rejected.
func Join(entries []string) (string, error) {
	for i, e := range entries {
		if e == "" {
			return "", fmt.Errorf("%w: index %d", ErrEmptyEntry, i)
		}
		if strings.IndexByte(e, Delimiter) >= 0 {
			return "", fmt.Errorf("%w: %q", ErrDelimiterInEntry, e)
		}
	}
	return strings.Join(entries, string(Delimiter)), nil
}

// Split recovers a list from its flattened form. The empty string yields an
// empty list and a single trailing delimiter is tolerated.
func Split(s string) []string {
	if s == "" {
		return []string{}
	}
	s = strings.TrimSuffix(s, string(Delimiter))
	return strings.Split(s, string(Delimiter))
}
