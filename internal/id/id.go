// Package id generates prefixed record identifiers.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for every persisted record type.
const (
	PrefixBook       = "book"
	PrefixArtwork    = "art"
	PrefixSeries     = "series"
	PrefixSuggestion = "sugg"
	PrefixProfile    = "profile"
	PrefixGoal       = "goal"
	PrefixUser       = "user"
	PrefixSession    = "session"
)

// Generate returns prefix-<nanoid>, e.g. "book-V1StGXR8_Z5jdHi6B-myT".
// It fails only when the system entropy source does.
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}

// HasPrefix reports whether v was generated with prefix.
func HasPrefix(v, prefix string) bool {
	return strings.HasPrefix(v, prefix+"-") && len(v) > len(prefix)+1
}
