// Package slug derives the globally unique, URL-safe identifiers that
// drive the public listing pages (/p/{slug}).
package slug

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	separators   = regexp.MustCompile(`[\s-]+`)
)

// Generate normalizes address text into a slug candidate: lowercase,
// strip everything outside [a-z0-9\s-], collapse whitespace/dash runs to
// a single dash, trim leading/trailing dashes. Pure, no I/O.
func Generate(address string) string {
	s := strings.ToLower(strings.TrimSpace(address))
	s = invalidChars.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Unique returns the first free slug derived from address: the candidate
// itself, else candidate-2, candidate-3, and so on. An address that
// normalizes to nothing (e.g. fully non-Latin) falls back to a generated
// identifier rather than an empty slug.
func Unique(address string, exists func(slug string) (bool, error)) (string, error) {
	base := Generate(address)
	if base == "" {
		base = "listing-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	}
	candidate := base
	counter := 2
	for {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
		counter++
	}
}
