// Package normalize maps raw country strings onto the canonical names used by
// the boundary dataset.
package normalize

import (
	"maps"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/listenupapp/repostmap/internal/domain"
)

// Normalizer trims country strings and applies an exact-match alias table.
// No fuzzy matching and no case folding.
type Normalizer struct {
	aliases map[string]string
	compose bool
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithUnicodeComposition composes raw values to NFC before the alias lookup,
// so a decomposed "Co\u0302te d'Ivoire" meets the composed alias key.
func WithUnicodeComposition() Option {
	return func(n *Normalizer) {
		n.compose = true
	}
}

// New creates a Normalizer over a copy of aliases.
func New(aliases map[string]string, opts ...Option) *Normalizer {
	n := &Normalizer{aliases: maps.Clone(aliases)}
	if n.aliases == nil {
		n.aliases = map[string]string{}
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Country returns the canonical form of raw: trimmed, then substituted when
// the trimmed value is an alias key, else passed through unchanged.
func (n *Normalizer) Country(raw string) string {
	s := strings.TrimSpace(raw)
	if n.compose {
		s = norm.NFC.String(s)
	}
	if canonical, ok := n.aliases[s]; ok {
		return canonical
	}
	return s
}

// Apply normalizes the country of every record in place. Records whose
// country is null are left untouched.
func (n *Normalizer) Apply(records []domain.Record) {
	for i := range records {
		if !records[i].HasCountry {
			continue
		}
		records[i].Country = n.Country(records[i].Country)
	}
}
