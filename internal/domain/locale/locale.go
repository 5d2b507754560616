// Package locale defines the closed set of locales documents can be tagged with.
package locale

import (
	"fmt"

	"github.com/kailas-cloud/simplerag/internal/domain"
)

// Key is the metadata field that stores a document's locale.
// The seeder writes it and the filter builder reads it; both must use this constant.
const Key = "locale"

// Locale is a supported language/region tag. The zero value means "no locale".
type Locale string

// Supported locales. The string value is the canonical tag stored in metadata.
const (
	EnUS Locale = "en-US"
	PtBR Locale = "pt-BR"
	EsMX Locale = "es-MX"
	FrFR Locale = "fr-FR"
	ItIT Locale = "it-IT"
)

var supported = []Locale{EnUS, PtBR, EsMX, FrFR, ItIT}

// All returns the supported locales in a stable order.
func All() []Locale {
	out := make([]Locale, len(supported))
	copy(out, supported)
	return out
}

// Parse resolves token to a supported Locale by exact, case-sensitive match.
func Parse(token string) (Locale, error) {
	for _, l := range supported {
		if string(l) == token {
			return l, nil
		}
	}
	return "", fmt.Errorf("locale %q: %w", token, domain.ErrUnsupportedLocale)
}

// IsZero reports whether no locale is set.
func (l Locale) IsZero() bool { return l == "" }

// String returns the canonical tag.
func (l Locale) String() string { return string(l) }
