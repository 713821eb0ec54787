// Package normalizer canonicalizes catalog identifiers so rows coming from
// the transactional store and the read-only corporate catalog can be joined
// even when one side zero-pads its codes and the other trims them.
package normalizer

import "strings"

// CanonicalKey strips surrounding whitespace and leading zeros.
// An empty input stays empty (non-match sentinel); an all-zero code
// collapses to "0". The function is idempotent.
func CanonicalKey(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	stripped := strings.TrimLeft(trimmed, "0")
	if stripped == "" {
		return "0"
	}
	return stripped
}

// CanonicalPadded re-pads the zero-stripped value with leading zeros up to
// max(len(trimmed input), minLen). Catalogs that store codes zero-padded to
// a fixed width match against this form.
func CanonicalPadded(raw string, minLen int) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	key := CanonicalKey(trimmed)
	width := len(trimmed)
	if minLen > width {
		width = minLen
	}
	if len(key) >= width {
		return key
	}
	return strings.Repeat("0", width-len(key)) + key
}

// MatrixKeys returns the lookup variants used when matching matrix codes:
// the trimmed raw value, its zero-stripped form, and the form padded to at
// least six characters. Duplicates are collapsed, empty input yields nil.
func MatrixKeys(raw string) []string {
	return keyVariants(raw, 6)
}

// ProfileKeys is the profile-code counterpart of MatrixKeys; profile codes
// are padded to three characters in the catalog.
func ProfileKeys(raw string) []string {
	return keyVariants(raw, 3)
}

func keyVariants(raw string, minLen int) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	variants := []string{trimmed, CanonicalKey(trimmed), CanonicalPadded(trimmed, minLen)}
	keys := make([]string, 0, len(variants))
	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		keys = append(keys, v)
	}
	return keys
}
