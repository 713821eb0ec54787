package auth

import "strings"

// Permission tokens used by the route groups.
const (
	PermLabAdmin = "ADMINLAB"
)

// NormalizeToken canonicalizes a permission token: uppercase, with every
// non-alphanumeric character stripped. This normalizer is deliberately
// separate from catalog-key normalization, which cares about zero
// padding instead.
func NormalizeToken(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToUpper(raw) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
