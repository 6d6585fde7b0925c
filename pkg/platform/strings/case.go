package strings

import (
	"strings"
	"unicode"
)

// ToSnakeCase turns a Go field name into its JSON name, keeping acronyms
// together: "FrontendHostnames" -> "frontend_hostnames",
// "SignedIdAlias" -> "signed_id_alias", "IDToken" -> "id_token".
func ToSnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
			acronymEnd := unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || acronymEnd {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
