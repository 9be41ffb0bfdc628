package seed

import (
	"strings"
	"unicode"
)

// slugify lowercases s and joins its letter and digit runs with dashes.
func slugify(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, "-")
}
