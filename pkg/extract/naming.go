package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeComponentName turns user input such as "user card" or
// "user-card" into a component name ("UserCard"). Input that contains no
// name characters yields "".
func NormalizeComponentName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_'
	})
	var b strings.Builder
	for _, part := range parts {
		r, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	return b.String()
}
