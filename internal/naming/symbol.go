package naming

import (
	"strings"
	"unicode"
)

// Sanitize turns an operation identifier into a valid symbol. A space or
// slash followed by a letter joins the two words camel-case; every other
// character outside letters, digits and underscore becomes an underscore.
func Sanitize(id string) string {
	if IsKeyword(id) {
		id += "_"
	}

	runes := []rune(id)
	var sb strings.Builder
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if (r == ' ' || r == '/') && i+1 < len(runes) && unicode.IsLetter(runes[i+1]) {
			i++
			r = unicode.ToUpper(runes[i])
		}
		if !isSymbolRune(r) {
			sb.WriteRune('_')
			continue
		}
		sb.WriteRune(r)
	}

	out := sb.String()
	if out == "" {
		return "X"
	}
	if unicode.IsDigit([]rune(out)[0]) {
		return "X" + out
	}
	return out
}

// Title upper-cases the first letter of every word of s and joins the
// words, leaving the rest of each word untouched: "pet_type" becomes
// "PetType" and "HTTPServer" stays as is.
func Title(s string) string {
	var sb strings.Builder
	start := true
	for _, r := range s {
		if !isSymbolRune(r) || r == '_' {
			start = true
			continue
		}
		if start {
			sb.WriteRune(unicode.ToUpper(r))
			start = false
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Join builds a synthesized component name from an owner name and the
// title-cased parts appended to it.
func Join(owner string, parts ...string) string {
	var sb strings.Builder
	sb.WriteString(owner)
	for _, p := range parts {
		sb.WriteString(Title(p))
	}
	return sb.String()
}

func isSymbolRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
