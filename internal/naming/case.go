package naming

import (
	"strings"
	"unicode"
)

var defaultInitialisms = []string{
	"API", "ASCII", "CPU", "CSS", "DNS", "EOF", "GUID", "HTML", "HTTP", "HTTPS",
	"ID", "IP", "JSON", "LHS", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP", "SQL",
	"SSH", "TCP", "TLS", "TTL", "UDP", "UI", "UID", "UUID", "URI", "URL", "UTF8",
	"VM", "XML", "XMPP", "XSRF", "XSS", "CVV",
}

// Namer renders identifiers for the emitter. Each session owns its own
// Namer so additional initialisms never leak between documents.
type Namer struct {
	initialisms map[string]bool
}

func NewNamer(additional []string) *Namer {
	n := &Namer{initialisms: make(map[string]bool, len(defaultInitialisms)+len(additional))}
	for _, init := range defaultInitialisms {
		n.initialisms[init] = true
	}
	for _, init := range additional {
		n.initialisms[strings.ToUpper(init)] = true
	}
	return n
}

func (n *Namer) PascalCase(s string) string {
	var result strings.Builder
	for _, word := range splitWords(s) {
		upper := strings.ToUpper(word)
		if n.initialisms[upper] {
			result.WriteString(upper)
		} else {
			result.WriteString(capitalize(word))
		}
	}
	return result.String()
}

func (n *Namer) CamelCase(s string) string {
	var result strings.Builder
	for i, word := range splitWords(s) {
		if i == 0 {
			result.WriteString(strings.ToLower(word))
			continue
		}
		upper := strings.ToUpper(word)
		if n.initialisms[upper] {
			result.WriteString(upper)
		} else {
			result.WriteString(capitalize(word))
		}
	}
	return result.String()
}

// Identifier returns an exported identifier for s.
func (n *Namer) Identifier(s string) string {
	result := n.PascalCase(s)
	if len(result) == 0 {
		return "X"
	}
	if unicode.IsDigit(rune(result[0])) {
		return "X" + result
	}
	return result
}

// FieldName returns the identifier a property is rendered under.
func (n *Namer) FieldName(s string) string {
	return EscapeKeyword(n.Identifier(s))
}

func SnakeCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "_")
}

func splitWords(s string) []string {
	var words []string
	var current strings.Builder

	for i, r := range s {
		if r == '_' || r == '-' || r == ' ' || r == '.' || r == '/' {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
			continue
		}

		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				if current.Len() > 0 {
					words = append(words, current.String())
					current.Reset()
				}
			}
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

func IsKeyword(s string) bool {
	return goKeywords[strings.ToLower(s)]
}

func EscapeKeyword(s string) string {
	if IsKeyword(s) {
		return s + "_"
	}
	return s
}
