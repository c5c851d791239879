package report

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/kolah/canon/internal/naming"
)

func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
		"join":       strings.Join,
		"title":      naming.Title,
		"quote":      strconv.Quote,
		"joinAny":    JoinAny,
		"padRight":   PadRight,
		"sortedKeys": SortedKeys,
		"onOff":      OnOff,
	}
}

// JoinAny joins enumeration values with sep.
func JoinAny(values []any, sep string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprint(v))
	}
	return strings.Join(parts, sep)
}

// PadRight pads s with spaces to width.
func PadRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// SortedKeys returns the keys of a string-keyed map in sorted order.
func SortedKeys(m any) []string {
	var keys []string
	switch v := m.(type) {
	case map[string]string:
		for k := range v {
			keys = append(keys, k)
		}
	case map[string]bool:
		for k := range v {
			keys = append(keys, k)
		}
	case map[string]any:
		for k := range v {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

func OnOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
