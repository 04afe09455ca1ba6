// Package utils holds small helpers shared across packages.
package utils

import (
	"strconv"
	"strings"
)

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// JSONPointerToPath converts a JSON Pointer (RFC 6901), optionally prefixed
// with "#", to the path notation used in error messages: numeric tokens
// become indices and the rest are joined with dots. "#/0/tasks/1/name"
// becomes "[0].tasks[1].name"; the root pointer becomes "".
func JSONPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, token := range strings.Split(ptr, "/") {
		if token == "" {
			continue
		}
		if _, err := strconv.Atoi(token); err == nil {
			b.WriteString("[" + token + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(pointerUnescaper.Replace(token))
	}
	return b.String()
}
