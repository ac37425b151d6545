// Package utils holds small string helpers shared by the config, storage and
// command packages.
package utils

import (
	"strconv"
	"strings"
)

// SplitAndTrim splits s on sep, trims each part and drops the empty ones.
// It is used for comma-separated flag and environment values.
func SplitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// JSONPointerToPath renders a JSON Pointer (RFC 6901) the way users read it:
// "/0/status" becomes "[0].status". A leading "#" is accepted.
func JSONPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")

	var b strings.Builder
	for _, token := range strings.Split(ptr, "/") {
		token = pointerUnescaper.Replace(token)
		switch {
		case token == "":
			continue
		case isIndex(token):
			b.WriteString("[" + token + "]")
		default:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(token)
		}
	}
	return b.String()
}

func isIndex(token string) bool {
	n, err := strconv.Atoi(token)
	return err == nil && n >= 0 && strconv.Itoa(n) == token
}
