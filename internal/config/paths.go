package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands environment variables and a leading ~ in p. On Windows
// it also accepts ~\ and %VAR% references.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = expandWindowsEnv(p)
	}

	rest, ok := trimHome(p)
	if !ok {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if rest == "" {
		return home
	}
	return filepath.Join(home, rest)
}

// trimHome strips a leading "~" or "~/" from p.
func trimHome(p string) (string, bool) {
	if p == "~" {
		return "", true
	}
	if strings.HasPrefix(p, "~/") {
		return p[2:], true
	}
	if runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`) {
		return p[2:], true
	}
	return "", false
}

// expandWindowsEnv replaces %VAR% references with their values. Unknown
// variables are left as written.
func expandWindowsEnv(p string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(p, '%')
		if start < 0 {
			break
		}
		end := strings.IndexByte(p[start+1:], '%')
		if end < 0 {
			break
		}
		end += start + 1
		b.WriteString(p[:start])
		key := p[start+1 : end]
		if val, ok := os.LookupEnv(key); ok && key != "" {
			b.WriteString(val)
			p = p[end+1:]
			continue
		}
		b.WriteString(p[start:end])
		p = p[end:]
	}
	b.WriteString(p)
	return b.String()
}
