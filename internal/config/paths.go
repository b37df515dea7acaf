package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands environment variables and a leading ~ in p.
// On Windows %VAR% references and a ~\ prefix are also expanded.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		expanded = expandWindowsEnv(expanded)
	}

	home := func() (string, bool) {
		h, err := os.UserHomeDir()
		return h, err == nil
	}
	switch {
	case expanded == "~":
		if h, ok := home(); ok {
			return h
		}
	case strings.HasPrefix(expanded, "~/"), runtime.GOOS == "windows" && strings.HasPrefix(expanded, `~\`):
		if h, ok := home(); ok {
			return filepath.Join(h, expanded[2:])
		}
	}
	return expanded
}

func expandWindowsEnv(p string) string {
	if !strings.Contains(p, "%") {
		return p
	}
	var b strings.Builder
	for i := 0; i < len(p); {
		if p[i] != '%' {
			b.WriteByte(p[i])
			i++
			continue
		}
		end := strings.IndexByte(p[i+1:], '%')
		if end < 0 {
			b.WriteString(p[i:])
			break
		}
		key := p[i+1 : i+1+end]
		if key == "" {
			b.WriteByte('%')
			i++
			continue
		}
		if val, ok := os.LookupEnv(key); ok {
			b.WriteString(val)
		} else {
			b.WriteString("%" + key + "%")
		}
		i += end + 2
	}
	return b.String()
}
