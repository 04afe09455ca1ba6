package config

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// windowsVar matches %VAR% references.
var windowsVar = regexp.MustCompile(`%[^%]+%`)

// expandPath expands environment variables ($VAR, and %VAR% on Windows) and
// a leading ~ in a configured path. Unset %VAR% references are kept as is.
func expandPath(p string) string {
	if p == "" {
		return ""
	}
	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = windowsVar.ReplaceAllStringFunc(p, func(ref string) string {
			if v, ok := os.LookupEnv(ref[1 : len(ref)-1]); ok {
				return v
			}
			return ref
		})
	}
	return expandHome(p)
}

// expandHome replaces a leading "~" or "~/" with the home directory. "~user"
// forms are left alone.
func expandHome(p string) string {
	rest, ok := strings.CutPrefix(p, "~")
	if !ok {
		return p
	}
	if rest != "" && rest[0] != '/' && (runtime.GOOS != "windows" || rest[0] != '\\') {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}
