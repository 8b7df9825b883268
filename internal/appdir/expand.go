package appdir

import (
	"os"
	"path/filepath"
	"strings"
)

// Expand resolves $VAR references and a leading ~ in a configured path.
// A path that uses ~ when no home directory is known is returned as is.
func Expand(p string) string {
	p = os.ExpandEnv(p)
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
