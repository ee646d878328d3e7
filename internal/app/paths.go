package app

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// planOutputPaths maps every input to <dir>/<basename>.<format>. Inputs that
// share a basename get a short hash of their full path appended so no two
// results overwrite each other.
func planOutputPaths(dir string, inputs []string, format string) []string {
	counts := make(map[string]int, len(inputs))
	stems := make([]string, len(inputs))
	for i, in := range inputs {
		stems[i] = stem(in)
		counts[strings.ToLower(stems[i])]++
	}
	out := make([]string, len(inputs))
	for i, in := range inputs {
		name := stems[i]
		if counts[strings.ToLower(name)] > 1 {
			h := sha256.Sum256([]byte(filepath.Clean(in)))
			name += "-" + hex.EncodeToString(h[:])[:8]
		}
		out[i] = filepath.Join(dir, name+"."+format)
	}
	return out
}

func stem(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "document"
	}
	return base
}
