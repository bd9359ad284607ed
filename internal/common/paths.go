package common

import (
	"path/filepath"
	"strings"
)

// CommonDir returns the deepest directory containing every path.
// Paths are cleaned first; an empty input yields "".
func CommonDir(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	common := splitDir(filepath.Dir(filepath.Clean(paths[0])))

	for _, p := range paths[1:] {
		dir := splitDir(filepath.Dir(filepath.Clean(p)))

		n := 0
		for n < len(common) && n < len(dir) && common[n] == dir[n] {
			n++
		}

		common = common[:n]
	}

	if len(common) == 0 {
		return ""
	}

	joined := strings.Join(common, string(filepath.Separator))
	if joined == "" {
		return string(filepath.Separator)
	}

	return joined
}

// splitDir splits a directory on the path separator. An absolute path keeps
// a leading empty element so that the root is shared.
func splitDir(dir string) []string {
	if dir == string(filepath.Separator) {
		return []string{""}
	}

	return strings.Split(dir, string(filepath.Separator))
}
