package git

import (
	"path"
	"strings"
)

func pathspecOrAll(pathspec string) string {
	if pathspec == "" {
		return "."
	}
	return pathspec
}

// underPathspec reports whether the slash-separated, repository-relative
// file lies inside the directory pathspec. An empty or "." pathspec matches
// everything.
func underPathspec(file, pathspec string) bool {
	spec := strings.TrimSuffix(path.Clean(pathspecOrAll(pathspec)), "/")
	if spec == "." {
		return true
	}
	return file == spec || strings.HasPrefix(file, spec+"/")
}
