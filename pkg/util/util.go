// --- START OF FINAL REVISED FILE pkg/util/util.go ---
package util

import (
	"path"
	"strings"
)

// ArchiveExt is the extension of an Oryx download.
const ArchiveExt = ".zip"

// MatchesArchiveName reports whether fileName is an Oryx download selected by
// prefix. The comparison is case-sensitive, the extension is not.
func MatchesArchiveName(fileName, prefix string) bool {
	if fileName == "" || strings.ContainsAny(fileName, `/\`) {
		return false
	}
	return strings.HasPrefix(fileName, prefix) &&
		len(fileName) > len(prefix) &&
		strings.EqualFold(path.Ext(fileName), ArchiveExt)
}

// ArchiveEntryTarget returns the flattened file name an archive entry is
// extracted to. ok is false for directories, entries outside sourcePrefix and
// names that would escape the extraction directory.
func ArchiveEntryTarget(entryName, sourcePrefix string) (target string, ok bool) {
	name := strings.ReplaceAll(entryName, `\`, "/")
	if name == "" || !strings.HasPrefix(name, sourcePrefix) || strings.HasSuffix(name, "/") {
		return "", false
	}
	if !IsEnclosedName(name) {
		return "", false
	}
	base := path.Base(path.Clean(name))
	if base == "." || base == "/" || base == ".." {
		return "", false
	}
	return base, true
}

// IsEnclosedName reports whether a slash-separated archive entry name stays
// inside the directory it is extracted to: relative, no drive letter, and no
// ".." component climbing above the root.
func IsEnclosedName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || strings.ContainsRune(name, 0) {
		return false
	}
	if len(name) >= 2 && name[1] == ':' {
		return false
	}
	depth := 0
	for _, part := range strings.Split(name, "/") {
		switch part {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				return false
			}
		default:
			depth++
		}
	}
	return true
}

// --- END OF FINAL REVISED FILE pkg/util/util.go ---
