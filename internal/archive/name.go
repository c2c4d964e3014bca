package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// Globs select candidate archive files in a directory.
var Globs = []string{"*legi_*.tar.*", "*legi_*.tgz"}

var nameRe = regexp.MustCompile(`^(.+_)?legi(_global)?_([0-9]{8}-[0-9]{6})\..+$`)

// Name is the information carried by an archive file name.
type Name struct {
	File string
	Date string // YYYYMMDD-HHMMSS, sorts chronologically
	Full bool   // Full snapshot (legi_global_...) rather than a delta
}

// ParseName extracts the snapshot type and date from an archive file name
// such as "Freemium_legi_global_20200101-000000.tar.gz" or
// "legi_20200102-211500.tar.gz".
func ParseName(file string) (Name, bool) {
	m := nameRe.FindStringSubmatch(filepath.Base(file))
	if m == nil {
		return Name{}, false
	}
	return Name{File: file, Date: m[3], Full: m[2] != ""}, true
}

// List returns the archive candidates of dir in ascending file name order.
func List(dir string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("failed to access archive directory: %w", err)
	}
	var files []string
	for _, pattern := range Globs {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to list archives: %w", err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}
