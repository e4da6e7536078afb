package convert

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is appended to the base name when the output already exists.
const TimestampLayout = "20060102-150405"

// ResolveOutputPath returns <dir>/<base>.<ext>. When that file already
// exists the base name gets a _<timestamp> suffix instead. The check is
// done once; renamed reports whether the suffix was added.
func ResolveOutputPath(dir, base, ext string, now time.Time) (path string, renamed bool) {
	base = strings.TrimSpace(base)
	path = filepath.Join(dir, base+"."+ext)
	if !exists(path) {
		return path, false
	}
	return filepath.Join(dir, base+"_"+now.Format(TimestampLayout)+"."+ext), true
}

// DefaultName is the input's file name without directory or extension.
func DefaultName(input string) string {
	file := filepath.Base(input)
	return strings.TrimSuffix(file, filepath.Ext(file))
}

// DefaultDir picks the configured output directory, or the input's own
// directory when none is configured.
func DefaultDir(configured, input string) string {
	if configured != "" {
		return configured
	}
	return filepath.Dir(input)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
