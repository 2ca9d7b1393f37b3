package respond

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// StatFunc reports information about a named file. Any error means the
// file is treated as absent.
type StatFunc func(name string) (fs.FileInfo, error)

// Resolver picks the first existing path from an ordered candidate list.
// The zero value probes the local filesystem with [os.Stat].
type Resolver struct {
	Stat   StatFunc
	Logger *slog.Logger
}

// Find returns the first candidate that exists, or def when none does.
// Candidates are probed one at a time in order and the scan stops at the
// first hit. Probe errors of any kind count as a miss. An empty candidate
// list returns def without touching the filesystem.
func (r Resolver) Find(def string, candidates []string) string {
	if len(candidates) == 0 {
		return def
	}
	stat := r.Stat
	if stat == nil {
		stat = os.Stat
	}
	for _, path := range candidates {
		if _, err := stat(path); err != nil {
			if r.Logger != nil {
				r.Logger.Debug("template candidate unavailable", "path", path, "err", err)
			}
			continue
		}
		return path
	}
	return def
}

// FindView resolves candidates against the local filesystem.
func FindView(def string, candidates []string) string {
	return Resolver{}.Find(def, candidates)
}

// Lookup describes where templates are searched for. Candidates are built
// most specific first: explicit directories, then the theme, then the
// extension, then the default views directory.
type Lookup struct {
	Dirs          []string
	ThemesDir     string
	Theme         string
	ExtensionsDir string
	Extension     string
	ViewsDir      string
	FileExt       string
}

// Candidates returns the ordered candidate paths for view.
func (l Lookup) Candidates(view string) []string {
	file := ViewFile(view, l.FileExt)
	var out []string
	for _, dir := range l.Dirs {
		if dir != "" {
			out = append(out, filepath.Join(dir, file))
		}
	}
	if l.Theme != "" && l.FileExt != "" {
		out = append(out, filepath.Join(l.ThemesDir, l.Theme, "views", file))
	}
	if l.Extension != "" && l.FileExt != "" {
		out = append(out, filepath.Join(l.ExtensionsDir, l.Extension, "views", file))
	}
	if l.ViewsDir != "" {
		out = append(out, filepath.Join(l.ViewsDir, file))
	}
	return out
}

// NormalizeExt returns ext with a leading dot, or "" for an empty ext.
func NormalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// ViewFile joins a view name and a file extension, leaving the name alone
// when it already ends with the extension.
func ViewFile(view, ext string) string {
	ext = NormalizeExt(ext)
	if ext == "" || strings.HasSuffix(view, ext) {
		return view
	}
	return view + ext
}
