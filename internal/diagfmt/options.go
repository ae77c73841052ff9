package diagfmt

import (
	"path/filepath"

	"hl7play/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures human-readable output.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	Width    int // ширина колонки текста токена, 0: по умолчанию
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	PathMode PathMode
	Max      int // обрезка вывода, 0: без ограничений
}

// FormatPath renders the path of f according to mode.
func FormatPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	if f == nil {
		return ""
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return abs
		}
		return f.Path
	case PathModeBasename:
		return f.BaseName()
	case PathModeRelative, PathModeAuto:
		if fs != nil && fs.BaseDir() != "" {
			if rel, err := filepath.Rel(fs.BaseDir(), f.Path); err == nil {
				return rel
			}
		}
		return f.Path
	}
	return f.Path
}
