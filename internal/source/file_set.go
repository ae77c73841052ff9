package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet manages the documents of one session and resolves spans into positions.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	baseDir string
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase создаёт FileSet с заданной базовой директорией.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// BaseDir возвращает текущую базовую директорию.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Len returns the number of documents in the set.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Add stores a document, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a document with the same path exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a document from disk, normalizes it, and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := Normalize(content)
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds an editor buffer with the FileVirtual flag. The content is
// kept byte for byte: spans of its tokens index into the caller's buffer.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the document for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Lines splits the document into lines in document order. "\r\n", "\n" and a
// bare "\r" each end one line. A trailing line break does not produce an
// extra empty line.
func (f *File) Lines() []Line {
	out := make([]Line, 0, len(f.LineIdx)+1)
	var start uint32
	for i, brk := range f.LineIdx {
		end := brk
		if f.Content[brk] == '\n' && brk > start && f.Content[brk-1] == '\r' {
			end--
		}
		out = append(out, Line{
			Number: lineNumber(i),
			Start:  start,
			Text:   string(f.Content[start:end]),
		})
		start = brk + 1
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	if start < lenContent || len(f.LineIdx) == 0 {
		out = append(out, Line{
			Number: lineNumber(len(f.LineIdx)),
			Start:  start,
			Text:   string(f.Content[start:]),
		})
	}
	return out
}

// GetLine возвращает строку с заданным номером (1-based) из файла.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	lines := f.Lines()
	if int(lineNum) > len(lines) {
		return ""
	}
	return lines[lineNum-1].Text
}

// BaseName returns the last element of the document path.
func (f *File) BaseName() string {
	return filepath.Base(f.Path)
}

func lineNumber(i int) uint32 {
	n, err := safecast.Conv[uint32](i + 1)
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	return n
}
