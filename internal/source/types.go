package source

type (
	// FileID uniquely identifies a document within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a document.
	FileFlags uint8
)

const (
	// FileVirtual marks a document added from memory (editor buffer, stdin, test).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
)

// File captures metadata and content for a single document.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of the last byte of each line break
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a document.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}

// Line is one line of a document without its terminating newline.
type Line struct {
	Number uint32 // 1-based
	Start  uint32 // byte offset of the first character
	Text   string
}
