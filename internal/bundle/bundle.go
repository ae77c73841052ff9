// Package bundle reads the zip bundles exported by profile authoring tools.
package bundle

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"

	"hl7play/internal/validator"
	"hl7play/internal/workspace"
)

// Entry names inside a bundle.
const (
	EntryProfile       = "Profile.xml"
	EntryConstraints   = "Constraints.xml"
	EntrySlicing       = "Slicing.xml"
	EntryCoConstraints = "CoConstraints.xml"
	EntryValueSets     = "ValueSets.xml"
	EntryBindings      = "Bindings.xml"
)

const maxEntrySize = 64 << 20

// Bundle is the content of one zip bundle. Missing entries are empty.
type Bundle struct {
	Profile       string
	Constraints   string
	Slicing       string
	CoConstraints string
	ValueSets     string
	Bindings      string
}

// Read parses a bundle from r.
func Read(r io.ReaderAt, size int64) (Bundle, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Bundle{}, fmt.Errorf("open bundle: %w", err)
	}
	return fromZip(zr)
}

func fromZip(zr *zip.Reader) (Bundle, error) {
	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		// первая запись с таким именем выигрывает
		name := path.Clean(f.Name)
		if _, dup := entries[name]; !dup {
			entries[name] = f
		}
	}

	var b Bundle
	for _, e := range []struct {
		name string
		dst  *string
	}{
		{EntryProfile, &b.Profile},
		{EntryConstraints, &b.Constraints},
		{EntrySlicing, &b.Slicing},
		{EntryCoConstraints, &b.CoConstraints},
		{EntryValueSets, &b.ValueSets},
		{EntryBindings, &b.Bindings},
	} {
		f, ok := entries[e.name]
		if !ok {
			continue
		}
		text, err := readEntry(f)
		if err != nil {
			return Bundle{}, fmt.Errorf("read %s: %w", e.name, err)
		}
		*e.dst = text
	}
	return b, nil
}

// ReadBytes parses a bundle held in memory.
func ReadBytes(data []byte) (Bundle, error) {
	return Read(bytes.NewReader(data), int64(len(data)))
}

// Open parses the bundle file at name.
func Open(name string) (Bundle, error) {
	zr, err := zip.OpenReader(name)
	if err != nil {
		return Bundle{}, fmt.Errorf("open bundle: %w", err)
	}
	defer zr.Close()
	return fromZip(&zr.Reader)
}

func readEntry(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxEntrySize {
		return "", fmt.Errorf("entry larger than %d bytes", maxEntrySize)
	}
	return string(data), nil
}

// Apply fills the workspace slots the bundle carries. Bindings go to the
// value set specification slot.
func (b Bundle) Apply(ws *workspace.Workspace) {
	ws.Put(validator.Constraints, b.Constraints)
	ws.Put(validator.ValueSet, b.ValueSets)
	ws.Put(validator.ValueSetSpec, b.Bindings)
	ws.Put(validator.Slicing, b.Slicing)
	ws.Put(validator.Profile, b.Profile)
	ws.Put(validator.CoConstraints, b.CoConstraints)
}
