package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"hl7play/internal/validator"
)

// FileNames maps each resource to its conventional file name in a
// workspace directory. XML names follow the zip bundle layout.
var FileNames = map[validator.ResourceType]string{
	validator.Profile:       "Profile.xml",
	validator.Constraints:   "Constraints.xml",
	validator.ValueSet:      "ValueSets.xml",
	validator.ValueSetSpec:  "Bindings.xml",
	validator.CoConstraints: "CoConstraints.xml",
	validator.Slicing:       "Slicing.xml",
	validator.Configuration: "Configuration.conf",
	validator.Message:       "Message.hl7",
}

// LoadDir reads every conventional file present in dir. Missing files leave
// their slot empty.
func LoadDir(dir string) (*Workspace, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open workspace: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open workspace: %s is not a directory", dir)
	}
	ws := New()
	for _, rt := range validator.ResourceTypes {
		data, err := os.ReadFile(filepath.Join(dir, FileNames[rt]))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", rt, err)
		}
		ws.Put(rt, string(data))
	}
	return ws, nil
}

// SaveDir writes every non-empty slot to dir, creating it when needed.
func (ws *Workspace) SaveDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, rt := range ws.NonEmpty() {
		p := filepath.Join(dir, FileNames[rt])
		if err := os.WriteFile(p, []byte(ws.Text(rt)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", rt, err)
		}
	}
	return nil
}
