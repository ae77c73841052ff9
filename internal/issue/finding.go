package issue

import "fmt"

// Finding is one issue reported by the remote validator.
type Finding struct {
	Classification string `json:"classification" msgpack:"classification"`
	Category       string `json:"category" msgpack:"category"`
	Description    string `json:"description" msgpack:"description"`
	Line           int    `json:"line" msgpack:"line"`
	Column         int    `json:"column" msgpack:"column"`
	Path           string `json:"path" msgpack:"path"`
}

// Location formats the finding position as line:column[ path].
func (f Finding) Location() string {
	if f.Path == "" {
		return fmt.Sprintf("%d:%d", f.Line, f.Column)
	}
	return fmt.Sprintf("%d:%d %s", f.Line, f.Column, f.Path)
}
