// Package workspace holds the playground state: one slot of text, status and
// grouped findings per validator resource.
//
// A Workspace is not safe for concurrent use; drivers collect results in
// parallel and apply them from one goroutine.
package workspace

import (
	"hl7play/internal/issue"
	"hl7play/internal/validator"
)

// Slot is the state of one resource.
type Slot struct {
	Text          string             `json:"text"`
	Status        issue.Status       `json:"status"`
	Issues        []issue.ClassGroup `json:"issues"`
	IssuesVisible bool               `json:"issuesVisible"`
}

// Workspace maps every resource type to its slot.
type Workspace struct {
	slots map[validator.ResourceType]*Slot
}

// New returns a workspace with every slot empty.
func New() *Workspace {
	ws := &Workspace{slots: make(map[validator.ResourceType]*Slot, len(validator.ResourceTypes))}
	for _, rt := range validator.ResourceTypes {
		ws.slots[rt] = &Slot{Issues: []issue.ClassGroup{}}
	}
	return ws
}

func (ws *Workspace) slot(rt validator.ResourceType) *Slot {
	s, ok := ws.slots[rt]
	if !ok {
		panic("workspace: unknown resource type " + string(rt))
	}
	return s
}

// Get returns a copy of the slot for rt.
func (ws *Workspace) Get(rt validator.ResourceType) Slot {
	return *ws.slot(rt)
}

// Text returns the text of rt.
func (ws *Workspace) Text(rt validator.ResourceType) string {
	return ws.slot(rt).Text
}

// Put stores text for rt. XML resources are re-indented when they parse;
// otherwise the text is kept as is. Empty text marks the slot Empty.
func (ws *Workspace) Put(rt validator.ResourceType, text string) {
	s := ws.slot(rt)
	if rt.IsXML() && text != "" {
		if pretty, err := FormatXML(text); err == nil {
			text = pretty
		}
	}
	s.Text = text
	if text == "" {
		ws.setStatus(s, issue.StatusEmpty)
		return
	}
	ws.setStatus(s, issue.StatusValued)
}

// PutIssues replaces the findings of rt with their grouped form.
func (ws *Workspace) PutIssues(rt validator.ResourceType, findings []issue.Finding) {
	s := ws.slot(rt)
	ws.setStatus(s, issue.StatusOf(findings))
	s.Issues = issue.Aggregate(findings)
}

// HideIssues collapses the findings panel of rt.
func (ws *Workspace) HideIssues(rt validator.ResourceType) {
	ws.slot(rt).IssuesVisible = false
}

func (ws *Workspace) setStatus(s *Slot, st issue.Status) {
	s.Status = st
	if st == issue.StatusInvalid {
		s.IssuesVisible = true
	}
}

// Query builds a validation request for message structure id.
func (ws *Workspace) Query(id string) validator.Query {
	return validator.Query{
		Profile:       ws.Text(validator.Profile),
		Constraints:   ws.Text(validator.Constraints),
		ValueSet:      ws.Text(validator.ValueSet),
		ValueSetSpec:  ws.Text(validator.ValueSetSpec),
		CoConstraints: ws.Text(validator.CoConstraints),
		Slicing:       ws.Text(validator.Slicing),
		Configuration: ws.Text(validator.Configuration),
		ID:            id,
		Message:       ws.Text(validator.Message),
	}
}

// Load fills every slot from q, as when loading the bundled example.
func (ws *Workspace) Load(q validator.Query) {
	for _, rt := range validator.ResourceTypes {
		ws.Put(rt, q.Get(rt))
	}
}

// Apply distributes the findings of a validation round-trip to every slot.
func (ws *Workspace) Apply(res validator.ValidationResult) {
	for _, rt := range validator.ResourceTypes {
		ws.PutIssues(rt, res.Findings(rt))
	}
}

// NonEmpty lists resource types with text, in display order.
func (ws *Workspace) NonEmpty() []validator.ResourceType {
	var out []validator.ResourceType
	for _, rt := range validator.ResourceTypes {
		if ws.slot(rt).Text != "" {
			out = append(out, rt)
		}
	}
	return out
}
