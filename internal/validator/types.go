package validator

import (
	"fmt"
	"strings"

	"hl7play/internal/issue"
)

// ResourceType names one playground resource slot.
type ResourceType string

const (
	Profile       ResourceType = "Profile"
	ValueSet      ResourceType = "VsLib"
	ValueSetSpec  ResourceType = "ValueSetSpec"
	Configuration ResourceType = "Configuration"
	Constraints   ResourceType = "Constraints"
	CoConstraints ResourceType = "CoConstraints"
	Slicing       ResourceType = "Slicing"
	Message       ResourceType = "Message"
)

// ResourceTypes lists every slot in the order the playground shows them.
var ResourceTypes = []ResourceType{
	Profile, Constraints, ValueSet, ValueSetSpec, CoConstraints, Slicing, Configuration, Message,
}

// IsXML reports whether the resource is an XML document.
func (r ResourceType) IsXML() bool {
	switch r {
	case Profile, ValueSet, ValueSetSpec, Constraints, CoConstraints, Slicing:
		return true
	default:
		return false
	}
}

// ParseResourceType accepts the wire name, case-insensitively.
func ParseResourceType(s string) (ResourceType, error) {
	for _, r := range ResourceTypes {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown resource type %q", s)
}

// Query is the body of a full validation request.
type Query struct {
	Profile       string `json:"profile" msgpack:"profile"`
	Constraints   string `json:"constraints" msgpack:"constraints"`
	ValueSet      string `json:"vsLib" msgpack:"vsLib"`
	ValueSetSpec  string `json:"vsSpec" msgpack:"vsSpec"`
	CoConstraints string `json:"coConstraints" msgpack:"coConstraints"`
	Slicing       string `json:"slicing" msgpack:"slicing"`
	Configuration string `json:"configuration" msgpack:"configuration"`
	ID            string `json:"id" msgpack:"id"`
	Message       string `json:"message" msgpack:"message"`
}

// Get returns the text of one slot of the query.
func (q Query) Get(r ResourceType) string {
	switch r {
	case Profile:
		return q.Profile
	case Constraints:
		return q.Constraints
	case ValueSet:
		return q.ValueSet
	case ValueSetSpec:
		return q.ValueSetSpec
	case CoConstraints:
		return q.CoConstraints
	case Slicing:
		return q.Slicing
	case Configuration:
		return q.Configuration
	case Message:
		return q.Message
	}
	return ""
}

// ParseQuery is the body of a message parse request.
type ParseQuery struct {
	Profile string `json:"profile"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// CheckResourceResult is the outcome of checking one resource.
type CheckResourceResult struct {
	Status bool            `json:"status" msgpack:"status"`
	Issues []issue.Finding `json:"issues" msgpack:"issues"`
}

// ValidationResult is the outcome of a full validation round-trip.
// Message findings arrive as a bare list.
type ValidationResult struct {
	Profile       CheckResourceResult `json:"profile" msgpack:"profile"`
	Constraints   CheckResourceResult `json:"constraints" msgpack:"constraints"`
	ValueSet      CheckResourceResult `json:"vsLib" msgpack:"vsLib"`
	ValueSetSpec  CheckResourceResult `json:"vsSpec" msgpack:"vsSpec"`
	CoConstraints CheckResourceResult `json:"coConstraints" msgpack:"coConstraints"`
	Slicing       CheckResourceResult `json:"slicing" msgpack:"slicing"`
	Configuration CheckResourceResult `json:"configuration" msgpack:"configuration"`
	Message       []issue.Finding     `json:"message" msgpack:"message"`
}

// Findings returns the findings reported for one slot.
func (r ValidationResult) Findings(rt ResourceType) []issue.Finding {
	switch rt {
	case Profile:
		return r.Profile.Issues
	case Constraints:
		return r.Constraints.Issues
	case ValueSet:
		return r.ValueSet.Issues
	case ValueSetSpec:
		return r.ValueSetSpec.Issues
	case CoConstraints:
		return r.CoConstraints.Issues
	case Slicing:
		return r.Slicing.Issues
	case Configuration:
		return r.Configuration.Issues
	case Message:
		return r.Message
	}
	return nil
}
