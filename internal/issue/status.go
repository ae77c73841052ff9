package issue

// Status is the state of one playground resource.
type Status uint8

const (
	StatusEmpty Status = iota
	StatusValued
	StatusValid
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusValued:
		return "valued"
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	}
	return "unknown"
}

// StatusOf reports Invalid when any finding exists, Valid otherwise.
func StatusOf(findings []Finding) Status {
	if len(findings) > 0 {
		return StatusInvalid
	}
	return StatusValid
}
