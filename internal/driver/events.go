package driver

// Status is the progress state of one resource check.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusWorking:
		return "checking"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	}
	return ""
}

// Event reports progress of a CheckAll run.
type Event struct {
	Resource string
	Status   Status
}

// ProgressSink receives events; it is called from worker goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events to a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch != nil {
		s.Ch <- ev
	}
}

func (r *Runner) emit(resource string, st Status) {
	if r.Progress != nil {
		r.Progress.OnEvent(Event{Resource: resource, Status: st})
	}
}
