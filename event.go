package sistosched

import "fmt"

// Timed is what the replay engine and the renderers need from a timeline entry.
type Timed interface {
	Span() (start, end int)
	Owner() string
}

// Event is one contiguous CPU slice of a process, Start < End.
type Event struct {
	PID   string
	Start int
	End   int
}

func (e Event) Span() (int, int) { return e.Start, e.End }
func (e Event) Owner() string    { return e.PID }
func (e Event) Len() int         { return e.End - e.Start }

func (e Event) String() string {
	return fmt.Sprintf("%s(%d→%d)", e.PID, e.Start, e.End)
}

type AccessStatus int

const (
	Accessed AccessStatus = iota
	Waiting
)

// the spelling of ACCESED is part of the output format
func (s AccessStatus) String() string {
	return enumName(s, "AccessStatus", "ACCESED", "WAITING")
}

// ActionEvent is the outcome of one action in one cycle. It always spans exactly one cycle.
type ActionEvent struct {
	Event
	Resource string
	Status   AccessStatus
}

func (e ActionEvent) String() string {
	return fmt.Sprintf("%s(%d→%d,%s,%s)", e.PID, e.Start, e.End, e.Resource, e.Status)
}

// MaxCycle is the largest End in events, 0 when there are none.
func MaxCycle[T Timed](events []T) int {
	m := 0
	for _, e := range events {
		_, end := e.Span()
		m = max(m, end)
	}
	return m
}

// EventsOf returns pid's slices in timeline order.
func EventsOf[T Timed](events []T, pid string) []T {
	out := make([]T, 0)
	for _, e := range events {
		if e.Owner() == pid {
			out = append(out, e)
		}
	}
	return out
}
