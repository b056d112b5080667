package dispatch

import "fmt"

// UnknownAgentError is returned when an explicit agent name does not exist
// in the current registry snapshot.
type UnknownAgentError struct {
	Name string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("unknown agent: %q", e.Name)
}
