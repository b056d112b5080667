package adapter

import (
	"context"

	"pressroom/internal/profile"
)

type EventType string

const (
	EventToken EventType = "token"
	EventDone  EventType = "done"
	EventError EventType = "error"
)

type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// Executor runs a task against the agent persona selected by a routing
// decision. The core never inspects the persona and never retries adapter
// failures; errors surface to the caller as-is.
type Executor interface {
	Execute(ctx context.Context, p *profile.Profile, task string, emit func(Event)) error
}
