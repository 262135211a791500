package route

import "fmt"

// Status represents the publication state of a route.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
	StatusRejected  Status = "rejected"
	StatusArchived  Status = "archived"
)

// validTransitions defines the state machine for route status transitions.
// Moderation (pending → published/rejected) is driven by an external process.
var validTransitions = map[Status][]Status{
	StatusDraft:     {StatusPending, StatusArchived},
	StatusPending:   {StatusPublished, StatusRejected},
	StatusPublished: {StatusArchived},
	StatusRejected:  {StatusPending, StatusArchived},
	StatusArchived:  {},
}

// IsValid returns true if the status is recognized.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition to the target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible.
func (s Status) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid route status: %s", s)
	}
	return status, nil
}
