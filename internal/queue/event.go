// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// ThoughtEvent is published whenever a thought is created, liked or
// deleted. It carries enough information for downstream consumers to
// log or aggregate activity without querying the primary database.
type ThoughtEvent struct {
	Action     string `json:"action"` // created | liked | deleted
	ThoughtID  uint64 `json:"thought_id"`
	UserID     uint64 `json:"user_id"`
	Hearts     uint64 `json:"hearts"`
	Message    string `json:"message"`
	OccurredAt string `json:"occurred_at"`
}
