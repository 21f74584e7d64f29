// Package queue defines message payloads exchanged over the message broker.
package queue

// Kinds of transactional mail pushed through the email.send queue.
const (
	EmailKindVerification = "verification"
	EmailKindWelcome      = "welcome"
)

// EmailSendEvent is published whenever the platform needs to deliver a
// transactional email. It carries the fully rendered message so the
// consumer can deliver (or log) it without querying the primary database.
type EmailSendEvent struct {
	Kind     string `json:"kind"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	QueuedAt string `json:"queued_at"`
}
