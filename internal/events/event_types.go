package events

import (
	"time"

	"github.com/red-heart/auth-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered EventType = "account_registered"
	EventAccountSignedIn   EventType = "account_signed_in"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Role      domain.Role `json:"role"`
	Email     string      `json:"email"`
	Timestamp time.Time   `json:"timestamp"`
}
