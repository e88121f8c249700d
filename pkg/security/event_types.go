// pkg/security/event_types.go
package security

import (
	"fmt"
	"time"
)

// EventType names an audited account action
type EventType string

const (
	EventTypeRegistered        EventType = "registered"
	EventTypeLoginSuccess      EventType = "login_success"
	EventTypeLoginFailed       EventType = "login_failed"
	EventTypeTokenRefreshed    EventType = "token_refreshed"
	EventTypeTokenRejected     EventType = "token_rejected"
	EventTypeAdminAccessDenied EventType = "admin_access_denied"
)

// Severity ranks an event for alerting
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var validEventTypes = []EventType{
	EventTypeRegistered,
	EventTypeLoginSuccess,
	EventTypeLoginFailed,
	EventTypeTokenRefreshed,
	EventTypeTokenRejected,
	EventTypeAdminAccessDenied,
}

var validSeverities = []Severity{
	SeverityLow,
	SeverityMedium,
	SeverityHigh,
	SeverityCritical,
}

// Event is one audited action
type Event struct {
	Type        EventType `json:"type"`
	Severity    Severity  `json:"severity"`
	Username    string    `json:"username,omitempty"`
	Description string    `json:"description"`
	IPAddress   string    `json:"ip_address,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ParseEventType converts a string to a known EventType
func ParseEventType(s string) (EventType, error) {
	for _, t := range validEventTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown event type: %s", s)
}

// ParseSeverity converts a string to a known Severity
func ParseSeverity(s string) (Severity, error) {
	for _, sev := range validSeverities {
		if string(sev) == s {
			return sev, nil
		}
	}
	return "", fmt.Errorf("unknown severity: %s", s)
}

// ValidEventTypes returns all valid event types
func ValidEventTypes() []EventType {
	return append([]EventType(nil), validEventTypes...)
}

// ValidSeverities returns all valid severities
func ValidSeverities() []Severity {
	return append([]Severity(nil), validSeverities...)
}

// IsValidEventType checks if the event type string is valid
func IsValidEventType(eventType string) bool {
	_, err := ParseEventType(eventType)
	return err == nil
}

// IsValidSeverity checks if the severity string is valid
func IsValidSeverity(severity string) bool {
	_, err := ParseSeverity(severity)
	return err == nil
}

// AtLeast reports whether s is as severe as min
func (s Severity) AtLeast(min Severity) bool {
	return s.rank() >= min.rank()
}

func (s Severity) rank() int {
	for i, sev := range validSeverities {
		if sev == s {
			return i
		}
	}
	return -1
}
