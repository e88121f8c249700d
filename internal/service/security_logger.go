// internal/service/security_logger.go
package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gurkanbulca/todo/internal/middleware"
	"github.com/gurkanbulca/todo/pkg/security"
)

const defaultRecentEventsLimit = 100

// SecurityLogger writes account events to the log and keeps the most recent
// ones in memory for the admin view.
type SecurityLogger struct {
	mu     sync.Mutex
	limit  int
	events []security.Event
	now    func() time.Time
}

// NewSecurityLogger creates a logger that remembers up to limit events
func NewSecurityLogger(limit int) *SecurityLogger {
	if limit <= 0 {
		limit = defaultRecentEventsLimit
	}
	return &SecurityLogger{
		limit: limit,
		now:   time.Now,
	}
}

// LogFromContext records an event, filling in the client details from ctx
func (sl *SecurityLogger) LogFromContext(ctx context.Context, eventType security.EventType, severity security.Severity, username, description string) {
	clientInfo := middleware.GetClientInfoFromContext(ctx)
	if username == "" {
		username = clientInfo.Username
	}

	event := security.Event{
		Type:        eventType,
		Severity:    severity,
		Username:    username,
		Description: description,
		IPAddress:   clientInfo.IPAddress,
		UserAgent:   clientInfo.UserAgent,
		OccurredAt:  sl.now().UTC(),
	}

	level := "INFO"
	if severity.AtLeast(security.SeverityMedium) {
		level = "WARN"
	}
	log.Printf("[%s] security event %s (user: %s, ip: %s): %s",
		level, event.Type, event.Username, event.IPAddress, event.Description)

	sl.mu.Lock()
	defer sl.mu.Unlock()

	sl.events = append(sl.events, event)
	if overflow := len(sl.events) - sl.limit; overflow > 0 {
		sl.events = append([]security.Event(nil), sl.events[overflow:]...)
	}
}

// Recent returns up to n events, newest first. n <= 0 returns all retained events.
func (sl *SecurityLogger) Recent(n int) []security.Event {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if n <= 0 || n > len(sl.events) {
		n = len(sl.events)
	}
	out := make([]security.Event, 0, n)
	for i := len(sl.events) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, sl.events[i])
	}
	return out
}

// Convenience methods for common security events

func (sl *SecurityLogger) LogRegistered(ctx context.Context, username string) {
	sl.LogFromContext(ctx, security.EventTypeRegistered, security.SeverityLow, username,
		"Account registered")
}

func (sl *SecurityLogger) LogLoginSuccess(ctx context.Context, username string) {
	sl.LogFromContext(ctx, security.EventTypeLoginSuccess, security.SeverityLow, username,
		"User successfully logged in")
}

func (sl *SecurityLogger) LogLoginFailed(ctx context.Context, username, reason string) {
	sl.LogFromContext(ctx, security.EventTypeLoginFailed, security.SeverityMedium, username,
		"Login failed: "+reason)
}

func (sl *SecurityLogger) LogTokenRefreshed(ctx context.Context, username string) {
	sl.LogFromContext(ctx, security.EventTypeTokenRefreshed, security.SeverityLow, username,
		"Access token refreshed")
}

func (sl *SecurityLogger) LogTokenRejected(ctx context.Context, reason string) {
	sl.LogFromContext(ctx, security.EventTypeTokenRejected, security.SeverityMedium, "",
		"Token rejected: "+reason)
}

func (sl *SecurityLogger) LogAdminAccessDenied(ctx context.Context, username, resource string) {
	sl.LogFromContext(ctx, security.EventTypeAdminAccessDenied, security.SeverityHigh, username,
		"Admin access denied for "+resource)
}
