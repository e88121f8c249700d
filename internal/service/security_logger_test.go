// internal/service/security_logger_test.go
package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/todo/internal/middleware"
	"github.com/gurkanbulca/todo/pkg/security"
)

func TestSecurityLogger_RecentIsBounded(t *testing.T) {
	sl := NewSecurityLogger(3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		sl.LogLoginSuccess(ctx, fmt.Sprintf("user%d", i))
	}

	recent := sl.Recent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "user4", recent[0].Username)
	assert.Equal(t, "user2", recent[2].Username)

	assert.Len(t, sl.Recent(2), 2)
	assert.Len(t, sl.Recent(50), 3)
}

func TestSecurityLogger_UsesClientInfo(t *testing.T) {
	sl := NewSecurityLogger(0)
	ctx := middleware.WithClientMetadata(context.Background(), "192.0.2.1", "curl/8")
	ctx = middleware.WithIdentity(ctx, "id-1", "alice", "user")

	sl.LogAdminAccessDenied(ctx, "", "/api/admin/users")

	events := sl.Recent(1)
	require.Len(t, events, 1)
	assert.Equal(t, security.EventTypeAdminAccessDenied, events[0].Type)
	assert.Equal(t, security.SeverityHigh, events[0].Severity)
	assert.Equal(t, "alice", events[0].Username)
	assert.Equal(t, "192.0.2.1", events[0].IPAddress)
	assert.Equal(t, "curl/8", events[0].UserAgent)
	assert.False(t, events[0].OccurredAt.IsZero())
}
