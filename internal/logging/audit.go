package logging

import (
	"context"
	"sort"

	"github.com/you/allospace/domain"
)

// AuditLogger writes audit events as structured log records. Failed
// events are logged at warn level.
type AuditLogger struct {
	log Logger
}

func NewAuditLogger(log Logger) *AuditLogger {
	return &AuditLogger{log: log.With("component", "audit")}
}

func (a *AuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	args := []any{
		"event_type", string(event.EventType),
		"account_id", event.AccountID,
		"outcome", string(event.Outcome),
		"occurred_at", event.OccurredAt,
	}
	if event.Email != "" {
		args = append(args, "email", event.Email)
	}
	keys := make([]string, 0, len(event.Attrs))
	for k := range event.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, k, event.Attrs[k])
	}

	if event.IsFailure() {
		args = append(args, "reason", event.Reason)
		a.log.Warn(ctx, "audit", args...)
		return nil
	}
	a.log.Info(ctx, "audit", args...)
	return nil
}

var _ domain.AuditLogger = (*AuditLogger)(nil)
