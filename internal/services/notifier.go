package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
)

const (
	EventCheckInRecorded   = "checkin.recorded"
	EventEnrollmentCreated = "enrollment.created"
)

// Event is handed to the notification collaborator (email, QR dispatch) after
// the core transaction has committed.
type Event struct {
	Type       string
	MemberID   uuid.UUID
	MemberName string
	Email      string
	Detail     string
	OccurredAt time.Time
}

type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// LogNotifier records events in the application log. It is the default
// collaborator when no outbound channel is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, event Event) error {
	slog.InfoContext(ctx, "notification dispatched",
		"event", event.Type,
		"member_id", event.MemberID.String(),
		"detail", event.Detail,
	)
	return nil
}

// dispatch delivers an event and reports failures without returning them:
// the caller's state is already durable and must not be undone.
func dispatch(ctx context.Context, n Notifier, event Event) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, event); err != nil {
		slog.WarnContext(ctx, "notification failed",
			"event", event.Type,
			"member_id", event.MemberID.String(),
			"error", err,
		)
		sentry.CaptureException(err)
	}
}
