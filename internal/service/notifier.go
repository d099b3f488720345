package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/campus-portal/campus-api/internal/observability"
)

// Notification kinds.
const (
	NotificationRegistrationConfirmed = "registration.confirmed"
	NotificationMembershipApproved    = "membership.approved"
	NotificationClubApproved          = "club.approved"
)

// Notification is a message addressed to one user.
type Notification struct {
	Kind      string            `json:"kind"`
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
}

// Notifier hands notifications to a delivery channel.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// LogNotifier writes notifications to the log in place of real email and push delivery.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier constructs a logging notifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notifier").Logger()}
}

// Notify logs an email line and a push line for the notification.
func (n *LogNotifier) Notify(ctx context.Context, notification Notification) error {
	n.logger.Info().
		Str("kind", notification.Kind).
		Str("to", maskEmail(notification.Recipient)).
		Str("subject", notification.Subject).
		Msg("[EMAIL] " + notification.Body)
	n.logger.Info().
		Str("kind", notification.Kind).
		Str("to", maskEmail(notification.Recipient)).
		Msg("[PUSH] " + notification.Subject)
	observability.Notifications().WithLabelValues("log", "sent").Inc()
	return nil
}

type notificationEnvelope struct {
	Source       string       `json:"source"`
	Notification Notification `json:"notification"`
	SentAt       time.Time    `json:"sent_at"`
}

// NATSNotifier publishes notifications to a subject for an external delivery
// worker, then forwards them to the next notifier.
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
	next    Notifier
	nodeID  string
	logger  zerolog.Logger
}

// NewNATSNotifier constructs a publishing notifier. next may be nil.
func NewNATSNotifier(conn *nats.Conn, subject string, next Notifier, logger zerolog.Logger) *NATSNotifier {
	if subject == "" {
		subject = "campus.notifications"
	}
	return &NATSNotifier{
		conn:    conn,
		subject: subject,
		next:    next,
		nodeID:  uuid.NewString(),
		logger:  logger.With().Str("component", "nats_notifier").Logger(),
	}
}

// Notify publishes the notification. Publish failures are logged and counted
// but not returned; delivery is best effort.
func (n *NATSNotifier) Notify(ctx context.Context, notification Notification) error {
	if n.conn != nil {
		payload, err := json.Marshal(notificationEnvelope{
			Source:       n.nodeID,
			Notification: notification,
			SentAt:       time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		if err := n.conn.Publish(n.subject, payload); err != nil {
			n.logger.Warn().Err(err).Str("subject", n.subject).Msg("failed to publish notification")
			observability.Notifications().WithLabelValues("nats", "failed").Inc()
		} else {
			observability.Notifications().WithLabelValues("nats", "sent").Inc()
		}
	}

	if n.next != nil {
		return n.next.Notify(ctx, notification)
	}
	return nil
}

func maskEmail(email string) string {
	if email == "" {
		return ""
	}
	at := -1
	for i := len(email) - 1; i >= 0; i-- {
		if email[i] == '@' {
			at = i
			break
		}
	}
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at+1:]
	if len(local) <= 2 {
		return local[:1] + "***@" + domain
	}
	return local[:1] + "***" + local[len(local)-1:] + "@" + domain
}
