package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dropmarket.backend/internal/domain/entities"
	"dropmarket.backend/internal/domain/repositories"
	"dropmarket.backend/pkg/logger"
	"dropmarket.backend/pkg/metrics"
)

// Sender delivers messages to a recipient over the chat transport.
// Delivery failures are reported as errors and never crash the caller.
type Sender interface {
	SendMessage(ctx context.Context, recipientID int64, text string) error
	// SendPhoto delivers a stored photo by its transport file id with a
	// text caption.
	SendPhoto(ctx context.Context, recipientID int64, photoID, caption string) error
}

// Notifier resolves the recipient set for a committed lifecycle transition
// and dispatches informational messages. Delivery failures are logged and
// swallowed; they never affect the transition that triggered them.
type Notifier struct {
	sender      Sender
	users       repositories.UserRepository
	auditChatID int64
	timeout     time.Duration
}

// NewNotifier creates a new notifier. auditChatID is the administrator
// audit channel; timeout bounds each individual delivery.
func NewNotifier(sender Sender, users repositories.UserRepository, auditChatID int64, timeout time.Duration) *Notifier {
	return &Notifier{
		sender:      sender,
		users:       users,
		auditChatID: auditChatID,
		timeout:     timeout,
	}
}

// send dispatches one message with a bounded per-recipient timeout and
// reports whether delivery succeeded.
func (n *Notifier) send(ctx context.Context, eventID string, recipientID int64, text string) bool {
	sendCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.sender.SendMessage(sendCtx, recipientID, text); err != nil {
		metrics.NotificationsFailed.Inc()
		logger.Warn(ctx, "notification delivery failed",
			zap.String("event_id", eventID),
			zap.Int64("recipient_id", recipientID),
			zap.Error(err),
		)
		return false
	}
	metrics.NotificationsSent.Inc()
	return true
}

// sendPhoto mirrors send for photo deliveries.
func (n *Notifier) sendPhoto(ctx context.Context, eventID string, recipientID int64, photoID, caption string) bool {
	sendCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.sender.SendPhoto(sendCtx, recipientID, photoID, caption); err != nil {
		metrics.NotificationsFailed.Inc()
		logger.Warn(ctx, "notification delivery failed",
			zap.String("event_id", eventID),
			zap.Int64("recipient_id", recipientID),
			zap.Error(err),
		)
		return false
	}
	metrics.NotificationsSent.Inc()
	return true
}

func (n *Notifier) audit(ctx context.Context, eventID, text string) {
	n.send(ctx, eventID, n.auditChatID, text)
}

// VerificationSubmitted notifies the audit channel about a new application.
// When the applicant attached a document photo it is forwarded with the
// application details as the caption, so the admin adjudicates on it.
func (n *Notifier) VerificationSubmitted(ctx context.Context, user *entities.User, v *entities.Verification) {
	eventID := uuid.NewString()
	username := "no username"
	if user.Username.Valid {
		username = "@" + user.Username.String
	}
	text := fmt.Sprintf("New verification application:\nUsername: %s\nID: %d\nName: %s\nAge: %d\nActivity: %s",
		username, v.UserID, v.Name, v.Age, v.Activity)

	if v.DocumentPhoto.Valid {
		n.sendPhoto(ctx, eventID, n.auditChatID, v.DocumentPhoto.String, text)
		return
	}
	n.audit(ctx, eventID, text)
}

// VerificationDecided notifies the subject user and the audit channel.
func (n *Notifier) VerificationDecided(ctx context.Context, userID int64, approved bool) {
	eventID := uuid.NewString()
	if approved {
		n.send(ctx, eventID, userID, "Your verification application has been approved. You can now take orders.")
		n.audit(ctx, eventID, fmt.Sprintf("Verification of user %d approved", userID))
	} else {
		n.send(ctx, eventID, userID, "Your verification application has been rejected.")
		n.audit(ctx, eventID, fmt.Sprintf("Verification of user %d rejected", userID))
	}
}

// OrderCreated notifies the audit channel.
func (n *Notifier) OrderCreated(ctx context.Context, o *entities.Order) {
	n.audit(ctx, uuid.NewString(), fmt.Sprintf("New order #%d from user %d", o.ID, o.UserID))
}

// OrderTaken notifies the assigned agent, the owning client and the audit
// channel.
func (n *Notifier) OrderTaken(ctx context.Context, o *entities.Order) {
	eventID := uuid.NewString()
	if o.DropID.Valid {
		n.send(ctx, eventID, o.DropID.Int64,
			fmt.Sprintf("You took order #%d. The administrator will connect you with the client.", o.ID))
	}
	n.send(ctx, eventID, o.UserID,
		fmt.Sprintf("Your order #%d is now in progress. The administrator will connect you with the agent.", o.ID))
	n.audit(ctx, eventID, fmt.Sprintf("Order #%d taken by agent %d", o.ID, o.DropID.Int64))
}

// OrderCompleted notifies the owning client, the assigned agent (if any)
// and the audit channel.
func (n *Notifier) OrderCompleted(ctx context.Context, o *entities.Order, byAdmin bool) {
	eventID := uuid.NewString()
	n.send(ctx, eventID, o.UserID, fmt.Sprintf("Your order #%d is completed.", o.ID))
	if o.DropID.Valid {
		n.send(ctx, eventID, o.DropID.Int64, fmt.Sprintf("Order #%d is completed.", o.ID))
	}
	if byAdmin {
		n.audit(ctx, eventID, fmt.Sprintf("Order #%d completed by administrator", o.ID))
	} else {
		n.audit(ctx, eventID, fmt.Sprintf("Agent %d completed order #%d", o.DropID.Int64, o.ID))
	}
}

// OrderRestored notifies the audit channel only.
func (n *Notifier) OrderRestored(ctx context.Context, o *entities.Order) {
	n.audit(ctx, uuid.NewString(), fmt.Sprintf("Order #%d restored to the pool by administrator", o.ID))
}

// Broadcast sends the text to every verified agent individually and returns
// the number of successful deliveries. Individual failures are swallowed.
func (n *Notifier) Broadcast(ctx context.Context, text string) (int, error) {
	agents, err := n.users.ListVerified(ctx)
	if err != nil {
		return 0, err
	}

	eventID := uuid.NewString()
	sent := 0
	for _, agent := range agents {
		if n.send(ctx, eventID, agent.ID, "Message from the administrator:\n"+text) {
			sent++
		}
	}

	logger.Info(ctx, "broadcast finished",
		zap.String("event_id", eventID),
		zap.Int("recipients", len(agents)),
		zap.Int("delivered", sent),
	)
	return sent, nil
}
