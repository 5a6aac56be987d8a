package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/cadence/internal/engine"
	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/models"
)

// LogStore is where successful deliveries are recorded.
type LogStore interface {
	AppendNotificationLog(models.NotificationLogEntry) (int64, error)
}

// Dispatcher implements engine.Delivery on top of a Sender. Each successful
// send is appended to the notification log; a nil log records nothing.
type Dispatcher struct {
	sender Sender
	log    LogStore
	now    func() time.Time
}

var _ engine.Delivery = (*Dispatcher)(nil)

func NewDispatcher(sender Sender, log LogStore) *Dispatcher {
	return &Dispatcher{sender: sender, log: log, now: time.Now}
}

func (d *Dispatcher) Deliver(ctx context.Context, req engine.DeliveryRequest) error {
	msg := Message{Class: req.Class, Title: req.Title, Body: req.Body}
	if err := d.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send %s notification for %s: %w", req.Class, req.OccurrenceID, err)
	}
	if d.log == nil {
		return nil
	}

	entry := models.NotificationLogEntry{
		OccurrenceID: req.OccurrenceID,
		Class:        req.Class,
		SentAt:       d.now().UTC(),
		Date:         req.Date,
	}
	id, err := d.log.AppendNotificationLog(entry)
	if err != nil {
		return fmt.Errorf("notification sent but not logged: %w", err)
	}
	logger.Debug("Notification logged", "id", id, "occurrence", req.OccurrenceID, "class", req.Class)
	return nil
}
