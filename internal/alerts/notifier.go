package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/imrishuroy/go-repair-sla/internal/repair"
)

// MessageSender delivers a JSON body with string attributes. *aws.Publisher implements it.
type MessageSender interface {
	SendMessage(ctx context.Context, messageBody string, attributes map[string]string) error
}

// Notifier publishes one queue message per overdue stage.
type Notifier struct {
	sender  MessageSender
	log     logrus.FieldLogger
	nowFunc func() time.Time
}

func NewNotifier(sender MessageSender, log logrus.FieldLogger) *Notifier {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Notifier{sender: sender, log: log, nowFunc: time.Now}
}

// NotifyOverdue publishes the overdue stages of res. Every stage is attempted;
// the returned error joins the failures.
func (n *Notifier) NotifyOverdue(ctx context.Context, repairOrderID, correlationID string, res *repair.Result) error {
	if repairOrderID == "" || res == nil {
		return nil
	}

	var errs []error
	for _, s := range res.OverdueStages() {
		msg := Message{
			RepairOrderID: repairOrderID,
			Stage:         s.Stage,
			Days:          s.Days,
			Threshold:     s.Threshold,
			RepInsType:    res.RepInsType,
			CorrelationID: correlationID,
			DetectedAt:    n.nowFunc().UTC(),
		}
		body, err := json.Marshal(msg)
		if err != nil {
			errs = append(errs, fmt.Errorf("marshal alert %s: %w", msg.AlertID(), err))
			continue
		}
		attrs := map[string]string{
			"repair_order_id": repairOrderID,
			"stage":           s.Stage,
			"days":            strconv.Itoa(s.Days),
			"correlation_id":  correlationID,
		}
		if err := n.sender.SendMessage(ctx, string(body), attrs); err != nil {
			errs = append(errs, fmt.Errorf("publish alert %s: %w", msg.AlertID(), err))
			continue
		}
		n.log.WithFields(logrus.Fields{
			"alert_id":       msg.AlertID(),
			"days":           s.Days,
			"threshold":      s.Threshold,
			"correlation_id": correlationID,
		}).Info("overdue alert published")
	}
	return errors.Join(errs...)
}
