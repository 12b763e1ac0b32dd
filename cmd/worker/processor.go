package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"

	"github.com/imrishuroy/go-repair-sla/internal/alerts"
	"github.com/imrishuroy/go-repair-sla/internal/aws"
	"github.com/imrishuroy/go-repair-sla/internal/config"
	"github.com/imrishuroy/go-repair-sla/internal/idempotency"
)

// overdueMetric is the CloudWatch metric emitted once per recorded alert.
const overdueMetric = "OverdueStage"

// Processor records overdue alerts delivered through SQS exactly once.
type Processor struct {
	alertStore *alerts.Store
	idempStore *idempotency.Store
	metrics    *aws.MetricPublisher
	ttl        time.Duration
	log        logrus.FieldLogger
	nowFunc    func() time.Time
}

// NewProcessor creates a new worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, cfg config.Config, log logrus.FieldLogger) *Processor {
	return &Processor{
		alertStore: alerts.NewStore(clients.DynamoDB, cfg.AlertsTable),
		idempStore: idempotency.NewStore(clients.DynamoDB, cfg.IdempotencyTable, cfg.AlertTTL),
		metrics:    aws.NewMetricPublisher(clients.CloudWatch, cfg.MetricsNamespace),
		ttl:        cfg.AlertTTL,
		log:        log,
		nowFunc:    time.Now,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	p.log.Debugf("received %d SQS messages", len(ev.Records))
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// returned to the runtime so SQS redelivers, then DLQ
			p.log.WithError(err).WithField("message_id", rec.MessageId).Error("worker error")
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg alerts.Message
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid alert message: %w", err)
	}

	alertID := msg.AlertID()
	log := p.log.WithFields(logrus.Fields{
		"alert_id":       alertID,
		"correlation_id": msg.CorrelationID,
	})
	log.Info("received overdue alert")

	// Step 1: record alert + idempotency key in one transaction
	record := p.idempStore.NewRecord(alertID, alertID)
	err := p.alertStore.CreateWithIdempotencyTransaction(ctx, p.idempStore.TableName(), record, alerts.NewAlert(msg, p.nowFunc().UTC()), p.ttl)
	if errors.Is(err, alerts.ErrDuplicateAlert) {
		proceed, derr := p.resolveDuplicate(ctx, alertID, log)
		if derr != nil || !proceed {
			return derr
		}
	} else if err != nil {
		logAPIError(log, err)
		return fmt.Errorf("failed to record alert: %w", err)
	}

	// Step 2: report
	dims := map[string]string{"Stage": msg.Stage}
	if err := p.metrics.PutCount(ctx, overdueMetric, 1, dims); err != nil {
		logAPIError(log, err)
		if ferr := p.idempStore.MarkFailed(ctx, alertID, err.Error()); ferr != nil {
			log.WithError(ferr).Warn("failed to mark idempotency FAILED")
		}
		if ierr := p.alertStore.IncrementAttempts(ctx, alertID); ierr != nil {
			log.WithError(ierr).Warn("failed to increment attempts")
		}
		return fmt.Errorf("failed to report alert: %w", err)
	}

	// Step 3: OPEN -> REPORTED; a mismatch means an earlier attempt got here
	err = p.alertStore.UpdateStatus(ctx, alertID, alerts.StatusOpen, alerts.StatusReported)
	if err != nil && !errors.Is(err, alerts.ErrStatusMismatch) {
		return fmt.Errorf("failed to update status to REPORTED: %w", err)
	}

	// Step 4: mark idempotency DONE
	summary, _ := json.Marshal(map[string]interface{}{
		"alert_id": alertID,
		"status":   alerts.StatusReported,
		"days":     msg.Days,
	})
	if err := p.idempStore.MarkDone(ctx, alertID, string(summary)); err != nil {
		return fmt.Errorf("failed to update idempotency: %w", err)
	}

	log.Info("alert reported")
	return nil
}

// resolveDuplicate decides what to do with a redelivered alert. It returns
// true when this delivery should report the alert again.
func (p *Processor) resolveDuplicate(ctx context.Context, key string, log logrus.FieldLogger) (bool, error) {
	rec, err := p.idempStore.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to fetch idempotency record: %w", err)
	}
	if rec == nil {
		// expired between the transaction and the read
		return false, fmt.Errorf("idempotency record vanished: %s", key)
	}

	switch rec.Status {
	case idempotency.StatusDone:
		log.Info("alert already reported")
		return false, nil
	case idempotency.StatusInProgress:
		log.Info("duplicate delivery for alert in progress")
		return false, nil
	case idempotency.StatusFailed:
		err := p.idempStore.ClaimFailed(ctx, key)
		if errors.Is(err, idempotency.ErrConditionFailed) {
			log.Info("failed alert claimed by another delivery")
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to claim alert: %w", err)
		}
		log.Info("retrying failed alert")
		return true, nil
	default:
		return false, fmt.Errorf("unexpected idempotency status for %s: %s", key, rec.Status)
	}
}

func logAPIError(log logrus.FieldLogger, err error) {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		log.WithFields(logrus.Fields{
			"aws_code":    ae.ErrorCode(),
			"aws_message": ae.ErrorMessage(),
		}).Warn("aws api error")
	}
}
