package alerts

import (
	"errors"
	"fmt"
	"time"
)

// Alert statuses
const (
	StatusOpen     = "OPEN"
	StatusReported = "REPORTED"
)

// Alert represents the item stored in the alerts DynamoDB table.
type Alert struct {
	AlertID       string    `dynamodbav:"alert_id"` // PK: <repair_order_id>#<stage>
	RepairOrderID string    `dynamodbav:"repair_order_id"`
	Stage         string    `dynamodbav:"stage"`
	RepInsType    int       `dynamodbav:"rep_ins_type"`
	Days          int       `dynamodbav:"days"`
	Threshold     int       `dynamodbav:"threshold"`
	Status        string    `dynamodbav:"status"` // OPEN | REPORTED
	CorrelationID string    `dynamodbav:"correlation_id,omitempty"`
	CreatedAt     time.Time `dynamodbav:"created_at"`
	UpdatedAt     time.Time `dynamodbav:"updated_at"`
	Attempts      int       `dynamodbav:"attempts,omitempty"`
}

// Message is the payload sent from API -> SQS -> worker, one per overdue stage.
type Message struct {
	RepairOrderID string    `json:"repair_order_id"`
	Stage         string    `json:"stage"`
	Days          int       `json:"days"`
	Threshold     int       `json:"threshold"`
	RepInsType    int       `json:"rep_ins_type"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	DetectedAt    time.Time `json:"detected_at"`
}

// AlertID is the dedupe key: one alert per repair order and stage.
func (m Message) AlertID() string {
	return fmt.Sprintf("%s#%s", m.RepairOrderID, m.Stage)
}

// Validate checks the fields the worker depends on.
func (m Message) Validate() error {
	if m.RepairOrderID == "" {
		return errors.New("missing repair_order_id")
	}
	if m.Stage == "" {
		return errors.New("missing stage")
	}
	if m.Days <= m.Threshold {
		return fmt.Errorf("stage %s is not overdue: %d <= %d", m.Stage, m.Days, m.Threshold)
	}
	return nil
}

// NewAlert builds an OPEN alert from a queue message.
func NewAlert(m Message, now time.Time) Alert {
	return Alert{
		AlertID:       m.AlertID(),
		RepairOrderID: m.RepairOrderID,
		Stage:         m.Stage,
		RepInsType:    m.RepInsType,
		Days:          m.Days,
		Threshold:     m.Threshold,
		Status:        StatusOpen,
		CorrelationID: m.CorrelationID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
