package validation

import "github.com/imrishuroy/go-repair-sla/internal/repair"

// CalculateRepairTimeRequest is the payload for POST /calculate_repair_time.
// Optional timestamps are parsed by the evaluator only when their stage applies.
type CalculateRepairTimeRequest struct {
	RepInsType     *int   `json:"rep_ins_type" validate:"required"`                       // 3 = return-repair
	RepStartDate   string `json:"rep_start_date" validate:"required,timestamp"`           // dispatch
	QuotStartDate  string `json:"quot_start_date,omitempty"`                              // quote submitted
	DetecStartDate string `json:"detec_start_date,omitempty"`                             // contract approved
	QcStartTime    string `json:"qc_start_time,omitempty"`                                // quality check submitted
	RepairOrderID  string `json:"repair_order_id,omitempty" validate:"omitempty,max=128"` // enables overdue alerts
}

// ToRepairRequest converts a validated payload for the evaluator.
func (r CalculateRepairTimeRequest) ToRepairRequest() repair.Request {
	var repInsType int
	if r.RepInsType != nil {
		repInsType = *r.RepInsType
	}
	return repair.Request{
		RepInsType:     repInsType,
		RepStartDate:   r.RepStartDate,
		QuotStartDate:  r.QuotStartDate,
		DetecStartDate: r.DetecStartDate,
		QcStartTime:    r.QcStartTime,
	}
}
