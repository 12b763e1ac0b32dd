package repair

// ReturnRepairType is the rep_ins_type code of a return-repair.
const ReturnRepairType = 3

// Overdue thresholds in working days. A stage is overdue when it strictly exceeds its threshold.
const (
	DetectionThreshold    = 7
	RepairThreshold       = 10
	ReturnRepairThreshold = 10
)

// Stage names
const (
	StageDetection    = "detection"
	StageRepair       = "repair"
	StageReturnRepair = "return_repair"
)

// MessageCompleted is the message of every successful result.
const MessageCompleted = "calculation completed"

// Request carries the timestamps of one repair order. Empty strings are absent fields.
type Request struct {
	RepInsType     int    `json:"rep_ins_type"`
	RepStartDate   string `json:"rep_start_date"`             // dispatch
	QuotStartDate  string `json:"quot_start_date,omitempty"`  // quote submitted
	DetecStartDate string `json:"detec_start_date,omitempty"` // contract approved
	QcStartTime    string `json:"qc_start_time,omitempty"`    // quality check submitted
}

// Result is the per-stage outcome. Stages that were not computed stay nil.
type Result struct {
	RepInsType            int    `json:"rep_ins_type"`
	DetectionDays         *int   `json:"detection_days,omitempty"`
	RepairDays            *int   `json:"repair_days,omitempty"`
	ReturnRepairDays      *int   `json:"return_repair_days,omitempty"`
	IsDetectionOverdue    *bool  `json:"is_detection_overdue,omitempty"`
	IsRepairOverdue       *bool  `json:"is_repair_overdue,omitempty"`
	IsReturnRepairOverdue *bool  `json:"is_return_repair_overdue,omitempty"`
	Message               string `json:"message"`
}

// StageOutcome describes one computed stage.
type StageOutcome struct {
	Stage     string
	Days      int
	Threshold int
	Overdue   bool
}

// Stages lists the computed stages in workflow order.
func (r *Result) Stages() []StageOutcome {
	var out []StageOutcome
	add := func(stage string, days *int, overdue *bool, threshold int) {
		if days == nil || overdue == nil {
			return
		}
		out = append(out, StageOutcome{Stage: stage, Days: *days, Threshold: threshold, Overdue: *overdue})
	}
	add(StageDetection, r.DetectionDays, r.IsDetectionOverdue, DetectionThreshold)
	add(StageRepair, r.RepairDays, r.IsRepairOverdue, RepairThreshold)
	add(StageReturnRepair, r.ReturnRepairDays, r.IsReturnRepairOverdue, ReturnRepairThreshold)
	return out
}

// OverdueStages returns only the stages flagged overdue.
func (r *Result) OverdueStages() []StageOutcome {
	var out []StageOutcome
	for _, s := range r.Stages() {
		if s.Overdue {
			out = append(out, s)
		}
	}
	return out
}
