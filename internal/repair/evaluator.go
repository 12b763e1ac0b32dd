package repair

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/imrishuroy/go-repair-sla/internal/dates"
	"github.com/imrishuroy/go-repair-sla/internal/metrics"
)

// ErrComputation wraps unexpected failures during evaluation.
var ErrComputation = errors.New("computation failed")

// DayCounter counts working days in [start, end). *workdays.Oracle implements it.
type DayCounter interface {
	CountWorkdays(ctx context.Context, start, end time.Time) int
}

// Evaluator applies the stage rules of a repair type.
type Evaluator struct {
	counter DayCounter
	log     logrus.FieldLogger
}

func NewEvaluator(counter DayCounter, log logrus.FieldLogger) *Evaluator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Evaluator{counter: counter, log: log}
}

// Evaluate computes the stage durations of req. On error no result is returned.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: %v", ErrComputation, r)
		}
	}()

	dispatch, err := parseField("rep_start_date", req.RepStartDate)
	if err != nil {
		return nil, err
	}

	res = &Result{RepInsType: req.RepInsType, Message: MessageCompleted}
	if req.RepInsType == ReturnRepairType {
		err = e.evaluateReturnRepair(ctx, req, dispatch, res)
	} else {
		err = e.evaluateStandard(ctx, req, dispatch, res)
	}
	if err != nil {
		return nil, err
	}

	for _, s := range res.OverdueStages() {
		metrics.OverdueStages.WithLabelValues(s.Stage).Inc()
	}
	e.log.WithFields(logrus.Fields{
		"rep_ins_type": req.RepInsType,
		"stages":       len(res.Stages()),
		"overdue":      len(res.OverdueStages()),
	}).Debug("repair time evaluated")
	return res, nil
}

// evaluateStandard fills the detection and repair stages.
func (e *Evaluator) evaluateStandard(ctx context.Context, req Request, dispatch time.Time, res *Result) error {
	var (
		quote, contract, qc time.Time
		err                 error
	)
	hasDetection := req.QuotStartDate != ""
	hasRepair := req.DetecStartDate != "" && req.QcStartTime != ""

	// parse everything first so a bad field fails before any lookup
	if hasDetection {
		if quote, err = parseField("quot_start_date", req.QuotStartDate); err != nil {
			return err
		}
	}
	if hasRepair {
		if qc, err = parseField("qc_start_time", req.QcStartTime); err != nil {
			return err
		}
		if contract, err = parseField("detec_start_date", req.DetecStartDate); err != nil {
			return err
		}
	}

	if hasDetection {
		days := e.counter.CountWorkdays(ctx, dispatch, quote)
		res.DetectionDays, res.IsDetectionOverdue = stage(days, DetectionThreshold)
	}
	if hasRepair {
		days := e.counter.CountWorkdays(ctx, contract, qc)
		res.RepairDays, res.IsRepairOverdue = stage(days, RepairThreshold)
	}
	return nil
}

// evaluateReturnRepair fills the single return-repair stage.
func (e *Evaluator) evaluateReturnRepair(ctx context.Context, req Request, dispatch time.Time, res *Result) error {
	if req.QcStartTime == "" {
		return nil
	}
	qc, err := parseField("qc_start_time", req.QcStartTime)
	if err != nil {
		return err
	}
	days := e.counter.CountWorkdays(ctx, dispatch, qc)
	res.ReturnRepairDays, res.IsReturnRepairOverdue = stage(days, ReturnRepairThreshold)
	return nil
}

func stage(days, threshold int) (*int, *bool) {
	overdue := days > threshold
	return &days, &overdue
}

func parseField(name, value string) (time.Time, error) {
	t, err := dates.Parse(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}
