package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/imrishuroy/go-repair-sla/internal/repair"
	"github.com/imrishuroy/go-repair-sla/internal/validation"
)

// OverdueNotifier publishes alerts for overdue stages. *alerts.Notifier implements it.
type OverdueNotifier interface {
	NotifyOverdue(ctx context.Context, repairOrderID, correlationID string, res *repair.Result) error
}

// HandlerConfig groups dependencies for the repair time handlers.
type HandlerConfig struct {
	Evaluator *repair.Evaluator
	Notifier  OverdueNotifier // nil disables alerts
	Logger    logrus.FieldLogger
}

// RegisterRepairRoutes registers the calculation and service info routes.
func RegisterRepairRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "repair time calculation service",
			"endpoints": gin.H{
				"/calculate_repair_time": "compute stage durations in working days and flag overdue stages",
				"/health":                "liveness probe",
				"/metrics":               "prometheus metrics",
			},
		})
	})

	r.POST("/calculate_repair_time", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CalculateRepairTimeRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		res, err := cfg.Evaluator.Evaluate(ctx, req.ToRepairRequest())
		if err != nil {
			log.WithFields(logrus.Fields{
				"request_id": c.GetString(requestIDKey),
				"error":      err.Error(),
			}).Info("repair time calculation rejected")
			c.JSON(http.StatusBadRequest, gin.H{"error": "calculation_failed", "detail": "calculation failed: " + err.Error()})
			return
		}

		if cfg.Notifier != nil && req.RepairOrderID != "" {
			if err := cfg.Notifier.NotifyOverdue(ctx, req.RepairOrderID, c.GetString(requestIDKey), res); err != nil {
				// the calculation stands even if alerts could not be queued
				log.WithFields(logrus.Fields{
					"repair_order_id": req.RepairOrderID,
					"error":           err.Error(),
				}).Error("overdue alert publishing failed")
			}
		}

		c.JSON(http.StatusOK, res)
	})
}
