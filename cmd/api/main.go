package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/imrishuroy/go-repair-sla/internal/alerts"
	"github.com/imrishuroy/go-repair-sla/internal/aws"
	"github.com/imrishuroy/go-repair-sla/internal/config"
	"github.com/imrishuroy/go-repair-sla/internal/handlers"
	"github.com/imrishuroy/go-repair-sla/internal/logging"
	"github.com/imrishuroy/go-repair-sla/internal/metrics"
	"github.com/imrishuroy/go-repair-sla/internal/repair"
	"github.com/imrishuroy/go-repair-sla/internal/workdays"
)

func setupRouter(cfg handlers.HandlerConfig, log logrus.FieldLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), handlers.RequestID(), handlers.Metrics(), handlers.RequestLogger(log))

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	handlers.RegisterRepairRoutes(r, cfg)

	return r
}

// buildHandlerConfig wires the workday oracle, the evaluator and, when a
// queue is configured, the overdue alert notifier.
func buildHandlerConfig(ctx context.Context, cfg config.Config, log *logrus.Logger) (handlers.HandlerConfig, error) {
	client := workdays.NewClient(workdays.ClientConfig{
		BaseURL:    cfg.WorkdayAPIURL,
		Timeout:    cfg.WorkdayAPITimeout,
		RatePerSec: cfg.WorkdayAPIRate,
		Logger:     log.WithField("component", "workday_client"),
	})
	oracle := workdays.NewOracle(client, workdays.NewCache(), log.WithField("component", "workday_oracle"))

	hc := handlers.HandlerConfig{
		Evaluator: repair.NewEvaluator(oracle, log.WithField("component", "evaluator")),
		Logger:    log,
	}

	if cfg.AlertsEnabled() {
		clients, err := aws.NewAWSClients(ctx, cfg.AWSRegion, cfg.AWSEndpointOverride)
		if err != nil {
			return hc, err
		}
		publisher := aws.NewPublisher(clients.SQS, cfg.AlertsQueueURL)
		hc.Notifier = alerts.NewNotifier(publisher, log.WithField("component", "alerts"))
	}
	return hc, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	metrics.RegisterDefault()

	hc, err := buildHandlerConfig(context.Background(), cfg, log)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}
	if hc.Notifier == nil {
		log.Info("ALERTS_QUEUE_URL not set, overdue alerts disabled")
	}

	r := setupRouter(hc, log)

	// RUN_LOCAL=true serves plain HTTP for development.
	if cfg.RunLocal {
		addr := cfg.Addr()
		log.Infof("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
