package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricPublisher writes custom metrics to one CloudWatch namespace.
type MetricPublisher struct {
	CloudWatch CloudWatchAPI
	Namespace  string
	nowFunc    func() time.Time
}

func NewMetricPublisher(cw CloudWatchAPI, namespace string) *MetricPublisher {
	return &MetricPublisher{CloudWatch: cw, Namespace: namespace, nowFunc: time.Now}
}

// PutCount records a count datum with the given dimensions.
func (m *MetricPublisher) PutCount(ctx context.Context, name string, value float64, dims map[string]string) error {
	dimensions := make([]cwtypes.Dimension, 0, len(dims))
	for k, v := range dims {
		dimensions = append(dimensions, cwtypes.Dimension{Name: sdkaws.String(k), Value: sdkaws.String(v)})
	}

	_, err := m.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: sdkaws.String(m.Namespace),
		MetricData: []cwtypes.MetricDatum{{
			MetricName: sdkaws.String(name),
			Dimensions: dimensions,
			Value:      sdkaws.Float64(value),
			Unit:       cwtypes.StandardUnitCount,
			Timestamp:  sdkaws.Time(m.nowFunc()),
		}},
	})
	if err != nil {
		return fmt.Errorf("put metric %s: %w", name, err)
	}
	return nil
}
