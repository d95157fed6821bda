package monitor

import (
	"time"

	"code.cloudfoundry.org/roled/pkg/logx"
	"github.com/cactus/go-statsd-client/statsd"
)

const (
	MetricFailure = 0.0
	MetricSuccess = 1.0

	AlwaysSendMetric = 1.0

	MetricGrantRunsSuccess = "roled.grant.runs.success"

	MetricGrantTimingMax  = "roled.grant.timing.max"  // gauge
	MetricGrantTimingP90  = "roled.grant.timing.p90"  // gauge
	MetricGrantTimingP99  = "roled.grant.timing.p99"  // gauge
	MetricGrantTimingP999 = "roled.grant.timing.p999" // gauge
)

//go:generate counterfeiter . GrantStatter

type GrantStatter interface {
	statsd.Statter
	Rotate()
	Observe(d time.Duration) error
	SendFailedGrant(logger logx.Logger)
	SendSuccessfulGrant(logger logx.Logger)
	SendStats(logger logx.Logger)
}

type Statter struct {
	statsd.Statter
	Histogram *ThreadSafeHistogram
}

func (s *Statter) Rotate() {
	s.Histogram.Rotate()
}

// Observe records one grant-run duration. It satisfies the recording
// decorator's DurationRecorder.
func (s *Statter) Observe(d time.Duration) error {
	return s.Histogram.RecordValue(int64(d))
}

func (s *Statter) SendFailedGrant(logger logx.Logger) {
	s.sendGauge(logger, MetricGrantRunsSuccess, MetricFailure)
}

func (s *Statter) SendSuccessfulGrant(logger logx.Logger) {
	s.sendGauge(logger, MetricGrantRunsSuccess, MetricSuccess)
}

func (s *Statter) SendStats(logger logx.Logger) {
	s.sendHistogramQuantile(logger, 90, MetricGrantTimingP90)
	s.sendHistogramQuantile(logger, 99, MetricGrantTimingP99)
	s.sendHistogramQuantile(logger, 99.9, MetricGrantTimingP999)
	s.sendHistogramMax(logger, MetricGrantTimingMax)
}

func (s *Statter) sendGauge(logger logx.Logger, name string, value int64) {
	err := s.Gauge(name, value, AlwaysSendMetric)
	if err != nil {
		logger.Error(failedToSendMetric, err, logx.Data{Key: "metric", Value: name})
	}
}

func (s *Statter) sendHistogramQuantile(logger logx.Logger, quantile float64, metric string) {
	v := s.Histogram.ValueAtQuantile(quantile)
	s.sendGauge(logger, metric, v)
}

func (s *Statter) sendHistogramMax(logger logx.Logger, metric string) {
	v := s.Histogram.Max()
	s.sendGauge(logger, metric, v)
}
