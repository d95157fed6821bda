package monitor

const (
	failedToSendMetric = "failed-to-send-metric"
)
