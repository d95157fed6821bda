package cmd

const (
	starting = "starting"
	finished = "finished"

	failedToOpenAuditFile   = "failed-to-open-audit-file"
	failedToResolveHostname = "failed-to-resolve-hostname"
	failedToConnectToStatsD = "failed-to-connect-to-statsd"

	defaultApplication            = "default-application"
	failedToGetDefaultApplication = "failed-to-get-default-application"
)
