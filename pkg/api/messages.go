package api

const (
	starting = "starting"
	success  = "success"
	finished = "finished"

	grantSkipped  = "grant-skipped-packages-unchanged"
	grantFailed   = "grant-failed"
	grantTimedOut = "grant-timed-out"

	failedToListPackages        = "failed-to-list-packages"
	failedToFetchLegacyFallback = "failed-to-fetch-legacy-fallback-roles"
	upgradeDeferred             = "upgrade-deferred"

	failedToNotifyListener = "failed-to-notify-listener"
	listenerPanicked       = "listener-panicked"

	userRemoved  = "user-removed"
	userNotFound = "user-not-found"
)
