package state

const (
	failedToParseSnapshot  = "failed-to-parse-snapshot"
	failedToWriteSnapshot  = "failed-to-write-snapshot"
	failedToDeleteSnapshot = "failed-to-delete-snapshot"

	roleNotAvailable = "role-not-available"
	stateDestroyed   = "state-destroyed"

	applyingMigration = "applying-migration"
)
