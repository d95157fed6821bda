package controller

const (
	starting = "starting"
	success  = "success"

	controllerStopped = "controller-stopped"

	failedToCheckPackage  = "failed-to-check-package"
	failedToFetchLegacy   = "failed-to-fetch-legacy-fallback-roles"
	packageNotInstalled   = "package-not-installed"
	roleNotRecognized     = "role-not-recognized"
	grantedFallbackHolder = "granted-fallback-holder"
	removedMissingHolder  = "removed-missing-holder"
)
