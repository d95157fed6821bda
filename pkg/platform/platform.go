// Package platform is the boundary to the device platform: which packages
// are installed, which users exist, and which roles the build recognizes.
// roled only ever consumes these interfaces; the in-memory implementations
// back the tests and the demo binary.
package platform

import "code.cloudfoundry.org/roled/pkg/roled"

// RoleConfig describes one role the platform recognizes.
type RoleConfig struct {
	Name string

	// DefaultHolders are the fallback holder candidates, in preference
	// order. The first installed candidate wins.
	DefaultHolders []string

	// MultipleHolders permits more than one holder at a time. Most roles
	// are exclusive.
	MultipleHolders bool

	// Visible controls whether the role shows up in role-management UIs.
	Visible bool
}

//go:generate counterfeiter . RoleCatalog

type RoleCatalog interface {
	Roles() []RoleConfig
	Role(name string) (RoleConfig, bool)
}

//go:generate counterfeiter . PackageManager

type PackageManager interface {
	InstalledPackages(user roled.UserID) ([]string, error)
	IsPackageInstalled(packageName string, user roled.UserID) (bool, error)
}

//go:generate counterfeiter . UserManager

type UserManager interface {
	Exists(user roled.UserID) bool
}
