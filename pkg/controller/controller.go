// Package controller computes role grants. The RoleController capability set
// has two implementations: Local runs the computation in-process on a single
// worker goroutine, Remote forwards it to a per-user out-of-process
// controller binding. The choice between them is made once per user when the
// controller is created, never per call.
package controller

import (
	"context"

	"code.cloudfoundry.org/roled/pkg/roled"
)

//go:generate counterfeiter . RoleController

type RoleController interface {
	// GrantDefaultRoles recomputes default-role grants for the user and
	// completes done exactly once with the overall outcome.
	GrantDefaultRoles(ctx context.Context, done func(ok bool))

	OnAddRoleHolder(ctx context.Context, roleName, packageName string, flags roled.Flags, done func(ok bool))
	OnRemoveRoleHolder(ctx context.Context, roleName, packageName string, flags roled.Flags, done func(ok bool))
	OnClearRoleHolders(ctx context.Context, roleName string, flags roled.Flags, done func(ok bool))

	// IsRoleVisible and IsApplicationVisibleForRole are served locally only;
	// the Remote variant fails them with an unsupported-operation error.
	IsRoleVisible(ctx context.Context, roleName string) (bool, error)
	IsApplicationVisibleForRole(ctx context.Context, roleName, packageName string) (bool, error)

	// LegacyFallbackDisabledRoles returns the pre-migration list of roles
	// whose fallback the user had disabled.
	LegacyFallbackDisabledRoles(ctx context.Context) ([]string, error)

	// Stop tears down the worker or binding. Pending callback results are
	// discarded.
	Stop()
}

// RoleStore is the slice of the user's role state the controller writes
// through while computing grants. *state.UserState implements it.
type RoleStore interface {
	SetRoleNames(names []string)
	IsRoleAvailable(roleName string) bool
	RoleHolders(roleName string) []string
	AddRoleHolder(roleName, packageName string) bool
	RemoveRoleHolder(roleName, packageName string) bool
	IsFallbackEnabled(roleName string) bool
}
