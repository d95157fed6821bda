package rpc

import (
	"context"

	"code.cloudfoundry.org/roled/cmd/contextx"
	"code.cloudfoundry.org/roled/pkg/roled"
)

//go:generate counterfeiter . Authorizer

// Authorizer guards the request surface. Both checks return a typed denied
// error so handlers can reject a call before touching any state.
type Authorizer interface {
	// CheckPermission verifies the caller holds permission.
	CheckPermission(ctx context.Context, permission string) error

	// CheckUser verifies the caller may act on user: either the caller's own
	// user id matches, or the caller holds the cross-user permission.
	CheckUser(ctx context.Context, user roled.UserID) error
}

// CallerAuthorizer authorizes against the contextx.Caller the transport
// attached to the request context. A context without a caller is denied.
type CallerAuthorizer struct{}

func (CallerAuthorizer) CheckPermission(ctx context.Context, permission string) error {
	caller, ok := contextx.CallerFromContext(ctx)
	if !ok || !caller.HoldsPermission(permission) {
		return roled.NewErrDenied(permission)
	}
	return nil
}

func (CallerAuthorizer) CheckUser(ctx context.Context, user roled.UserID) error {
	caller, ok := contextx.CallerFromContext(ctx)
	if !ok {
		return roled.NewErrDenied(roled.PermissionInteractAcrossUsers)
	}
	if caller.User == user {
		return nil
	}
	if !caller.HoldsPermission(roled.PermissionInteractAcrossUsers) {
		return roled.NewErrDenied(roled.PermissionInteractAcrossUsers)
	}
	return nil
}
