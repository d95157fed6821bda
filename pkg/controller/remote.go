package controller

import (
	"context"

	"code.cloudfoundry.org/roled/pkg/logx"
	"code.cloudfoundry.org/roled/pkg/roled"
)

// Binding is the bound endpoint of an out-of-process role controller for one
// user. Each async method completes its callback exactly once.
//
//go:generate counterfeiter . Binding
type Binding interface {
	GrantDefaultRoles(ctx context.Context, done func(ok bool))
	OnAddRoleHolder(ctx context.Context, roleName, packageName string, flags roled.Flags, done func(ok bool))
	OnRemoveRoleHolder(ctx context.Context, roleName, packageName string, flags roled.Flags, done func(ok bool))
	OnClearRoleHolders(ctx context.Context, roleName string, flags roled.Flags, done func(ok bool))
	LegacyFallbackDisabledRoles(ctx context.Context) ([]string, error)
	Unbind()
}

// Remote forwards role computation to a per-user controller binding.
// Visibility queries have no remote equivalent on the legacy path and fail
// with an unsupported-operation error rather than a silent default.
type Remote struct {
	user    roled.UserID
	binding Binding
	logger  logx.Logger
}

func NewRemote(user roled.UserID, binding Binding, logger logx.Logger) *Remote {
	return &Remote{
		user:    user,
		binding: binding,
		logger:  logger.WithName("remote-role-controller").WithData(logx.Data{Key: "userId", Value: user}),
	}
}

func (r *Remote) GrantDefaultRoles(ctx context.Context, done func(ok bool)) {
	r.binding.GrantDefaultRoles(ctx, done)
}

func (r *Remote) OnAddRoleHolder(ctx context.Context, roleName, packageName string, flags roled.Flags, done func(ok bool)) {
	r.binding.OnAddRoleHolder(ctx, roleName, packageName, flags, done)
}

func (r *Remote) OnRemoveRoleHolder(ctx context.Context, roleName, packageName string, flags roled.Flags, done func(ok bool)) {
	r.binding.OnRemoveRoleHolder(ctx, roleName, packageName, flags, done)
}

func (r *Remote) OnClearRoleHolders(ctx context.Context, roleName string, flags roled.Flags, done func(ok bool)) {
	r.binding.OnClearRoleHolders(ctx, roleName, flags, done)
}

func (r *Remote) IsRoleVisible(ctx context.Context, roleName string) (bool, error) {
	return false, roled.NewErrUnsupported("IsRoleVisible")
}

func (r *Remote) IsApplicationVisibleForRole(ctx context.Context, roleName, packageName string) (bool, error) {
	return false, roled.NewErrUnsupported("IsApplicationVisibleForRole")
}

func (r *Remote) LegacyFallbackDisabledRoles(ctx context.Context) ([]string, error) {
	return r.binding.LegacyFallbackDisabledRoles(ctx)
}

func (r *Remote) Stop() {
	r.binding.Unbind()
}
