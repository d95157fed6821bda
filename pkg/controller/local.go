package controller

import (
	"context"
	"errors"

	"code.cloudfoundry.org/roled/pkg/logx"
	"code.cloudfoundry.org/roled/pkg/platform"
	"code.cloudfoundry.org/roled/pkg/roled"
)

var errStopped = errors.New("role controller stopped")

const taskQueueSize = 16

// LegacyFallbackProvider supplies the pre-migration fallback-disabled role
// list for a user, typically from a legacy settings store.
type LegacyFallbackProvider func(user roled.UserID) ([]string, error)

// Local executes role computation in-process. All work for one user runs on
// a single worker goroutine, so operations execute in submission order.
type Local struct {
	user    roled.UserID
	catalog platform.RoleCatalog
	pm      platform.PackageManager
	store   RoleStore
	logger  logx.Logger
	legacy  LegacyFallbackProvider

	tasks chan func()
	stop  chan struct{}
}

type LocalOption func(*Local)

// WithLegacyFallbackProvider wires the source of the legacy
// fallback-disabled role list. Without it, the list is empty.
func WithLegacyFallbackProvider(provider LegacyFallbackProvider) LocalOption {
	return func(l *Local) {
		l.legacy = provider
	}
}

func NewLocal(
	user roled.UserID,
	catalog platform.RoleCatalog,
	pm platform.PackageManager,
	store RoleStore,
	logger logx.Logger,
	opts ...LocalOption,
) *Local {
	l := &Local{
		user:    user,
		catalog: catalog,
		pm:      pm,
		store:   store,
		logger:  logger.WithName("local-role-controller").WithData(logx.Data{Key: "userId", Value: user}),
		legacy: func(roled.UserID) ([]string, error) {
			return nil, nil
		},
		tasks: make(chan func(), taskQueueSize),
		stop:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	go l.work()

	return l
}

func (l *Local) work() {
	for {
		select {
		case <-l.stop:
			return
		case task := <-l.tasks:
			task()
		}
	}
}

// enqueue posts fn to the worker. It fails when the controller has been
// stopped or the caller's context expires before the task is accepted.
func (l *Local) enqueue(ctx context.Context, fn func()) error {
	select {
	case <-l.stop:
		return errStopped
	default:
	}

	select {
	case l.tasks <- fn:
		return nil
	case <-l.stop:
		return errStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Local) GrantDefaultRoles(ctx context.Context, done func(ok bool)) {
	logger := l.logger.WithName("grant-default-roles")
	if err := l.enqueue(ctx, func() {
		done(l.grantDefaultRoles(logger))
	}); err != nil {
		logger.Error(controllerStopped, err)
		done(false)
	}
}

func (l *Local) grantDefaultRoles(logger logx.Logger) bool {
	logger.Debug(starting)

	roles := l.catalog.Roles()
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	l.store.SetRoleNames(names)

	ok := true
	for _, role := range roles {
		if !l.grantDefaultsForRole(logger, role) {
			ok = false
		}
	}

	if ok {
		logger.Debug(success)
	}
	return ok
}

func (l *Local) grantDefaultsForRole(logger logx.Logger, role platform.RoleConfig) bool {
	holders := l.store.RoleHolders(role.Name)

	// Holders that were uninstalled since the last pass lose the role.
	remaining := 0
	for _, holder := range holders {
		installed, err := l.pm.IsPackageInstalled(holder, l.user)
		if err != nil {
			logger.Error(failedToCheckPackage, err, logx.Data{Key: "package.name", Value: holder})
			return false
		}
		if installed {
			remaining++
			continue
		}
		l.store.RemoveRoleHolder(role.Name, holder)
		logger.Info(removedMissingHolder,
			logx.Data{Key: "role.name", Value: role.Name},
			logx.Data{Key: "package.name", Value: holder},
		)
	}

	if remaining > 0 || !l.store.IsFallbackEnabled(role.Name) {
		return true
	}

	for _, candidate := range role.DefaultHolders {
		installed, err := l.pm.IsPackageInstalled(candidate, l.user)
		if err != nil {
			logger.Error(failedToCheckPackage, err, logx.Data{Key: "package.name", Value: candidate})
			return false
		}
		if !installed {
			continue
		}

		l.store.AddRoleHolder(role.Name, candidate)
		logger.Info(grantedFallbackHolder,
			logx.Data{Key: "role.name", Value: role.Name},
			logx.Data{Key: "package.name", Value: candidate},
		)
		break
	}

	return true
}

func (l *Local) OnAddRoleHolder(ctx context.Context, roleName, packageName string, flags roled.Flags, done func(ok bool)) {
	logger := l.logger.WithName("on-add-role-holder").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "package.name", Value: packageName},
	)
	if err := l.enqueue(ctx, func() {
		done(l.addRoleHolder(logger, roleName, packageName))
	}); err != nil {
		logger.Error(controllerStopped, err)
		done(false)
	}
}

func (l *Local) addRoleHolder(logger logx.Logger, roleName, packageName string) bool {
	role, ok := l.catalog.Role(roleName)
	if !ok {
		logger.Error(roleNotRecognized, roled.ErrRoleNotFound)
		return false
	}

	installed, err := l.pm.IsPackageInstalled(packageName, l.user)
	if err != nil {
		logger.Error(failedToCheckPackage, err)
		return false
	}
	if !installed {
		logger.Error(packageNotInstalled, nil)
		return false
	}

	if !role.MultipleHolders {
		for _, holder := range l.store.RoleHolders(roleName) {
			if holder != packageName {
				l.store.RemoveRoleHolder(roleName, holder)
			}
		}
	}

	l.store.AddRoleHolder(roleName, packageName)
	return true
}

func (l *Local) OnRemoveRoleHolder(ctx context.Context, roleName, packageName string, flags roled.Flags, done func(ok bool)) {
	logger := l.logger.WithName("on-remove-role-holder").WithData(
		logx.Data{Key: "role.name", Value: roleName},
		logx.Data{Key: "package.name", Value: packageName},
	)
	if err := l.enqueue(ctx, func() {
		if _, ok := l.catalog.Role(roleName); !ok {
			logger.Error(roleNotRecognized, roled.ErrRoleNotFound)
			done(false)
			return
		}
		l.store.RemoveRoleHolder(roleName, packageName)
		done(true)
	}); err != nil {
		logger.Error(controllerStopped, err)
		done(false)
	}
}

func (l *Local) OnClearRoleHolders(ctx context.Context, roleName string, flags roled.Flags, done func(ok bool)) {
	logger := l.logger.WithName("on-clear-role-holders").WithData(logx.Data{Key: "role.name", Value: roleName})
	if err := l.enqueue(ctx, func() {
		if _, ok := l.catalog.Role(roleName); !ok {
			logger.Error(roleNotRecognized, roled.ErrRoleNotFound)
			done(false)
			return
		}
		for _, holder := range l.store.RoleHolders(roleName) {
			l.store.RemoveRoleHolder(roleName, holder)
		}
		done(true)
	}); err != nil {
		logger.Error(controllerStopped, err)
		done(false)
	}
}

func (l *Local) IsRoleVisible(ctx context.Context, roleName string) (bool, error) {
	resultChan := make(chan bool, 1)
	if err := l.enqueue(ctx, func() {
		role, ok := l.catalog.Role(roleName)
		resultChan <- ok && role.Visible
	}); err != nil {
		return false, err
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case visible := <-resultChan:
		return visible, nil
	}
}

func (l *Local) IsApplicationVisibleForRole(ctx context.Context, roleName, packageName string) (bool, error) {
	resultChan := make(chan bool, 1)
	errChan := make(chan error, 1)
	if err := l.enqueue(ctx, func() {
		role, ok := l.catalog.Role(roleName)
		if !ok || !role.Visible {
			resultChan <- false
			return
		}
		installed, err := l.pm.IsPackageInstalled(packageName, l.user)
		if err != nil {
			errChan <- err
			return
		}
		resultChan <- installed
	}); err != nil {
		return false, err
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, err
	case visible := <-resultChan:
		return visible, nil
	}
}

func (l *Local) LegacyFallbackDisabledRoles(ctx context.Context) ([]string, error) {
	resultChan := make(chan []string, 1)
	errChan := make(chan error, 1)
	if err := l.enqueue(ctx, func() {
		roles, err := l.legacy(l.user)
		if err != nil {
			errChan <- err
			return
		}
		resultChan <- roles
	}); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errChan:
		l.logger.Error(failedToFetchLegacy, err)
		return nil, err
	case roles := <-resultChan:
		return roles, nil
	}
}

func (l *Local) Stop() {
	select {
	case <-l.stop:
	default:
		close(l.stop)
	}
}
