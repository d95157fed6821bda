// Package api is the orchestrating role service. It owns the per-user role
// states and controller bindings, reacts to package and user lifecycle
// events, throttles default-role re-evaluation, and fans role-holder-change
// notifications out to registered listeners.
package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/roled/pkg/controller"
	"code.cloudfoundry.org/roled/pkg/logx"
	"code.cloudfoundry.org/roled/pkg/platform"
	"code.cloudfoundry.org/roled/pkg/roled"
	"code.cloudfoundry.org/roled/pkg/state"
	uuid "github.com/satori/go.uuid"
)

const (
	// GrantThrottleInterval bounds how often package-change events may start
	// a grant re-evaluation for one user.
	GrantThrottleInterval = time.Second

	// StartupTimeout bounds the synchronous startup-path calls: fetching the
	// legacy fallback-disabled list and the user-starting grant pass.
	StartupTimeout = 30 * time.Second

	notificationQueueSize = 64
)

// ControllerFactory builds the role controller for one user, writing through
// the user's store. The service calls it once per user and caches the
// result.
type ControllerFactory func(user roled.UserID, store controller.RoleStore, logger logx.Logger) controller.RoleController

type Service struct {
	logger   logx.Logger
	clk      clock.Clock
	stateDir string
	catalog  platform.RoleCatalog
	pm       platform.PackageManager
	um       platform.UserManager
	factory  ControllerFactory

	registry *Registry

	bypassMu sync.Mutex
	bypass   bool

	notifications chan notification
	stopOnce      sync.Once
	stopped       chan struct{}
}

type notification struct {
	user     roled.UserID
	roleName string
}

type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	logger   logx.Logger
	clk      clock.Clock
	stateDir string
	factory  ControllerFactory
}

func WithLogger(logger logx.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

func WithClock(clk clock.Clock) ServiceOption {
	return func(o *serviceOptions) {
		o.clk = clk
	}
}

// WithStateDir sets the directory holding the per-user snapshot files.
func WithStateDir(dir string) ServiceOption {
	return func(o *serviceOptions) {
		o.stateDir = dir
	}
}

// WithControllerFactory overrides how per-user controllers are built. The
// default builds a Local controller over the service's role catalog.
func WithControllerFactory(factory ControllerFactory) ServiceOption {
	return func(o *serviceOptions) {
		o.factory = factory
	}
}

func NewService(catalog platform.RoleCatalog, pm platform.PackageManager, um platform.UserManager, opts ...ServiceOption) *Service {
	config := &serviceOptions{
		logger:   &emptyLogger{},
		clk:      clock.NewClock(),
		stateDir: ".",
	}

	for _, opt := range opts {
		opt(config)
	}

	s := &Service{
		logger:        config.logger.WithName("role-service"),
		clk:           config.clk,
		stateDir:      config.stateDir,
		catalog:       catalog,
		pm:            pm,
		um:            um,
		factory:       config.factory,
		registry:      NewRegistry(),
		notifications: make(chan notification, notificationQueueSize),
		stopped:       make(chan struct{}),
	}

	if s.factory == nil {
		s.factory = func(user roled.UserID, store controller.RoleStore, logger logx.Logger) controller.RoleController {
			return controller.NewLocal(user, catalog, pm, store, logger)
		}
	}

	go s.notifyLoop()

	return s
}

// PackagesFingerprint summarizes an installed-package list. Order of the
// input does not affect the result.
func PackagesFingerprint(packages []string) string {
	sorted := append([]string(nil), packages...)
	sort.Strings(sorted)

	h := sha256.New()
	for _, packageName := range sorted {
		h.Write([]byte(packageName))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Service) UserExists(user roled.UserID) bool {
	return s.um.Exists(user)
}

// OnUserStarting runs the user-starting sequence: apply any pending version
// upgrade (fetching the legacy fallback-disabled list first, bounded by
// StartupTimeout), then evaluate default-role grants. A failed legacy fetch
// defers the upgrade to the next lifecycle event and granting proceeds.
func (s *Service) OnUserStarting(ctx context.Context, user roled.UserID) {
	logger := s.logger.WithName("on-user-starting").WithData(logx.Data{Key: "userId", Value: user})
	logger.Debug(starting)

	if !s.um.Exists(user) {
		logger.Error(userNotFound, roled.ErrUserNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, StartupTimeout)
	defer cancel()

	st := s.userState(user)
	ctrl := s.userController(user)

	if st.IsVersionUpgradeNeeded() {
		legacy, err := ctrl.LegacyFallbackDisabledRoles(ctx)
		if err != nil {
			logger.Error(failedToFetchLegacyFallback, err)
			logger.Info(upgradeDeferred)
		} else {
			st.UpgradeVersion(legacy)
		}
	}

	s.maybeGrantDefaultRoles(ctx, user)
	logger.Debug(finished)
}

// OnPackageAdded, OnPackageRemoved and OnPackageChanged request a throttled
// grant re-evaluation for the affected user.
func (s *Service) OnPackageAdded(user roled.UserID, packageName string) {
	s.requestGrant(user)
}

func (s *Service) OnPackageRemoved(user roled.UserID, packageName string) {
	s.requestGrant(user)
}

func (s *Service) OnPackageChanged(user roled.UserID, packageName string) {
	s.requestGrant(user)
}

// OnOwnerChanged requests a re-evaluation when the device or profile owner
// of the user changes; owner policy can alter which defaults apply.
func (s *Service) OnOwnerChanged(user roled.UserID) {
	s.requestGrant(user)
}

// OnDemoModeChanged requests a re-evaluation when demo mode is toggled for
// the user.
func (s *Service) OnDemoModeChanged(user roled.UserID) {
	s.requestGrant(user)
}

func (s *Service) requestGrant(user roled.UserID) {
	if !s.um.Exists(user) {
		s.logger.WithName("request-grant").Error(userNotFound, roled.ErrUserNotFound,
			logx.Data{Key: "userId", Value: user})
		return
	}

	th := s.registry.GetOrCreateThrottle(user, func() *throttle {
		return newThrottle(s.clk, GrantThrottleInterval)
	})

	th.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), StartupTimeout)
		defer cancel()
		s.maybeGrantDefaultRoles(ctx, user)
	})
}

// maybeGrantDefaultRoles fingerprints the installed-package set and invokes
// the controller's grant pass only when the fingerprint differs from the one
// stored at the last successful evaluation.
func (s *Service) maybeGrantDefaultRoles(ctx context.Context, user roled.UserID) {
	grantID := uuid.NewV4().String()
	logger := s.logger.WithName("grant-default-roles").WithData(
		logx.Data{Key: "userId", Value: user},
		logx.Data{Key: "grant.id", Value: grantID},
	)

	packages, err := s.pm.InstalledPackages(user)
	if err != nil {
		logger.Error(failedToListPackages, err)
		return
	}

	fingerprint := PackagesFingerprint(packages)
	st := s.userState(user)
	if fingerprint == st.PackagesHash() {
		logger.Debug(grantSkipped)
		return
	}

	logger.Debug(starting)

	done := make(chan bool, 1)
	s.userController(user).GrantDefaultRoles(ctx, func(ok bool) {
		done <- ok
	})

	select {
	case <-ctx.Done():
		logger.Error(grantTimedOut, ctx.Err())
	case ok := <-done:
		if !ok {
			logger.Error(grantFailed, nil)
			return
		}
		st.SetPackagesHash(fingerprint)
		logger.Debug(success)
	}
}

// OnRemoveUser tears down every per-user resource: the throttle, listener
// registrations, the controller binding, and the user state together with
// its backing file.
func (s *Service) OnRemoveUser(user roled.UserID) {
	logger := s.logger.WithName("on-remove-user").WithData(logx.Data{Key: "userId", Value: user})

	th, _ := s.registry.RemoveThrottle(user)
	ctrl, _ := s.registry.RemoveController(user)
	st, _ := s.registry.RemoveUserState(user)
	s.registry.RemoveUserListeners(user)

	if th != nil {
		th.Cancel()
	}
	if ctrl != nil {
		ctrl.Stop()
	}
	if st != nil {
		st.Destroy()
	}

	logger.Info(userRemoved)
}

// Stop shuts the service down. Pending grant runs and undelivered
// notifications are discarded; user states and their files are left intact.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopped)
	})

	for _, user := range s.registry.Users() {
		if th, ok := s.registry.RemoveThrottle(user); ok {
			th.Cancel()
		}
		if ctrl, ok := s.registry.RemoveController(user); ok {
			ctrl.Stop()
		}
		s.registry.RemoveUserState(user)
	}
}

func (s *Service) IsRoleAvailable(user roled.UserID, roleName string) bool {
	return s.userState(user).IsRoleAvailable(roleName)
}

func (s *Service) RoleHolders(user roled.UserID, roleName string) []string {
	return s.userState(user).RoleHolders(roleName)
}

func (s *Service) HeldRoles(user roled.UserID, packageName string) []string {
	return s.userState(user).HeldRoles(packageName)
}

func (s *Service) IsFallbackEnabled(user roled.UserID, roleName string) bool {
	return s.userState(user).IsFallbackEnabled(roleName)
}

func (s *Service) SetFallbackEnabled(user roled.UserID, roleName string, enabled bool) {
	s.userState(user).SetFallbackEnabled(roleName, enabled)
}

// AddRoleHolder routes a role-holder addition through the user's controller,
// which owns qualification checks. When the service-wide bypass bit is set
// the holder is written straight into the state instead.
func (s *Service) AddRoleHolder(ctx context.Context, user roled.UserID, roleName, packageName string, flags roled.Flags, done func(ok bool)) {
	if s.IsBypassingRoleQualification() {
		st := s.userState(user)
		if !st.IsRoleAvailable(roleName) {
			done(false)
			return
		}

		st.AddRoleHolder(roleName, packageName)
		done(true)
		return
	}

	s.userController(user).OnAddRoleHolder(ctx, roleName, packageName, flags, done)
}

func (s *Service) RemoveRoleHolder(ctx context.Context, user roled.UserID, roleName, packageName string, flags roled.Flags, done func(ok bool)) {
	s.userController(user).OnRemoveRoleHolder(ctx, roleName, packageName, flags, done)
}

func (s *Service) ClearRoleHolders(ctx context.Context, user roled.UserID, roleName string, flags roled.Flags, done func(ok bool)) {
	s.userController(user).OnClearRoleHolders(ctx, roleName, flags, done)
}

// SetRoleNamesFromController, AddRoleHolderFromController and
// RemoveRoleHolderFromController are the privileged write-through entry
// points used by an out-of-process controller reporting computed grants.
// They write directly to the user state, skipping dispatch.
func (s *Service) SetRoleNamesFromController(user roled.UserID, names []string) {
	s.userState(user).SetRoleNames(names)
}

func (s *Service) AddRoleHolderFromController(user roled.UserID, roleName, packageName string) bool {
	return s.userState(user).AddRoleHolder(roleName, packageName)
}

func (s *Service) RemoveRoleHolderFromController(user roled.UserID, roleName, packageName string) bool {
	return s.userState(user).RemoveRoleHolder(roleName, packageName)
}

func (s *Service) IsBypassingRoleQualification() bool {
	s.bypassMu.Lock()
	defer s.bypassMu.Unlock()

	return s.bypass
}

func (s *Service) SetBypassingRoleQualification(bypass bool) {
	s.bypassMu.Lock()
	defer s.bypassMu.Unlock()

	s.bypass = bypass
}

// AddOnRoleHoldersChangedListener registers l for changes affecting user, or
// for every user when user is roled.UserAll.
func (s *Service) AddOnRoleHoldersChangedListener(user roled.UserID, l roled.RoleHoldersChangedListener) {
	s.registry.AddListener(user, l)
}

func (s *Service) RemoveOnRoleHoldersChangedListener(user roled.UserID, l roled.RoleHoldersChangedListener) {
	s.registry.RemoveListener(user, l)
}

// OnRoleHoldersChanged implements state.Callback. Each user state reports
// its successful writes here; delivery to listeners happens on the
// notification goroutine.
func (s *Service) OnRoleHoldersChanged(user roled.UserID, roleName string) {
	select {
	case s.notifications <- notification{user: user, roleName: roleName}:
	case <-s.stopped:
	}
}

func (s *Service) notifyLoop() {
	for {
		select {
		case <-s.stopped:
			return
		case n := <-s.notifications:
			for _, l := range s.registry.Listeners(n.user) {
				s.deliver(l, n)
			}
		}
	}
}

// deliver isolates one listener: an error return or a panic is logged and
// never affects the remaining listeners.
func (s *Service) deliver(l roled.RoleHoldersChangedListener, n notification) {
	logger := s.logger.WithName("notify-listeners").WithData(
		logx.Data{Key: "userId", Value: n.user},
		logx.Data{Key: "role.name", Value: n.roleName},
	)

	defer func() {
		if p := recover(); p != nil {
			logger.Error(listenerPanicked, fmt.Errorf("%v", p))
		}
	}()

	if err := l.OnRoleHoldersChanged(n.roleName, n.user); err != nil {
		logger.Error(failedToNotifyListener, err)
	}
}

func (s *Service) userState(user roled.UserID) *state.UserState {
	return s.registry.GetOrCreateUserState(user, func() *state.UserState {
		path := filepath.Join(s.stateDir, fmt.Sprintf("roles-%d.json", user))
		return state.NewUserState(path, user, s.logger, s)
	})
}

func (s *Service) userController(user roled.UserID) controller.RoleController {
	// Resolve the store first; the registry lock is not reentrant.
	store := s.userState(user)
	return s.registry.GetOrCreateController(user, func() controller.RoleController {
		return s.factory(user, store, s.logger)
	})
}

type emptyLogger struct{}

func (l *emptyLogger) WithName(string) logx.Logger { return l }

func (l *emptyLogger) WithData(...logx.Data) logx.Logger { return l }

func (l *emptyLogger) Debug(string, ...logx.Data) {}

func (l *emptyLogger) Info(string, ...logx.Data) {}

func (l *emptyLogger) Error(string, error, ...logx.Data) {}
