package api_test

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	. "code.cloudfoundry.org/roled/pkg/api"
	"code.cloudfoundry.org/roled/pkg/controller"
	"code.cloudfoundry.org/roled/pkg/controller/controllerfakes"
	"code.cloudfoundry.org/roled/pkg/logx"
	"code.cloudfoundry.org/roled/pkg/logx/logxfakes"
	"code.cloudfoundry.org/roled/pkg/platform"
	"code.cloudfoundry.org/roled/pkg/roled"
	"code.cloudfoundry.org/roled/pkg/state"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type recordingListener struct {
	err      error
	panics   bool
	received chan string
}

func newRecordingListener() *recordingListener {
	return &recordingListener{received: make(chan string, 16)}
}

func (l *recordingListener) OnRoleHoldersChanged(roleName string, user roled.UserID) error {
	if l.panics {
		panic("listener exploded")
	}
	l.received <- roleName
	return l.err
}

var _ = Describe("Service", func() {
	var (
		tmpDir  string
		clk     *fakeclock.FakeClock
		catalog *platform.StaticRoleCatalog
		pm      *platform.InMemoryPackageManager
		um      *platform.InMemoryUserManager

		user roled.UserID

		subject *Service
	)

	snapshotPath := func(user roled.UserID) string {
		return filepath.Join(tmpDir, fmt.Sprintf("roles-%d.json", user))
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = ioutil.TempDir("", "roled-service")
		Expect(err).NotTo(HaveOccurred())

		clk = fakeclock.NewFakeClock(time.Now())
		user = roled.UserID(10)

		catalog = platform.NewStaticRoleCatalog(
			platform.RoleConfig{Name: roled.RoleSMS, Visible: true},
			platform.RoleConfig{
				Name:           roled.RoleBrowser,
				DefaultHolders: []string{"com.android.chrome"},
				Visible:        true,
			},
			platform.RoleConfig{Name: "android.app.role.EMERGENCY", MultipleHolders: true},
		)
		pm = platform.NewInMemoryPackageManager()
		pm.AddPackage("com.example.sms", user)
		pm.AddPackage("com.android.chrome", user)
		um = platform.NewInMemoryUserManager(user)
	})

	AfterEach(func() {
		if subject != nil {
			subject.Stop()
		}
		os.RemoveAll(tmpDir)
	})

	newService := func(opts ...ServiceOption) *Service {
		opts = append([]ServiceOption{WithStateDir(tmpDir), WithClock(clk)}, opts...)
		return NewService(catalog, pm, um, opts...)
	}

	addRoleHolder := func(roleName, packageName string) bool {
		result := make(chan bool, 1)
		subject.AddRoleHolder(context.Background(), user, roleName, packageName, 0, func(ok bool) {
			result <- ok
		})

		var ok bool
		Eventually(result).Should(Receive(&ok))
		return ok
	}

	Describe("user starting and role-holder queries", func() {
		BeforeEach(func() {
			subject = newService()
		})

		It("grants default roles and answers an add-then-query sequence", func() {
			subject.OnUserStarting(context.Background(), user)

			Expect(subject.IsRoleAvailable(user, roled.RoleSMS)).To(BeTrue())
			Expect(addRoleHolder(roled.RoleSMS, "com.example.sms")).To(BeTrue())
			Expect(subject.RoleHolders(user, roled.RoleSMS)).To(Equal([]string{"com.example.sms"}))
		})

		It("assigns fallback default holders during the grant pass", func() {
			subject.OnUserStarting(context.Background(), user)

			Expect(subject.RoleHolders(user, roled.RoleBrowser)).To(Equal([]string{"com.android.chrome"}))
		})

		It("clears every holder of a multi-holder role", func() {
			pm.AddPackage("com.example.police", user)
			pm.AddPackage("com.example.fire", user)
			subject.OnUserStarting(context.Background(), user)

			Expect(addRoleHolder("android.app.role.EMERGENCY", "com.example.police")).To(BeTrue())
			Expect(addRoleHolder("android.app.role.EMERGENCY", "com.example.fire")).To(BeTrue())

			result := make(chan bool, 1)
			subject.ClearRoleHolders(context.Background(), user, "android.app.role.EMERGENCY", 0, func(ok bool) {
				result <- ok
			})
			Eventually(result).Should(Receive(BeTrue()))

			Expect(subject.RoleHolders(user, "android.app.role.EMERGENCY")).To(BeEmpty())
		})

		It("does nothing for a user that does not exist", func() {
			subject.OnUserStarting(context.Background(), roled.UserID(99))

			Expect(subject.IsRoleAvailable(roled.UserID(99), roled.RoleSMS)).To(BeFalse())
		})
	})

	Describe("fallback suppression", func() {
		BeforeEach(func() {
			subject = newService()
		})

		It("does not re-grant a default while fallback is disabled", func() {
			subject.OnUserStarting(context.Background(), user)
			Expect(subject.RoleHolders(user, roled.RoleBrowser)).To(Equal([]string{"com.android.chrome"}))

			result := make(chan bool, 1)
			subject.RemoveRoleHolder(context.Background(), user, roled.RoleBrowser, "com.android.chrome", 0, func(ok bool) {
				result <- ok
			})
			Eventually(result).Should(Receive(BeTrue()))
			subject.SetFallbackEnabled(user, roled.RoleBrowser, false)

			pm.AddPackage("com.example.extra", user)
			subject.OnUserStarting(context.Background(), user)

			Expect(subject.RoleHolders(user, roled.RoleBrowser)).To(BeEmpty())

			subject.SetFallbackEnabled(user, roled.RoleBrowser, true)
			pm.AddPackage("com.example.other", user)
			subject.OnUserStarting(context.Background(), user)

			Expect(subject.RoleHolders(user, roled.RoleBrowser)).To(Equal([]string{"com.android.chrome"}))
		})
	})

	Describe("grant evaluation shortcut", func() {
		var fakeController *controllerfakes.FakeRoleController

		BeforeEach(func() {
			fakeController = new(controllerfakes.FakeRoleController)
			fakeController.GrantDefaultRolesStub = func(ctx context.Context, done func(bool)) {
				done(true)
			}

			subject = newService(WithControllerFactory(func(roled.UserID, controller.RoleStore, logx.Logger) controller.RoleController {
				return fakeController
			}))
		})

		It("skips the grant pass when the package set is unchanged", func() {
			subject.OnUserStarting(context.Background(), user)
			Expect(fakeController.GrantDefaultRolesCallCount()).To(Equal(1))

			subject.OnUserStarting(context.Background(), user)
			Expect(fakeController.GrantDefaultRolesCallCount()).To(Equal(1))
		})

		It("re-evaluates when the package set changes", func() {
			subject.OnUserStarting(context.Background(), user)
			Expect(fakeController.GrantDefaultRolesCallCount()).To(Equal(1))

			pm.AddPackage("com.example.new", user)
			subject.OnUserStarting(context.Background(), user)
			Expect(fakeController.GrantDefaultRolesCallCount()).To(Equal(2))
		})

		It("does not record the fingerprint when the grant pass fails", func() {
			fakeController.GrantDefaultRolesStub = func(ctx context.Context, done func(bool)) {
				done(false)
			}

			subject.OnUserStarting(context.Background(), user)
			subject.OnUserStarting(context.Background(), user)

			Expect(fakeController.GrantDefaultRolesCallCount()).To(Equal(2))
		})
	})

	Describe("package-change throttling", func() {
		var fakeController *controllerfakes.FakeRoleController

		BeforeEach(func() {
			fakeController = new(controllerfakes.FakeRoleController)
			fakeController.GrantDefaultRolesStub = func(ctx context.Context, done func(bool)) {
				done(true)
			}

			subject = newService(WithControllerFactory(func(roled.UserID, controller.RoleStore, logx.Logger) controller.RoleController {
				return fakeController
			}))
		})

		It("coalesces a burst of package events into one grant run", func() {
			subject.OnPackageAdded(user, "com.example.a")
			subject.OnPackageChanged(user, "com.example.a")
			subject.OnPackageRemoved(user, "com.example.b")

			Consistently(fakeController.GrantDefaultRolesCallCount).Should(Equal(0))

			clk.WaitForWatcherAndIncrement(GrantThrottleInterval)

			Eventually(fakeController.GrantDefaultRolesCallCount).Should(Equal(1))
			Consistently(fakeController.GrantDefaultRolesCallCount).Should(Equal(1))
		})

		It("coalesces owner and demo-mode changes with package events", func() {
			subject.OnOwnerChanged(user)
			subject.OnDemoModeChanged(user)
			subject.OnPackageAdded(user, "com.example.a")

			Consistently(fakeController.GrantDefaultRolesCallCount).Should(Equal(0))

			clk.WaitForWatcherAndIncrement(GrantThrottleInterval)

			Eventually(fakeController.GrantDefaultRolesCallCount).Should(Equal(1))
			Consistently(fakeController.GrantDefaultRolesCallCount).Should(Equal(1))
		})

		It("ignores package events for a user that does not exist", func() {
			ghost := roled.UserID(99)
			subject.OnPackageAdded(ghost, "com.example.a")

			clk.Increment(GrantThrottleInterval)

			Consistently(fakeController.GrantDefaultRolesCallCount).Should(Equal(0))
			Expect(snapshotPath(ghost)).NotTo(BeAnExistingFile())
		})
	})

	Describe("version upgrade at user starting", func() {
		var fakeController *controllerfakes.FakeRoleController

		writeLegacySnapshot := func() {
			err := state.WriteSnapshot(snapshotPath(user), state.Snapshot{
				Version: state.VersionLegacy,
				Roles: map[string][]string{
					roled.RoleSMS:     {"com.example.sms"},
					roled.RoleBrowser: {},
				},
			})
			Expect(err).NotTo(HaveOccurred())
		}

		BeforeEach(func() {
			writeLegacySnapshot()

			fakeController = new(controllerfakes.FakeRoleController)
			fakeController.GrantDefaultRolesStub = func(ctx context.Context, done func(bool)) {
				done(true)
			}

			subject = newService(WithControllerFactory(func(roled.UserID, controller.RoleStore, logx.Logger) controller.RoleController {
				return fakeController
			}))
		})

		It("fetches the legacy fallback-disabled list before granting", func() {
			var order []string
			fakeController.LegacyFallbackDisabledRolesStub = func(ctx context.Context) ([]string, error) {
				order = append(order, "legacy")
				return []string{roled.RoleBrowser}, nil
			}
			fakeController.GrantDefaultRolesStub = func(ctx context.Context, done func(bool)) {
				order = append(order, "grant")
				done(true)
			}

			subject.OnUserStarting(context.Background(), user)

			Expect(order).To(Equal([]string{"legacy", "grant"}))
			Expect(subject.IsFallbackEnabled(user, roled.RoleSMS)).To(BeTrue())
			Expect(subject.IsFallbackEnabled(user, roled.RoleBrowser)).To(BeFalse())
		})

		It("defers the upgrade when the legacy fetch fails", func() {
			fakeController.LegacyFallbackDisabledRolesReturns(nil, errors.New("controller timed out"))

			subject.OnUserStarting(context.Background(), user)

			Expect(fakeController.GrantDefaultRolesCallCount()).To(Equal(1))

			snapshot, ok := state.ReadSnapshot(snapshotPath(user), new(logxfakes.FakeLogger))
			Expect(ok).To(BeTrue())
			Expect(snapshot.Version).To(Equal(state.VersionLegacy))
		})
	})

	Describe("#OnRemoveUser", func() {
		BeforeEach(func() {
			subject = newService()
		})

		It("deletes the backing file and starts fresh on re-access", func() {
			subject.OnUserStarting(context.Background(), user)
			Expect(addRoleHolder(roled.RoleSMS, "com.example.sms")).To(BeTrue())
			Expect(snapshotPath(user)).To(BeAnExistingFile())

			subject.OnRemoveUser(user)

			Expect(snapshotPath(user)).NotTo(BeAnExistingFile())
			Expect(subject.RoleHolders(user, roled.RoleSMS)).To(BeNil())
		})
	})

	Describe("listener fan-out", func() {
		BeforeEach(func() {
			subject = newService()
			subject.SetRoleNamesFromController(user, []string{roled.RoleSMS})
		})

		It("notifies listeners registered for the user", func() {
			listener := newRecordingListener()
			subject.AddOnRoleHoldersChangedListener(user, listener)

			subject.AddRoleHolderFromController(user, roled.RoleSMS, "com.example.sms")

			Eventually(listener.received).Should(Receive(Equal(roled.RoleSMS)))
		})

		It("notifies all-users listeners for any user's change", func() {
			listener := newRecordingListener()
			subject.AddOnRoleHoldersChangedListener(roled.UserAll, listener)

			subject.AddRoleHolderFromController(user, roled.RoleSMS, "com.example.sms")

			Eventually(listener.received).Should(Receive(Equal(roled.RoleSMS)))
		})

		It("isolates failing and panicking listeners", func() {
			failing := newRecordingListener()
			failing.err = errors.New("remote endpoint died")
			panicking := newRecordingListener()
			panicking.panics = true
			healthy := newRecordingListener()

			subject.AddOnRoleHoldersChangedListener(user, failing)
			subject.AddOnRoleHoldersChangedListener(user, panicking)
			subject.AddOnRoleHoldersChangedListener(user, healthy)

			subject.AddRoleHolderFromController(user, roled.RoleSMS, "com.example.sms")

			Eventually(healthy.received).Should(Receive(Equal(roled.RoleSMS)))
		})

		It("stops notifying a removed listener", func() {
			listener := newRecordingListener()
			subject.AddOnRoleHoldersChangedListener(user, listener)
			subject.RemoveOnRoleHoldersChangedListener(user, listener)

			subject.AddRoleHolderFromController(user, roled.RoleSMS, "com.example.sms")

			Consistently(listener.received).ShouldNot(Receive())
		})
	})

	Describe("role qualification bypass", func() {
		BeforeEach(func() {
			subject = newService()
			subject.SetRoleNamesFromController(user, []string{roled.RoleSMS})
		})

		It("defaults to off", func() {
			Expect(subject.IsBypassingRoleQualification()).To(BeFalse())
		})

		It("writes holders straight to the state while bypassing", func() {
			subject.SetBypassingRoleQualification(true)

			Expect(addRoleHolder(roled.RoleSMS, "com.example.uninstalled")).To(BeTrue())
			Expect(subject.RoleHolders(user, roled.RoleSMS)).To(Equal([]string{"com.example.uninstalled"}))
		})

		It("still fails an addition to a role the user does not have", func() {
			subject.SetBypassingRoleQualification(true)

			Expect(addRoleHolder("android.app.role.UNKNOWN", "com.example.sms")).To(BeFalse())
			Expect(subject.RoleHolders(user, "android.app.role.UNKNOWN")).To(BeNil())
		})
	})
})

var _ = Describe("PackagesFingerprint", func() {
	It("is independent of input order", func() {
		a := PackagesFingerprint([]string{"com.example.a", "com.example.b"})
		b := PackagesFingerprint([]string{"com.example.b", "com.example.a"})

		Expect(a).To(Equal(b))
	})

	It("changes when the package set changes", func() {
		a := PackagesFingerprint([]string{"com.example.a"})
		b := PackagesFingerprint([]string{"com.example.a", "com.example.b"})

		Expect(a).NotTo(Equal(b))
	})
})
