package controller_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"code.cloudfoundry.org/lager/lagertest"
	. "code.cloudfoundry.org/roled/pkg/controller"
	"code.cloudfoundry.org/roled/pkg/logx/lagerx"
	"code.cloudfoundry.org/roled/pkg/platform"
	"code.cloudfoundry.org/roled/pkg/roled"
	"code.cloudfoundry.org/roled/pkg/state"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type doneRecorder struct {
	mu      sync.Mutex
	results []bool
}

func (d *doneRecorder) done(ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results = append(d.results, ok)
}

func (d *doneRecorder) Results() []bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]bool(nil), d.results...)
}

var _ = Describe("Local", func() {
	const user = roled.UserID(10)

	var (
		dirName string
		catalog *platform.StaticRoleCatalog
		pm      *platform.InMemoryPackageManager
		store   *state.UserState

		subject *Local

		ctx context.Context
	)

	BeforeEach(func() {
		var err error
		dirName, err = os.MkdirTemp("", "roled-test")
		Expect(err).NotTo(HaveOccurred())

		logger := lagerx.NewLogger(lagertest.NewTestLogger("roled-test"))

		catalog = platform.NewStaticRoleCatalog(
			platform.RoleConfig{
				Name:           roled.RoleSMS,
				DefaultHolders: []string{"com.example.sms", "com.example.sms2"},
				Visible:        true,
			},
			platform.RoleConfig{
				Name:           roled.RoleBrowser,
				DefaultHolders: []string{"com.example.browser"},
				Visible:        true,
			},
			platform.RoleConfig{
				Name:            "android.app.role.HIDDEN_MULTI",
				MultipleHolders: true,
			},
		)
		pm = platform.NewInMemoryPackageManager()
		pm.AddPackage("com.example.sms", user)
		pm.AddPackage("com.example.other", user)

		store = state.NewUserState(filepath.Join(dirName, "roles-10.json"), user, logger, nil)

		subject = NewLocal(user, catalog, pm, store, logger)

		ctx = context.Background()
	})

	AfterEach(func() {
		subject.Stop()
		os.RemoveAll(dirName)
	})

	grant := func() bool {
		recorder := new(doneRecorder)
		subject.GrantDefaultRoles(ctx, recorder.done)
		Eventually(recorder.Results).Should(HaveLen(1))
		return recorder.Results()[0]
	}

	Describe("#GrantDefaultRoles", func() {
		It("declares the recognized role names on the store", func() {
			Expect(grant()).To(BeTrue())

			Expect(store.IsRoleAvailable(roled.RoleSMS)).To(BeTrue())
			Expect(store.IsRoleAvailable(roled.RoleBrowser)).To(BeTrue())
			Expect(store.IsRoleAvailable("android.app.role.HIDDEN_MULTI")).To(BeTrue())
		})

		It("grants the first installed default candidate", func() {
			Expect(grant()).To(BeTrue())

			Expect(store.RoleHolders(roled.RoleSMS)).To(Equal([]string{"com.example.sms"}))
		})

		It("leaves roles with no installed candidate empty", func() {
			Expect(grant()).To(BeTrue())

			Expect(store.RoleHolders(roled.RoleBrowser)).To(BeEmpty())
		})

		It("does not assign a fallback when fallback is disabled", func() {
			grant()
			store.RemoveRoleHolder(roled.RoleSMS, "com.example.sms")
			store.SetFallbackEnabled(roled.RoleSMS, false)

			Expect(grant()).To(BeTrue())

			Expect(store.RoleHolders(roled.RoleSMS)).To(BeEmpty())
		})

		It("assigns a fallback again once fallback is re-enabled", func() {
			grant()
			store.RemoveRoleHolder(roled.RoleSMS, "com.example.sms")
			store.SetFallbackEnabled(roled.RoleSMS, false)
			grant()

			store.SetFallbackEnabled(roled.RoleSMS, true)
			Expect(grant()).To(BeTrue())

			Expect(store.RoleHolders(roled.RoleSMS)).To(Equal([]string{"com.example.sms"}))
		})

		It("does not replace an existing holder", func() {
			grant()
			pm.AddPackage("com.example.sms2", user)

			Expect(grant()).To(BeTrue())

			Expect(store.RoleHolders(roled.RoleSMS)).To(Equal([]string{"com.example.sms"}))
		})

		It("removes holders that are no longer installed", func() {
			grant()
			pm.RemovePackage("com.example.sms", user)
			pm.AddPackage("com.example.sms2", user)

			Expect(grant()).To(BeTrue())

			Expect(store.RoleHolders(roled.RoleSMS)).To(Equal([]string{"com.example.sms2"}))
		})
	})

	Describe("#OnAddRoleHolder", func() {
		BeforeEach(func() {
			grant()
		})

		It("adds an installed package", func() {
			recorder := new(doneRecorder)
			subject.OnAddRoleHolder(ctx, roled.RoleBrowser, "com.example.other", 0, recorder.done)

			Eventually(recorder.Results).Should(Equal([]bool{true}))
			Expect(store.RoleHolders(roled.RoleBrowser)).To(Equal([]string{"com.example.other"}))
		})

		It("fails for a package that is not installed", func() {
			recorder := new(doneRecorder)
			subject.OnAddRoleHolder(ctx, roled.RoleBrowser, "com.example.missing", 0, recorder.done)

			Eventually(recorder.Results).Should(Equal([]bool{false}))
			Expect(store.RoleHolders(roled.RoleBrowser)).To(BeEmpty())
		})

		It("fails for an unrecognized role", func() {
			recorder := new(doneRecorder)
			subject.OnAddRoleHolder(ctx, "android.app.role.UNKNOWN", "com.example.other", 0, recorder.done)

			Eventually(recorder.Results).Should(Equal([]bool{false}))
		})

		It("replaces the holder of an exclusive role", func() {
			recorder := new(doneRecorder)
			subject.OnAddRoleHolder(ctx, roled.RoleSMS, "com.example.other", 0, recorder.done)

			Eventually(recorder.Results).Should(Equal([]bool{true}))
			Expect(store.RoleHolders(roled.RoleSMS)).To(Equal([]string{"com.example.other"}))
		})

		It("accumulates holders of a multi-holder role", func() {
			pm.AddPackage("com.example.a", user)
			pm.AddPackage("com.example.b", user)

			recorder := new(doneRecorder)
			subject.OnAddRoleHolder(ctx, "android.app.role.HIDDEN_MULTI", "com.example.a", 0, recorder.done)
			subject.OnAddRoleHolder(ctx, "android.app.role.HIDDEN_MULTI", "com.example.b", 0, recorder.done)

			Eventually(recorder.Results).Should(Equal([]bool{true, true}))
			Expect(store.RoleHolders("android.app.role.HIDDEN_MULTI")).To(Equal([]string{"com.example.a", "com.example.b"}))
		})
	})

	Describe("#OnRemoveRoleHolder", func() {
		BeforeEach(func() {
			grant()
		})

		It("removes the holder", func() {
			recorder := new(doneRecorder)
			subject.OnRemoveRoleHolder(ctx, roled.RoleSMS, "com.example.sms", 0, recorder.done)

			Eventually(recorder.Results).Should(Equal([]bool{true}))
			Expect(store.RoleHolders(roled.RoleSMS)).To(BeEmpty())
		})
	})

	Describe("#OnClearRoleHolders", func() {
		BeforeEach(func() {
			grant()
			pm.AddPackage("com.example.a", user)
			pm.AddPackage("com.example.b", user)

			recorder := new(doneRecorder)
			subject.OnAddRoleHolder(ctx, "android.app.role.HIDDEN_MULTI", "com.example.a", 0, recorder.done)
			subject.OnAddRoleHolder(ctx, "android.app.role.HIDDEN_MULTI", "com.example.b", 0, recorder.done)
			Eventually(recorder.Results).Should(HaveLen(2))
		})

		It("removes every holder", func() {
			recorder := new(doneRecorder)
			subject.OnClearRoleHolders(ctx, "android.app.role.HIDDEN_MULTI", 0, recorder.done)

			Eventually(recorder.Results).Should(Equal([]bool{true}))
			Expect(store.RoleHolders("android.app.role.HIDDEN_MULTI")).To(BeEmpty())
		})
	})

	Describe("ordering", func() {
		It("executes operations in submission order", func() {
			grant()
			pm.AddPackage("com.example.a", user)
			pm.AddPackage("com.example.b", user)

			recorder := new(doneRecorder)
			subject.OnAddRoleHolder(ctx, roled.RoleSMS, "com.example.a", 0, recorder.done)
			subject.OnAddRoleHolder(ctx, roled.RoleSMS, "com.example.b", 0, recorder.done)

			Eventually(recorder.Results).Should(HaveLen(2))
			Expect(store.RoleHolders(roled.RoleSMS)).To(Equal([]string{"com.example.b"}))
		})
	})

	Describe("visibility", func() {
		It("reports visible roles", func() {
			visible, err := subject.IsRoleVisible(ctx, roled.RoleSMS)
			Expect(err).NotTo(HaveOccurred())
			Expect(visible).To(BeTrue())
		})

		It("reports invisible roles", func() {
			visible, err := subject.IsRoleVisible(ctx, "android.app.role.HIDDEN_MULTI")
			Expect(err).NotTo(HaveOccurred())
			Expect(visible).To(BeFalse())
		})

		It("reports application visibility from installation state", func() {
			visible, err := subject.IsApplicationVisibleForRole(ctx, roled.RoleSMS, "com.example.sms")
			Expect(err).NotTo(HaveOccurred())
			Expect(visible).To(BeTrue())

			visible, err = subject.IsApplicationVisibleForRole(ctx, roled.RoleSMS, "com.example.missing")
			Expect(err).NotTo(HaveOccurred())
			Expect(visible).To(BeFalse())
		})
	})

	Describe("#LegacyFallbackDisabledRoles", func() {
		It("returns the provider's list", func() {
			withProvider := NewLocal(user, catalog, pm, store,
				lagerx.NewLogger(lagertest.NewTestLogger("roled-test")),
				WithLegacyFallbackProvider(func(roled.UserID) ([]string, error) {
					return []string{roled.RoleBrowser}, nil
				}),
			)
			defer withProvider.Stop()

			legacy, err := withProvider.LegacyFallbackDisabledRoles(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(legacy).To(Equal([]string{roled.RoleBrowser}))
		})

		It("propagates provider errors", func() {
			withProvider := NewLocal(user, catalog, pm, store,
				lagerx.NewLogger(lagertest.NewTestLogger("roled-test")),
				WithLegacyFallbackProvider(func(roled.UserID) ([]string, error) {
					return nil, errors.New("settings unavailable")
				}),
			)
			defer withProvider.Stop()

			_, err := withProvider.LegacyFallbackDisabledRoles(ctx)
			Expect(err).To(MatchError("settings unavailable"))
		})

		It("defaults to an empty list", func() {
			legacy, err := subject.LegacyFallbackDisabledRoles(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(legacy).To(BeEmpty())
		})
	})

	Describe("#Stop", func() {
		It("fails operations submitted afterwards", func() {
			subject.Stop()

			recorder := new(doneRecorder)
			subject.GrantDefaultRoles(ctx, recorder.done)

			Eventually(recorder.Results).Should(Equal([]bool{false}))
		})

		It("is safe to call twice", func() {
			subject.Stop()
			subject.Stop()
		})
	})
})
