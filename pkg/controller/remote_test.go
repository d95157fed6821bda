package controller_test

import (
	"context"
	"sync"

	"code.cloudfoundry.org/lager/lagertest"
	. "code.cloudfoundry.org/roled/pkg/controller"
	"code.cloudfoundry.org/roled/pkg/logx/lagerx"
	"code.cloudfoundry.org/roled/pkg/roled"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type stubBinding struct {
	mu         sync.Mutex
	grantCalls int
	addCalls   int
	unbound    bool

	legacy []string
}

func (b *stubBinding) GrantDefaultRoles(ctx context.Context, done func(bool)) {
	b.mu.Lock()
	b.grantCalls++
	b.mu.Unlock()
	done(true)
}

func (b *stubBinding) OnAddRoleHolder(ctx context.Context, roleName, packageName string, flags roled.Flags, done func(bool)) {
	b.mu.Lock()
	b.addCalls++
	b.mu.Unlock()
	done(true)
}

func (b *stubBinding) OnRemoveRoleHolder(ctx context.Context, roleName, packageName string, flags roled.Flags, done func(bool)) {
	done(true)
}

func (b *stubBinding) OnClearRoleHolders(ctx context.Context, roleName string, flags roled.Flags, done func(bool)) {
	done(true)
}

func (b *stubBinding) LegacyFallbackDisabledRoles(ctx context.Context) ([]string, error) {
	return b.legacy, nil
}

func (b *stubBinding) Unbind() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unbound = true
}

var _ = Describe("Remote", func() {
	var (
		binding *stubBinding
		subject *Remote

		ctx context.Context
	)

	BeforeEach(func() {
		binding = &stubBinding{legacy: []string{roled.RoleDialer}}
		subject = NewRemote(10, binding, lagerx.NewLogger(lagertest.NewTestLogger("roled-test")))
		ctx = context.Background()
	})

	It("forwards grant and mutation calls to the binding", func() {
		var results []bool
		subject.GrantDefaultRoles(ctx, func(ok bool) { results = append(results, ok) })
		subject.OnAddRoleHolder(ctx, roled.RoleSMS, "com.example.sms", 0, func(ok bool) { results = append(results, ok) })

		Expect(results).To(Equal([]bool{true, true}))
		Expect(binding.grantCalls).To(Equal(1))
		Expect(binding.addCalls).To(Equal(1))
	})

	It("forwards the legacy fallback query", func() {
		legacy, err := subject.LegacyFallbackDisabledRoles(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(legacy).To(Equal([]string{roled.RoleDialer}))
	})

	It("fails visibility queries as unsupported", func() {
		_, err := subject.IsRoleVisible(ctx, roled.RoleSMS)
		Expect(err).To(BeAssignableToTypeOf(roled.ErrUnsupported{}))

		_, err = subject.IsApplicationVisibleForRole(ctx, roled.RoleSMS, "com.example.sms")
		Expect(err).To(BeAssignableToTypeOf(roled.ErrUnsupported{}))
	})

	It("unbinds on stop", func() {
		subject.Stop()
		Expect(binding.unbound).To(BeTrue())
	})
})
