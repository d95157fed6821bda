// Package recording decorates a RoleController with grant-run duration
// measurement.
package recording

import (
	"context"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/roled/pkg/controller"
	"code.cloudfoundry.org/roled/pkg/logx"
	"code.cloudfoundry.org/roled/pkg/roled"
)

const failedToObserveDuration = "failed-to-observe-duration"

//go:generate counterfeiter . DurationRecorder

type DurationRecorder interface {
	Observe(duration time.Duration) error
}

// OutcomeRecorder reports whether a grant run succeeded. monitor.Statter
// implements it.
type OutcomeRecorder interface {
	SendSuccessfulGrant(logger logx.Logger)
	SendFailedGrant(logger logx.Logger)
}

type Controller struct {
	controller controller.RoleController
	recorder   DurationRecorder
	outcome    OutcomeRecorder
	logger     logx.Logger
	clock      clock.Clock
}

type Option func(*Controller)

func WithClock(c clock.Clock) Option {
	return func(ctrl *Controller) {
		ctrl.clock = c
	}
}

func WithOutcomeRecorder(r OutcomeRecorder) Option {
	return func(ctrl *Controller) {
		ctrl.outcome = r
	}
}

func NewController(inner controller.RoleController, recorder DurationRecorder, logger logx.Logger, opts ...Option) *Controller {
	ctrl := &Controller{
		controller: inner,
		recorder:   recorder,
		logger:     logger.WithName("recording-role-controller"),
		clock:      clock.NewClock(),
	}

	for _, opt := range opts {
		opt(ctrl)
	}

	return ctrl
}

func (c *Controller) GrantDefaultRoles(ctx context.Context, done func(ok bool)) {
	start := c.clock.Now()

	c.controller.GrantDefaultRoles(ctx, func(ok bool) {
		if ok {
			if err := c.recorder.Observe(c.clock.Since(start)); err != nil {
				c.logger.Error(failedToObserveDuration, err)
			}
		}
		if c.outcome != nil {
			if ok {
				c.outcome.SendSuccessfulGrant(c.logger)
			} else {
				c.outcome.SendFailedGrant(c.logger)
			}
		}
		done(ok)
	})
}

func (c *Controller) OnAddRoleHolder(ctx context.Context, roleName, packageName string, flags roled.Flags, done func(ok bool)) {
	c.controller.OnAddRoleHolder(ctx, roleName, packageName, flags, done)
}

func (c *Controller) OnRemoveRoleHolder(ctx context.Context, roleName, packageName string, flags roled.Flags, done func(ok bool)) {
	c.controller.OnRemoveRoleHolder(ctx, roleName, packageName, flags, done)
}

func (c *Controller) OnClearRoleHolders(ctx context.Context, roleName string, flags roled.Flags, done func(ok bool)) {
	c.controller.OnClearRoleHolders(ctx, roleName, flags, done)
}

func (c *Controller) IsRoleVisible(ctx context.Context, roleName string) (bool, error) {
	return c.controller.IsRoleVisible(ctx, roleName)
}

func (c *Controller) IsApplicationVisibleForRole(ctx context.Context, roleName, packageName string) (bool, error) {
	return c.controller.IsApplicationVisibleForRole(ctx, roleName, packageName)
}

func (c *Controller) LegacyFallbackDisabledRoles(ctx context.Context) ([]string, error) {
	return c.controller.LegacyFallbackDisabledRoles(ctx)
}

func (c *Controller) Stop() {
	c.controller.Stop()
}
