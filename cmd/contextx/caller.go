package contextx

import (
	"context"

	"code.cloudfoundry.org/roled/pkg/roled"
)

// Caller describes the identity on whose behalf a request-surface call is
// made. The transport layer attaches it to the request context before the
// handlers run.
type Caller struct {
	UID  int
	PID  int
	User roled.UserID

	permissions map[string]struct{}
}

func NewCaller(uid, pid int, user roled.UserID, permissions ...string) Caller {
	held := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		held[p] = struct{}{}
	}

	return Caller{
		UID:         uid,
		PID:         pid,
		User:        user,
		permissions: held,
	}
}

// HoldsPermission reports whether the caller was granted permission.
func (c Caller) HoldsPermission(permission string) bool {
	_, ok := c.permissions[permission]
	return ok
}

type callerKey struct{}

func WithCaller(parent context.Context, caller Caller) context.Context {
	return context.WithValue(parent, callerKey{}, caller)
}

func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}
