package api

import (
	"sync"

	"code.cloudfoundry.org/roled/pkg/controller"
	"code.cloudfoundry.org/roled/pkg/roled"
	"code.cloudfoundry.org/roled/pkg/state"
)

// Registry owns every per-user collection the service keeps: user states,
// controller bindings, grant throttles, and change listeners. It has its own
// mutex, distinct from any user-state lock; callers must not invoke blocking
// state or controller operations while inside one of its methods.
type Registry struct {
	mu sync.Mutex

	states      map[roled.UserID]*state.UserState
	controllers map[roled.UserID]controller.RoleController
	throttles   map[roled.UserID]*throttle

	userListeners map[roled.UserID][]roled.RoleHoldersChangedListener
	allListeners  []roled.RoleHoldersChangedListener
}

func NewRegistry() *Registry {
	return &Registry{
		states:        make(map[roled.UserID]*state.UserState),
		controllers:   make(map[roled.UserID]controller.RoleController),
		throttles:     make(map[roled.UserID]*throttle),
		userListeners: make(map[roled.UserID][]roled.RoleHoldersChangedListener),
	}
}

// GetOrCreateUserState returns the user's state, creating it with create on
// first access. Creation happens under the registry lock so two concurrent
// first accesses cannot both load the snapshot.
func (r *Registry) GetOrCreateUserState(user roled.UserID, create func() *state.UserState) *state.UserState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.states[user]; ok {
		return s
	}

	s := create()
	r.states[user] = s
	return s
}

func (r *Registry) RemoveUserState(user roled.UserID) (*state.UserState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.states[user]
	delete(r.states, user)
	return s, ok
}

func (r *Registry) GetOrCreateController(user roled.UserID, create func() controller.RoleController) controller.RoleController {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.controllers[user]; ok {
		return c
	}

	c := create()
	r.controllers[user] = c
	return c
}

func (r *Registry) RemoveController(user roled.UserID) (controller.RoleController, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.controllers[user]
	delete(r.controllers, user)
	return c, ok
}

func (r *Registry) GetOrCreateThrottle(user roled.UserID, create func() *throttle) *throttle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.throttles[user]; ok {
		return t
	}

	t := create()
	r.throttles[user] = t
	return t
}

func (r *Registry) RemoveThrottle(user roled.UserID) (*throttle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.throttles[user]
	delete(r.throttles, user)
	return t, ok
}

// AddListener registers l for one user, or for every user when user is
// roled.UserAll.
func (r *Registry) AddListener(user roled.UserID, l roled.RoleHoldersChangedListener) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user == roled.UserAll {
		r.allListeners = append(r.allListeners, l)
		return
	}
	r.userListeners[user] = append(r.userListeners[user], l)
}

func (r *Registry) RemoveListener(user roled.UserID, l roled.RoleHoldersChangedListener) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user == roled.UserAll {
		r.allListeners = removeListener(r.allListeners, l)
		return
	}

	remaining := removeListener(r.userListeners[user], l)
	if len(remaining) == 0 {
		delete(r.userListeners, user)
		return
	}
	r.userListeners[user] = remaining
}

func (r *Registry) RemoveUserListeners(user roled.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.userListeners, user)
}

// Listeners snapshots the delivery list for a change affecting user: the
// user's own listeners followed by the all-users listeners.
func (r *Registry) Listeners(user roled.UserID) []roled.RoleHoldersChangedListener {
	r.mu.Lock()
	defer r.mu.Unlock()

	listeners := make([]roled.RoleHoldersChangedListener, 0, len(r.userListeners[user])+len(r.allListeners))
	listeners = append(listeners, r.userListeners[user]...)
	listeners = append(listeners, r.allListeners...)
	return listeners
}

// Users returns every user id with any registered per-user resource.
func (r *Registry) Users() []roled.UserID {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[roled.UserID]struct{})
	for user := range r.states {
		seen[user] = struct{}{}
	}
	for user := range r.controllers {
		seen[user] = struct{}{}
	}
	for user := range r.throttles {
		seen[user] = struct{}{}
	}

	users := make([]roled.UserID, 0, len(seen))
	for user := range seen {
		users = append(users, user)
	}
	return users
}

func removeListener(listeners []roled.RoleHoldersChangedListener, l roled.RoleHoldersChangedListener) []roled.RoleHoldersChangedListener {
	for i, registered := range listeners {
		if registered == l {
			return append(listeners[:i], listeners[i+1:]...)
		}
	}
	return listeners
}
