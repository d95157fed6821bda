package state

import (
	"os"
	"sort"
	"sync"

	"code.cloudfoundry.org/roled/pkg/logx"
	"code.cloudfoundry.org/roled/pkg/roled"
)

// Callback observes successful role-holder changes on a UserState. The
// owning service re-broadcasts these to registered listeners. It is invoked
// after the snapshot write succeeded, never while the state lock is held.
type Callback interface {
	OnRoleHoldersChanged(user roled.UserID, roleName string)
}

// UserState is the in-memory role state of one device user. It owns its
// backing snapshot file exclusively; every mutation is written through to
// disk before the change is announced.
type UserState struct {
	user     roled.UserID
	path     string
	logger   logx.Logger
	callback Callback

	mu              sync.Mutex
	version         int
	packagesHash    string
	roles           map[string][]string
	fallbackEnabled map[string]struct{}
	destroyed       bool
}

// NewUserState loads the user's snapshot from path, or starts fresh at the
// current schema version when no usable snapshot exists.
func NewUserState(path string, user roled.UserID, logger logx.Logger, callback Callback) *UserState {
	s := &UserState{
		user:            user,
		path:            path,
		logger:          logger.WithName("user-state").WithData(logx.Data{Key: "userId", Value: user}),
		callback:        callback,
		roles:           make(map[string][]string),
		fallbackEnabled: make(map[string]struct{}),
	}

	snapshot, ok := ReadSnapshot(path, s.logger)
	if !ok {
		s.version = CurrentVersion
		return s
	}

	s.version = snapshot.Version
	s.packagesHash = snapshot.PackagesHash
	for roleName, holders := range snapshot.Roles {
		s.roles[roleName] = append([]string(nil), holders...)
	}
	for _, roleName := range snapshot.FallbackEnabled {
		s.fallbackEnabled[roleName] = struct{}{}
	}

	return s
}

// IsRoleAvailable reports whether roleName is recognized by this state.
func (s *UserState) IsRoleAvailable(roleName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.roles[roleName]
	return ok
}

// RoleHolders returns the ordered holders of roleName, or nil when the role
// is unknown to this state. An available role with no holders returns an
// empty, non-nil slice.
func (s *UserState) RoleHolders(roleName string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	holders, ok := s.roles[roleName]
	if !ok {
		return nil
	}

	copied := make([]string, len(holders))
	copy(copied, holders)
	return copied
}

// HeldRoles returns the names of every role packageName currently holds.
func (s *UserState) HeldRoles(packageName string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var held []string
	for roleName, holders := range s.roles {
		for _, holder := range holders {
			if holder == packageName {
				held = append(held, roleName)
				break
			}
		}
	}

	sort.Strings(held)
	return held
}

// AddRoleHolder appends packageName to roleName's holders. It returns true
// when the holder set actually changed.
func (s *UserState) AddRoleHolder(roleName, packageName string) bool {
	s.mu.Lock()

	if s.destroyed {
		s.mu.Unlock()
		s.logger.Error(stateDestroyed, nil, logx.Data{Key: "role.name", Value: roleName})
		return false
	}

	holders, ok := s.roles[roleName]
	if !ok {
		s.mu.Unlock()
		s.logger.Error(roleNotAvailable, roled.ErrRoleNotFound, logx.Data{Key: "role.name", Value: roleName})
		return false
	}

	for _, holder := range holders {
		if holder == packageName {
			s.mu.Unlock()
			return false
		}
	}

	s.roles[roleName] = append(holders, packageName)
	written := s.persistLocked()
	s.mu.Unlock()

	if written {
		s.notify(roleName)
	}
	return true
}

// RemoveRoleHolder removes packageName from roleName's holders. It returns
// true when the holder set actually changed.
func (s *UserState) RemoveRoleHolder(roleName, packageName string) bool {
	s.mu.Lock()

	if s.destroyed {
		s.mu.Unlock()
		s.logger.Error(stateDestroyed, nil, logx.Data{Key: "role.name", Value: roleName})
		return false
	}

	holders, ok := s.roles[roleName]
	if !ok {
		s.mu.Unlock()
		s.logger.Error(roleNotAvailable, roled.ErrRoleNotFound, logx.Data{Key: "role.name", Value: roleName})
		return false
	}

	changed := false
	for i, holder := range holders {
		if holder == packageName {
			s.roles[roleName] = append(holders[:i], holders[i+1:]...)
			changed = true
			break
		}
	}

	if !changed {
		s.mu.Unlock()
		return false
	}

	written := s.persistLocked()
	s.mu.Unlock()

	if written {
		s.notify(roleName)
	}
	return true
}

// SetRoleNames declares the full set of recognized roles. Roles no longer
// recognized are dropped together with their holders and fallback state;
// newly recognized roles start empty with fallback enabled.
func (s *UserState) SetRoleNames(names []string) {
	s.mu.Lock()

	if s.destroyed {
		s.mu.Unlock()
		s.logger.Error(stateDestroyed, nil)
		return
	}

	recognized := make(map[string]struct{}, len(names))
	for _, name := range names {
		recognized[name] = struct{}{}
	}

	changed := false
	var dropped []string

	for roleName, holders := range s.roles {
		if _, ok := recognized[roleName]; ok {
			continue
		}
		if len(holders) > 0 {
			dropped = append(dropped, roleName)
		}
		delete(s.roles, roleName)
		delete(s.fallbackEnabled, roleName)
		changed = true
	}

	for name := range recognized {
		if _, ok := s.roles[name]; ok {
			continue
		}
		s.roles[name] = []string{}
		s.fallbackEnabled[name] = struct{}{}
		changed = true
	}

	written := false
	if changed {
		written = s.persistLocked()
	}
	s.mu.Unlock()

	if written {
		sort.Strings(dropped)
		for _, roleName := range dropped {
			s.notify(roleName)
		}
	}
}

// IsFallbackEnabled reports whether automatic default re-assignment may
// pick a holder for roleName.
func (s *UserState) IsFallbackEnabled(roleName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.fallbackEnabled[roleName]
	return ok
}

// SetFallbackEnabled records whether fallback applies to roleName. Disabling
// it preserves an explicit "none" choice across grant passes.
func (s *UserState) SetFallbackEnabled(roleName string, enabled bool) {
	s.mu.Lock()

	if s.destroyed {
		s.mu.Unlock()
		s.logger.Error(stateDestroyed, nil, logx.Data{Key: "role.name", Value: roleName})
		return
	}

	if _, ok := s.roles[roleName]; !ok {
		s.mu.Unlock()
		s.logger.Error(roleNotAvailable, roled.ErrRoleNotFound, logx.Data{Key: "role.name", Value: roleName})
		return
	}

	_, current := s.fallbackEnabled[roleName]
	if current == enabled {
		s.mu.Unlock()
		return
	}

	if enabled {
		s.fallbackEnabled[roleName] = struct{}{}
	} else {
		delete(s.fallbackEnabled, roleName)
	}

	written := s.persistLocked()
	s.mu.Unlock()

	if written {
		s.notify(roleName)
	}
}

// PackagesHash returns the installed-package fingerprint recorded at the
// last successful grant evaluation, or the empty string.
func (s *UserState) PackagesHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.packagesHash
}

func (s *UserState) SetPackagesHash(hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		s.logger.Error(stateDestroyed, nil)
		return
	}

	if s.packagesHash == hash {
		return
	}

	s.packagesHash = hash
	s.persistLocked()
}

// Destroy deletes the backing snapshot file and marks the state unusable.
func (s *UserState) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return
	}
	s.destroyed = true

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.logger.Error(failedToDeleteSnapshot, err, logx.Data{Key: "path", Value: s.path})
	}
}

// persistLocked writes the current state through to disk. The caller must
// hold s.mu. A failed write is logged; the in-memory state remains the
// source of truth and the previous file is preserved.
func (s *UserState) persistLocked() bool {
	snapshot := Snapshot{
		Version:      s.version,
		PackagesHash: s.packagesHash,
		Roles:        make(map[string][]string, len(s.roles)),
	}
	for roleName, holders := range s.roles {
		snapshot.Roles[roleName] = append([]string(nil), holders...)
	}
	for roleName := range s.fallbackEnabled {
		snapshot.FallbackEnabled = append(snapshot.FallbackEnabled, roleName)
	}
	sort.Strings(snapshot.FallbackEnabled)

	if err := WriteSnapshot(s.path, snapshot); err != nil {
		s.logger.Error(failedToWriteSnapshot, err, logx.Data{Key: "path", Value: s.path})
		return false
	}

	return true
}

func (s *UserState) notify(roleName string) {
	if s.callback == nil {
		return
	}
	s.callback.OnRoleHoldersChanged(s.user, roleName)
}
