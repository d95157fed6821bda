package platform

import (
	"sort"
	"sync"

	"code.cloudfoundry.org/roled/pkg/roled"
)

// StaticRoleCatalog serves a fixed role list.
type StaticRoleCatalog struct {
	roles []RoleConfig
	index map[string]RoleConfig
}

func NewStaticRoleCatalog(roles ...RoleConfig) *StaticRoleCatalog {
	index := make(map[string]RoleConfig, len(roles))
	for _, role := range roles {
		index[role.Name] = role
	}

	return &StaticRoleCatalog{
		roles: roles,
		index: index,
	}
}

func (c *StaticRoleCatalog) Roles() []RoleConfig {
	return append([]RoleConfig(nil), c.roles...)
}

func (c *StaticRoleCatalog) Role(name string) (RoleConfig, bool) {
	role, ok := c.index[name]
	return role, ok
}

// InMemoryPackageManager tracks installed packages per user.
type InMemoryPackageManager struct {
	mu       sync.Mutex
	packages map[roled.UserID]map[string]struct{}
}

func NewInMemoryPackageManager() *InMemoryPackageManager {
	return &InMemoryPackageManager{
		packages: make(map[roled.UserID]map[string]struct{}),
	}
}

func (m *InMemoryPackageManager) AddPackage(packageName string, user roled.UserID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	installed, ok := m.packages[user]
	if !ok {
		installed = make(map[string]struct{})
		m.packages[user] = installed
	}
	installed[packageName] = struct{}{}
}

func (m *InMemoryPackageManager) RemovePackage(packageName string, user roled.UserID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.packages[user], packageName)
}

func (m *InMemoryPackageManager) InstalledPackages(user roled.UserID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	installed := make([]string, 0, len(m.packages[user]))
	for packageName := range m.packages[user] {
		installed = append(installed, packageName)
	}

	sort.Strings(installed)
	return installed, nil
}

func (m *InMemoryPackageManager) IsPackageInstalled(packageName string, user roled.UserID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.packages[user][packageName]
	return ok, nil
}

// InMemoryUserManager tracks which device users exist.
type InMemoryUserManager struct {
	mu    sync.Mutex
	users map[roled.UserID]struct{}
}

func NewInMemoryUserManager(users ...roled.UserID) *InMemoryUserManager {
	known := make(map[roled.UserID]struct{}, len(users))
	for _, user := range users {
		known[user] = struct{}{}
	}

	return &InMemoryUserManager{
		users: known,
	}
}

func (m *InMemoryUserManager) AddUser(user roled.UserID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[user] = struct{}{}
}

func (m *InMemoryUserManager) RemoveUser(user roled.UserID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, user)
}

func (m *InMemoryUserManager) Exists(user roled.UserID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.users[user]
	return ok
}
