package state

import (
	"code.cloudfoundry.org/roled/pkg/logx"
)

const (
	// VersionLegacy is the schema written before fallback state existed on
	// disk. Snapshots without a version field decode as this.
	VersionLegacy = 0

	// VersionFallbackMigrated added the fallback-enabled role set to the
	// snapshot.
	VersionFallbackMigrated = 1

	CurrentVersion = VersionFallbackMigrated
)

// A migration upgrades a user state from exactly fromVersion to
// fromVersion+1. Steps are applied in order and never skipped; each step is
// a no-op when the state is already past it.
type migration struct {
	fromVersion int
	name        string
	apply       func(s *UserState, legacyFallbackDisabled []string)
}

var migrations = []migration{
	{
		fromVersion: VersionLegacy,
		name:        "seed-fallback-enabled-roles",
		apply: func(s *UserState, legacyFallbackDisabled []string) {
			disabled := make(map[string]struct{}, len(legacyFallbackDisabled))
			for _, roleName := range legacyFallbackDisabled {
				disabled[roleName] = struct{}{}
			}

			for roleName := range s.roles {
				if _, ok := disabled[roleName]; ok {
					continue
				}
				s.fallbackEnabled[roleName] = struct{}{}
			}
		},
	},
}

// IsVersionUpgradeNeeded reports whether the stored schema version is older
// than the version this code writes.
func (s *UserState) IsVersionUpgradeNeeded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.version < CurrentVersion
}

// UpgradeVersion advances the state through every pending migration and
// persists the result. legacyFallbackDisabled is the pre-migration list of
// roles whose fallback the user had disabled; callers that fail to obtain it
// must not call UpgradeVersion, leaving the state at its old version for a
// later retry. Applying the sequence twice is a no-op.
func (s *UserState) UpgradeVersion(legacyFallbackDisabled []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		s.logger.Error(stateDestroyed, nil)
		return
	}

	upgraded := false
	for _, m := range migrations {
		if s.version != m.fromVersion {
			continue
		}

		s.logger.Info(applyingMigration, logx.Data{Key: "migration", Value: m.name})
		m.apply(s, legacyFallbackDisabled)
		s.version = m.fromVersion + 1
		upgraded = true
	}

	if upgraded {
		s.persistLocked()
	}
}
