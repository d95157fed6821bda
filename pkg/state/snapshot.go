// Package state holds the durable per-user role-assignment state: the
// on-disk snapshot codec, the in-memory user state that mediates every read
// and write of it, and the schema migrations between snapshot versions.
package state

import (
	"encoding/json"
	"os"

	"code.cloudfoundry.org/roled/pkg/ioutilx"
	"code.cloudfoundry.org/roled/pkg/logx"
)

// Snapshot is the serialized form of one user's role state. Field tags are
// deliberately short and stable; the schema is guarded by Version, not by
// identifier names.
type Snapshot struct {
	Version         int                 `json:"v"`
	PackagesHash    string              `json:"ph,omitempty"`
	Roles           map[string][]string `json:"r,omitempty"`
	FallbackEnabled []string            `json:"fb,omitempty"`
}

// ReadSnapshot loads the snapshot at path. A missing file and an unparseable
// file are both reported as absent (ok=false) so that first run and
// corruption recovery take the same path; parse failures are logged.
func ReadSnapshot(path string, logger logx.Logger) (Snapshot, bool) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Error(failedToParseSnapshot, err, logx.Data{Key: "path", Value: path})
		}
		return Snapshot{}, false
	}

	var snapshot Snapshot
	if err := json.Unmarshal(contents, &snapshot); err != nil {
		logger.Error(failedToParseSnapshot, err, logx.Data{Key: "path", Value: path})
		return Snapshot{}, false
	}

	return snapshot, true
}

// WriteSnapshot durably replaces the snapshot at path. The previous file
// survives any failure.
func WriteSnapshot(path string, snapshot Snapshot) error {
	contents, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	return ioutilx.ReplaceFile(path, contents)
}
