package ioutilx

import (
	"os"
	"path/filepath"
)

// OpenLogFile opens (creating if necessary) an append-only log file with
// owner-only permissions, suitable for the security audit log.
func OpenLogFile(filePath string) (*os.File, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	return file, err
}

// ReplaceFile durably replaces the file at path with contents. The data is
// written to a sibling temporary file, synced, then renamed over path, so a
// crash mid-write leaves the previous file intact.
func ReplaceFile(path string, contents []byte) error {
	tmp := path + ".tmp"

	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if _, err = file.Write(contents); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err = os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}

	return syncDir(filepath.Dir(path))
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()

	return d.Sync()
}
