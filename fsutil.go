package dotman

import (
	"os"
	"strings"
)

const snapshotFileExt = ".zst"

func osReadDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func trimSnapshotExt(name string) string {
	return strings.TrimSuffix(name, snapshotFileExt)
}
