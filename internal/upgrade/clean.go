package upgrade

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OldDir is the directory, inside the output directory, stale files are moved to.
const OldDir = ".old"

// Clean moves the .jar files of dir that neither a successful resolution nor
// userMods names into dir/.old, and returns their names.
func Clean(dir string, resolutions []Resolution, userMods []string) ([]string, error) {
	keep := make(map[string]struct{}, len(resolutions)+len(userMods))
	for _, r := range resolutions {
		if r.Err == nil {
			keep[r.Data.Filename()] = struct{}{}
		}
	}
	for _, name := range userMods {
		keep[name] = struct{}{}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var moved []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), ".jar") {
			continue
		}
		if _, ok := keep[e.Name()]; ok {
			continue
		}

		oldDir := filepath.Join(dir, OldDir)
		if err := os.MkdirAll(oldDir, 0755); err != nil {
			return moved, fmt.Errorf("failed to create %s: %w", oldDir, err)
		}
		if err := os.Rename(filepath.Join(dir, e.Name()), filepath.Join(oldDir, e.Name())); err != nil {
			return moved, fmt.Errorf("failed to move %s: %w", e.Name(), err)
		}
		moved = append(moved, e.Name())
	}
	return moved, nil
}
