package upgrade

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// UserDir is the directory, inside the output directory, holding mods that
// are not managed by a profile but installed alongside its mods.
const UserDir = "user"

// UserMods lists the .jar files of dir/user.
func UserMods(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(dir, UserDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read user mods: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".jar") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// InstallUserMods copies the named files of dir/user into dir.
func InstallUserMods(dir string, names []string) error {
	for _, name := range names {
		if err := copyFile(filepath.Join(dir, UserDir, name), filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("failed to install %s: %w", name, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
