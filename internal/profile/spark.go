package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"mac-provision/internal/logger"
)

// MakeExecutable sets the executable bits on every regular file directly under home/bin.
// A missing bin directory is reported as a warning, not an error, so a machine without Spark
// still gets its profile written.
func MakeExecutable(home string) (int, error) {
	bin := filepath.Join(home, "bin")
	entries, err := os.ReadDir(bin)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("[WARN] %s does not exist; skipping permission fix\n", bin)
		logger.Run.WithField("dir", bin).Warn("spark bin directory missing")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", bin, err)
	}

	changed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		path := filepath.Join(bin, e.Name())
		info, err := e.Info()
		if err != nil {
			return changed, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		mode := info.Mode().Perm()
		if mode&0111 == 0111 {
			continue
		}
		if err := os.Chmod(path, mode|0111); err != nil {
			return changed, fmt.Errorf("failed to chmod %s: %w", path, err)
		}
		changed++
	}
	logger.Debug("[DEBUG] Marked %d files executable in %s\n", changed, bin)
	return changed, nil
}
