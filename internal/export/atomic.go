// Package export serializes an already-computed interval set to its three
// output artifacts: a CSV table, a plotted timeline, and a text report.
// The functions here are pure formatting over immutable inputs; nothing
// in this package talks to the engine.
package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeAtomic writes the output of render to path via a temp file and
// rename so readers never see a half-written file and a failed export
// leaves nothing behind that looks complete.
func writeAtomic(path string, render func(f *os.File) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}

	if err := render(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("export %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}
