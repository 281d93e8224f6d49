package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// DyadsCSV is a small input file in the code layout:
//   - toy: the 15-timepoint reference pair (RR 22.857143)
//   - quiet: child always talks numbers while the parent is silent, so nothing recurs
//   - single: one timepoint, too short for any off-diagonal cell
//   - broken: timepoint 1 pairs parent 1 with child 1, which the coding scheme forbids
const DyadsCSV = `dyad_id,parent_code,child_code
toy,3,6
toy,2,1
toy,1,2
toy,1,2
toy,2,1
toy,1,2
toy,3,6
toy,5,4
toy,1,2
toy,2,1
toy,1,2
toy,1,2
toy,5,4
toy,1,2
toy,1,2
quiet,2,1
quiet,2,1
quiet,2,1
quiet,2,1
single,1,2
broken,1,2
broken,1,1
`

// WriteFile writes content to name under dir, creating parents, and returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteDyads writes DyadsCSV into a fresh temp directory and returns its path.
func WriteDyads(t testing.TB) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), "dyads.csv", DyadsCSV)
}
