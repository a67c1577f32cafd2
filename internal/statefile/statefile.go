// Package statefile persists the driver state as a single JSON snapshot on
// local disk, the agent's stand-in for the mobile app's key-value storage.
package statefile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/CodeurPro04/driverWago/internal/driver"
)

// SchemaKey names the snapshot schema; it is embedded in the file so a
// future layout change can detect and discard incompatible snapshots.
const SchemaKey = "ZIWAGO_DRIVER_STATE_V3"

type snapshot struct {
	Schema string       `json:"schema"`
	State  driver.State `json:"state"`
}

// File reads and writes the snapshot at a fixed path. A single writer (the
// store's change hook) and a single reader (startup hydration) use it.
type File struct {
	mu   sync.Mutex
	path string
}

func New(path string) *File {
	return &File{path: path}
}

// Load reads the snapshot. The boolean is false when there is no usable
// prior state: missing file, unreadable file, parse failure or a schema
// mismatch all mean "start fresh", never an error the caller must handle.
// Fields absent from the snapshot keep their initial-state defaults.
func (f *File) Load() (driver.State, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return driver.InitialState(), false
	}

	snap := snapshot{State: driver.InitialState()}
	if err := json.Unmarshal(data, &snap); err != nil {
		return driver.InitialState(), false
	}
	if snap.Schema != SchemaKey {
		return driver.InitialState(), false
	}
	return snap.State, true
}

// Save writes the whole state. The write goes to a temp file first and is
// renamed into place so a crash mid-write cannot corrupt the snapshot.
func (f *File) Save(state driver.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshot{Schema: SchemaKey, State: state}, "", "  ")
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
