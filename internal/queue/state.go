package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prathamesh/auto-apply/internal/types"
)

// StateFile persists the run state shared between the queue controller and
// the engine. Updates are always whole-object replace, never field patches,
// so two readers can never observe a half-applied update on disk.
type StateFile struct {
	path string
}

// OpenStateFile wraps the state file at path.
func OpenStateFile(path string) *StateFile {
	return &StateFile{path: path}
}

// Load reads the current run state. A missing file is an empty, stopped
// state, not an error.
func (f *StateFile) Load() (*types.RunState, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return &types.RunState{}, nil
	}
	if err != nil {
		return nil, &StateError{Message: fmt.Sprintf("failed to read %s", f.path), Cause: err}
	}

	var state types.RunState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, &StateError{Message: "failed to parse run state", Cause: err}
	}
	if err := state.Validate(); err != nil {
		return nil, &StateError{Message: "invalid run state", Cause: err}
	}
	return &state, nil
}

// Save replaces the persisted run state through a temp-file rename.
func (f *StateFile) Save(state *types.RunState) error {
	if err := state.Validate(); err != nil {
		return &StateError{Message: "refusing to save invalid run state", Cause: err}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return &StateError{Message: "failed to marshal run state", Cause: err}
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".run_state-*.json")
	if err != nil {
		return &StateError{Message: "failed to create temp state file", Cause: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StateError{Message: "failed to write state file", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StateError{Message: "failed to close state file", Cause: err}
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return &StateError{Message: "failed to replace state file", Cause: err}
	}
	return nil
}
