package account

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrPositionOpen is returned by Update callbacks that refuse to open a
// second position.
var ErrPositionOpen = errors.New("account: position already open")

// Store is the single writer of durable account state. Every mutation goes
// through Update, which serializes read-modify-write cycles and replaces the
// backing file atomically (write temp, rename). The in-memory state is only
// committed after the durable write succeeds, so a failed write leaves both
// the file and the snapshot at the prior state.
type Store struct {
	mu    sync.Mutex
	path  string
	state State
}

// Open loads the state file, or persists the initial state when no file
// exists yet. It must run before any other component.
func Open(path string, initial State) (*Store, error) {
	st := &Store{path: path}

	loaded, err := Read(path)
	switch {
	case err == nil:
		st.state = loaded
	case os.IsNotExist(err):
		st.state = initial.Copy()
		if werr := st.write(st.state); werr != nil {
			return nil, fmt.Errorf("persist initial state: %w", werr)
		}
	default:
		return nil, err
	}

	return st, nil
}

// Read loads a state snapshot without constructing a store. Status-style
// readers use this; the atomic replace-on-write guarantees they never observe
// a half-written record.
func Read(path string) (State, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return State{}, err
	}
	var s State
	if err := json.Unmarshal(bs, &s); err != nil {
		return State{}, fmt.Errorf("parse state file %s: %w", path, err)
	}
	return s, nil
}

// State returns a deep-copied snapshot of the last persisted state.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.Copy()
}

// Update runs fn against a copy of the current state, persists the result,
// and only then commits it in memory. If fn returns an error or the write
// fails, the prior state stays authoritative.
func (st *Store) Update(fn func(*State) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.state.Copy()
	if err := fn(&next); err != nil {
		return err
	}
	if err := st.write(next); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	st.state = next
	return nil
}

func (st *Store) write(s State) error {
	bs, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, bs, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, st.path)
}
