package alert

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// State persists the last alert time per pair so cooldowns survive
// restarts.
type State struct {
	LastAlert map[string]time.Time `json:"last_alert"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// LoadState reads the alert state from a JSON file. Returns an empty
// state if the file doesn't exist.
func LoadState(path string) (State, error) {
	st := State{LastAlert: make(map[string]time.Time)}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return State{LastAlert: make(map[string]time.Time)}, err
	}
	if st.LastAlert == nil {
		st.LastAlert = make(map[string]time.Time)
	}
	return st, nil
}

// SaveState writes the alert state to a JSON file, creating parent
// directories as needed.
func SaveState(path string, st State) error {
	st.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
