package state

import (
	"encoding/json" // For JSON encoding and decoding of the state file
	"fmt"
	"os"
	"sort"
	"time"

	"mac-provision/internal/logger"
)

// StepState records when a provisioning step last completed.
type StepState struct {
	CompletedAt time.Time `json:"completed_at"`
}

// BlockState records the last version of a profile block written to the profile.
type BlockState struct {
	Profile   string    `json:"profile"`    // Profile file the block was written to
	Lines     []string  `json:"lines"`      // Lines written after the marker
	AppliedAt time.Time `json:"applied_at"` // When the block was applied
}

// State is the run record kept between runs. It is informational: nothing is skipped because of it.
type State struct {
	LastRun time.Time             `json:"last_run"`
	Steps   map[string]StepState  `json:"steps"`  // Map from step name to its StepState
	Blocks  map[string]BlockState `json:"blocks"` // Map from block name to its BlockState
}

// New returns an empty state with initialised maps.
func New() *State {
	return &State{
		Steps:  make(map[string]StepState),
		Blocks: make(map[string]BlockState),
	}
}

// LoadState loads the saved state from a JSON file at the given path.
// If the file does not exist or cannot be parsed, it returns a new empty State.
func LoadState(path string) *State {
	file, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("[DEBUG] No state at %s: %v\n", path, err)
		return New()
	}

	var st State
	if err := json.Unmarshal(file, &st); err != nil {
		logger.Warn("[WARN] Ignoring unreadable state file %s: %v\n", path, err)
		return New()
	}

	// JSON may contain null for these fields
	if st.Steps == nil {
		st.Steps = make(map[string]StepState)
	}
	if st.Blocks == nil {
		st.Blocks = make(map[string]BlockState)
	}
	return &st
}

// SaveState writes the given State to a JSON file at the given path, pretty-printed.
func SaveState(path string, st *State) error {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))

	if err := os.WriteFile(path, file, 0644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", path, err)
	}
	return nil
}

// StepDone records that step completed at t.
func (s *State) StepDone(step string, t time.Time) {
	s.Steps[step] = StepState{CompletedAt: t}
}

// BlockApplied records the lines of a block written to profile at t.
func (s *State) BlockApplied(name, profile string, lines []string, t time.Time) {
	s.Blocks[name] = BlockState{Profile: profile, Lines: append([]string(nil), lines...), AppliedAt: t}
}

// StepNames returns the recorded step names, sorted by completion time.
func (s *State) StepNames() []string {
	names := make([]string, 0, len(s.Steps))
	for name := range s.Steps {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		a, b := s.Steps[names[i]].CompletedAt, s.Steps[names[j]].CompletedAt
		if a.Equal(b) {
			return names[i] < names[j]
		}
		return a.Before(b)
	})
	return names
}

// BlockNames returns the recorded block names in alphabetical order.
func (s *State) BlockNames() []string {
	names := make([]string, 0, len(s.Blocks))
	for name := range s.Blocks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
