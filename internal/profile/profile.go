package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"mac-provision/internal/logger"
)

// Block is a named region of the profile: a marker comment line followed by export/alias lines.
type Block struct {
	Name   string
	Marker string
	// Stale matches lines left behind by earlier versions of this block.
	Stale []Matcher
	Lines []string
}

// owns reports whether line belongs to b, either as its marker or as a stale line.
func (b Block) owns(line string) bool {
	if strings.TrimSpace(line) == strings.TrimSpace(b.Marker) {
		return true
	}
	for _, m := range b.Stale {
		if m.Match(line) {
			return true
		}
	}
	return false
}

// Profile is a shell profile held as an ordered sequence of lines.
type Profile struct {
	Path  string
	lines []string
}

// Load reads the profile at path and strips blank lines. A missing file loads as empty and is
// created by Save.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	p := &Profile{Path: path}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		p.lines = append(p.lines, line)
	}
	logger.Debug("[DEBUG] Loaded %d lines from %s\n", len(p.lines), path)
	return p, nil
}

// Lines returns a copy of the current lines.
func (p *Profile) Lines() []string {
	return append([]string(nil), p.lines...)
}

// ApplyBlock removes every line equal to the block's marker, removes every line matching one of
// its stale matchers, then appends the marker followed by the block's lines.
func (p *Profile) ApplyBlock(b Block) {
	kept := p.lines[:0:0]
	removed := 0
	for _, line := range p.lines {
		if b.owns(line) {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	kept = append(kept, b.Marker)
	kept = append(kept, b.Lines...)
	p.lines = kept

	logger.Debug("[DEBUG] Block %q: removed %d lines, appended %d\n", b.Name, removed, len(b.Lines)+1)
	logger.Run.WithField("block", b.Name).WithField("removed", removed).Info("applied profile block")
}

// Save writes the profile back to Path and syncs it to disk before returning.
func (p *Profile) Save() (err error) {
	if dir := filepath.Dir(p.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(p.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open profile %s: %w", p.Path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close profile %s: %w", p.Path, cerr)
		}
	}()

	var sb strings.Builder
	for _, line := range p.lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if _, err := f.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write profile %s: %w", p.Path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync profile %s: %w", p.Path, err)
	}
	return nil
}
