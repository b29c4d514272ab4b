package profile

import "fmt"

// Check verifies that a set of blocks can be applied in any order without one block deleting
// another's lines, and that every block is idempotent: each of its own lines must be matched by
// its stale matchers so a second application replaces rather than duplicates it.
func Check(blocks []Block) error {
	for _, b := range blocks {
		for _, line := range b.Lines {
			if !b.owns(line) {
				return fmt.Errorf("block %s: line %q is not matched by its stale patterns", b.Name, line)
			}
		}
	}

	for i, a := range blocks {
		for j, other := range blocks {
			if i == j {
				continue
			}
			if a.owns(other.Marker) {
				return fmt.Errorf("block %s would remove the marker of block %s", a.Name, other.Name)
			}
			for _, line := range other.Lines {
				if a.owns(line) {
					return fmt.Errorf("block %s would remove line %q of block %s", a.Name, line, other.Name)
				}
			}
		}
	}
	return nil
}
