package main

import (
	"mac-provision/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// mac-provision prepares a macOS machine for Ruby, Python and Spark development:
//   - Installs Homebrew when missing, turns off its analytics, adds taps and updates it
//   - Installs, upgrades and relinks a fixed list of formulae and casks
//   - Rewrites the Ruby, Python, Spark and PySpark blocks of the user's shell profile,
//     removing stale copies of those lines so repeated runs converge on the same file
//   - Sources the rewritten profile in a child shell to catch errors
//
// Error handling strategy:
//   - The first failing step aborts the run; nothing is rolled back and the process exits 1
//   - Every run is recorded in a dated log file and a JSON state file
//
// On any OS other than macOS the tool reports a skip message and changes nothing.
func main() {
	cmd.Execute()
}
