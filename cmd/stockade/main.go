// Stockade is an item restriction runtime for multiplayer game sessions.
//
// It maintains block rules per item: timed global blocks, per-participant
// blocks, and wipe-scoped blocks that last until the next session reset.
// The host's per-action checks (equip, wear, reload) are answered from an
// in-memory store persisted to SQLite.
//
// Usage:
//
//	# Start the runtime with default configuration
//	stockade run
//
//	# Start with custom configuration file
//	stockade run --config /path/to/config.yaml
//
//	# Validate a configuration file
//	stockade validate --config config.yaml
//
//	# Show version information
//	stockade version
package main

func main() {
	Execute()
}
