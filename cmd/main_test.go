package main

import "testing"

// TestMainPackage only checks that the main package and the subcommand
// packages it imports compile; it makes no assertions, and main() itself
// is exercised via manual interop runs.
func TestMainPackage(t *testing.T) {
	t.Parallel()
}
