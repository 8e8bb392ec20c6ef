// --- START OF FINAL REVISED FILE cmd/keymap-converter/main.go ---
package main

// Build-time variables 'version', 'commit', and 'date' are declared in
// root.go and populated via -ldflags.

// main is the entry point for the keymap-converter application.
func main() {
	Execute()
}

// --- END OF FINAL REVISED FILE cmd/keymap-converter/main.go ---
