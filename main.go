// Package main is the entry point for the Rowbase CLI application.
// It publishes tabular files as versioned dataset revisions.
package main

import (
	"rowbase/cli/cmd"
)

// main is the entry point for the Rowbase CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
