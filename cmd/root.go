// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Rowbase CLI application.
// It implements subcommands for publishing dataset revisions, authentication, and
// local publish history using the Cobra CLI framework. The package handles command
// parsing, execution, and provides a terminal UI with spinners and progress
// indicators when run interactively.
package cmd

import (
	"fmt"
	"os"

	"rowbase/cli/internal/logging"
	"rowbase/cli/internal/publisherrors"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
// It serves as the entry point for the Rowbase CLI application.
var rootCmd = &cobra.Command{
	Use:           "rowbase",
	Short:         "Rowbase CLI for publishing dataset revisions",
	Long:          `Rowbase is a command-line tool for publishing tabular files (CSV/TSV) as versioned dataset revisions and verifying the server-side integrity check.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("rowbase %s\n", Version)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during
// execution. A failed integrity check has already been reported through
// outputs and annotations, so it only sets the exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if publisherrors.KindOf(err) != publisherrors.CheckFailed {
			fmt.Fprintln(os.Stderr, logging.Mask(err.Error()))
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
}
