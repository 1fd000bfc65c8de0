// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"rowbase/cli/internal/auth"
	"rowbase/cli/internal/keychain"

	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command for clearing authentication state.
// It removes the stored API key and account state from the OS keychain.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved API key",
	Long: `The logout command clears all authentication state from the local system.

This command removes:
- The Rowbase API key from the OS keychain
- Local account state`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if km, err := keychain.GetManager(); err == nil {
			_ = km.ClearAll()
		}
		_ = auth.Clear()

		fmt.Println("✅ API key and account state have been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
