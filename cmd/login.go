// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"rowbase/cli/internal/auth"
	"rowbase/cli/internal/backend"
	"rowbase/cli/internal/config"
	"rowbase/cli/internal/httperrors"

	"github.com/spf13/cobra"
)

var (
	loginAPIKey  string
	loginAPIBase string
)

// loginCmd represents the login command for storing an API key.
// It validates the supplied key against the identity endpoint, then stores it
// in the OS keychain so later 'rowbase publish' runs can pick it up without
// --api-key.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Validate and store a Rowbase API key",
	Long: `The login command validates a Rowbase API key against the service and stores
it securely in the OS keychain. Subsequent publish runs use the stored key
when no explicit --api-key is given.

The key can be passed with --api-key or entered at the prompt. Keys are
created in the Rowbase web interface under account settings.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		key := strings.TrimSpace(loginAPIKey)
		if key == "" {
			fmt.Print("API key: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading API key: %w", err)
			}
			key = strings.TrimSpace(line)
		}
		if key == "" {
			return fmt.Errorf("no API key provided")
		}

		base := strings.TrimSpace(loginAPIBase)
		if base == "" {
			base = config.DefaultAPIBase
		}

		account, err := backend.New(base, key).Me(ctx)
		if err != nil {
			return httperrors.FormatNetworkError(err, "validating the API key", true)
		}

		if err := auth.StoreAPIKey(key); err != nil {
			return fmt.Errorf("storing API key: %w", err)
		}
		_ = auth.SetLoggedIn(account)

		fmt.Printf("✅ Logged in as %s\n", account)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginAPIKey, "api-key", "", "Rowbase API key to validate and store")
	loginCmd.Flags().StringVar(&loginAPIBase, "api-base", "", "Service base URL (defaults to "+config.DefaultAPIBase+")")
}
