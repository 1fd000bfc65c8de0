package cmd

import (
	"fmt"

	"rowbase/cli/internal/auth"
	"rowbase/cli/internal/backend"
	"rowbase/cli/internal/config"

	"github.com/spf13/cobra"
)

// whoamiCmd represents the whoami command for displaying current authentication state.
// It shows the currently authenticated account by validating the stored API key
// against the identity endpoint.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current authenticated account",
	Long: `The whoami command displays the account associated with the stored API key.
It validates the key by checking with the Rowbase service and shows the
account slug if the key is valid.

If no key is stored, it will indicate that the user is not logged in.
This command is useful for verifying authentication before publishing.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		key := auth.ResolveAPIKey("")
		if key == "" {
			fmt.Println("🔒 You're not logged in yet!")
			fmt.Println("   Run 'rowbase login' to get started.")
			return nil
		}

		if account, err := backend.New(config.DefaultAPIBase, key).Me(cmd.Context()); err == nil {
			fmt.Printf("👤 Current user: %s\n", account)
			return nil
		}

		// Offline or key rejected; fall back to the locally saved account
		if st, err := auth.Load(); err == nil && st.LoggedIn && st.Account != "" {
			fmt.Printf("👤 Current user: %s (cached)\n", st.Account)
			return nil
		}

		fmt.Println("🔒 You're not logged in yet!")
		fmt.Println("   Run 'rowbase login' to get started.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
