// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"rowbase/cli/internal/auth"
	"rowbase/cli/internal/backend"
	"rowbase/cli/internal/config"
	"rowbase/cli/internal/gha"
	"rowbase/cli/internal/history"
	"rowbase/cli/internal/httperrors"
	"rowbase/cli/internal/logging"
	"rowbase/cli/internal/publish"
	"rowbase/cli/internal/publisherrors"

	"atomicgo.dev/cursor"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	publishAPIKey         string
	publishRepo           string
	publishFile           string
	publishDataset        string
	publishMessage        string
	publishSourceType     string
	publishSourceIdentity string
	publishFailOnCheck    bool
	publishAPIBase        string
)

// publishCmd represents the publish command for uploading a tabular file as a
// new dataset revision. It resolves configuration from action inputs and
// flags, runs the publish flow against the Rowbase service, waits for the
// server-side integrity check, and reports the result through GitHub Actions
// outputs, the step summary, and annotations. Run locally, it renders the
// result with a terminal UI instead.
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a file as a new dataset revision",
	Long: `The publish command uploads a local tabular file (CSV/TSV) as a new revision
of a dataset in a Rowbase repository. It computes a content hash locally,
creates the revision, uploads the file bytes, and then polls the service until
the server-side integrity check reaches a terminal state.

Inside GitHub Actions the command writes step outputs, a Markdown summary, and
workflow annotations. A failed integrity check exits non-zero unless
--fail-on-check-failure=false is set. Run locally, the command reads the API
key saved by 'rowbase login' when --api-key is not given.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromEnv()
		applyPublishFlags(cmd, &cfg)

		cfg.APIKey = auth.ResolveAPIKey(cfg.APIKey)
		cfg = cfg.WithDefaults()
		if err := cfg.Validate(); err != nil {
			return err
		}

		interactive := !gha.InActions()
		api := backend.New(cfg.APIBase, cfg.APIKey)

		opts := []publish.Option{}
		var stopSpinner func()
		if interactive {
			pterm.Println()
			pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Repository: ") + pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprintf("%s/%s", cfg.Owner, cfg.Slug))
			pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Dataset:    ") + pterm.NewStyle(pterm.FgCyan).Sprint(cfg.DatasetPath))
			pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ File:       ") + pterm.NewStyle(pterm.FgLightBlue).Sprint(cfg.FilePath))
			pterm.Println()
			cursor.Hide()
			stopSpinner = startInlineSpinner(os.Stdout, "Publishing", []string{"|", "/", "-", "\\"}, 120*time.Millisecond)
		} else {
			opts = append(opts, publish.WithLogf(func(format string, args ...any) {
				fmt.Printf(format+"\n", args...)
			}))
		}

		res, err := publish.New(api, cfg, opts...).Run(cmd.Context())
		if interactive {
			stopSpinner()
			cursor.Show()
		}
		if err != nil {
			if interactive {
				presentPublishError(err)
			}
			return err
		}

		rep := gha.New()
		if err := publish.Report(rep, cfg, res); err != nil {
			return err
		}
		recordPublish(cmd.Context(), cfg, res)

		if interactive {
			showPublishSummary(res)
		}

		if res.Verdict == publish.VerdictFail && cfg.FailOnCheckFailure {
			return publisherrors.New(publisherrors.CheckFailed,
				fmt.Sprintf("integrity check failed for revision %s", res.RevisionID))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringVar(&publishAPIKey, "api-key", "", "Rowbase API key (falls back to the key saved by 'rowbase login')")
	publishCmd.Flags().StringVar(&publishRepo, "repo", "", "Target repository in owner/slug form")
	publishCmd.Flags().StringVar(&publishFile, "file", "", "Path to the CSV/TSV file to publish")
	publishCmd.Flags().StringVar(&publishDataset, "dataset", "", "Dataset path within the repository (defaults to the file basename)")
	publishCmd.Flags().StringVar(&publishMessage, "message", "", "Optional revision message")
	publishCmd.Flags().StringVar(&publishSourceType, "source-type", "", "Optional source metadata type")
	publishCmd.Flags().StringVar(&publishSourceIdentity, "source-identity", "", "Optional source metadata identity")
	publishCmd.Flags().BoolVar(&publishFailOnCheck, "fail-on-check-failure", true, "Exit non-zero when the integrity check fails")
	publishCmd.Flags().StringVar(&publishAPIBase, "api-base", "", "Service base URL (defaults to "+config.DefaultAPIBase+")")
}

// applyPublishFlags overlays explicitly set flags on top of the environment
// configuration. Unset flags leave the env values untouched.
func applyPublishFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = publishAPIKey
	}
	if cmd.Flags().Changed("repo") {
		cfg.Owner, cfg.Slug = config.SplitRepo(publishRepo)
	}
	if cmd.Flags().Changed("file") {
		cfg.FilePath = publishFile
	}
	if cmd.Flags().Changed("dataset") {
		cfg.DatasetPath = publishDataset
	}
	if cmd.Flags().Changed("message") {
		cfg.Message = publishMessage
	}
	if cmd.Flags().Changed("source-type") {
		cfg.SourceType = publishSourceType
	}
	if cmd.Flags().Changed("source-identity") {
		cfg.SourceIdentity = publishSourceIdentity
	}
	if cmd.Flags().Changed("fail-on-check-failure") {
		cfg.FailOnCheckFailure = publishFailOnCheck
	}
	if cmd.Flags().Changed("api-base") {
		cfg.APIBase = publishAPIBase
	}
}

// presentPublishError renders a publish failure for interactive runs. Network
// failures get the friendly troubleshooting display; everything else goes
// through the standard presenter.
func presentPublishError(err error) {
	switch publisherrors.KindOf(err) {
	case publisherrors.APIFailed, publisherrors.UploadFailed:
		_ = httperrors.FormatNetworkError(err, "publishing the revision", true)
	case publisherrors.AuthFailed:
		pterm.Println("🔑 The Rowbase API key was rejected.")
		pterm.Println("   Run 'rowbase login' with a valid key, or pass --api-key.")
	default:
		pterm.Println(logging.PresentError("", err))
	}
}

// recordPublish appends the result to the local history database.
// Best-effort: history problems never affect the publish outcome.
func recordPublish(ctx context.Context, cfg config.Config, res publish.Result) {
	path, err := history.DefaultPath()
	if err != nil {
		return
	}
	store, err := history.Open(path)
	if err != nil {
		return
	}
	defer store.Close()
	_ = store.Record(ctx, history.Entry{
		Owner:       cfg.Owner,
		Slug:        cfg.Slug,
		Dataset:     cfg.DatasetPath,
		RevisionID:  res.RevisionID,
		Verdict:     res.Verdict,
		CheckStatus: res.CheckStatus,
		Version:     res.Version,
		Message:     cfg.Message,
	})
}

// showPublishSummary prints the terminal result box for interactive runs.
func showPublishSummary(res publish.Result) {
	if res.Verdict == publish.VerdictFail {
		title := pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Integrity Check Failed")
		details := fmt.Sprintf("Revision: %s\nVersion:  %d\nProof:    %s", res.RevisionID, res.Version, res.ProofURL)
		pterm.Println(pterm.DefaultBox.WithTitle(title).WithTopPadding(1).WithBottomPadding(1).WithLeftPadding(1).WithRightPadding(1).Sprint(details))
		for _, line := range res.DiffLines() {
			pterm.Println("  • " + line)
		}
		return
	}
	title := pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint("Revision Published")
	details := fmt.Sprintf("Revision: %s\nVersion:  %d\nCheck:    %s\nProof:    %s",
		res.RevisionID, res.Version, res.CheckStatus, res.ProofURL)
	pterm.Println(pterm.DefaultBox.WithTitle(title).WithTopPadding(1).WithBottomPadding(1).WithLeftPadding(1).WithRightPadding(1).Sprint(details))
}
