// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package publish

import (
	"fmt"
	"strconv"
	"strings"

	"rowbase/cli/internal/config"
	"rowbase/cli/internal/gha"
)

// Report writes the six step outputs, the Markdown summary, and the
// annotation for a terminal result. Reporting always happens in full before
// any exit-code decision; a blocked pipeline never suppresses it.
func Report(rep *gha.Reporter, cfg config.Config, res Result) error {
	outputs := []struct {
		name  string
		value string
	}{
		{"verification_status", res.Verdict},
		{"check_status", res.CheckStatus},
		{"diff_summary", res.DiffJSON()},
		{"run_id", res.RevisionID},
		{"proof_url", res.ProofURL},
		{"version", strconv.Itoa(res.Version)},
	}
	for _, o := range outputs {
		if err := rep.SetOutput(o.name, o.value); err != nil {
			return fmt.Errorf("writing output %s: %w", o.name, err)
		}
	}

	if rep.HasSummary() {
		if err := rep.AppendSummary(summaryMarkdown(cfg, res)); err != nil {
			return fmt.Errorf("writing step summary: %w", err)
		}
	}

	if res.Verdict == VerdictFail {
		msg := fmt.Sprintf("Integrity check failed for %s", cfg.DatasetPath)
		if fields := res.diffFields(); fields != "" {
			msg += " (" + fields + ")"
		}
		rep.Errorf("%s", msg)
	} else {
		rep.Noticef("Integrity check passed for %s (revision %s, v%d)",
			cfg.DatasetPath, res.RevisionID, res.Version)
	}
	return nil
}

// summaryMarkdown renders the step-summary table and diff bullets.
func summaryMarkdown(cfg config.Config, res Result) string {
	verdict := "✅ PASS"
	if res.Verdict == VerdictFail {
		verdict = "❌ FAIL"
	}

	var b strings.Builder
	b.WriteString("### Rowbase integrity check\n\n")
	b.WriteString("| Field | Value |\n")
	b.WriteString("| --- | --- |\n")
	fmt.Fprintf(&b, "| Repository | `%s/%s` |\n", cfg.Owner, cfg.Slug)
	fmt.Fprintf(&b, "| Dataset | `%s` |\n", cfg.DatasetPath)
	fmt.Fprintf(&b, "| Verdict | %s |\n", verdict)
	fmt.Fprintf(&b, "| Check status | %s |\n", res.CheckStatus)
	fmt.Fprintf(&b, "| Rows | %s |\n", countOrPlaceholder(res.Run.RowCount))
	fmt.Fprintf(&b, "| Columns | %s |\n", countOrPlaceholder(res.Run.ColCount))
	fmt.Fprintf(&b, "| Version | %d |\n", res.Version)
	if !res.Hash.IsZero() {
		fmt.Fprintf(&b, "| Content hash | `%s` |\n", res.Hash.Tagged())
	}
	fmt.Fprintf(&b, "| Proof | [download](%s) |\n", res.ProofURL)

	b.WriteString("\n**Diff**\n\n")
	for _, line := range res.DiffLines() {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return b.String()
}
