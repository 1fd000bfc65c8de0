// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package gha writes GitHub Actions outputs, step summaries, and workflow
// command annotations. The protocol is plain file appends (GITHUB_OUTPUT,
// GITHUB_STEP_SUMMARY) and ::-prefixed lines on stdout.
package gha

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Reporter targets one job step's output channels. A missing channel
// (unset env var) makes the corresponding method a no-op, so local runs
// behave sensibly.
type Reporter struct {
	outputPath  string
	summaryPath string
	stdout      io.Writer
}

// New builds a reporter from the runner environment.
func New() *Reporter {
	return &Reporter{
		outputPath:  os.Getenv("GITHUB_OUTPUT"),
		summaryPath: os.Getenv("GITHUB_STEP_SUMMARY"),
		stdout:      os.Stdout,
	}
}

// NewWithPaths builds a reporter with explicit channels, for tests and
// non-standard runners.
func NewWithPaths(outputPath, summaryPath string, stdout io.Writer) *Reporter {
	return &Reporter{outputPath: outputPath, summaryPath: summaryPath, stdout: stdout}
}

// InActions reports whether we are running under the GitHub Actions runner.
func InActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// HasSummary reports whether the step-summary channel is available.
func (r *Reporter) HasSummary() bool { return r.summaryPath != "" }

// SetOutput appends one key-value output. Multiline values use the heredoc
// form the runner understands.
func (r *Reporter) SetOutput(name, value string) error {
	if r.outputPath == "" {
		return nil
	}
	var line string
	if strings.ContainsAny(value, "\r\n") {
		delim := "_RowbaseOutputDelimiter_"
		if strings.Contains(value, delim) {
			return fmt.Errorf("output %q contains the heredoc delimiter", name)
		}
		line = fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delim, value, delim)
	} else {
		line = fmt.Sprintf("%s=%s\n", name, value)
	}
	return appendFile(r.outputPath, line)
}

// AppendSummary appends Markdown to the step summary. No-op when the
// channel is unavailable.
func (r *Reporter) AppendSummary(md string) error {
	if r.summaryPath == "" {
		return nil
	}
	if !strings.HasSuffix(md, "\n") {
		md += "\n"
	}
	return appendFile(r.summaryPath, md)
}

// Errorf emits an error-level annotation.
func (r *Reporter) Errorf(format string, args ...any) {
	fmt.Fprintf(r.stdout, "::error::%s\n", escapeData(fmt.Sprintf(format, args...)))
}

// Noticef emits a notice-level annotation.
func (r *Reporter) Noticef(format string, args ...any) {
	fmt.Fprintf(r.stdout, "::notice::%s\n", escapeData(fmt.Sprintf(format, args...)))
}

// escapeData applies the workflow-command data escaping rules.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(content)
	return err
}
