// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides utilities for secure logging and error presentation.
// It includes functions for masking sensitive information in log messages and
// formatting errors for user-friendly display while protecting credentials and secrets.
//
// The package helps ensure that sensitive data like API keys and bearer tokens
// are not accidentally exposed in logs or error messages shown to users.
package logging

import (
	"regexp"
)

var (
	reToken  = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
	reAPIKey = regexp.MustCompile(`(?i)(apikey=|api_key=|api-key=)([^\s;&]+)`)
	reRbKey  = regexp.MustCompile(`\brb_[A-Za-z0-9]{8,}\b`) // rowbase key format: rb_<random>
)

// Mask replaces sensitive values in the input string with "*".
// It covers Authorization headers, key=value pairs (token, api_key and
// variants, including env-style INPUT_API_KEY=...), and bare rowbase keys.
func Mask(s string) string {
	out := s
	out = reToken.ReplaceAllString(out, "$1***")
	out = reAPIKey.ReplaceAllString(out, "$1***")
	out = reRbKey.ReplaceAllString(out, "rb_***")
	return out
}
