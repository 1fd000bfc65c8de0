// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"strings"

	"rowbase/cli/internal/keychain"
)

// ResolveAPIKey returns the API key to use: the explicitly supplied one when
// present, otherwise the key stored in the OS keychain by `rowbase login`.
// An empty result means no key is available anywhere.
func ResolveAPIKey(supplied string) string {
	if strings.TrimSpace(supplied) != "" {
		return strings.TrimSpace(supplied)
	}
	km, err := keychain.GetManager()
	if err != nil {
		return ""
	}
	key, err := km.LoadAPIKey()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(key)
}

// StoreAPIKey saves the key in the OS keychain.
func StoreAPIKey(key string) error {
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.SaveAPIKey(key)
}
