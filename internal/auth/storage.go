// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth implements persistence for authentication state.
//
// This file stores the serialized state in the OS keychain via internal/keychain.
package auth

import (
	"encoding/json"

	"rowbase/cli/internal/keychain"
)

// State represents persisted authentication state for the current user.
type State struct {
	LoggedIn bool   `json:"logged_in"`
	Account  string `json:"account"`
}

// Load reads the auth state from the keychain. Missing state yields zero value.
func Load() (State, error) {
	var s State
	km, err := keychain.GetManager()
	if err != nil {
		return s, err
	}

	data, err := km.LoadAccountState()
	if err != nil {
		return s, err
	}
	if len(data) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

// Save writes the auth state to the keychain.
func Save(s State) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.SaveAccountState(b)
}

// Clear removes the persisted auth state and API key.
func Clear() error {
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.ClearAll()
}
