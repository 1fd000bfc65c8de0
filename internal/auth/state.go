// Package auth provides authentication state management for the CLI.
// The API key and the account slug it belongs to are kept in the OS keychain
// for local runs; in CI the key arrives through the action input and the
// keychain is never consulted.
package auth

// IsLoggedIn reports whether the user is considered logged in.
func IsLoggedIn() (bool, error) {
	st, err := Load()
	if err != nil {
		return false, err
	}
	return st.LoggedIn, nil
}

// SetLoggedIn marks the user as logged in by persisting state.
func SetLoggedIn(account string) error {
	return Save(State{LoggedIn: true, Account: account})
}

// SetLoggedOut clears login state.
func SetLoggedOut() error {
	return Clear()
}
