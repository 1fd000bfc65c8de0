// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var hexRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFilePrefersBLAKE3(t *testing.T) {
	path := writeTemp(t, "a,b\n1,2\n")

	h, err := Default().File(path)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if h.Algo != BLAKE3 {
		t.Fatalf("Algo = %q, want blake3", h.Algo)
	}
	if !hexRe.MatchString(h.Hex) {
		t.Errorf("Hex = %q, want 64 lowercase hex chars", h.Hex)
	}
	if !strings.HasPrefix(h.Tagged(), "blake3:") {
		t.Errorf("Tagged() = %q, want blake3: prefix", h.Tagged())
	}
}

func TestFileSHA256Fallback(t *testing.T) {
	content := "a,b\n1,2\n"
	path := writeTemp(t, content)

	h, err := New(SHA256).File(path)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if h.Algo != SHA256 {
		t.Fatalf("Algo = %q, want sha256", h.Algo)
	}
	sum := sha256.Sum256([]byte(content))
	if h.Hex != hex.EncodeToString(sum[:]) {
		t.Errorf("Hex = %q, want sha256 of content", h.Hex)
	}
}

func TestFileUnknownAlgorithmsSkipped(t *testing.T) {
	path := writeTemp(t, "x\n")

	h, err := New(Algorithm("md6"), SHA256).File(path)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if h.Algo != SHA256 {
		t.Errorf("Algo = %q, want sha256 after skipping unknown", h.Algo)
	}
}

func TestFileNoAlgorithmAvailable(t *testing.T) {
	path := writeTemp(t, "x\n")

	h, err := New().File(path)
	if err != nil {
		t.Fatalf("File() error = %v, want nil (hashing skipped, not fatal)", err)
	}
	if !h.IsZero() {
		t.Errorf("Hash = %+v, want zero value", h)
	}
	if h.Tagged() != "" {
		t.Errorf("Tagged() = %q, want empty", h.Tagged())
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := Default().File(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestForServerAsymmetry(t *testing.T) {
	// The SHA-256 fallback is shown to the user but never sent to the server.
	tests := []struct {
		name string
		hash Hash
		want string
	}{
		{
			name: "blake3 sent",
			hash: Hash{Algo: BLAKE3, Hex: strings.Repeat("ab", 32)},
			want: "blake3:" + strings.Repeat("ab", 32),
		},
		{
			name: "sha256 withheld",
			hash: Hash{Algo: SHA256, Hex: strings.Repeat("cd", 32)},
			want: "",
		},
		{
			name: "zero hash withheld",
			hash: Hash{},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hash.ForServer(); got != tt.want {
				t.Errorf("ForServer() = %q, want %q", got, tt.want)
			}
		})
	}
}
