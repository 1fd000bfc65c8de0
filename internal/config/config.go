// Package config builds the immutable action configuration.
// All inputs are read once at startup (GitHub-Actions-style INPUT_* env vars,
// optionally overridden by flags) and collected into a single Config value
// that is passed through the publish flow; nothing reads ambient state later.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rowbase/cli/internal/publisherrors"
)

// DefaultAPIBase is the production Rowbase endpoint.
const DefaultAPIBase = "https://rowbase.io"

// Config holds every input of a publish run. Secrets stay out of String().
type Config struct {
	// APIKey authenticates against the Rowbase API. Required.
	APIKey string
	// Owner and Slug identify the repository, split from the "owner/slug" input.
	Owner string
	Slug  string
	// FilePath is the local tabular file (CSV/TSV) to publish. Required.
	FilePath string
	// DatasetPath names the dataset within the repository. Defaults to the
	// file basename.
	DatasetPath string
	// Message is an optional note carried into the revision request.
	Message string
	// SourceType and SourceIdentity are optional provenance tags.
	SourceType     string
	SourceIdentity string
	// FailOnCheckFailure controls whether a failed integrity check produces a
	// non-zero exit. Defaults to true.
	FailOnCheckFailure bool
	// APIBase is the service base URL. Defaults to DefaultAPIBase.
	APIBase string
}

// FromEnv reads the GitHub Actions input environment. Missing vars yield
// zero values; defaults are applied by WithDefaults.
func FromEnv() Config {
	owner, slug := SplitRepo(input("REPO"))
	return Config{
		APIKey:             input("API_KEY"),
		Owner:              owner,
		Slug:               slug,
		FilePath:           input("FILE_PATH"),
		DatasetPath:        input("DATASET_PATH"),
		Message:            input("MESSAGE"),
		SourceType:         input("SOURCE_TYPE"),
		SourceIdentity:     input("SOURCE_IDENTITY"),
		FailOnCheckFailure: parseBoolDefaultTrue(input("FAIL_ON_CHECK_FAILURE")),
		APIBase:            input("API_BASE"),
	}
}

// WithDefaults returns a copy with the optional fields filled in.
func (c Config) WithDefaults() Config {
	if c.DatasetPath == "" && c.FilePath != "" {
		c.DatasetPath = filepath.Base(c.FilePath)
	}
	if c.APIBase == "" {
		c.APIBase = DefaultAPIBase
	}
	c.APIBase = strings.TrimRight(c.APIBase, "/")
	return c
}

// Validate checks the required inputs. Any violation is fatal and must abort
// before any network call.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return publisherrors.New(publisherrors.InvalidInput, "api_key is required")
	}
	if c.Owner == "" || c.Slug == "" {
		return publisherrors.New(publisherrors.InvalidInput, "repo must be in owner/slug form")
	}
	if strings.TrimSpace(c.FilePath) == "" {
		return publisherrors.New(publisherrors.InvalidInput, "file_path is required")
	}
	f, err := os.Open(c.FilePath)
	if err != nil {
		return publisherrors.Wrap(publisherrors.InvalidInput,
			fmt.Sprintf("cannot read file %q", c.FilePath), err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return publisherrors.Wrap(publisherrors.InvalidInput,
			fmt.Sprintf("cannot stat file %q", c.FilePath), err)
	}
	if info.IsDir() {
		return publisherrors.New(publisherrors.InvalidInput,
			fmt.Sprintf("%q is a directory, not a file", c.FilePath))
	}
	return nil
}

// SplitRepo splits an "owner/slug" identifier: owner is the substring before
// the first '/', slug the substring after the last '/'. These coincide unless
// the identifier contains more than one '/', which is not expected.
func SplitRepo(repo string) (owner, slug string) {
	repo = strings.TrimSpace(repo)
	i := strings.Index(repo, "/")
	if i < 0 {
		return "", ""
	}
	owner = repo[:i]
	slug = repo[strings.LastIndex(repo, "/")+1:]
	return owner, slug
}

// input reads one action input. GitHub exposes an input named "file_path" as
// the env var INPUT_FILE_PATH.
func input(name string) string {
	return strings.TrimSpace(os.Getenv("INPUT_" + name))
}

func parseBoolDefaultTrue(v string) bool {
	return !strings.EqualFold(strings.TrimSpace(v), "false")
}
