// Package config loads and validates bork's .config/bork.json file
// (component A of the reconciliation engine).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Smaug123/bork/internal/model"
)

// fileName is the configuration file's path relative to the repo root.
const fileName = ".config/bork.json"

// rawConfig mirrors the on-disk JSON shape exactly (§6). Unknown top-level
// fields are ignored by encoding/json's default Unmarshal behavior, giving
// forward compatibility for free.
type rawConfig struct {
	CorrectnessChecker   *string  `json:"correctness-checker"`
	EditsRequireApproval []string `json:"edits-require-approval"`
}

// Load reads .config/bork.json under repoRoot. Absence of the file is
// equivalent to an empty object. A path that would escape the repo root
// fails with *model.ConfigMalformedError.
func Load(repoRoot string) (*model.Config, error) {
	data, err := os.ReadFile(filepath.Join(repoRoot, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return &model.Config{}, nil
		}
		return nil, &model.ConfigMalformedError{
			Message: "read config file",
			Err:     err,
		}
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &model.ConfigMalformedError{
			Message: "parse config JSON",
			Err:     err,
		}
	}

	return fromRaw(&raw)
}

func fromRaw(raw *rawConfig) (*model.Config, error) {
	cfg := &model.Config{}

	if raw.CorrectnessChecker != nil {
		p, err := model.NormalizeRepoPath(*raw.CorrectnessChecker)
		if err != nil {
			return nil, &model.ConfigMalformedError{
				Field:   "correctness-checker",
				Message: fmt.Sprintf("%q does not stay inside the repo root", *raw.CorrectnessChecker),
				Err:     err,
			}
		}
		cfg.CorrectnessChecker = &p
	}

	cfg.EditsRequireApproval = make([]model.RepoPath, 0, len(raw.EditsRequireApproval))
	for _, raw := range raw.EditsRequireApproval {
		p, err := model.NormalizeRepoPath(raw)
		if err != nil {
			return nil, &model.ConfigMalformedError{
				Field:   "edits-require-approval",
				Message: fmt.Sprintf("%q does not stay inside the repo root", raw),
				Err:     err,
			}
		}
		cfg.EditsRequireApproval = append(cfg.EditsRequireApproval, p)
	}

	return cfg, nil
}
